package main

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepReady(t *testing.T) {
	ready := &sweepReady{}
	require.Error(t, ready.CheckReadiness(context.Background()))

	t.Run("flipping while checked from another goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				ready.CheckReadiness(context.Background()) //nolint:errcheck // exercising concurrent access
			}
		}()
		ready.loaded.Store(true)
		wg.Wait()

		assert.NoError(t, ready.CheckReadiness(context.Background()))
	})
}
