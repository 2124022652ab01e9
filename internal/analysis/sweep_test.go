package analysis

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// burstRecord is 61 hourly readings: flat, a 3 ft rise over hours 8-10,
// then flat again. With the default thresholds the rise is critical.
func burstRecord() []domain.Reading {
	base := time.Date(2015, 8, 17, 0, 0, 0, 0, time.UTC)
	var readings []domain.Reading
	for i := 0; i <= 60; i++ {
		h := 21.0
		switch {
		case i == 8:
			h = 22.0
		case i == 9:
			h = 23.0
		case i >= 10:
			h = 24.0
		}
		readings = append(readings, domain.Reading{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Height:    h,
		})
	}
	return readings
}

func TestSweeperRun(t *testing.T) {
	readings := burstRecord()
	slide := domain.SlideEvent{
		Name: "medvejie",
		Time: readings[0].Timestamp.Add(12 * time.Hour),
	}

	s := NewSweeper(readings, []domain.SlideEvent{slide}, testLogger(), observability.NewMetricsForTesting())
	result, err := s.Run(context.Background(), []float64{2.5, 10}, []float64{0.5}, domain.DefaultRefractory)
	require.NoError(t, err)
	require.Len(t, result.Trials, 2)

	loose := result.Trials[0]
	assert.Equal(t, "rise-2.50_slope-0.50", loose.Name)
	assert.Equal(t, 2.5, loose.RiseCritical)
	assert.Equal(t, 1, loose.Summary.TruePositives)
	assert.Equal(t, 0, loose.Summary.FalseNegatives)
	assert.Equal(t, 1.0, loose.TruePositiveRate)
	assert.Equal(t, 0.0, loose.FalsePositiveRate)

	strict := result.Trials[1]
	assert.Equal(t, 10.0, strict.RiseCritical)
	assert.Equal(t, 0, strict.Summary.NotificationsIssued)
	assert.Equal(t, 1, strict.Summary.FalseNegatives)
	assert.Equal(t, 0.0, strict.TruePositiveRate)
}

func TestSweeperRunErrors(t *testing.T) {
	logger := testLogger()
	metrics := observability.NewMetricsForTesting()

	t.Run("no readings", func(t *testing.T) {
		s := NewSweeper(nil, nil, logger, metrics)
		_, err := s.Run(context.Background(), []float64{2.5}, []float64{0.5}, domain.DefaultRefractory)
		require.Error(t, err)
	})

	t.Run("empty grid", func(t *testing.T) {
		s := NewSweeper(burstRecord(), nil, logger, metrics)
		_, err := s.Run(context.Background(), nil, []float64{0.5}, domain.DefaultRefractory)
		require.Error(t, err)
	})

	t.Run("bad threshold", func(t *testing.T) {
		s := NewSweeper(burstRecord(), nil, logger, metrics)
		_, err := s.Run(context.Background(), []float64{-1}, []float64{0.5}, domain.DefaultRefractory)
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := NewSweeper(burstRecord(), nil, logger, metrics)
		_, err := s.Run(ctx, []float64{2.5}, []float64{0.5}, domain.DefaultRefractory)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestGrid(t *testing.T) {
	assert.Equal(t, []float64{2, 2.5, 3}, Grid(2, 3, 0.5))
	assert.Equal(t, []float64{1}, Grid(1, 1, 0.5))
	assert.Nil(t, Grid(3, 2, 0.5))
	assert.Nil(t, Grid(1, 2, 0))
}
