package plot

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
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

func sampleSet(withSlide bool) domain.ReadingSet {
	base := time.Date(2015, 8, 18, 8, 0, 0, 0, time.UTC)
	var readings []domain.Reading
	heights := []float64{21.0, 21.2, 21.9, 22.8, 23.7, 24.1, 23.8, 23.2}
	for i, h := range heights {
		readings = append(readings, domain.Reading{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Height:    h,
		})
	}
	set := domain.ReadingSet{
		Readings:       readings,
		CriticalPoints: readings[4:6],
	}
	if withSlide {
		set.Slide = &domain.SlideEvent{
			Name: "kramer_ave",
			Time: base.Add(5*time.Hour + 30*time.Minute),
		}
		set.Notification = 90 * time.Minute
	}
	return set
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(t.TempDir(), domain.DefaultThresholds(), testLogger(), observability.NewMetricsForTesting())
}

func TestRenderInteractive(t *testing.T) {
	r := newRenderer(t)
	path, err := r.RenderInteractive(sampleSet(true))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "kramer_ave")
	assert.True(t, strings.HasSuffix(path, ".html"))
}

func TestRenderStatic(t *testing.T) {
	r := newRenderer(t)
	path, err := r.RenderStatic(sampleSet(true))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.True(t, strings.HasSuffix(path, ".png"))
}

func TestRenderSet(t *testing.T) {
	r := newRenderer(t)
	paths, err := r.RenderSet(sampleSet(false))
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestRenderWithoutMetrics(t *testing.T) {
	// One-shot commands render without a metrics registry.
	r := NewRenderer(t.TempDir(), domain.DefaultThresholds(), testLogger(), nil)
	paths, err := r.RenderSet(sampleSet(true))
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestRenderFrames(t *testing.T) {
	r := newRenderer(t)
	set := sampleSet(true)

	// 7 hours of data at a 2-hour step: frames at +2h, +4h, +6h, +7h.
	paths, err := r.RenderFrames(set, 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, paths, 4)

	assert.Equal(t, "frame_0001.png", filepath.Base(paths[0]))
	assert.Equal(t, "frame_0004.png", filepath.Base(paths[3]))
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRenderFramesBadInput(t *testing.T) {
	r := newRenderer(t)

	_, err := r.RenderFrames(domain.ReadingSet{}, time.Hour)
	require.Error(t, err)

	_, err = r.RenderFrames(sampleSet(false), 0)
	require.Error(t, err)
}
