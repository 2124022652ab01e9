package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehmatthes/sitka-irg-analysis/internal/adapter/gaugefile"
	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubRenderer records which sets were rendered.
type stubRenderer struct {
	labels []string
	err    error
}

func (r *stubRenderer) RenderSet(set domain.ReadingSet) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.labels = append(r.labels, set.Label())
	return []string{set.Label() + ".html", set.Label() + ".png"}, nil
}

// stubReporter records the summary it was handed.
type stubReporter struct {
	summary domain.Summary
	calls   int
}

func (r *stubReporter) WriteRunSummary(summary domain.Summary, sets []domain.ReadingSet) (string, error) {
	r.summary = summary
	r.calls++
	return "run_summary.json", nil
}

// writeFixtures lays out an hx gauge file with one critical burst, plus a
// known-slides file with one slide during the burst and one far outside the
// record.
func writeFixtures(t *testing.T, dir string) *config.Config {
	t.Helper()

	var b strings.Builder
	b.WriteString("Indian River near Sitka\nSite 15087700\nStage, feet\nDate,Type Source,Stage\n")
	base := time.Date(2015, 8, 17, 0, 0, 0, 0, time.UTC)
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
		fmt.Fprintf(&b, "%s,RZ,%.2f\n", base.Add(time.Duration(i)*time.Hour).Format("2006-01-02 15:04:05"), h)
	}
	gaugePath := filepath.Join(dir, "irva_hx.txt")
	require.NoError(t, os.WriteFile(gaugePath, []byte(b.String()), 0o644))

	slidesPath := filepath.Join(dir, "known_slides.json")
	slides := `[
	{"name": "medvejie", "dt_slide": "2015-08-17 12:00:00+00:00", "desc_location": "Medvejie", "fatalities": null, "power_outage": null, "urls": []},
	{"name": "old_one", "dt_slide": "1998-01-01 00:00:00+00:00", "desc_location": "elsewhere", "fatalities": null, "power_outage": null, "urls": []}
]`
	require.NoError(t, os.WriteFile(slidesPath, []byte(slides), 0o644))

	return &config.Config{
		Sources:         []config.Source{{Path: gaugePath, Format: config.FormatHx}},
		KnownSlidesFile: slidesPath,
		OutputDir:       filepath.Join(dir, "out"),
		Thresholds: config.ThresholdsConfig{
			RiseCritical:  2.5,
			SlopeCritical: 0.5,
			Refractory:    config.Duration(6 * time.Hour),
		},
		Resample: config.ResampleConfig{Enabled: true, Interval: config.Duration(time.Hour)},
	}
}

func newPipeline(cfg *config.Config, renderer Renderer, reporter Reporter) *Pipeline {
	return New(cfg,
		SourceParserFunc(gaugefile.Parse),
		renderer,
		reporter,
		testLogger(),
		observability.NewMetricsForTesting(),
	)
}

func TestRunFullAnalysis(t *testing.T) {
	cfg := writeFixtures(t, t.TempDir())
	renderer := &stubRenderer{}
	reporter := &stubReporter{}
	p := newPipeline(cfg, renderer, reporter)

	require.Error(t, p.CheckReadiness(context.Background()))
	_, ok := p.LatestSummary()
	require.False(t, ok)

	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, result.FromCache)

	require.Len(t, result.Sets, 1)
	assert.Equal(t, 1, result.Summary.NotificationsIssued)
	assert.Equal(t, 1, result.Summary.TruePositives)
	assert.Equal(t, 0, result.Summary.FalsePositives)
	assert.Equal(t, 0, result.Summary.FalseNegatives)
	assert.Equal(t, []string{"medvejie"}, result.Summary.AssociatedSlides)
	assert.Equal(t, 120, result.Summary.NotificationTimesMin["medvejie"])

	assert.Len(t, renderer.labels, 1)
	assert.Equal(t, 1, reporter.calls)
	assert.Len(t, result.PlotPaths, 2)

	require.NoError(t, p.CheckReadiness(context.Background()))
	latest, ok := p.LatestSummary()
	require.True(t, ok)
	assert.Equal(t, result.Summary.NotificationsIssued, latest.NotificationsIssued)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "reading_sets.msgpack"))
	assert.NoError(t, err, "run leaves a cache behind")
}

func TestRunFromCache(t *testing.T) {
	cfg := writeFixtures(t, t.TempDir())
	p := newPipeline(cfg, &stubRenderer{}, &stubReporter{})

	first, err := p.Run(context.Background(), false)
	require.NoError(t, err)

	// Remove the raw data; a cached run must not need it.
	require.NoError(t, os.Remove(cfg.Sources[0].Path))

	renderer := &stubRenderer{}
	reporter := &stubReporter{}
	p2 := newPipeline(cfg, renderer, reporter)
	second, err := p2.Run(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, second.FromCache)
	assert.Equal(t, first.Summary.NotificationsIssued, second.Summary.NotificationsIssued)
	assert.Equal(t, first.Summary.TruePositives, second.Summary.TruePositives)
	assert.Equal(t, first.Summary.AssociatedSlides, second.Summary.AssociatedSlides)
	assert.Equal(t, first.Summary.NotificationTimesMin, second.Summary.NotificationTimesMin)
	assert.True(t, first.Summary.EarliestReading.Equal(second.Summary.EarliestReading))
	assert.Len(t, renderer.labels, len(first.Sets))
}

func TestRunCacheMissFallsBack(t *testing.T) {
	cfg := writeFixtures(t, t.TempDir())
	p := newPipeline(cfg, &stubRenderer{}, &stubReporter{})

	result, err := p.Run(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, result.FromCache, "no cache yet, full run happens")
}

func TestRunErrors(t *testing.T) {
	t.Run("missing source file", func(t *testing.T) {
		cfg := writeFixtures(t, t.TempDir())
		cfg.Sources[0].Path = cfg.Sources[0].Path + ".gone"
		p := newPipeline(cfg, &stubRenderer{}, &stubReporter{})

		_, err := p.Run(context.Background(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
	})

	t.Run("missing slides file", func(t *testing.T) {
		cfg := writeFixtures(t, t.TempDir())
		cfg.KnownSlidesFile = cfg.KnownSlidesFile + ".gone"
		p := newPipeline(cfg, &stubRenderer{}, &stubReporter{})

		_, err := p.Run(context.Background(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "known slides")
	})

	t.Run("render failure", func(t *testing.T) {
		cfg := writeFixtures(t, t.TempDir())
		p := newPipeline(cfg, &stubRenderer{err: fmt.Errorf("disk full")}, &stubReporter{})

		_, err := p.Run(context.Background(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cfg := writeFixtures(t, t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := newPipeline(cfg, &stubRenderer{}, &stubReporter{})

		_, err := p.Run(ctx, false)
		require.ErrorIs(t, err, context.Canceled)
	})
}
