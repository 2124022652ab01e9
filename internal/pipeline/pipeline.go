// Package pipeline orchestrates a full historical analysis run: parse the
// configured gauge files, resample, scan for critical points, capture
// reading sets, then render plots and write the run report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/cache"
	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
)

// cacheFile is where a run's reading sets land under the output directory.
const cacheFile = "reading_sets.msgpack"

// SourceParser reads one configured gauge file into chronological readings.
type SourceParser interface {
	Parse(src config.Source) ([]domain.Reading, error)
}

// SourceParserFunc adapts a plain function to SourceParser.
type SourceParserFunc func(src config.Source) ([]domain.Reading, error)

func (f SourceParserFunc) Parse(src config.Source) ([]domain.Reading, error) { return f(src) }

// Renderer draws the plots for one reading set.
type Renderer interface {
	RenderSet(set domain.ReadingSet) ([]string, error)
}

// Reporter writes the run summary artifact.
type Reporter interface {
	WriteRunSummary(summary domain.Summary, sets []domain.ReadingSet) (string, error)
}

// Result is what a completed run produced.
type Result struct {
	Summary     domain.Summary
	Sets        []domain.ReadingSet
	SummaryPath string
	PlotPaths   []string
	FromCache   bool
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	cfg      *config.Config
	parser   SourceParser
	renderer Renderer
	reporter Reporter
	logger   *slog.Logger
	metrics  *observability.Metrics

	ready       atomic.Bool
	lastSummary atomic.Pointer[domain.Summary]
}

// New creates a Pipeline with the given stages and observability.
func New(cfg *config.Config, parser SourceParser, renderer Renderer, reporter Reporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		parser:   parser,
		renderer: renderer,
		reporter: reporter,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once a run has completed, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no analysis run has completed yet")
	}
	return nil
}

// LatestSummary returns the summary of the most recent completed run and
// whether one exists yet.
func (p *Pipeline) LatestSummary() (domain.Summary, bool) {
	s := p.lastSummary.Load()
	if s == nil {
		return domain.Summary{}, false
	}
	return *s, true
}

// Run executes a full analysis. With useCache set, a previous run's reading
// sets are reloaded instead of re-parsing the raw files; a missing or stale
// cache falls back to the full run.
func (p *Pipeline) Run(ctx context.Context, useCache bool) (*Result, error) {
	p.metrics.RunActive.Set(1)
	defer p.metrics.RunActive.Set(0)
	start := time.Now()

	slides, err := domain.LoadSlides(p.cfg.KnownSlidesFile)
	if err != nil {
		return nil, fmt.Errorf("load known slides: %w", err)
	}
	p.logger.Info("loaded known slides", "count", len(slides))

	cachePath := filepath.Join(p.cfg.OutputDir, cacheFile)
	result := &Result{}

	var stats *domain.RunStats
	if useCache {
		sets, cachedStats, err := cache.LoadRun(cachePath, slides)
		if err != nil {
			p.logger.Warn("cache unusable, running full analysis", "error", err)
		} else {
			p.logger.Info("loaded cached reading sets", "count", len(sets), "path", cachePath)
			result.Sets, stats = sets, cachedStats
			result.FromCache = true
		}
	}

	if !result.FromCache {
		stats = domain.NewRunStats()
		result.Sets, err = p.extract(ctx, slides, stats)
		if err != nil {
			return nil, err
		}
		if err := cache.SaveRun(cachePath, result.Sets, stats); err != nil {
			p.logger.Warn("could not cache reading sets", "error", err)
		}
	}

	for _, set := range result.Sets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		paths, err := p.renderer.RenderSet(set)
		if err != nil {
			return nil, fmt.Errorf("render set %s: %w", set.Label(), err)
		}
		result.PlotPaths = append(result.PlotPaths, paths...)
	}

	result.Summary = stats.Summarize()
	result.SummaryPath, err = p.reporter.WriteRunSummary(result.Summary, result.Sets)
	if err != nil {
		return nil, fmt.Errorf("write run summary: %w", err)
	}

	summary := result.Summary
	p.lastSummary.Store(&summary)
	p.ready.Store(true)
	p.logger.Info("analysis run complete",
		"sets", len(result.Sets),
		"notifications", result.Summary.NotificationsIssued,
		"from_cache", result.FromCache,
		"elapsed", time.Since(start),
	)
	return result, nil
}

// extract parses every configured source and scans each one independently.
// The raw files cover disjoint eras with gaps between them, so resampling
// and scanning never cross a file boundary.
func (p *Pipeline) extract(ctx context.Context, slides []domain.SlideEvent, stats *domain.RunStats) ([]domain.ReadingSet, error) {
	var sets []domain.ReadingSet
	for _, src := range p.cfg.Sources {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		parseStart := time.Now()
		readings, err := p.parser.Parse(src)
		if err != nil {
			p.metrics.ParseErrors.Inc()
			return nil, fmt.Errorf("parse %s: %w", src.Path, err)
		}
		p.metrics.SourceParseDuration.Observe(time.Since(parseStart).Seconds())
		p.metrics.ReadingsParsed.Add(float64(len(readings)))
		p.logger.Info("parsed source", "path", src.Path, "format", src.Format, "readings", len(readings))

		if p.cfg.Resample.Enabled {
			readings, err = domain.Resample(readings, p.cfg.Resample.Interval.Std())
			if err != nil {
				return nil, fmt.Errorf("resample %s: %w", src.Path, err)
			}
		}

		t := p.thresholds()
		srcSets := domain.ExtractReadingSets(readings, slides, t, stats)
		for _, set := range srcSets {
			p.metrics.CriticalPoints.Add(float64(len(set.CriticalPoints)))
		}
		p.metrics.ReadingSets.Add(float64(len(srcSets)))
		sets = append(sets, srcSets...)
	}
	return sets, nil
}

func (p *Pipeline) thresholds() domain.Thresholds {
	return domain.Thresholds{
		RiseCritical:  p.cfg.Thresholds.RiseCritical,
		SlopeCritical: p.cfg.Thresholds.SlopeCritical,
		Refractory:    p.cfg.Thresholds.Refractory.Std(),
	}
}
