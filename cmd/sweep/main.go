// Command sweep runs the critical-threshold parameter sweep over the full
// historical record and writes the trial table and ROC coordinates.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/adapter/gaugefile"
	"github.com/ehmatthes/sitka-irg-analysis/internal/adapter/httpadapter"
	"github.com/ehmatthes/sitka-irg-analysis/internal/analysis"
	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
	"github.com/ehmatthes/sitka-irg-analysis/internal/report"
)

// sweepReady reports readiness once the record is loaded. The flag is
// atomic because the HTTP server reads it from its own goroutine.
type sweepReady struct{ loaded atomic.Bool }

func (r *sweepReady) CheckReadiness(_ context.Context) error {
	if !r.loaded.Load() {
		return errors.New("historical record not loaded yet")
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	riseMin := flag.Float64("rise-min", 1.0, "lowest critical rise to try, feet")
	riseMax := flag.Float64("rise-max", 4.0, "highest critical rise to try, feet")
	riseStep := flag.Float64("rise-step", 0.5, "critical rise step, feet")
	slopeMin := flag.Float64("slope-min", 0.3, "lowest critical slope to try, ft/hr")
	slopeMax := flag.Float64("slope-max", 0.7, "highest critical slope to try, ft/hr")
	slopeStep := flag.Float64("slope-step", 0.1, "critical slope step, ft/hr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ready := &sweepReady{}
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slides, err := domain.LoadSlides(cfg.KnownSlidesFile)
	if err != nil {
		logger.Error("failed to load known slides", "error", err)
		os.Exit(1)
	}

	// The raw files cover disjoint eras; the sweep runs over each era's
	// readings back to back. Heights at era boundaries are near each other,
	// so a boundary gap cannot fake a critical rise.
	var readings []domain.Reading
	for _, src := range cfg.Sources {
		start := time.Now()
		parsed, err := gaugefile.Parse(src)
		if err != nil {
			metrics.ParseErrors.Inc()
			logger.Error("failed to parse source", "path", src.Path, "error", err)
			os.Exit(1)
		}
		metrics.SourceParseDuration.Observe(time.Since(start).Seconds())
		metrics.ReadingsParsed.Add(float64(len(parsed)))

		if cfg.Resample.Enabled {
			parsed, err = domain.Resample(parsed, cfg.Resample.Interval.Std())
			if err != nil {
				logger.Error("failed to resample source", "path", src.Path, "error", err)
				os.Exit(1)
			}
		}
		readings = append(readings, parsed...)
	}
	ready.loaded.Store(true)
	logger.Info("historical record loaded", "readings", len(readings), "slides", len(slides))

	rises := analysis.Grid(*riseMin, *riseMax, *riseStep)
	slopes := analysis.Grid(*slopeMin, *slopeMax, *slopeStep)

	sweeper := analysis.NewSweeper(readings, slides, logger, metrics)
	result, err := sweeper.Run(ctx, rises, slopes, cfg.Thresholds.Refractory.Std())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("http server shutdown error", "error", shutdownErr)
	}

	if err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}

	paths, err := report.NewWriter(cfg.OutputDir, logger).WriteSweepResults(result)
	if err != nil {
		logger.Error("failed to write sweep results", "error", err)
		os.Exit(1)
	}
	logger.Info("sweep complete", "trials", len(result.Trials), "paths", paths)
}
