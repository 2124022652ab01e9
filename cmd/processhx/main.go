// Command processhx runs the full historical analysis: parse the configured
// gauge records, scan for critical periods, capture reading sets, and write
// plots and the run report. Health, readiness, and metrics are served over
// HTTP for the duration of the run.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/adapter/gaugefile"
	"github.com/ehmatthes/sitka-irg-analysis/internal/adapter/httpadapter"
	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
	"github.com/ehmatthes/sitka-irg-analysis/internal/pipeline"
	"github.com/ehmatthes/sitka-irg-analysis/internal/plot"
	"github.com/ehmatthes/sitka-irg-analysis/internal/report"
)

// selectiveRenderer skips plot kinds disabled on the command line.
type selectiveRenderer struct {
	inner               *plot.Renderer
	interactive, static bool
}

func (r *selectiveRenderer) RenderSet(set domain.ReadingSet) ([]string, error) {
	var paths []string
	if r.interactive {
		p, err := r.inner.RenderInteractive(set)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if r.static {
		p, err := r.inner.RenderStatic(set)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	useCached := flag.Bool("use-cached-data", false, "reuse the previous run's reading sets instead of re-parsing")
	noInteractive := flag.Bool("no-interactive-plots", false, "skip the HTML plots")
	noStatic := flag.Bool("no-static-plots", false, "skip the PNG plots")
	outputDir := flag.String("output-dir", "", "override the configured output directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	thresholds := domain.Thresholds{
		RiseCritical:  cfg.Thresholds.RiseCritical,
		SlopeCritical: cfg.Thresholds.SlopeCritical,
		Refractory:    cfg.Thresholds.Refractory.Std(),
	}
	renderer := &selectiveRenderer{
		inner:       plot.NewRenderer(cfg.PlotDir, thresholds, logger, metrics),
		interactive: !*noInteractive,
		static:      !*noStatic,
	}
	reporter := report.NewWriter(cfg.OutputDir, logger)

	p := pipeline.New(cfg, pipeline.SourceParserFunc(gaugefile.Parse), renderer, reporter, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, *useCached)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("http server shutdown error", "error", shutdownErr)
	}

	if err != nil {
		logger.Error("analysis run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"summary", result.SummaryPath,
		"plots", len(result.PlotPaths),
		"notifications", result.Summary.NotificationsIssued,
	)
}
