// Command current fetches the live NWS hydrograph for the Indian River
// gauge, assesses current conditions against the critical thresholds, and
// writes an interactive plot of the recent record.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/adapter/nws"
	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
	"github.com/ehmatthes/sitka-irg-analysis/internal/plot"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	window := flag.Duration("window", 72*time.Hour, "how much trailing data to assess")
	noPlot := flag.Bool("no-plot", false, "skip writing the plot, print the assessment only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	client := nws.NewClient(cfg.NWS.URL, cfg.NWS.Timeout.Std(), cfg.NWS.CacheFile, logger)
	readings, err := client.FetchObserved(context.Background())
	if err != nil {
		logger.Error("failed to fetch hydrograph", "error", err)
		os.Exit(1)
	}
	logger.Info("fetched observed readings", "count", len(readings))

	if cfg.Resample.Enabled {
		readings, err = domain.Resample(readings, cfg.Resample.Interval.Std())
		if err != nil {
			logger.Error("failed to resample readings", "error", err)
			os.Exit(1)
		}
	}
	readings = domain.RecentReadings(readings, *window)

	thresholds := domain.Thresholds{
		RiseCritical:  cfg.Thresholds.RiseCritical,
		SlopeCritical: cfg.Thresholds.SlopeCritical,
		Refractory:    cfg.Thresholds.Refractory.Std(),
	}
	assessment := domain.AssessCurrent(readings, thresholds)

	logger.Info("current conditions",
		"condition", assessment.Condition,
		"height_ft", assessment.Latest.Height,
		"age", assessment.Age,
		"rise_ft", assessment.Rise,
		"slope_ft_hr", assessment.Slope,
		"critical_points", len(assessment.CriticalPoints),
	)
	out, _ := json.MarshalIndent(assessment, "", "  ")
	os.Stdout.Write(append(out, '\n'))

	// Note any known slide already inside the assessed window, so a critical
	// reading is not mistaken for a fresh event.
	if slides, err := domain.LoadSlides(cfg.KnownSlidesFile); err != nil {
		logger.Warn("could not load known slides", "error", err)
	} else if slide := domain.RelevantSlide(readings, slides); slide != nil {
		logger.Info("known slide within the assessed window", "slide", slide.Name, "at", slide.Time)
	}

	if !*noPlot {
		// No metrics here. This is a one-shot command with no HTTP surface,
		// so there is nothing to scrape.
		renderer := plot.NewRenderer(cfg.PlotDir, thresholds, logger, nil)
		set := domain.ReadingSet{
			Readings:       readings,
			CriticalPoints: assessment.CriticalPoints,
		}
		if _, err := renderer.RenderInteractive(set); err != nil {
			logger.Error("failed to render plot", "error", err)
			os.Exit(1)
		}
	}

	if assessment.Condition == domain.ConditionCritical {
		os.Exit(2)
	}
}
