// Command animate renders frame-by-frame animations of cached reading sets
// and assembles them into mp4 files with ffmpeg. Run processhx first to
// build the reading-set cache.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/cache"
	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
	"github.com/ehmatthes/sitka-irg-analysis/internal/plot"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	label := flag.String("label", "", "animate only the set with this label (default: all sets)")
	step := flag.Duration("step", 30*time.Minute, "time revealed per frame")
	fps := flag.Int("fps", 10, "frames per second in the assembled video")
	framesOnly := flag.Bool("frames-only", false, "render frames but skip the ffmpeg assembly")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	slides, err := domain.LoadSlides(cfg.KnownSlidesFile)
	if err != nil {
		logger.Error("failed to load known slides", "error", err)
		os.Exit(1)
	}

	cachePath := filepath.Join(cfg.OutputDir, "reading_sets.msgpack")
	sets, _, err := cache.LoadRun(cachePath, slides)
	if err != nil {
		logger.Error("no reading-set cache, run processhx first", "path", cachePath, "error", err)
		os.Exit(1)
	}

	thresholds := domain.Thresholds{
		RiseCritical:  cfg.Thresholds.RiseCritical,
		SlopeCritical: cfg.Thresholds.SlopeCritical,
		Refractory:    cfg.Thresholds.Refractory.Std(),
	}
	// One-shot command with no HTTP surface, so no metrics to scrape.
	renderer := plot.NewRenderer(cfg.PlotDir, thresholds, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	animated := 0
	for _, set := range sets {
		if *label != "" && set.Label() != *label {
			continue
		}

		frames, err := renderer.RenderFrames(set, *step)
		if err != nil {
			logger.Error("failed to render frames", "label", set.Label(), "error", err)
			os.Exit(1)
		}
		animated++

		if *framesOnly {
			continue
		}
		frameDir := filepath.Dir(frames[0])
		outPath := filepath.Join(cfg.PlotDir, "ir_animation_"+set.Label()+".mp4")
		if err := plot.AssembleAnimation(ctx, frameDir, outPath, *fps); err != nil {
			logger.Error("failed to assemble animation", "label", set.Label(), "error", err)
			os.Exit(1)
		}
		logger.Info("wrote animation", "path", outPath, "frames", len(frames))
	}

	if animated == 0 {
		logger.Error("no reading sets matched", "label", *label)
		os.Exit(1)
	}
}
