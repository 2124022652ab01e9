package plot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// RenderFrames writes a PNG frame sequence for the reading set, revealing
// the hydrograph one step at a time over a fixed x-range. Frames land in a
// per-set subdirectory and are named for ffmpeg's sequence input.
func (r *Renderer) RenderFrames(set domain.ReadingSet, step time.Duration) ([]string, error) {
	if len(set.Readings) == 0 {
		return nil, fmt.Errorf("no readings to animate")
	}
	if step <= 0 {
		return nil, fmt.Errorf("frame step must be positive")
	}

	frameDir := filepath.Join(r.dir, "frames_"+set.Label())
	if err := os.MkdirAll(frameDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}

	first := set.Readings[0].Timestamp
	last := set.Readings[len(set.Readings)-1].Timestamp

	var paths []string
	frame := 0
	for cutoff := first.Add(step); ; cutoff = cutoff.Add(step) {
		if cutoff.After(last) {
			cutoff = last
		}
		frame++
		path := filepath.Join(frameDir, fmt.Sprintf("frame_%04d.png", frame))

		start := time.Now()
		if err := renderFrame(path, set, cutoff, first, last); err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame, err)
		}
		r.observe("frame", start)
		paths = append(paths, path)

		if !cutoff.Before(last) {
			break
		}
	}

	r.logger.Info("wrote animation frames", "dir", frameDir, "frames", len(paths))
	return paths, nil
}

// renderFrame draws the set up to cutoff with the x-range pinned to the full
// span, so assembled frames do not jitter.
func renderFrame(path string, set domain.ReadingSet, cutoff, first, last time.Time) error {
	partial := domain.ReadingSet{
		Slide:        set.Slide,
		Notification: set.Notification,
	}
	for _, reading := range set.Readings {
		if reading.Timestamp.After(cutoff) {
			break
		}
		partial.Readings = append(partial.Readings, reading)
	}
	for _, pt := range set.CriticalPoints {
		if pt.Timestamp.After(cutoff) {
			continue
		}
		partial.CriticalPoints = append(partial.CriticalPoints, pt)
	}
	if set.Slide != nil && set.Slide.Time.After(cutoff) {
		partial.Slide = nil
	}

	p := plot.New()
	p.Title.Text = title(set)
	p.X.Label.Text = "Time (AK)"
	p.Y.Label.Text = "Stage (ft)"
	p.X.Min = float64(first.Unix())
	p.X.Max = float64(last.Unix())
	lo, hi := heightBounds(set.Readings)
	p.Y.Min = lo - 0.5
	p.Y.Max = hi + 0.5
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "01/02 15:04",
		Time:   plot.UnixTimeIn(domain.Alaska),
	}

	stage := make(plotter.XYs, len(partial.Readings))
	for i, reading := range partial.Readings {
		stage[i].X = float64(reading.Timestamp.Unix())
		stage[i].Y = reading.Height
	}
	line, err := plotter.NewLine(stage)
	if err != nil {
		return err
	}
	line.Color = stageColor
	p.Add(line)

	if len(partial.CriticalPoints) > 0 {
		crit := make(plotter.XYs, len(partial.CriticalPoints))
		for i, pt := range partial.CriticalPoints {
			crit[i].X = float64(pt.Timestamp.Unix())
			crit[i].Y = pt.Height
		}
		scatter, err := plotter.NewScatter(crit)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = criticalColor
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
	}

	if partial.Slide != nil {
		x := float64(partial.Slide.Time.Unix())
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: p.Y.Min}, {X: x, Y: p.Y.Max}})
		if err != nil {
			return err
		}
		marker.Color = slideColor
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(marker)
	}

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// AssembleAnimation runs ffmpeg over a frame directory produced by
// RenderFrames and writes an mp4. ffmpeg must be on PATH.
func AssembleAnimation(ctx context.Context, frameDir, outPath string, fps int) error {
	if fps <= 0 {
		fps = 10
	}
	pattern := filepath.Join(frameDir, "frame_%04d.png")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-i", pattern,
		"-pix_fmt", "yuv420p",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, out)
	}
	return nil
}
