package plot

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

var (
	stageColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	criticalColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	slideColor    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// RenderStatic writes a PNG chart for the reading set and returns the path
// written.
func (r *Renderer) RenderStatic(set domain.ReadingSet) (string, error) {
	start := time.Now()
	defer r.observe("static", start)

	if err := r.ensureDir(); err != nil {
		return "", fmt.Errorf("create plot dir: %w", err)
	}

	path := outPath(r.dir, set.Label(), ".png")
	if err := renderPNG(path, set, r.thresholds); err != nil {
		return "", err
	}
	r.logger.Info("wrote static plot", "path", path, "readings", len(set.Readings))
	return path, nil
}

func renderPNG(path string, set domain.ReadingSet, t domain.Thresholds) error {
	p := plot.New()
	p.Title.Text = title(set)
	p.X.Label.Text = "Time (AK)"
	p.Y.Label.Text = "Stage (ft)"
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "01/02 15:04",
		Time:   plot.UnixTimeIn(domain.Alaska),
	}

	stage := make(plotter.XYs, len(set.Readings))
	for i, reading := range set.Readings {
		stage[i].X = float64(reading.Timestamp.Unix())
		stage[i].Y = reading.Height
	}
	line, err := plotter.NewLine(stage)
	if err != nil {
		return fmt.Errorf("stage series: %w", err)
	}
	line.Color = stageColor
	p.Add(line)
	p.Legend.Add("Stage", line)

	if len(set.CriticalPoints) > 0 {
		crit := make(plotter.XYs, len(set.CriticalPoints))
		for i, pt := range set.CriticalPoints {
			crit[i].X = float64(pt.Timestamp.Unix())
			crit[i].Y = pt.Height
		}
		scatter, err := plotter.NewScatter(crit)
		if err != nil {
			return fmt.Errorf("critical series: %w", err)
		}
		scatter.GlyphStyle.Color = criticalColor
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		p.Legend.Add("Critical", scatter)
	}

	if set.Slide != nil && len(set.Readings) > 0 {
		lo, hi := heightBounds(set.Readings)
		x := float64(set.Slide.Time.Unix())
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: lo}, {X: x, Y: hi}})
		if err != nil {
			return fmt.Errorf("slide marker: %w", err)
		}
		marker.Color = slideColor
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(marker)
		p.Legend.Add(set.Slide.Name, marker)
	}

	p.Legend.Top = true
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func heightBounds(readings []domain.Reading) (lo, hi float64) {
	lo, hi = readings[0].Height, readings[0].Height
	for _, r := range readings[1:] {
		if r.Height < lo {
			lo = r.Height
		}
		if r.Height > hi {
			hi = r.Height
		}
	}
	return lo, hi
}
