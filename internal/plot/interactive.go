package plot

import (
	"fmt"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

const timeLabelLayout = "01/02 15:04"

// RenderInteractive writes an HTML chart for the reading set: the full
// hydrograph, critical points as an overlaid scatter, and the slide time as
// a vertical mark line when a slide is associated. Returns the path written.
func (r *Renderer) RenderInteractive(set domain.ReadingSet) (string, error) {
	start := time.Now()
	defer r.observe("interactive", start)

	if err := r.ensureDir(); err != nil {
		return "", fmt.Errorf("create plot dir: %w", err)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title(set),
			Subtitle: subtitle(set, r.thresholds),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (AK)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stage (ft)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title(set),
			Width:     "1400px",
			Height:    "700px",
		}),
	)

	labels := make([]string, len(set.Readings))
	heights := make([]opts.LineData, len(set.Readings))
	for i, reading := range set.Readings {
		labels[i] = reading.Timestamp.In(domain.Alaska).Format(timeLabelLayout)
		heights[i] = opts.LineData{Value: reading.Height}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
	}
	if set.Slide != nil && len(labels) > 0 {
		// The mark line lands on a category label, so snap the slide time
		// to the nearest reading.
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  set.Slide.Name,
				XAxis: labels[closestIndex(set.Readings, set.Slide.Time)],
			}),
		)
	}
	line.SetXAxis(labels).AddSeries("Stage", heights, seriesOpts...)

	if len(set.CriticalPoints) > 0 {
		critical := make(map[time.Time]float64, len(set.CriticalPoints))
		for _, pt := range set.CriticalPoints {
			critical[pt.Timestamp] = pt.Height
		}
		points := make([]opts.ScatterData, len(set.Readings))
		for i, reading := range set.Readings {
			if h, ok := critical[reading.Timestamp]; ok {
				points[i] = opts.ScatterData{Value: h, SymbolSize: 8}
			} else {
				points[i] = opts.ScatterData{Value: nil}
			}
		}
		scatter := charts.NewScatter()
		scatter.AddSeries("Critical", points,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}),
		)
		line.Overlap(scatter)
	}

	path := outPath(r.dir, set.Label(), ".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	r.logger.Info("wrote interactive plot", "path", path, "readings", len(set.Readings))
	return path, nil
}

// closestIndex returns the index of the reading nearest to t.
func closestIndex(readings []domain.Reading, t time.Time) int {
	best, bestGap := 0, time.Duration(1<<62)
	for i, r := range readings {
		gap := r.Timestamp.Sub(t)
		if gap < 0 {
			gap = -gap
		}
		if gap < bestGap {
			best, bestGap = i, gap
		}
	}
	return best
}

// subtitle summarizes the thresholds and outcome for the chart header.
func subtitle(set domain.ReadingSet, t domain.Thresholds) string {
	s := fmt.Sprintf("Critical: %.1f ft rise at %.1f ft/hr", t.RiseCritical, t.SlopeCritical)
	if set.Notification > 0 {
		s += fmt.Sprintf(" | Notification %d min before slide", int(set.Notification.Minutes()))
	}
	return s
}
