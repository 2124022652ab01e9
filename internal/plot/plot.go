// Package plot renders hydrograph visualizations for reading sets: an
// interactive HTML chart for exploration, a static PNG for reports, and
// PNG frame sequences for animations.
package plot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
)

// Renderer writes plot files for reading sets into a target directory.
type Renderer struct {
	dir        string
	thresholds domain.Thresholds
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewRenderer creates a renderer writing into dir, which is created on
// first use.
func NewRenderer(dir string, t domain.Thresholds, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{dir: dir, thresholds: t, logger: logger, metrics: metrics}
}

// RenderSet writes both the interactive and static plots for a reading set
// and returns the paths written.
func (r *Renderer) RenderSet(set domain.ReadingSet) ([]string, error) {
	html, err := r.RenderInteractive(set)
	if err != nil {
		return nil, err
	}
	png, err := r.RenderStatic(set)
	if err != nil {
		return nil, err
	}
	return []string{html, png}, nil
}

func (r *Renderer) ensureDir() error {
	return os.MkdirAll(r.dir, 0o755)
}

func (r *Renderer) observe(kind string, start time.Time) {
	if r.metrics != nil {
		r.metrics.PlotRenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

// title builds the chart title from the set's span and slide association.
func title(set domain.ReadingSet) string {
	if len(set.Readings) == 0 {
		return "Indian River Gauge Height"
	}
	first := set.Readings[0].Timestamp.In(domain.Alaska)
	last := set.Readings[len(set.Readings)-1].Timestamp.In(domain.Alaska)
	t := fmt.Sprintf("Indian River Gauge Height, %s - %s",
		first.Format("1/2/2006"), last.Format("1/2/2006"))
	if set.Slide != nil {
		t += fmt.Sprintf(" (%s slide)", set.Slide.Name)
	}
	return t
}

func outPath(dir, label, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("ir_plot_%s%s", label, ext))
}
