package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis pipeline. Long runs (the parameter sweep in particular) expose
// these over /metrics so progress can be watched.
type Metrics struct {
	ReadingsParsed prometheus.Counter
	ParseErrors    prometheus.Counter
	CriticalPoints prometheus.Counter
	ReadingSets    prometheus.Counter
	RunActive      prometheus.Gauge

	SourceParseDuration prometheus.Histogram
	PlotRenderDuration  *prometheus.HistogramVec // label: kind={interactive,static,frame}

	SweepTrialsCompleted prometheus.Counter
	SweepTrialDuration   prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReadingsParsed,
		m.ParseErrors,
		m.CriticalPoints,
		m.ReadingSets,
		m.RunActive,
		m.SourceParseDuration,
		m.PlotRenderDuration,
		m.SweepTrialsCompleted,
		m.SweepTrialDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReadingsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irg",
			Name:      "readings_parsed_total",
			Help:      "Total gauge readings parsed from source files.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irg",
			Name:      "parse_errors_total",
			Help:      "Total source files that failed to parse.",
		}),
		CriticalPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irg",
			Name:      "critical_points_total",
			Help:      "Total critical points flagged by the threshold scan.",
		}),
		ReadingSets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irg",
			Name:      "reading_sets_total",
			Help:      "Total 48-hour reading sets captured.",
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "irg",
			Name:      "run_active",
			Help:      "1 while an analysis run is in progress.",
		}),
		SourceParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "irg",
			Name:      "source_parse_duration_seconds",
			Help:      "Time to parse one source data file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		PlotRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "irg",
			Name:      "plot_render_duration_seconds",
			Help:      "Time to render one plot, by kind.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		SweepTrialsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irg",
			Name:      "sweep_trials_completed_total",
			Help:      "Parameter-sweep trials finished.",
		}),
		SweepTrialDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "irg",
			Name:      "sweep_trial_duration_seconds",
			Help:      "Time to run one parameter-sweep trial.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}
