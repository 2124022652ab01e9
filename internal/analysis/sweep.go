// Package analysis runs parameter sweeps over the critical thresholds, so
// the operating point can be compared against nearby alternatives.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
	"github.com/ehmatthes/sitka-irg-analysis/internal/observability"
)

// Trial is one (rise, slope) combination run over the full record.
type Trial struct {
	Name          string         `json:"name"`
	RiseCritical  float64        `json:"rise_critical"`
	SlopeCritical float64        `json:"slope_critical"`
	Summary       domain.Summary `json:"summary"`

	// ROC coordinates; see Sweeper for how condition negatives are counted.
	TruePositiveRate  float64 `json:"true_positive_rate"`
	FalsePositiveRate float64 `json:"false_positive_rate"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Result holds all trials of one sweep, in grid order.
type Result struct {
	Refractory time.Duration `json:"refractory_ns"`
	Trials     []Trial       `json:"trials"`
}

// Sweeper runs threshold trials over a fixed record and slide list.
//
// For ROC accounting the record is cut into consecutive 48-hour windows.
// A window holding a known slide is a condition positive; the rest are
// condition negatives. The false positive rate is the share of slide-free
// windows in which a notification fired.
type Sweeper struct {
	readings []domain.Reading
	slides   []domain.SlideEvent
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewSweeper creates a sweeper over the given record.
func NewSweeper(readings []domain.Reading, slides []domain.SlideEvent, logger *slog.Logger, metrics *observability.Metrics) *Sweeper {
	return &Sweeper{readings: readings, slides: slides, logger: logger, metrics: metrics}
}

// Run executes one trial per (rise, slope) pair and returns the collected
// results. The context is checked between trials; a long grid can be
// interrupted.
func (s *Sweeper) Run(ctx context.Context, rises, slopes []float64, refractory time.Duration) (*Result, error) {
	if len(s.readings) == 0 {
		return nil, fmt.Errorf("no readings to sweep")
	}
	if len(rises) == 0 || len(slopes) == 0 {
		return nil, fmt.Errorf("empty sweep grid")
	}

	result := &Result{Refractory: refractory}
	for _, rise := range rises {
		for _, slope := range slopes {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			trial, err := s.runTrial(rise, slope, refractory)
			if err != nil {
				return nil, err
			}
			result.Trials = append(result.Trials, trial)

			if s.metrics != nil {
				s.metrics.SweepTrialsCompleted.Inc()
				s.metrics.SweepTrialDuration.Observe(trial.Elapsed.Seconds())
			}
			s.logger.Info("sweep trial done",
				"rise", rise,
				"slope", slope,
				"true_positives", trial.Summary.TruePositives,
				"false_positives", trial.Summary.FalsePositives,
				"false_negatives", trial.Summary.FalseNegatives,
			)
		}
	}
	return result, nil
}

func (s *Sweeper) runTrial(rise, slope float64, refractory time.Duration) (Trial, error) {
	if rise <= 0 || slope <= 0 {
		return Trial{}, fmt.Errorf("trial thresholds must be positive, have rise=%v slope=%v", rise, slope)
	}
	start := time.Now()

	t := domain.Thresholds{RiseCritical: rise, SlopeCritical: slope, Refractory: refractory}
	stats := domain.NewRunStats()
	domain.ExtractReadingSets(s.readings, s.slides, t, stats)

	trial := Trial{
		Name:          fmt.Sprintf("rise-%.2f_slope-%.2f", rise, slope),
		RiseCritical:  rise,
		SlopeCritical: slope,
		Summary:       stats.Summarize(),
		Elapsed:       time.Since(start),
	}
	trial.TruePositiveRate, trial.FalsePositiveRate = s.rates(stats)
	return trial, nil
}

// rates computes the trial's ROC coordinates from the accumulated stats.
func (s *Sweeper) rates(stats *domain.RunStats) (tpr, fpr float64) {
	caught := len(stats.RelevantSlides)
	missed := len(stats.UnassociatedSlides)
	if caught+missed > 0 {
		tpr = float64(caught) / float64(caught+missed)
	}

	span := stats.LatestReading.Timestamp.Sub(stats.EarliestReading.Timestamp)
	windows := int(span / (2 * domain.ReadingSetWindow))
	if windows <= 0 {
		return tpr, 0
	}

	slideWindows := map[int]bool{}
	for _, slide := range s.slides {
		if idx, ok := s.windowIndex(stats, slide.Time, windows); ok {
			slideWindows[idx] = true
		}
	}
	fpWindows := map[int]bool{}
	for _, pt := range stats.UnassociatedNotificationPoints {
		if idx, ok := s.windowIndex(stats, pt.Timestamp, windows); ok && !slideWindows[idx] {
			fpWindows[idx] = true
		}
	}

	negatives := windows - len(slideWindows)
	if negatives > 0 {
		fpr = float64(len(fpWindows)) / float64(negatives)
	}
	return tpr, fpr
}

func (s *Sweeper) windowIndex(stats *domain.RunStats, t time.Time, windows int) (int, bool) {
	offset := t.Sub(stats.EarliestReading.Timestamp)
	if offset < 0 {
		return 0, false
	}
	idx := int(offset / (2 * domain.ReadingSetWindow))
	if idx >= windows {
		return 0, false
	}
	return idx, true
}

// Grid builds an inclusive arithmetic sequence from lo to hi by step, for
// building sweep axes.
func Grid(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	var out []float64
	for v := lo; v <= hi+step/1e6; v += step {
		out = append(out, v)
	}
	return out
}
