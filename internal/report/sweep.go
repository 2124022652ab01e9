package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ehmatthes/sitka-irg-analysis/internal/analysis"
)

// WriteSweepResults writes the sweep trials as a TSV table and a JSON
// mirror. The TSV carries one row per trial plus the ROC coordinates, so it
// drops straight into a spreadsheet. Returns the paths written.
func (w *Writer) WriteSweepResults(result *analysis.Result) ([]string, error) {
	if result == nil || len(result.Trials) == 0 {
		return nil, fmt.Errorf("no sweep trials to report")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	var b strings.Builder
	b.WriteString("trial\trise_ft\tslope_ft_hr\tnotifications\ttrue_pos\tfalse_pos\tfalse_neg\tmean_notification_min\ttpr\tfpr\n")
	for _, trial := range result.Trials {
		fmt.Fprintf(&b, "%s\t%.2f\t%.2f\t%d\t%d\t%d\t%d\t%.1f\t%.3f\t%.3f\n",
			trial.Name,
			trial.RiseCritical,
			trial.SlopeCritical,
			trial.Summary.NotificationsIssued,
			trial.Summary.TruePositives,
			trial.Summary.FalsePositives,
			trial.Summary.FalseNegatives,
			trial.Summary.MeanNotificationMin,
			trial.TruePositiveRate,
			trial.FalsePositiveRate,
		)
	}

	tsvPath := filepath.Join(w.dir, "sweep_results.tsv")
	if err := os.WriteFile(tsvPath, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", tsvPath, err)
	}

	jsonPath := filepath.Join(w.dir, "sweep_results.json")
	if err := w.writeJSON(jsonPath, result); err != nil {
		return nil, err
	}

	w.logger.Info("wrote sweep results", "trials", len(result.Trials), "tsv", tsvPath, "json", jsonPath)
	return []string{tsvPath, jsonPath}, nil
}
