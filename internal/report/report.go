// Package report writes run artifacts: the run summary, the known-slides
// page, and sweep result tables.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// Writer emits report files into a target directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a report writer for dir, created on first use.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// SetDetail is the per-set entry in the run summary artifact.
type SetDetail struct {
	Label           string `json:"label"`
	Readings        int    `json:"readings"`
	CriticalPoints  int    `json:"critical_points"`
	Slide           string `json:"slide,omitempty"`
	NotificationMin int    `json:"notification_min,omitempty"`
}

// runArtifact is the JSON layout of the run summary file.
type runArtifact struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     domain.Summary `json:"summary"`
	Sets        []SetDetail    `json:"sets"`
}

// WriteRunSummary writes the run summary JSON and logs the headline numbers.
// Returns the path written.
func (w *Writer) WriteRunSummary(summary domain.Summary, sets []domain.ReadingSet) (string, error) {
	artifact := runArtifact{
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Sets:        make([]SetDetail, len(sets)),
	}
	for i, set := range sets {
		detail := SetDetail{
			Label:           set.Label(),
			Readings:        len(set.Readings),
			CriticalPoints:  len(set.CriticalPoints),
			NotificationMin: int(set.Notification.Minutes()),
		}
		if set.Slide != nil {
			detail.Slide = set.Slide.Name
		}
		artifact.Sets[i] = detail
	}

	path := filepath.Join(w.dir, "run_summary.json")
	if err := w.writeJSON(path, artifact); err != nil {
		return "", err
	}

	w.logger.Info("run summary",
		"notifications", summary.NotificationsIssued,
		"true_positives", summary.TruePositives,
		"false_positives", summary.FalsePositives,
		"false_negatives", summary.FalseNegatives,
		"mean_notification_min", summary.MeanNotificationMin,
		"path", path,
	)
	return path, nil
}

func (w *Writer) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
