package domain

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// RunStats accumulates notification accounting across an analysis run.
// In this context a true positive is a notification associated with a slide,
// a false positive is a notification with no slide, and a false negative is
// a slide no notification preceded.
type RunStats struct {
	NotificationsIssued       int
	AssociatedNotifications   int
	UnassociatedNotifications int

	UnassociatedNotificationPoints []Reading
	RelevantSlides                 []SlideEvent
	UnassociatedSlides             []SlideEvent

	// NotificationTimes is keyed by slide name; positive durations mean the
	// notification preceded the slide.
	NotificationTimes map[string]time.Duration

	EarliestReading Reading
	LatestReading   Reading
}

// NewRunStats returns an empty accumulator.
func NewRunStats() *RunStats {
	return &RunStats{NotificationTimes: map[string]time.Duration{}}
}

// ObserveSpan widens the earliest/latest reading bounds to cover readings.
func (s *RunStats) ObserveSpan(readings []Reading) {
	if len(readings) == 0 {
		return
	}
	first, last := readings[0], readings[len(readings)-1]
	if s.EarliestReading.Timestamp.IsZero() || first.Timestamp.Before(s.EarliestReading.Timestamp) {
		s.EarliestReading = first
	}
	if last.Timestamp.After(s.LatestReading.Timestamp) {
		s.LatestReading = last
	}
}

// Summary is the reportable form of a run's accounting.
type Summary struct {
	NotificationsIssued int `json:"notifications_issued"`
	TruePositives       int `json:"true_positives"`
	FalsePositives      int `json:"false_positives"`
	FalseNegatives      int `json:"false_negatives"`

	AssociatedSlides   []string `json:"associated_slides"`
	UnassociatedSlides []string `json:"unassociated_slides"`

	// Notification lead times in minutes, keyed by slide name.
	NotificationTimesMin  map[string]int `json:"notification_times_min"`
	MeanNotificationMin   float64        `json:"mean_notification_min"`
	MedianNotificationMin float64        `json:"median_notification_min"`

	EarliestReading time.Time `json:"earliest_reading"`
	LatestReading   time.Time `json:"latest_reading"`
}

// Summarize reduces the accumulated stats to a Summary.
func (s *RunStats) Summarize() Summary {
	sum := Summary{
		NotificationsIssued:  s.NotificationsIssued,
		TruePositives:        s.AssociatedNotifications,
		FalsePositives:       s.UnassociatedNotifications,
		FalseNegatives:       len(s.UnassociatedSlides),
		NotificationTimesMin: map[string]int{},
		EarliestReading:      s.EarliestReading.Timestamp,
		LatestReading:        s.LatestReading.Timestamp,
	}
	for _, slide := range s.RelevantSlides {
		sum.AssociatedSlides = append(sum.AssociatedSlides, slide.Name)
	}
	for _, slide := range s.UnassociatedSlides {
		sum.UnassociatedSlides = append(sum.UnassociatedSlides, slide.Name)
	}
	sort.Strings(sum.AssociatedSlides)
	sort.Strings(sum.UnassociatedSlides)

	var minutes []float64
	for name, nt := range s.NotificationTimes {
		m := nt.Minutes()
		sum.NotificationTimesMin[name] = int(m)
		minutes = append(minutes, m)
	}
	if len(minutes) > 0 {
		sort.Float64s(minutes)
		sum.MeanNotificationMin = stat.Mean(minutes, nil)
		sum.MedianNotificationMin = stat.Quantile(0.5, stat.Empirical, minutes, nil)
	}
	return sum
}
