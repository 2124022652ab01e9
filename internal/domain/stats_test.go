package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	stats := NewRunStats()
	stats.NotificationsIssued = 5
	stats.AssociatedNotifications = 2
	stats.UnassociatedNotifications = 3
	stats.RelevantSlides = []SlideEvent{{Name: "kramer"}, {Name: "medvejie"}}
	stats.UnassociatedSlides = []SlideEvent{{Name: "starrigavan"}}
	stats.NotificationTimes = map[string]time.Duration{
		"kramer":   2 * time.Hour,
		"medvejie": time.Hour,
	}
	stats.EarliestReading = Reading{Timestamp: time.Date(2014, 7, 14, 23, 0, 0, 0, time.UTC)}
	stats.LatestReading = Reading{Timestamp: time.Date(2019, 10, 2, 0, 0, 0, 0, time.UTC)}

	sum := stats.Summarize()

	assert.Equal(t, 5, sum.NotificationsIssued)
	assert.Equal(t, 2, sum.TruePositives)
	assert.Equal(t, 3, sum.FalsePositives)
	assert.Equal(t, 1, sum.FalseNegatives)
	assert.Equal(t, []string{"kramer", "medvejie"}, sum.AssociatedSlides)
	assert.Equal(t, []string{"starrigavan"}, sum.UnassociatedSlides)
	assert.Equal(t, 120, sum.NotificationTimesMin["kramer"])
	assert.Equal(t, 60, sum.NotificationTimesMin["medvejie"])
	assert.InDelta(t, 90.0, sum.MeanNotificationMin, 1e-9)
	assert.InDelta(t, 60.0, sum.MedianNotificationMin, 1e-9)
	assert.Equal(t, stats.EarliestReading.Timestamp, sum.EarliestReading)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := NewRunStats().Summarize()
	assert.Zero(t, sum.TruePositives)
	assert.Empty(t, sum.NotificationTimesMin)
	assert.Zero(t, sum.MeanNotificationMin)
}

func TestObserveSpan(t *testing.T) {
	stats := NewRunStats()
	start := time.Date(2016, 2, 9, 0, 0, 0, 0, time.UTC)

	stats.ObserveSpan(hourlySeries(start, 20, 20, 20))
	require.Equal(t, start, stats.EarliestReading.Timestamp)
	require.Equal(t, start.Add(2*time.Hour), stats.LatestReading.Timestamp)

	// A later batch widens only the upper bound.
	stats.ObserveSpan(hourlySeries(start.Add(24*time.Hour), 21, 21))
	assert.Equal(t, start, stats.EarliestReading.Timestamp)
	assert.Equal(t, start.Add(25*time.Hour), stats.LatestReading.Timestamp)

	// An earlier batch widens only the lower bound.
	stats.ObserveSpan(hourlySeries(start.Add(-24*time.Hour), 19, 19))
	assert.Equal(t, start.Add(-24*time.Hour), stats.EarliestReading.Timestamp)
	assert.Equal(t, start.Add(25*time.Hour), stats.LatestReading.Timestamp)

	stats.ObserveSpan(nil)
	assert.Equal(t, start.Add(-24*time.Hour), stats.EarliestReading.Timestamp)
}
