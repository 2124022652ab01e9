package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReadingSets(t *testing.T) {
	start := time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)

	// Five days of hourly readings, flat at 20 ft except a 3 ft burst over
	// hours 30-32. Critical points land at hours 32, 33, 34.
	heights := make([]float64, 120)
	for i := range heights {
		heights[i] = 20
	}
	heights[30] = 21
	heights[31] = 22
	for i := 32; i < 120; i++ {
		heights[i] = 23
	}
	readings := hourlySeries(start, heights...)

	caughtSlide := SlideEvent{Name: "caught", Time: start.Add(34 * time.Hour)}
	missedSlide := SlideEvent{Name: "missed", Time: start.Add(100 * time.Hour)}
	outsideSlide := SlideEvent{Name: "outside record", Time: start.Add(-24 * time.Hour)}
	slides := []SlideEvent{caughtSlide, missedSlide, outsideSlide}

	stats := NewRunStats()
	sets := ExtractReadingSets(readings, slides, DefaultThresholds(), stats)
	require.Len(t, sets, 2)

	t.Run("critical period set", func(t *testing.T) {
		set := sets[0]
		require.Len(t, set.CriticalPoints, 3)
		assert.Equal(t, start.Add(32*time.Hour), set.CriticalPoints[0].Timestamp)

		// 48-hour window centered on the first critical point.
		assert.Equal(t, start.Add(8*time.Hour), set.Readings[0].Timestamp)
		assert.Equal(t, start.Add(56*time.Hour), set.Readings[len(set.Readings)-1].Timestamp)

		require.NotNil(t, set.Slide)
		assert.Equal(t, "caught", set.Slide.Name)
		assert.Equal(t, 2*time.Hour, set.Notification)
	})

	t.Run("missed slide set", func(t *testing.T) {
		set := sets[1]
		assert.Empty(t, set.CriticalPoints)
		require.NotNil(t, set.Slide)
		assert.Equal(t, "missed", set.Slide.Name)
		assert.Equal(t, start.Add(76*time.Hour), set.Readings[0].Timestamp)
	})

	t.Run("stats accounting", func(t *testing.T) {
		assert.Equal(t, 1, stats.NotificationsIssued)
		assert.Equal(t, 1, stats.AssociatedNotifications)
		assert.Equal(t, 0, stats.UnassociatedNotifications)
		require.Len(t, stats.RelevantSlides, 1)
		assert.Equal(t, "caught", stats.RelevantSlides[0].Name)
		require.Len(t, stats.UnassociatedSlides, 1)
		assert.Equal(t, "missed", stats.UnassociatedSlides[0].Name)
		assert.Equal(t, 2*time.Hour, stats.NotificationTimes["caught"])
		assert.Equal(t, start, stats.EarliestReading.Timestamp)
		assert.Equal(t, start.Add(119*time.Hour), stats.LatestReading.Timestamp)
	})
}

func TestExtractReadingSetsFalsePositive(t *testing.T) {
	start := time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC)
	heights := make([]float64, 72)
	for i := range heights {
		heights[i] = 20
	}
	heights[30] = 21
	heights[31] = 22
	for i := 32; i < 72; i++ {
		heights[i] = 23
	}

	stats := NewRunStats()
	sets := ExtractReadingSets(hourlySeries(start, heights...), nil, DefaultThresholds(), stats)

	require.Len(t, sets, 1)
	assert.Nil(t, sets[0].Slide)
	assert.Equal(t, 1, stats.NotificationsIssued)
	assert.Equal(t, 0, stats.AssociatedNotifications)
	assert.Equal(t, 1, stats.UnassociatedNotifications)
	require.Len(t, stats.UnassociatedNotificationPoints, 1)
	assert.Equal(t, start.Add(32*time.Hour), stats.UnassociatedNotificationPoints[0].Timestamp)
}

func TestExtractReadingSetsEmpty(t *testing.T) {
	stats := NewRunStats()
	assert.Nil(t, ExtractReadingSets(nil, nil, DefaultThresholds(), stats))
	assert.Equal(t, 0, stats.NotificationsIssued)
}

func TestReadingSetLabel(t *testing.T) {
	// 2015-08-18 15:41 UTC is 07:41 AKDT.
	ts := time.Date(2015, 8, 18, 15, 41, 0, 0, time.UTC)

	t.Run("anchored on first critical point", func(t *testing.T) {
		set := ReadingSet{CriticalPoints: []Reading{{Timestamp: ts}}}
		assert.Equal(t, "20150818-0741", set.Label())
	})

	t.Run("falls back to slide time", func(t *testing.T) {
		set := ReadingSet{Slide: &SlideEvent{Time: ts}}
		assert.Equal(t, "20150818-0741", set.Label())
	})

	t.Run("empty set", func(t *testing.T) {
		assert.Equal(t, "empty", ReadingSet{}.Label())
	})
}
