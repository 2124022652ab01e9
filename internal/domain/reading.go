package domain

import (
	"fmt"
	"time"

	// Bundle zone data so America/Anchorage resolves on hosts without a
	// system tzdata install.
	_ "time/tzdata"
)

// Alaska is the zone the gauge lives in. Local-time formats and all
// user-facing output resolve against it.
var Alaska = mustLoadAlaska()

func mustLoadAlaska() *time.Location {
	loc, err := time.LoadLocation("America/Anchorage")
	if err != nil {
		panic(fmt.Sprintf("load America/Anchorage: %v", err))
	}
	return loc
}

// Reading is a single gauge measurement. Timestamp is always UTC.
type Reading struct {
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
	Height    float64   `json:"height" msgpack:"height"`

	// Interpolated marks points synthesized by resampling rather than
	// measured by the gauge.
	Interpolated bool `json:"interpolated,omitempty" msgpack:"interpolated"`
}

// Rise returns the height gained since earlier, in feet. Negative when the
// river fell.
func (r Reading) Rise(earlier Reading) float64 {
	return r.Height - earlier.Height
}

// Slope returns the absolute rate of change against earlier, in ft/hr.
// Returns 0 when the two readings share a timestamp.
func (r Reading) Slope(earlier Reading) float64 {
	hours := r.Timestamp.Sub(earlier.Timestamp).Hours()
	if hours == 0 {
		return 0
	}
	slope := (r.Height - earlier.Height) / hours
	if slope < 0 {
		return -slope
	}
	return slope
}

// String renders the reading in gauge-local time, matching the format used
// in plots and summaries.
func (r Reading) String() string {
	return fmt.Sprintf("%s - %.2f",
		r.Timestamp.In(Alaska).Format("01/02/2006 15:04:05"), r.Height)
}

// ReadingRate returns readings per hour, derived from the gap between the
// first two readings. Historical files are hourly (1) or 15-minute (4).
// Returns 0 for series too short to have a rate.
func ReadingRate(readings []Reading) int {
	if len(readings) < 2 {
		return 0
	}
	gap := readings[1].Timestamp.Sub(readings[0].Timestamp)
	if gap <= 0 {
		return 0
	}
	return int(time.Hour / gap)
}

// RecentReadings returns the readings from the trailing window of the series.
func RecentReadings(readings []Reading, window time.Duration) []Reading {
	if len(readings) == 0 {
		return nil
	}
	cutoff := readings[len(readings)-1].Timestamp.Add(-window)
	for i, r := range readings {
		if !r.Timestamp.Before(cutoff) {
			return readings[i:]
		}
	}
	return nil
}
