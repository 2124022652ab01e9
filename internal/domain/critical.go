package domain

import (
	"math"
	"time"
)

// Default critical thresholds. A 2.5 ft rise at better than 0.5 ft/hr is the
// level at which the 2015 Kramer Avenue slide conditions were reached.
const (
	DefaultRiseCritical  = 2.5 // feet
	DefaultSlopeCritical = 0.5 // feet per hour
	DefaultRefractory    = 6 * time.Hour
)

// Thresholds configures the critical-point scan.
type Thresholds struct {
	RiseCritical  float64       // minimum total rise, feet
	SlopeCritical float64       // minimum rate of rise, ft/hr
	Refractory    time.Duration // gap separating distinct critical periods
}

// DefaultThresholds returns the operating thresholds used for the historical
// analysis.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RiseCritical:  DefaultRiseCritical,
		SlopeCritical: DefaultSlopeCritical,
		Refractory:    DefaultRefractory,
	}
}

// LookbackReadings returns how many readings the scan looks back over: the
// longest a critical rise could take, ceil(rise/slope) hours, at this series'
// reading rate.
func (t Thresholds) LookbackReadings(rate int) int {
	return int(math.Ceil(t.RiseCritical/t.SlopeCritical)) * rate
}

// CriticalPoints returns every reading that exceeds the thresholds against
// some earlier reading in the lookback window. Consecutive critical readings
// all appear, so the result traces the full critical stretch of the
// hydrograph.
func CriticalPoints(readings []Reading, t Thresholds) []Reading {
	rate := ReadingRate(readings)
	if rate == 0 || t.SlopeCritical <= 0 {
		return nil
	}
	lookback := t.LookbackReadings(rate)

	var critical []Reading
	for i := lookback; i < len(readings); i++ {
		r := readings[i]
		for j := i - lookback; j < i; j++ {
			if r.Rise(readings[j]) >= t.RiseCritical && r.Slope(readings[j]) > t.SlopeCritical {
				critical = append(critical, r)
				break
			}
		}
	}
	return critical
}

// CriticalPeriod is a maximal run of critical points separated from its
// neighbors by at least the refractory gap. One period corresponds to one
// notification, issued at Start.
type CriticalPeriod struct {
	Points []Reading
}

// Start returns the first critical point of the period, the moment a
// notification would have been issued.
func (p CriticalPeriod) Start() Reading { return p.Points[0] }

// End returns the last critical point of the period.
func (p CriticalPeriod) End() Reading { return p.Points[len(p.Points)-1] }

// CriticalPeriods groups critical points into periods. Points closer together
// than the refractory gap belong to the same period.
func CriticalPeriods(points []Reading, refractory time.Duration) []CriticalPeriod {
	if len(points) == 0 {
		return nil
	}

	var periods []CriticalPeriod
	current := CriticalPeriod{Points: []Reading{points[0]}}
	for _, pt := range points[1:] {
		if pt.Timestamp.Sub(current.End().Timestamp) >= refractory {
			periods = append(periods, current)
			current = CriticalPeriod{}
		}
		current.Points = append(current.Points, pt)
	}
	return append(periods, current)
}

// NotificationTime returns how long before the slide the first critical point
// fired. Negative when the slide preceded the notification.
func NotificationTime(firstCritical Reading, slide SlideEvent) time.Duration {
	return slide.Time.Sub(firstCritical.Timestamp)
}
