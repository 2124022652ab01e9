package domain

import "time"

// Condition classifies the current state of the gauge.
type Condition string

const (
	ConditionCritical Condition = "critical" // thresholds exceeded now
	ConditionRising   Condition = "rising"   // above half the critical rise in the lookback
	ConditionNormal   Condition = "normal"
	ConditionStale    Condition = "stale" // latest reading too old to assess
)

// staleAfter is how old the newest reading can be before an assessment is
// meaningless. The gauge reports every 15 minutes; two missed hours means
// the feed is down.
const staleAfter = 2 * time.Hour

// Assessment summarizes current conditions against the thresholds.
type Assessment struct {
	Condition      Condition     `json:"condition"`
	Latest         Reading       `json:"latest"`
	Age            time.Duration `json:"age"`
	Rise           float64       `json:"rise"`  // max rise over the lookback, feet
	Slope          float64       `json:"slope"` // slope at the max rise, ft/hr
	CriticalPoints []Reading     `json:"critical_points,omitempty"`
}

// AssessCurrent evaluates the trailing readings against the thresholds,
// reporting the worst rise observed in the lookback window and whether the
// gauge is critical right now.
func AssessCurrent(readings []Reading, t Thresholds) Assessment {
	if len(readings) == 0 {
		return Assessment{Condition: ConditionStale}
	}

	latest := readings[len(readings)-1]
	a := Assessment{Latest: latest, Age: clock.Since(latest.Timestamp)}
	if a.Age > staleAfter {
		a.Condition = ConditionStale
		return a
	}

	rate := ReadingRate(readings)
	if rate > 0 {
		lookback := t.LookbackReadings(rate)
		start := len(readings) - 1 - lookback
		if start < 0 {
			start = 0
		}
		for _, earlier := range readings[start : len(readings)-1] {
			if rise := latest.Rise(earlier); rise > a.Rise {
				a.Rise = rise
				a.Slope = latest.Slope(earlier)
			}
		}
	}
	a.CriticalPoints = CriticalPoints(readings, t)

	switch {
	case a.Rise >= t.RiseCritical && a.Slope > t.SlopeCritical:
		a.Condition = ConditionCritical
	case a.Rise >= t.RiseCritical/2:
		a.Condition = ConditionRising
	default:
		a.Condition = ConditionNormal
	}
	return a
}
