package domain

import (
	"time"
)

// ReadingSetWindow is how much of the hydrograph is captured around a
// critical period or slide: 24 hours each side.
const ReadingSetWindow = 24 * time.Hour

// ReadingSet is a 48-hour slice of the record captured around a critical
// period, or around a known slide that no critical period caught.
type ReadingSet struct {
	Readings       []Reading     `json:"readings" msgpack:"readings"`
	CriticalPoints []Reading     `json:"critical_points,omitempty" msgpack:"critical_points"`
	Slide          *SlideEvent   `json:"-" msgpack:"-"`
	Notification   time.Duration `json:"notification,omitempty" msgpack:"notification"`
}

// Label returns a filename-safe identifier anchored on the first critical
// point, falling back to the slide time, then the last reading.
func (s ReadingSet) Label() string {
	switch {
	case len(s.CriticalPoints) > 0:
		return s.CriticalPoints[0].Timestamp.In(Alaska).Format("20060102-1504")
	case s.Slide != nil:
		return s.Slide.Time.In(Alaska).Format("20060102-1504")
	case len(s.Readings) > 0:
		return s.Readings[len(s.Readings)-1].Timestamp.In(Alaska).Format("20060102-1504")
	default:
		return "empty"
	}
}

// ExtractReadingSets runs the critical-point scan over the full record and
// captures a ReadingSet around every critical period, merging periods whose
// windows overlap. Known slides that fall outside every captured window get
// their own set, so missed slides can still be inspected. Notification
// accounting is recorded in stats.
func ExtractReadingSets(readings []Reading, slides []SlideEvent, t Thresholds, stats *RunStats) []ReadingSet {
	if len(readings) == 0 {
		return nil
	}
	stats.ObserveSpan(readings)

	points := CriticalPoints(readings, t)
	periods := CriticalPeriods(points, t.Refractory)
	stats.NotificationsIssued += len(periods)

	sets := buildPeriodSets(readings, periods)

	associated := map[string]bool{}
	for i := range sets {
		sets[i].Slide = RelevantSlide(sets[i].Readings, slides)
	}
	for _, period := range periods {
		set := setContaining(sets, period.Start())
		if set == nil || set.Slide == nil {
			stats.UnassociatedNotifications++
			stats.UnassociatedNotificationPoints = append(stats.UnassociatedNotificationPoints, period.Start())
			continue
		}
		stats.AssociatedNotifications++
		if !associated[set.Slide.Name] {
			associated[set.Slide.Name] = true
			stats.RelevantSlides = append(stats.RelevantSlides, *set.Slide)
			nt := NotificationTime(period.Start(), *set.Slide)
			stats.NotificationTimes[set.Slide.Name] = nt
			set.Notification = nt
		}
	}

	// Slides inside the record but not caught by any critical period.
	first, last := readings[0].Timestamp, readings[len(readings)-1].Timestamp
	for _, slide := range slides {
		if slide.Time.Before(first) || slide.Time.After(last) || associated[slide.Name] {
			continue
		}
		stats.UnassociatedSlides = append(stats.UnassociatedSlides, slide)
		window := sliceWindow(readings, slide.Time.Add(-ReadingSetWindow), slide.Time.Add(ReadingSetWindow))
		if len(window) == 0 {
			continue
		}
		s := slide
		sets = append(sets, ReadingSet{Readings: window, Slide: &s})
	}

	return sets
}

// buildPeriodSets captures merged 48-hour windows around critical periods.
func buildPeriodSets(readings []Reading, periods []CriticalPeriod) []ReadingSet {
	type window struct{ start, end time.Time }

	var windows []window
	for _, p := range periods {
		w := window{
			start: p.Start().Timestamp.Add(-ReadingSetWindow),
			end:   p.Start().Timestamp.Add(ReadingSetWindow),
		}
		if p.End().Timestamp.After(w.end) {
			w.end = p.End().Timestamp
		}
		if n := len(windows); n > 0 && !w.start.After(windows[n-1].end) {
			if w.end.After(windows[n-1].end) {
				windows[n-1].end = w.end
			}
			continue
		}
		windows = append(windows, w)
	}

	sets := make([]ReadingSet, 0, len(windows))
	for _, w := range windows {
		rs := sliceWindow(readings, w.start, w.end)
		if len(rs) == 0 {
			continue
		}
		set := ReadingSet{Readings: rs}
		for _, p := range periods {
			for _, pt := range p.Points {
				if !pt.Timestamp.Before(w.start) && !pt.Timestamp.After(w.end) {
					set.CriticalPoints = append(set.CriticalPoints, pt)
				}
			}
		}
		sets = append(sets, set)
	}
	return sets
}

// setContaining returns the set whose window holds the given reading.
func setContaining(sets []ReadingSet, r Reading) *ReadingSet {
	for i := range sets {
		rs := sets[i].Readings
		if len(rs) == 0 {
			continue
		}
		if !r.Timestamp.Before(rs[0].Timestamp) && !r.Timestamp.After(rs[len(rs)-1].Timestamp) {
			return &sets[i]
		}
	}
	return nil
}

// sliceWindow returns the readings within [start, end].
func sliceWindow(readings []Reading, start, end time.Time) []Reading {
	var out []Reading
	for _, r := range readings {
		if r.Timestamp.Before(start) {
			continue
		}
		if r.Timestamp.After(end) {
			break
		}
		out = append(out, r)
	}
	return out
}
