// Package domain models Indian River stream-gauge readings and the Sitka
// landslide events they are correlated with.
//
// # Data Source
//
// Height readings come from the USGS/NWS stream gauge on the Indian River
// (site 15087700, NWS identifier IRVA2) near Sitka, Alaska. The historical
// record spans several export formats, sampling intervals (hourly and
// 15-minute), and timezone conventions. The gaugefile adapter parses each
// format into []Reading with timestamps normalized to UTC.
//
// # File Formats
//
// hx format (historical export, UTC, chronological, 4 header lines):
//
//	2014-07-14 23:00:00,RZ,21.21
//
// arch format (USGS archival export, tab-separated, chronological,
// 34 header lines, explicit zone column):
//
//	USGS    15087700    2016-02-09 15:45    AKST    20.86   A   54.0    A
//
// weekly format (NWS weekly dump, reverse chronological, 5 header lines,
// no year and no zone column; both are supplied by the station manifest):
//
//	10/06 14:15     22.19ft
//
// # Timezone Conventions
//
// The hx format is already UTC. The arch format labels every row AKST or
// AKDT. The weekly format carries bare local times, which are resolved
// against America/Anchorage. During the fall-back transition the early
// morning hour repeats: the first pass through the repeated hour is
// attributed to AKDT and the second to AKST, using the file's ordering to
// disambiguate. Spring-forward produces a missing local hour, which is
// rejected as invalid input rather than silently shifted.
//
// # Critical Points
//
// A reading is critical when, against some earlier reading inside the
// lookback window, the total rise is at least RiseCritical (default 2.5 ft)
// and the rate of rise exceeds SlopeCritical (default 0.5 ft/hr). The
// lookback is ceil(RiseCritical/SlopeCritical) hours of readings: any river
// rising faster than that is worth flagging. Consecutive critical readings
// are grouped into critical periods; a new period begins only after a
// six-hour refractory gap, so one storm produces one notification.
//
// # Correlation
//
// Each critical period is captured with 48 hours of surrounding readings.
// A known slide falling inside that window associates the notification
// (a true positive); the notification time is the gap between the first
// critical point and the slide. Critical periods with no slide are false
// positives, and slides with no critical period are false negatives.
package domain
