package gaugefile

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// weeklyHeaderLines is the title block at the top of an NWS weekly dump;
// data starts on line 6.
const weeklyHeaderLines = 5

// naiveStamp is a wall-clock time with no zone attached yet.
type naiveStamp struct {
	year, month, day, hour, minute int
	height                         float64
	lineNo                         int
}

// ParseWeekly reads the NWS weekly dump: "MM/DD HH:MM height" rows in
// reverse chronological order, with the year and zone supplied by the
// station manifest.
//
//	10/06 14:15     22.19ft
//
// Zone "utc" rows map straight to UTC. Zone "alaska" rows are bare local
// wall-clock times and are resolved against America/Anchorage; see
// resolveAlaska for the DST rules.
func ParseWeekly(r io.Reader, name string, year int, zone string) ([]domain.Reading, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(lines) <= weeklyHeaderLines {
		return nil, fmt.Errorf("%s: missing weekly header", name)
	}

	var stamps []naiveStamp
	for i, line := range lines[weeklyHeaderLines:] {
		lineNo := i + weeklyHeaderLines + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		stamp, err := parseWeeklyLine(line, year, lineNo)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		stamps = append(stamps, stamp)
	}

	// File is newest-first; flip to chronological before zone resolution so
	// fall-back ambiguity can be settled by ordering.
	for i, j := 0, len(stamps)-1; i < j; i, j = i+1, j-1 {
		stamps[i], stamps[j] = stamps[j], stamps[i]
	}

	// A late-December file can roll into January; the manifest year names
	// the year the file starts in.
	for i := 1; i < len(stamps); i++ {
		if stamps[i].month < stamps[i-1].month {
			stamps[i].year = stamps[i-1].year + 1
		} else {
			stamps[i].year = stamps[i-1].year
		}
	}

	var readings []domain.Reading
	var prev time.Time
	for _, s := range stamps {
		var ts time.Time
		switch zone {
		case config.ZoneUTC:
			ts = time.Date(s.year, time.Month(s.month), s.day, s.hour, s.minute, 0, 0, time.UTC)
		case config.ZoneAlaska:
			ts, err = resolveAlaska(s, prev)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, s.lineNo, err)
			}
		default:
			return nil, fmt.Errorf("unknown zone %q", zone)
		}
		readings = append(readings, domain.Reading{Timestamp: ts, Height: s.height})
		prev = ts
	}

	if err := checkOrder(readings, name); err != nil {
		return nil, err
	}
	return readings, nil
}

func parseWeeklyLine(line string, year, lineNo int) (naiveStamp, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return naiveStamp{}, fmt.Errorf("want 3 fields, have %d", len(fields))
	}

	date, clock := fields[0], fields[1]
	if len(date) != 5 || date[2] != '/' || len(clock) != 5 || clock[2] != ':' {
		return naiveStamp{}, fmt.Errorf("malformed timestamp %q %q", date, clock)
	}
	month, err1 := strconv.Atoi(date[:2])
	day, err2 := strconv.Atoi(date[3:])
	hour, err3 := strconv.Atoi(clock[:2])
	minute, err4 := strconv.Atoi(clock[3:])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return naiveStamp{}, fmt.Errorf("malformed timestamp %q %q", date, clock)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return naiveStamp{}, fmt.Errorf("timestamp out of range %q %q", date, clock)
	}

	height, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "ft"), 64)
	if err != nil {
		return naiveStamp{}, fmt.Errorf("parse height %q: %w", fields[2], err)
	}

	return naiveStamp{year: year, month: month, day: day, hour: hour, minute: minute, height: height, lineNo: lineNo}, nil
}

// resolveAlaska maps a bare Alaska wall-clock time to UTC. A candidate UTC
// instant is valid when its Alaska representation reads back as the same
// wall clock. During fall-back both the AKDT and AKST candidates are valid:
// the first pass through the repeated hour belongs to AKDT, so the earlier
// candidate wins unless the series already moved past it. A wall clock with
// no valid candidate sits in the spring-forward gap and is rejected.
func resolveAlaska(s naiveStamp, prev time.Time) (time.Time, error) {
	var candidates []time.Time
	for _, offset := range []time.Duration{8 * time.Hour, 9 * time.Hour} {
		utc := time.Date(s.year, time.Month(s.month), s.day, s.hour, s.minute, 0, 0, time.UTC).Add(offset)
		local := utc.In(domain.Alaska)
		if local.Year() == s.year && int(local.Month()) == s.month && local.Day() == s.day &&
			local.Hour() == s.hour && local.Minute() == s.minute {
			candidates = append(candidates, utc)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 2:
		if !prev.IsZero() && !candidates[0].After(prev) {
			return candidates[1], nil
		}
		return candidates[0], nil
	default:
		return time.Time{}, fmt.Errorf("local time %04d-%02d-%02d %02d:%02d does not exist in America/Anchorage",
			s.year, s.month, s.day, s.hour, s.minute)
	}
}
