package gaugefile

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// Offsets for the zone labels the archival format uses. Alaska has not
// observed any other zone since the gauge came online.
var archZoneOffsets = map[string]time.Duration{
	"AKST": 9 * time.Hour,
	"AKDT": 8 * time.Hour,
}

// ParseArch reads the USGS archival export: whitespace-separated rows of
// agency, site, local datetime, zone label, and stage, chronological order.
//
//	USGS    15087700    2016-02-09 15:45    AKST    20.86   A   54.0    A
//
// The header block is every line starting with '#' plus the column-name and
// column-width lines that follow it. Each row labels its own zone, so DST
// transitions are unambiguous here.
func ParseArch(r io.Reader, name string) ([]domain.Reading, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var readings []domain.Reading
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		// Column-name and column-width header lines.
		if fields[0] == "agency_cd" || strings.HasSuffix(fields[0], "s") && len(fields[0]) <= 3 {
			continue
		}
		if len(fields) < 6 {
			return nil, fmt.Errorf("%s:%d: want at least 6 fields, have %d", name, lineNo, len(fields))
		}

		local, err := time.Parse("2006-01-02 15:04", fields[2]+" "+fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: parse timestamp: %w", name, lineNo, err)
		}
		offset, ok := archZoneOffsets[fields[4]]
		if !ok {
			return nil, fmt.Errorf("%s:%d: unknown zone %q", name, lineNo, fields[4])
		}
		height, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: parse height: %w", name, lineNo, err)
		}

		readings = append(readings, domain.Reading{
			Timestamp: local.Add(offset).UTC(),
			Height:    height,
		})
	}

	if err := checkOrder(readings, name); err != nil {
		return nil, err
	}
	return readings, nil
}
