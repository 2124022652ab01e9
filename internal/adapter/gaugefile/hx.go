package gaugefile

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// hxHeaderLines is the metadata block at the top of a historical export;
// data starts on line 5.
const hxHeaderLines = 4

// ParseHx reads the historical export format: comma-separated rows of
// "datetime,type-source,stage" in UTC, chronological order.
//
//	2014-07-14 23:00:00,RZ,21.21
//
// Some exports open with an all-zero placeholder row, which is skipped.
func ParseHx(r io.Reader, name string) ([]domain.Reading, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(lines) <= hxHeaderLines {
		return nil, fmt.Errorf("%s: missing hx header", name)
	}

	var readings []domain.Reading
	for i, line := range lines[hxHeaderLines:] {
		lineNo := i + hxHeaderLines + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: want 3 fields, have %d", name, lineNo, len(fields))
		}
		if strings.HasPrefix(fields[0], "0000-00-00") {
			continue
		}

		ts, err := time.Parse("2006-01-02 15:04:05", fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: parse timestamp: %w", name, lineNo, err)
		}
		height, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: parse height: %w", name, lineNo, err)
		}

		readings = append(readings, domain.Reading{Timestamp: ts.UTC(), Height: height})
	}

	if err := checkOrder(readings, name); err != nil {
		return nil, err
	}
	return readings, nil
}
