// Package gaugefile parses the historical Indian River gauge exports into
// readings with UTC timestamps. Three formats exist; see the domain package
// doc for samples and timezone conventions.
package gaugefile

import (
	"fmt"
	"io"
	"os"

	"github.com/ehmatthes/sitka-irg-analysis/internal/config"
	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// Parse reads one configured source file into chronological readings.
func Parse(src config.Source) ([]domain.Reading, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open gauge data: %w", err)
	}
	defer f.Close()

	var readings []domain.Reading
	switch src.Format {
	case config.FormatHx:
		readings, err = ParseHx(f, src.Path)
	case config.FormatArch:
		readings, err = ParseArch(f, src.Path)
	case config.FormatWeekly:
		readings, err = ParseWeekly(f, src.Path, src.Year, src.Zone)
	default:
		return nil, fmt.Errorf("unknown gauge file format %q", src.Format)
	}
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("%s: no readings found", src.Path)
	}
	return readings, nil
}

// checkOrder verifies the parsed series never moves backwards in time.
// Duplicate timestamps are tolerated; the resampler collapses them.
func checkOrder(readings []domain.Reading, name string) error {
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.Before(readings[i-1].Timestamp) {
			return fmt.Errorf("%s: readings out of order at %s", name, readings[i].Timestamp.UTC())
		}
	}
	return nil
}

// readLines splits the whole input into lines, dropping the trailing empty
// line text files usually end with.
func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			line := string(data[start:i])
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines, nil
}
