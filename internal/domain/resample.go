package domain

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/interp"
)

// Resample aligns a series to a fixed interval by piecewise-linear
// interpolation. Grid points that coincide with a measured reading keep the
// measured value; synthesized points are flagged Interpolated. Readings must
// be in chronological order; duplicate timestamps collapse to the first
// occurrence.
func Resample(readings []Reading, interval time.Duration) ([]Reading, error) {
	if interval <= 0 {
		return nil, errors.New("resample interval must be positive")
	}
	if len(readings) < 2 {
		return nil, fmt.Errorf("resample needs at least 2 readings, have %d", len(readings))
	}

	xs := make([]float64, 0, len(readings))
	ys := make([]float64, 0, len(readings))
	measured := make(map[int64]float64, len(readings))
	var prev time.Time
	for i, r := range readings {
		if i > 0 {
			if r.Timestamp.Before(prev) {
				return nil, fmt.Errorf("readings out of order at %s", r.Timestamp.UTC())
			}
			if r.Timestamp.Equal(prev) {
				continue
			}
		}
		xs = append(xs, float64(r.Timestamp.Unix()))
		ys = append(ys, r.Height)
		measured[r.Timestamp.Unix()] = r.Height
		prev = r.Timestamp
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fit height series: %w", err)
	}

	start := readings[0].Timestamp.Truncate(interval)
	if start.Before(readings[0].Timestamp) {
		start = start.Add(interval)
	}
	last := readings[len(readings)-1].Timestamp

	var out []Reading
	for t := start; !t.After(last); t = t.Add(interval) {
		if h, ok := measured[t.Unix()]; ok {
			out = append(out, Reading{Timestamp: t, Height: h})
			continue
		}
		out = append(out, Reading{
			Timestamp:    t,
			Height:       pl.Predict(float64(t.Unix())),
			Interpolated: true,
		})
	}
	return out, nil
}
