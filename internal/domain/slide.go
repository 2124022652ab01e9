package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// slideTimeLayout matches the dt_slide strings in known_slides.json,
// e.g. "2015-08-18 17:41:00+00:00".
const slideTimeLayout = "2006-01-02 15:04:05-07:00"

// SlideEvent is a manually curated record of a documented landslide.
// Times are UTC; fatalities and power outage are nil when unknown.
type SlideEvent struct {
	Name        string
	Time        time.Time
	Location    string
	Fatalities  *int
	PowerOutage *bool
	URLs        []string
}

type slideEventJSON struct {
	Name        string   `json:"name"`
	Time        string   `json:"dt_slide"`
	Location    string   `json:"desc_location"`
	Fatalities  *int     `json:"fatalities"`
	PowerOutage *bool    `json:"power_outage"`
	URLs        []string `json:"urls"`
}

// MarshalJSON writes the slide in the known_slides.json layout.
func (s SlideEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(slideEventJSON{
		Name:        s.Name,
		Time:        s.Time.UTC().Format("2006-01-02 15:04:05") + "+00:00",
		Location:    s.Location,
		Fatalities:  s.Fatalities,
		PowerOutage: s.PowerOutage,
		URLs:        s.URLs,
	})
}

// UnmarshalJSON reads the known_slides.json layout, accepting dt_slide with
// or without an explicit offset.
func (s *SlideEvent) UnmarshalJSON(data []byte) error {
	var raw slideEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse slide event: %w", err)
	}

	t, err := time.Parse(slideTimeLayout, raw.Time)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02 15:04:05", raw.Time, time.UTC)
		if err != nil {
			return fmt.Errorf("parse slide time %q: %w", raw.Time, err)
		}
	}

	s.Name = raw.Name
	s.Time = t.UTC()
	s.Location = raw.Location
	s.Fatalities = raw.Fatalities
	s.PowerOutage = raw.PowerOutage
	s.URLs = raw.URLs
	return nil
}

func (s SlideEvent) String() string { return s.Name }

// LoadSlides reads the curated known-slides file.
func LoadSlides(path string) ([]SlideEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read known slides: %w", err)
	}
	var slides []SlideEvent
	if err := json.Unmarshal(data, &slides); err != nil {
		return nil, fmt.Errorf("parse known slides %s: %w", path, err)
	}
	return slides, nil
}

// RelevantSlide returns the first known slide that occurred during the span
// of readings, or nil when none did.
func RelevantSlide(readings []Reading, slides []SlideEvent) *SlideEvent {
	if len(readings) == 0 {
		return nil
	}
	first := readings[0].Timestamp
	last := readings[len(readings)-1].Timestamp
	for i := range slides {
		if !slides[i].Time.Before(first) && !slides[i].Time.After(last) {
			return &slides[i]
		}
	}
	return nil
}
