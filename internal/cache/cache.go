// Package cache persists extracted reading sets between runs, so plotting
// and report passes can skip re-parsing the raw gauge files.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ehmatthes/sitka-irg-analysis/internal/domain"
)

// envelope is the on-disk layout. Slide associations are stored by name and
// re-linked against the known-slides list on load.
type envelope struct {
	SavedAt time.Time        `msgpack:"saved_at"`
	Sets    []cachedSet      `msgpack:"sets"`
	Stats   *domain.RunStats `msgpack:"stats,omitempty"`
}

type cachedSet struct {
	Set       domain.ReadingSet `msgpack:"set"`
	SlideName string            `msgpack:"slide_name,omitempty"`
}

// SaveRun writes the sets and run accounting to path, creating parent
// directories as needed. The write goes through a temp file so a crash never
// leaves a truncated cache behind.
func SaveRun(path string, sets []domain.ReadingSet, stats *domain.RunStats) error {
	env := envelope{SavedAt: time.Now().UTC(), Sets: make([]cachedSet, len(sets)), Stats: stats}
	for i, s := range sets {
		env.Sets[i] = cachedSet{Set: s}
		if s.Slide != nil {
			env.Sets[i].SlideName = s.Slide.Name
		}
	}

	data, err := msgpack.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode reading sets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// LoadRun reads sets and stats back from path and re-links slide
// associations against the given known-slides list. A stored slide name with
// no match in the list is an error; the cache is stale relative to the slide
// data.
func LoadRun(path string, slides []domain.SlideEvent) ([]domain.ReadingSet, *domain.RunStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read cache: %w", err)
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("decode cache %s: %w", path, err)
	}

	byName := make(map[string]*domain.SlideEvent, len(slides))
	for i := range slides {
		byName[slides[i].Name] = &slides[i]
	}

	sets := make([]domain.ReadingSet, len(env.Sets))
	for i, cs := range env.Sets {
		sets[i] = cs.Set
		if cs.SlideName == "" {
			continue
		}
		slide, ok := byName[cs.SlideName]
		if !ok {
			return nil, nil, fmt.Errorf("cache %s names unknown slide %q", path, cs.SlideName)
		}
		sets[i].Slide = slide
	}

	stats := env.Stats
	if stats == nil {
		stats = domain.NewRunStats()
	}
	if stats.NotificationTimes == nil {
		stats.NotificationTimes = map[string]time.Duration{}
	}
	return sets, stats, nil
}
