// Package cache keeps computed daily series for a bounded time so repeated
// dashboard queries on the same day do not rebucket the whole snapshot.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ifore/models"
)

// SeriesCache stores daily series by key. A miss is (nil, false, nil).
type SeriesCache interface {
	Get(ctx context.Context, key string) ([]models.Point, bool, error)
	Set(ctx context.Context, key string, points []models.Point) error
}

// Key builds a series key from the aggregated field, the category filter and
// the day the series ends on. Category order and duplicates do not matter.
func Key(field string, categories []string, day time.Time) string {
	names := make([]string, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		names = append(names, c)
	}
	sort.Strings(names)
	return field + ":" + strings.Join(names, ",") + ":" + day.Format("2006-01-02")
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.Point, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []models.Point) error        { return nil }

type memoryEntry struct {
	points  []models.Point
	expires time.Time
}

// Memory is an in-process SeriesCache with a fixed TTL.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]models.Point, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]models.Point(nil), e.points...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, points []models.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		points:  append([]models.Point(nil), points...),
		expires: m.now().Add(m.ttl),
	}
	return nil
}
