package store

import (
	"errors"
	"sync"
	"time"

	"github.com/climateiq/climate-aggregator/internal/climate"
)

var (
	// ErrNotFound is returned when no snapshot is cached for a given year.
	ErrNotFound = errors.New("no overview snapshot for year")
)

// overviewHistory holds a time-ordered list of overview snapshots for a year.
type overviewHistory struct {
	snapshots []climate.GlobalOverview
}

// MemoryStore is a concurrency-safe in-memory cache of global overview
// snapshots, keyed by query year. It does not survive process restarts.
type MemoryStore struct {
	mu sync.RWMutex

	data map[int]*overviewHistory

	// retention configuration
	maxHistory int           // max number of snapshots per year
	maxAge     time.Duration // max age of snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[int]*overviewHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveOverview appends a snapshot for a year and enforces retention.
func (s *MemoryStore) SaveOverview(year int, overview climate.GlobalOverview) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[year]
	if !ok {
		history = &overviewHistory{}
		s.data[year] = history
	}

	history.snapshots = append(history.snapshots, overview)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age. The newest snapshot is always kept so a
	// stalled refresher still has something to serve.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots)-1; i++ {
			if !history.snapshots[i].LastUpdated.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// LatestOverview returns the most recent snapshot for a year.
func (s *MemoryStore) LatestOverview(year int) (climate.GlobalOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[year]
	if !ok || len(history.snapshots) == 0 {
		return climate.GlobalOverview{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}

// OverviewRange returns all snapshots for a year between from and to (inclusive).
func (s *MemoryStore) OverviewRange(year int, from, to time.Time) ([]climate.GlobalOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[year]
	if !ok || len(history.snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []climate.GlobalOverview
	for _, snap := range history.snapshots {
		if !snap.LastUpdated.Before(from) && !snap.LastUpdated.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
