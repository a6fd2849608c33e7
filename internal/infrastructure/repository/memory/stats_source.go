package memory

import (
	"context"
	"sync"
)

// StatsSource answers minutes-played lookups from a fixed table, keyed by
// gameweek then player. Players missing from the table played zero minutes.
type StatsSource struct {
	mu      sync.RWMutex
	minutes map[int]map[string]int
	err     error
	lookups int
}

func NewStatsSource(minutesByWeek map[int]map[string]int) *StatsSource {
	if minutesByWeek == nil {
		minutesByWeek = make(map[int]map[string]int)
	}
	return &StatsSource{minutes: minutesByWeek}
}

func (s *StatsSource) MinutesPlayed(_ context.Context, playerID string, gameweek int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	if s.err != nil {
		return 0, s.err
	}
	return s.minutes[gameweek][playerID], nil
}

// SetMinutes overrides one player's minutes for a gameweek.
func (s *StatsSource) SetMinutes(gameweek int, playerID string, minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.minutes[gameweek] == nil {
		s.minutes[gameweek] = make(map[string]int)
	}
	s.minutes[gameweek][playerID] = minutes
}

// FailFor makes lookups fail for every player. Test hook.
func (s *StatsSource) FailFor(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *StatsSource) Lookups() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookups
}
