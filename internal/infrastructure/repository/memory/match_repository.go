package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
)

// MatchRepository serves finished matches and their events from memory. It
// backs dev mode and tests, and doubles as the event source in both.
type MatchRepository struct {
	mu              sync.RWMutex
	matchesByWeek   map[int][]match.Match
	eventsByMatch   map[string][]match.Event
	eventsErr       error
	matchListErr    error
	listByWeekCalls int
	listEventsCalls int
}

func NewMatchRepository(matches []match.Match, events []match.Event) *MatchRepository {
	matchesByWeek := make(map[int][]match.Match)
	for _, item := range matches {
		matchesByWeek[item.Gameweek] = append(matchesByWeek[item.Gameweek], item)
	}

	eventsByMatch := make(map[string][]match.Event)
	for _, event := range events {
		eventsByMatch[event.MatchID] = append(eventsByMatch[event.MatchID], event)
	}

	return &MatchRepository{
		matchesByWeek: matchesByWeek,
		eventsByMatch: eventsByMatch,
	}
}

func (r *MatchRepository) ListFinishedByGameweek(_ context.Context, gameweek int) ([]match.Match, error) {
	r.mu.Lock()
	r.listByWeekCalls++
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.matchListErr != nil {
		return nil, r.matchListErr
	}

	out := make([]match.Match, 0)
	for _, item := range r.matchesByWeek[gameweek] {
		if item.Finished {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *MatchRepository) ListByPlayerAndMatches(_ context.Context, playerID string, matchIDs []string) ([]match.Event, error) {
	r.mu.Lock()
	r.listEventsCalls++
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.eventsErr != nil {
		return nil, r.eventsErr
	}

	out := make([]match.Event, 0)
	for _, matchID := range matchIDs {
		for _, event := range r.eventsByMatch[matchID] {
			if event.PlayerID == playerID {
				out = append(out, event)
			}
		}
	}
	return out, nil
}

// FailEvents makes subsequent event lookups return err. Test hook.
func (r *MatchRepository) FailEvents(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventsErr = err
}

// FailMatchList makes subsequent match listings return err. Test hook.
func (r *MatchRepository) FailMatchList(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matchListErr = err
}

func (r *MatchRepository) EventLookups() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listEventsCalls
}
