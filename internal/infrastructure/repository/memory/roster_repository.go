package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
)

// RosterRepository keeps rosters in memory with the same compare-and-set
// semantics the postgres repository enforces, so settlement behaves the same
// in dev mode and in tests. Write counters let tests assert idempotence.
type RosterRepository struct {
	mu        sync.RWMutex
	rosters   map[string]*roster.Roster
	slotWrite int
	weekWrite int
	writeErr  error
}

func NewRosterRepository(rosters []roster.Roster) *RosterRepository {
	index := make(map[string]*roster.Roster, len(rosters))
	for i := range rosters {
		item := rosters[i]
		index[item.ID] = &item
	}
	return &RosterRepository{rosters: index}
}

func (r *RosterRepository) ListSubmittedByGameweek(_ context.Context, gameweek int, roomID string) ([]roster.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Roster, 0, len(r.rosters))
	for _, item := range r.rosters {
		if !item.Submitted || item.Gameweek != gameweek {
			continue
		}
		if roomID != "" && item.RoomID != roomID {
			continue
		}
		out = append(out, cloneRoster(*item))
	}
	return out, nil
}

func (r *RosterRepository) UpdateSlotPoints(_ context.Context, rosterID, playerID string, points, multiplier int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writeErr != nil {
		return r.writeErr
	}

	item, ok := r.rosters[rosterID]
	if !ok {
		return fmt.Errorf("roster %s not found", rosterID)
	}
	for i := range item.Slots {
		if item.Slots[i].PlayerID != playerID {
			continue
		}
		item.Slots[i].Points = points
		item.Slots[i].Multiplier = multiplier
		r.slotWrite++
		return nil
	}
	return fmt.Errorf("player %s not in roster %s", playerID, rosterID)
}

func (r *RosterRepository) ApplyGameweekPoints(_ context.Context, rosterID string, gameweek, prevPoints, newPoints int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writeErr != nil {
		return r.writeErr
	}

	item, ok := r.rosters[rosterID]
	if !ok {
		return fmt.Errorf("roster %s not found", rosterID)
	}
	if item.GameweekPoints != prevPoints {
		return roster.ErrStaleTotals
	}

	item.TotalPoints = item.TotalPoints - prevPoints + newPoints
	item.GameweekPoints = newPoints
	r.weekWrite++
	return nil
}

// Get returns a copy of the stored roster, for assertions.
func (r *RosterRepository) Get(rosterID string) (roster.Roster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rosters[rosterID]
	if !ok {
		return roster.Roster{}, false
	}
	return cloneRoster(*item), true
}

// FailWrites makes every subsequent write return err. Test hook.
func (r *RosterRepository) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeErr = err
}

func (r *RosterRepository) SlotWrites() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slotWrite
}

func (r *RosterRepository) GameweekWrites() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weekWrite
}

func cloneRoster(item roster.Roster) roster.Roster {
	slots := make([]roster.Slot, len(item.Slots))
	copy(slots, item.Slots)
	item.Slots = slots
	return item
}
