package roster

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
)

// Slot is one player's placement within a roster. Points and Multiplier are
// the only fields settlement mutates.
type Slot struct {
	PlayerID      string
	TeamID        string
	Position      player.Position
	Price         float64
	IsStarter     bool
	IsCaptain     bool
	IsViceCaptain bool
	Multiplier    int
	Points        int
}

// Roster is a user's submitted squad for one gameweek in one room.
type Roster struct {
	ID             string
	UserID         string
	RoomID         string
	Gameweek       int
	Formation      string
	TotalCost      float64
	GameweekPoints int
	TotalPoints    int
	Submitted      bool
	Slots          []Slot
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r Roster) ValidateBasic() error {
	if r.ID == "" {
		return fmt.Errorf("roster id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if r.RoomID == "" {
		return fmt.Errorf("room id is required")
	}
	if r.Gameweek <= 0 {
		return fmt.Errorf("gameweek must be greater than zero")
	}
	if len(r.Slots) == 0 {
		return fmt.Errorf("roster slots are required")
	}

	captains := 0
	vices := 0
	for _, slot := range r.Slots {
		if slot.IsCaptain {
			captains++
			if !slot.IsStarter {
				return fmt.Errorf("captain %s must be a starter", slot.PlayerID)
			}
		}
		if slot.IsViceCaptain {
			vices++
			if !slot.IsStarter {
				return fmt.Errorf("vice-captain %s must be a starter", slot.PlayerID)
			}
		}
		if slot.IsCaptain && slot.IsViceCaptain {
			return fmt.Errorf("player %s cannot be captain and vice-captain", slot.PlayerID)
		}
	}
	if captains != 1 {
		return fmt.Errorf("roster must have exactly one captain, got %d", captains)
	}
	if vices > 1 {
		return fmt.Errorf("roster may have at most one vice-captain, got %d", vices)
	}

	return nil
}

// CaptainSlot returns the designated captain, if one is set.
func (r Roster) CaptainSlot() (Slot, bool) {
	for _, slot := range r.Slots {
		if slot.IsCaptain {
			return slot, true
		}
	}
	return Slot{}, false
}
