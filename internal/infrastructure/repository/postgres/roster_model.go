package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
)

type rosterTableModel struct {
	ID             string     `db:"public_id"`
	UserID         string     `db:"user_id"`
	RoomID         string     `db:"room_public_id"`
	Gameweek       int        `db:"gameweek"`
	Formation      string     `db:"formation"`
	TotalCost      float64    `db:"total_cost"`
	GameweekPoints int        `db:"gameweek_points"`
	TotalPoints    int        `db:"total_points"`
	Submitted      bool       `db:"submitted"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type rosterSlotTableModel struct {
	RosterID      string  `db:"roster_public_id"`
	PlayerID      string  `db:"player_public_id"`
	TeamID        string  `db:"team_public_id"`
	Position      string  `db:"position"`
	Price         float64 `db:"price"`
	IsStarter     bool    `db:"is_starter"`
	IsCaptain     bool    `db:"is_captain"`
	IsViceCaptain bool    `db:"is_vice_captain"`
	Multiplier    int     `db:"multiplier"`
	Points        int     `db:"points"`
}

func rosterFromRow(row rosterTableModel, slotRows []rosterSlotTableModel) roster.Roster {
	slots := make([]roster.Slot, 0, len(slotRows))
	for _, slot := range slotRows {
		slots = append(slots, roster.Slot{
			PlayerID:      slot.PlayerID,
			TeamID:        slot.TeamID,
			Position:      player.Position(slot.Position),
			Price:         slot.Price,
			IsStarter:     slot.IsStarter,
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
			Multiplier:    slot.Multiplier,
			Points:        slot.Points,
		})
	}

	return roster.Roster{
		ID:             row.ID,
		UserID:         row.UserID,
		RoomID:         row.RoomID,
		Gameweek:       row.Gameweek,
		Formation:      row.Formation,
		TotalCost:      row.TotalCost,
		GameweekPoints: row.GameweekPoints,
		TotalPoints:    row.TotalPoints,
		Submitted:      row.Submitted,
		Slots:          slots,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
