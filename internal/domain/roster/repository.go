package roster

import (
	"context"
	"errors"
)

// ErrStaleTotals is returned when the guarded aggregate update finds the
// stored gameweek points differ from the value read at batch start.
var ErrStaleTotals = errors.New("roster totals changed since read")

// Repository exposes roster reads and the point writes settlement performs.
// ApplyGameweekPoints must update both aggregates in one guarded statement:
// total_points = total_points - prevPoints + newPoints, applied only while
// gameweek_points still equals prevPoints.
type Repository interface {
	ListSubmittedByGameweek(ctx context.Context, gameweek int, roomID string) ([]Roster, error)
	UpdateSlotPoints(ctx context.Context, rosterID, playerID string, points, multiplier int) error
	ApplyGameweekPoints(ctx context.Context, rosterID string, gameweek, prevPoints, newPoints int) error
}
