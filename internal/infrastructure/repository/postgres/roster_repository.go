package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	qb "github.com/riskibarqy/fantasy-rooms/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func rosterBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"public_id",
		"user_id",
		"room_public_id",
		"gameweek",
		"formation",
		"total_cost",
		"gameweek_points",
		"total_points",
		"submitted",
		"created_at",
		"updated_at",
		"deleted_at",
	).From("rosters")
}

func (r *RosterRepository) ListSubmittedByGameweek(ctx context.Context, gameweek int, roomID string) ([]roster.Roster, error) {
	conditions := []qb.Condition{
		qb.Eq("gameweek", gameweek),
		qb.Eq("submitted", true),
		qb.IsNull("deleted_at"),
	}
	if roomID != "" {
		conditions = append(conditions, qb.Eq("room_public_id", roomID))
	}

	query, args, err := rosterBaseSelectBuilder().
		Where(conditions...).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list submitted rosters query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list submitted rosters: %w", err)
	}
	if len(rows) == 0 {
		return []roster.Roster{}, nil
	}

	slotsByRoster, err := r.listSlots(ctx, rows)
	if err != nil {
		return nil, err
	}

	out := make([]roster.Roster, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterFromRow(row, slotsByRoster[row.ID]))
	}
	return out, nil
}

func (r *RosterRepository) listSlots(ctx context.Context, rosters []rosterTableModel) (map[string][]rosterSlotTableModel, error) {
	ids := make([]any, 0, len(rosters))
	for _, row := range rosters {
		ids = append(ids, row.ID)
	}

	query, args, err := qb.Select(
		"roster_public_id",
		"player_public_id",
		"team_public_id",
		"position",
		"price",
		"is_starter",
		"is_captain",
		"is_vice_captain",
		"multiplier",
		"points",
	).
		From("roster_slots").
		Where(qb.In("roster_public_id", ids)).
		OrderBy("roster_public_id", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster slots query: %w", err)
	}

	var rows []rosterSlotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster slots: %w", err)
	}

	out := make(map[string][]rosterSlotTableModel, len(rosters))
	for _, row := range rows {
		out[row.RosterID] = append(out[row.RosterID], row)
	}
	return out, nil
}

func (r *RosterRepository) GetByID(ctx context.Context, rosterID string) (roster.Roster, bool, error) {
	query, args, err := rosterBaseSelectBuilder().
		Where(
			qb.Eq("public_id", rosterID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster: %w", err)
	}

	slotsByRoster, err := r.listSlots(ctx, []rosterTableModel{row})
	if err != nil {
		return roster.Roster{}, false, err
	}
	return rosterFromRow(row, slotsByRoster[row.ID]), true, nil
}

func (r *RosterRepository) UpdateSlotPoints(ctx context.Context, rosterID, playerID string, points, multiplier int) error {
	query, args, err := qb.Update("roster_slots").
		Set("points", points).
		Set("multiplier", multiplier).
		Where(
			qb.Eq("roster_public_id", rosterID),
			qb.Eq("player_public_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update slot points query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update slot points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slot points rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("slot roster=%s player=%s not found", rosterID, playerID)
	}
	return nil
}

// ApplyGameweekPoints folds the gameweek delta into the running total in one
// statement. The gameweek_points guard makes the write compare-and-set: if
// another writer moved the totals since this batch read them, zero rows match
// and the caller gets ErrStaleTotals instead of a silently corrupted total.
func (r *RosterRepository) ApplyGameweekPoints(ctx context.Context, rosterID string, gameweek, prevPoints, newPoints int) error {
	query, args, err := applyGameweekPointsBuilder(rosterID, gameweek, prevPoints, newPoints).
		Set("updated_at", time.Now().UTC()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build apply gameweek points query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply gameweek points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply gameweek points rows affected: %w", err)
	}
	if affected == 0 {
		return roster.ErrStaleTotals
	}
	return nil
}

func applyGameweekPointsBuilder(rosterID string, gameweek, prevPoints, newPoints int) *qb.UpdateBuilder {
	return qb.Update("rosters").
		Set("gameweek_points", newPoints).
		SetExpr("total_points", "total_points - ? + ?", prevPoints, newPoints).
		Where(
			qb.Eq("public_id", rosterID),
			qb.Eq("gameweek", gameweek),
			qb.Eq("gameweek_points", prevPoints),
			qb.IsNull("deleted_at"),
		)
}
