package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	qb "github.com/riskibarqy/fantasy-rooms/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func matchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"public_id",
		"gameweek",
		"home_team_public_id",
		"away_team_public_id",
		"home_score",
		"away_score",
		"status",
		"finished",
		"minutes_elapsed",
	).From("matches")
}

func (r *MatchRepository) ListFinishedByGameweek(ctx context.Context, gameweek int) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("gameweek", gameweek),
			qb.Eq("finished", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finished matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) ListByPlayerAndMatches(ctx context.Context, playerID string, matchIDs []string) ([]match.Event, error) {
	if len(matchIDs) == 0 {
		return []match.Event{}, nil
	}

	ids := make([]any, 0, len(matchIDs))
	for _, id := range matchIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select(
		"id",
		"match_public_id",
		"player_public_id",
		"team_public_id",
		"kind",
		"minute",
		"value",
	).
		From("match_events").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.In("match_public_id", ids),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	out := make([]match.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchEventFromRow(row))
	}
	return out, nil
}
