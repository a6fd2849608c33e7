package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/riskibarqy/fantasy-rooms/internal/platform/querybuilder"
)

// PlayerStatsRepository reads ingested per-gameweek player stats. It is the
// minutes source when no external stats feed is configured.
type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) MinutesPlayed(ctx context.Context, playerID string, gameweek int) (int, error) {
	query, args, err := qb.Select("minutes_played").
		From("player_gameweek_stats").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("gameweek", gameweek),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build minutes played query: %w", err)
	}

	var minutes int
	if err := r.db.GetContext(ctx, &minutes, query, args...); err != nil {
		if isNotFound(err) {
			// No stats row means the player never took the pitch.
			return 0, nil
		}
		return 0, fmt.Errorf("get minutes played: %w", err)
	}
	return minutes, nil
}
