package postgres

import (
	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
)

type matchTableModel struct {
	ID             string `db:"public_id"`
	Gameweek       int    `db:"gameweek"`
	HomeTeamID     string `db:"home_team_public_id"`
	AwayTeamID     string `db:"away_team_public_id"`
	HomeScore      int    `db:"home_score"`
	AwayScore      int    `db:"away_score"`
	Status         string `db:"status"`
	Finished       bool   `db:"finished"`
	MinutesElapsed int    `db:"minutes_elapsed"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:             row.ID,
		Gameweek:       row.Gameweek,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		HomeScore:      row.HomeScore,
		AwayScore:      row.AwayScore,
		Status:         match.NormalizeStatus(row.Status),
		Finished:       row.Finished,
		MinutesElapsed: row.MinutesElapsed,
	}
}

type matchEventTableModel struct {
	ID       int64  `db:"id"`
	MatchID  string `db:"match_public_id"`
	PlayerID string `db:"player_public_id"`
	TeamID   string `db:"team_public_id"`
	Kind     string `db:"kind"`
	Minute   int    `db:"minute"`
	Value    int    `db:"value"`
}

func matchEventFromRow(row matchEventTableModel) match.Event {
	return match.Event{
		ID:       row.ID,
		MatchID:  row.MatchID,
		PlayerID: row.PlayerID,
		TeamID:   row.TeamID,
		Kind:     match.EventKind(row.Kind),
		Minute:   row.Minute,
		Value:    row.Value,
	}
}
