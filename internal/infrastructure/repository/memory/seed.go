package memory

import (
	"time"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
)

const (
	SeedRoomID   = "room-liga-1-friends"
	SeedGameweek = 1
)

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:         "gw1-psj-psb",
			Gameweek:   SeedGameweek,
			HomeTeamID: "idn-persija",
			AwayTeamID: "idn-persib",
			HomeScore:  2,
			AwayScore:  0,
			Status:     match.StatusFinished,
			Finished:   true,
		},
		{
			ID:         "gw1-prb-bu",
			Gameweek:   SeedGameweek,
			HomeTeamID: "idn-persebaya",
			AwayTeamID: "idn-baliutd",
			HomeScore:  1,
			AwayScore:  1,
			Status:     match.StatusFinished,
			Finished:   true,
		},
	}
}

func SeedEvents() []match.Event {
	return []match.Event{
		{ID: 1, MatchID: "gw1-psj-psb", PlayerID: "idn-fwd-01", TeamID: "idn-persija", Kind: match.KindGoal, Minute: 23},
		{ID: 2, MatchID: "gw1-psj-psb", PlayerID: "idn-mid-01", TeamID: "idn-persija", Kind: match.KindAssist, Minute: 23},
		{ID: 3, MatchID: "gw1-psj-psb", PlayerID: "idn-mid-01", TeamID: "idn-persija", Kind: match.KindGoal, Minute: 67},
		{ID: 4, MatchID: "gw1-psj-psb", PlayerID: "idn-gk-01", TeamID: "idn-persija", Kind: match.KindCleanSheet},
		{ID: 5, MatchID: "gw1-psj-psb", PlayerID: "idn-gk-01", TeamID: "idn-persija", Kind: match.KindSave, Minute: 44},
		{ID: 6, MatchID: "gw1-psj-psb", PlayerID: "idn-def-01", TeamID: "idn-persija", Kind: match.KindCleanSheet},
		{ID: 7, MatchID: "gw1-psj-psb", PlayerID: "idn-def-02", TeamID: "idn-persib", Kind: match.KindYellowCard, Minute: 71},
		{ID: 8, MatchID: "gw1-psj-psb", PlayerID: "idn-fwd-01", TeamID: "idn-persija", Kind: match.KindBonus, Value: 3},
		{ID: 9, MatchID: "gw1-prb-bu", PlayerID: "idn-mid-03", TeamID: "idn-persebaya", Kind: match.KindGoal, Minute: 12},
		{ID: 10, MatchID: "gw1-prb-bu", PlayerID: "idn-mid-04", TeamID: "idn-baliutd", Kind: match.KindGoal, Minute: 80},
		{ID: 11, MatchID: "gw1-prb-bu", PlayerID: "idn-def-04", TeamID: "idn-baliutd", Kind: match.KindAssist, Minute: 80},
	}
}

// SeedMinutes is keyed by gameweek then player. Unlisted players sat out.
func SeedMinutes() map[int]map[string]int {
	return map[int]map[string]int{
		SeedGameweek: {
			"idn-gk-01":  90,
			"idn-def-01": 90,
			"idn-def-02": 90,
			"idn-def-03": 85,
			"idn-def-04": 90,
			"idn-mid-01": 90,
			"idn-mid-02": 58,
			"idn-mid-03": 90,
			"idn-mid-04": 74,
			"idn-fwd-01": 90,
			"idn-fwd-02": 12,
		},
	}
}

func SeedRosters() []roster.Roster {
	now := time.Now()
	return []roster.Roster{
		{
			ID:        "roster-demo-1",
			UserID:    "user-demo-1",
			RoomID:    SeedRoomID,
			Gameweek:  SeedGameweek,
			Formation: "1-4-4-2",
			TotalCost: 68.5,
			Submitted: true,
			CreatedAt: now,
			UpdatedAt: now,
			Slots: []roster.Slot{
				{PlayerID: "idn-gk-01", TeamID: "idn-persija", Position: player.PositionGoalkeeper, Price: 5.0, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-def-01", TeamID: "idn-persija", Position: player.PositionDefender, Price: 5.5, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-def-02", TeamID: "idn-persib", Position: player.PositionDefender, Price: 6.0, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-def-03", TeamID: "idn-persebaya", Position: player.PositionDefender, Price: 5.0, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-def-04", TeamID: "idn-baliutd", Position: player.PositionDefender, Price: 4.5, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-mid-01", TeamID: "idn-persija", Position: player.PositionMidfielder, Price: 7.5, IsStarter: true, IsCaptain: true, Multiplier: 1},
				{PlayerID: "idn-mid-02", TeamID: "idn-persib", Position: player.PositionMidfielder, Price: 7.0, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-mid-03", TeamID: "idn-persebaya", Position: player.PositionMidfielder, Price: 6.5, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-mid-04", TeamID: "idn-baliutd", Position: player.PositionMidfielder, Price: 6.0, IsStarter: true, Multiplier: 1},
				{PlayerID: "idn-fwd-01", TeamID: "idn-persija", Position: player.PositionForward, Price: 8.5, IsStarter: true, IsViceCaptain: true, Multiplier: 1},
				{PlayerID: "idn-fwd-02", TeamID: "idn-persib", Position: player.PositionForward, Price: 7.0, IsStarter: true, Multiplier: 1},
			},
		},
	}
}
