package scoring

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
)

func TestEvaluate_GoalPointsByPosition(t *testing.T) {
	events := []match.Event{{Kind: match.KindGoal}}

	cases := []struct {
		position player.Position
		want     int
	}{
		{player.PositionGoalkeeper, 8},
		{player.PositionDefender, 8},
		{player.PositionMidfielder, 7},
		{player.PositionForward, 6},
	}
	for _, tc := range cases {
		got, err := Evaluate(events, tc.position, 90)
		if err != nil {
			t.Fatalf("evaluate %s: %v", tc.position, err)
		}
		// Appearance (2) plus the position-dependent goal value.
		if got != tc.want {
			t.Fatalf("position %s: got=%d want=%d", tc.position, got, tc.want)
		}
	}
}

func TestEvaluate_AppearancePoints(t *testing.T) {
	cases := []struct {
		minutes int
		want    int
	}{
		{0, 0},
		{1, 1},
		{59, 1},
		{60, 2},
		{90, 2},
	}
	for _, tc := range cases {
		got, err := Evaluate(nil, player.PositionForward, tc.minutes)
		if err != nil {
			t.Fatalf("evaluate minutes=%d: %v", tc.minutes, err)
		}
		if got != tc.want {
			t.Fatalf("minutes=%d: got=%d want=%d", tc.minutes, got, tc.want)
		}
	}
}

func TestEvaluate_CleanSheetRequiresSixtyMinutes(t *testing.T) {
	events := []match.Event{{Kind: match.KindCleanSheet}}

	got, err := Evaluate(events, player.PositionGoalkeeper, 59)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 1 {
		t.Fatalf("sub-60 clean sheet must not score: got=%d want=1", got)
	}

	got, err = Evaluate(events, player.PositionGoalkeeper, 60)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 6 {
		t.Fatalf("full clean sheet: got=%d want=6", got)
	}

	got, err = Evaluate(events, player.PositionForward, 90)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 2 {
		t.Fatalf("forward clean sheet is worthless: got=%d want=2", got)
	}
}

func TestEvaluate_SavesScoreInThrees(t *testing.T) {
	save := match.Event{Kind: match.KindSave}

	cases := []struct {
		saves int
		want  int
	}{
		{2, 2},
		{3, 3},
		{5, 3},
		{6, 4},
	}
	for _, tc := range cases {
		events := make([]match.Event, tc.saves)
		for i := range events {
			events[i] = save
		}
		got, err := Evaluate(events, player.PositionGoalkeeper, 90)
		if err != nil {
			t.Fatalf("evaluate saves=%d: %v", tc.saves, err)
		}
		if got != tc.want {
			t.Fatalf("saves=%d: got=%d want=%d", tc.saves, got, tc.want)
		}
	}
}

func TestEvaluate_NegativeEventsAndNoClamp(t *testing.T) {
	events := []match.Event{
		{Kind: match.KindRedCard},
		{Kind: match.KindOwnGoal},
		{Kind: match.KindPenaltyMiss},
	}

	got, err := Evaluate(events, player.PositionMidfielder, 30)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// 1 - 3 - 2 - 2: a bad day stays negative.
	if got != -6 {
		t.Fatalf("negative total must not be clamped: got=%d want=-6", got)
	}
}

func TestEvaluate_BonusPassesValueThrough(t *testing.T) {
	events := []match.Event{{Kind: match.KindBonus, Value: 3}}

	got, err := Evaluate(events, player.PositionForward, 90)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 5 {
		t.Fatalf("bonus value not passed through: got=%d want=5", got)
	}
}

func TestEvaluate_EachGoalScoresIndependently(t *testing.T) {
	events := []match.Event{
		{Kind: match.KindGoal},
		{Kind: match.KindGoal},
		{Kind: match.KindAssist},
		{Kind: match.KindYellowCard},
	}

	got, err := Evaluate(events, player.PositionForward, 90)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// 2 + 4 + 4 + 3 - 1
	if got != 12 {
		t.Fatalf("mixed event total: got=%d want=12", got)
	}
}

func TestEvaluate_RejectsUnknowns(t *testing.T) {
	if _, err := Evaluate([]match.Event{{Kind: "streaker"}}, player.PositionForward, 90); !errors.Is(err, ErrUnknownEventKind) {
		t.Fatalf("expected ErrUnknownEventKind, got %v", err)
	}
	if _, err := Evaluate(nil, "LIBERO", 90); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}
}

func TestVerifyRuleTable(t *testing.T) {
	if err := VerifyRuleTable(); err != nil {
		t.Fatalf("rule table incomplete: %v", err)
	}
}
