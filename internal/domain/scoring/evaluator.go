package scoring

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/match"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
)

var (
	ErrUnknownEventKind = errors.New("unknown event kind")
	ErrUnknownPosition  = errors.New("unknown player position")
)

const (
	pointsAssist        = 3
	pointsYellowCard    = -1
	pointsRedCard       = -3
	pointsOwnGoal       = -2
	pointsPenaltyMiss   = -2
	savesPerPoint       = 3
	cleanSheetMinMinute = 60
)

var goalPointsByPosition = map[player.Position]int{
	player.PositionGoalkeeper: 6,
	player.PositionDefender:   6,
	player.PositionMidfielder: 5,
	player.PositionForward:    4,
}

var cleanSheetPointsByPosition = map[player.Position]int{
	player.PositionGoalkeeper: 4,
	player.PositionDefender:   4,
	player.PositionMidfielder: 1,
	player.PositionForward:    0,
}

// Evaluate returns a player's base points for one gameweek: the sum of all
// event contributions plus the appearance bonus. Pure, position-aware, and
// captaincy-blind; multipliers are applied by settlement afterwards.
//
// Each goal event scores independently. Saves score one point per three
// accumulated. Clean-sheet events only count with 60 or more minutes played;
// whether the player's team actually conceded is enforced upstream, where the
// match score is known. Bonus events pass their provider value through.
func Evaluate(events []match.Event, position player.Position, minutesPlayed int) (int, error) {
	if _, ok := player.AllPositions[position]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPosition, position)
	}

	points := appearancePoints(minutesPlayed)
	saves := 0

	for _, event := range events {
		switch event.Kind {
		case match.KindGoal:
			points += goalPointsByPosition[position]
		case match.KindAssist:
			points += pointsAssist
		case match.KindCleanSheet:
			if minutesPlayed >= cleanSheetMinMinute {
				points += cleanSheetPointsByPosition[position]
			}
		case match.KindSave:
			saves++
		case match.KindYellowCard:
			points += pointsYellowCard
		case match.KindRedCard:
			points += pointsRedCard
		case match.KindOwnGoal:
			points += pointsOwnGoal
		case match.KindPenaltyMiss:
			points += pointsPenaltyMiss
		case match.KindBonus:
			points += event.Value
		default:
			return 0, fmt.Errorf("%w: %s", ErrUnknownEventKind, event.Kind)
		}
	}

	points += saves / savesPerPoint
	return points, nil
}

func appearancePoints(minutesPlayed int) int {
	switch {
	case minutesPlayed >= cleanSheetMinMinute:
		return 2
	case minutesPlayed > 0:
		return 1
	default:
		return 0
	}
}

// VerifyRuleTable proves the point table is total over the closed event-kind
// and position enumerations. Run at startup so a newly added kind or position
// fails boot instead of silently scoring zero.
func VerifyRuleTable() error {
	for pos := range player.AllPositions {
		if _, ok := goalPointsByPosition[pos]; !ok {
			return fmt.Errorf("goal points missing for position %s", pos)
		}
		if _, ok := cleanSheetPointsByPosition[pos]; !ok {
			return fmt.Errorf("clean sheet points missing for position %s", pos)
		}
	}
	for kind := range match.AllKinds {
		probe := []match.Event{{Kind: kind, Value: 1}}
		if _, err := Evaluate(probe, player.PositionDefender, 90); err != nil {
			return fmt.Errorf("rule table does not cover event kind %s: %w", kind, err)
		}
	}
	return nil
}
