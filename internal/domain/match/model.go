package match

import "strings"

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// EventKind is the closed set of scoring-relevant occurrences. Anything
// outside this set is rejected by the evaluator instead of scoring zero.
type EventKind string

const (
	KindGoal        EventKind = "goal"
	KindAssist      EventKind = "assist"
	KindCleanSheet  EventKind = "clean_sheet"
	KindSave        EventKind = "save"
	KindYellowCard  EventKind = "yellow_card"
	KindRedCard     EventKind = "red_card"
	KindOwnGoal     EventKind = "own_goal"
	KindPenaltyMiss EventKind = "penalty_miss"
	KindBonus       EventKind = "bonus"
)

var AllKinds = map[EventKind]struct{}{
	KindGoal:        {},
	KindAssist:      {},
	KindCleanSheet:  {},
	KindSave:        {},
	KindYellowCard:  {},
	KindRedCard:     {},
	KindOwnGoal:     {},
	KindPenaltyMiss: {},
	KindBonus:       {},
}

// Match is one real-world fixture in a gameweek. Ingestion owns every field;
// the settlement engine only reads it.
type Match struct {
	ID             string
	Gameweek       int
	HomeTeamID     string
	AwayTeamID     string
	HomeScore      int
	AwayScore      int
	Status         string
	Finished       bool
	MinutesElapsed int
}

// GoalsConcededBy reports the goals scored against the given team in this
// match, and whether the team took part at all.
func (m Match) GoalsConcededBy(teamID string) (int, bool) {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayScore, true
	case m.AwayTeamID:
		return m.HomeScore, true
	default:
		return 0, false
	}
}

// Event is one scoring-relevant occurrence tied to a player and a match.
// Value carries provider-assigned points for bonus awards and is ignored for
// every other kind.
type Event struct {
	ID       int64
	MatchID  string
	PlayerID string
	TeamID   string
	Kind     EventKind
	Minute   int
	Value    int
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}
