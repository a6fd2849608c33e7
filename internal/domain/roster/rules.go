package roster

import (
	"fmt"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
)

// PlayerSelection is one proposed pick in a roster submission.
type PlayerSelection struct {
	PlayerID      string
	TeamID        string
	Position      player.Position
	Price         float64
	IsStarter     bool
	IsCaptain     bool
	IsViceCaptain bool
}

// PositionBounds are min/max starters allowed for one position.
type PositionBounds struct {
	Min int
	Max int
}

// Constraints stores roster legality parameters.
type Constraints struct {
	SquadSize         int
	StarterSize       int
	BudgetCap         float64
	MaxPlayersPerTeam int
	StarterBounds     map[player.Position]PositionBounds
	// BudgetWarnMargin is the unspent fraction of the cap above which a
	// non-blocking underuse warning is raised.
	BudgetWarnMargin float64
}

func DefaultConstraints() Constraints {
	return Constraints{
		SquadSize:         11,
		StarterSize:       11,
		BudgetCap:         70.0,
		MaxPlayersPerTeam: 3,
		StarterBounds: map[player.Position]PositionBounds{
			player.PositionGoalkeeper: {Min: 1, Max: 1},
			player.PositionDefender:   {Min: 3, Max: 5},
			player.PositionMidfielder: {Min: 2, Max: 5},
			player.PositionForward:    {Min: 1, Max: 3},
		},
		BudgetWarnMargin: 0.15,
	}
}

// ValidationResult carries every problem found in one pass. Errors block
// submission; warnings are advisory only.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// Validate checks a proposed set of selections against the constraints.
// It is exhaustive: every violated rule lands in Errors so the user sees
// all problems at once. It never fails with a Go error.
func Validate(selections []PlayerSelection, constraints Constraints) ValidationResult {
	result := ValidationResult{}

	if len(selections) != constraints.SquadSize {
		result.Errors = append(result.Errors,
			fmt.Sprintf("invalid squad size: expected %d, got %d", constraints.SquadSize, len(selections)))
	}

	teamCounter := make(map[string]int)
	starterCounter := make(map[player.Position]int)
	playerSet := make(map[string]struct{})
	overCapTeams := make(map[string]struct{})

	starters := 0
	captains := 0
	vices := 0
	captainID := ""
	viceID := ""
	captainStarts := false
	viceStarts := false
	var totalCost float64

	for _, pick := range selections {
		if pick.PlayerID == "" {
			result.Errors = append(result.Errors, "player id is required")
		} else if _, exists := playerSet[pick.PlayerID]; exists {
			result.Errors = append(result.Errors,
				fmt.Sprintf("duplicate player in squad: %s", pick.PlayerID))
		} else {
			playerSet[pick.PlayerID] = struct{}{}
		}

		if _, ok := player.AllPositions[pick.Position]; !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("unknown player position: player=%s position=%s", pick.PlayerID, pick.Position))
		}
		if pick.TeamID == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("team id is required for player %s", pick.PlayerID))
		}
		if pick.Price <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("player price must be greater than zero: %s", pick.PlayerID))
		}

		if pick.TeamID != "" {
			teamCounter[pick.TeamID]++
			if teamCounter[pick.TeamID] > constraints.MaxPlayersPerTeam {
				overCapTeams[pick.TeamID] = struct{}{}
			}
		}

		if pick.IsStarter {
			starters++
			starterCounter[pick.Position]++
		}
		if pick.IsCaptain {
			captains++
			captainID = pick.PlayerID
			captainStarts = pick.IsStarter
		}
		if pick.IsViceCaptain {
			vices++
			viceID = pick.PlayerID
			viceStarts = pick.IsStarter
		}

		totalCost += pick.Price
	}

	if starters != constraints.StarterSize {
		result.Errors = append(result.Errors,
			fmt.Sprintf("invalid starter count: expected %d, got %d", constraints.StarterSize, starters))
	}

	if totalCost > constraints.BudgetCap {
		result.Errors = append(result.Errors,
			fmt.Sprintf("budget cap exceeded: cap=%.1f used=%.1f over=%.1f",
				constraints.BudgetCap, totalCost, totalCost-constraints.BudgetCap))
	}

	for team := range overCapTeams {
		result.Errors = append(result.Errors,
			fmt.Sprintf("max players from same team exceeded: team=%s max=%d selected=%d",
				team, constraints.MaxPlayersPerTeam, teamCounter[team]))
	}

	for _, pos := range orderedPositions() {
		bounds, ok := constraints.StarterBounds[pos]
		if !ok {
			continue
		}
		count := starterCounter[pos]
		if count < bounds.Min {
			result.Errors = append(result.Errors,
				fmt.Sprintf("not enough %s starters: min=%d current=%d", pos, bounds.Min, count))
		}
		if count > bounds.Max {
			result.Errors = append(result.Errors,
				fmt.Sprintf("too many %s starters: max=%d current=%d", pos, bounds.Max, count))
		}
	}

	if captains > 1 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("more than one captain selected: %d", captains))
	}
	if vices > 1 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("more than one vice-captain selected: %d", vices))
	}
	if captains == 1 && !captainStarts {
		result.Errors = append(result.Errors,
			fmt.Sprintf("captain must be a starter: %s", captainID))
	}
	if vices == 1 && !viceStarts {
		result.Errors = append(result.Errors,
			fmt.Sprintf("vice-captain must be a starter: %s", viceID))
	}
	if captains >= 1 && vices >= 1 && captainID == viceID {
		result.Errors = append(result.Errors,
			fmt.Sprintf("captain and vice-captain must be different players: %s", captainID))
	}

	if captains == 0 {
		result.Warnings = append(result.Warnings, "no captain chosen")
	}
	if vices == 0 {
		result.Warnings = append(result.Warnings, "no vice-captain chosen")
	}
	if constraints.BudgetCap > 0 && totalCost <= constraints.BudgetCap {
		unspent := constraints.BudgetCap - totalCost
		if unspent > constraints.BudgetCap*constraints.BudgetWarnMargin {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("budget underused: %.1f of %.1f left unspent", unspent, constraints.BudgetCap))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// FormationLabel derives a "1-4-4-2" style label from the starting
// selections. Returns empty when the starters do not form a known shape.
func FormationLabel(selections []PlayerSelection) string {
	counts := make(map[player.Position]int)
	for _, pick := range selections {
		if pick.IsStarter {
			counts[pick.Position]++
		}
	}
	if counts[player.PositionGoalkeeper] != 1 {
		return ""
	}
	return fmt.Sprintf("1-%d-%d-%d",
		counts[player.PositionDefender],
		counts[player.PositionMidfielder],
		counts[player.PositionForward])
}

func orderedPositions() []player.Position {
	return []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionForward,
	}
}
