package player

import "fmt"

// Position represents football position categories used by roster rules
// and the scoring table.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

func ParsePosition(value string) (Position, error) {
	pos := Position(value)
	if _, ok := AllPositions[pos]; !ok {
		return "", fmt.Errorf("invalid player position: %s", value)
	}
	return pos, nil
}
