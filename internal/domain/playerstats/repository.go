package playerstats

import "context"

// MinutesSource reads authoritative minutes played for a player in a
// gameweek. It is more authoritative than any minutes value cached on the
// match record and is consulted per slot during settlement.
type MinutesSource interface {
	MinutesPlayed(ctx context.Context, playerID string, gameweek int) (int, error)
}
