package match

import "context"

// Repository exposes the match reads settlement needs.
type Repository interface {
	ListFinishedByGameweek(ctx context.Context, gameweek int) ([]Match, error)
}

// EventSource reads a player's events restricted to a set of matches.
type EventSource interface {
	ListByPlayerAndMatches(ctx context.Context, playerID string, matchIDs []string) ([]Event, error)
}
