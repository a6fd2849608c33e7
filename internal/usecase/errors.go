package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Settlement preconditions. Both abort the whole batch before any write.
	ErrNoFinishedMatches  = errors.New("no finished matches for gameweek")
	ErrNoSubmittedRosters = errors.New("no submitted rosters for gameweek")
)
