package domain

import "errors"

var (
	// ErrNotFound covers an unknown match label, a missing (match, team)
	// stats pair, and a team absent from a requested date's ranking.
	ErrNotFound = errors.New("not found")

	// ErrDataIntegrity means the schedule and stats tables disagree: a
	// fixture exists without its two stats rows, or the other way around.
	ErrDataIntegrity = errors.New("data integrity violation")
)
