// Package usecase implements the job service layer: search, details,
// trending and mutations, composed from the repository, cache and ranking
// components.
package usecase

import "errors"

var (
	// ErrJobNotFound is returned when a job referenced by ID does not exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrRateLimited is returned when the actor exceeded the search budget.
	// It is a distinct outcome, never silently dropped.
	ErrRateLimited = errors.New("rate limit exceeded, try again later")
)
