// Package usecase implements the application service layer: submissions,
// per-user listings with batched job resolution, and status updates.
package usecase

import "errors"

var (
	// ErrAlreadyApplied is returned when a user submits a second
	// application to the same job. Duplicates are rejected, not upserted.
	ErrAlreadyApplied = errors.New("application already submitted for this job")

	// ErrApplicationNotFound is returned for updates to a missing record.
	ErrApplicationNotFound = errors.New("application not found")
)
