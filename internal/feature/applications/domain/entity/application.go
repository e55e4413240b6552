// Package entity defines the Application domain model.
package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status tracks an application through the hiring pipeline.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusInterview Status = "interview"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

var statuses = []any{StatusPending, StatusReviewed, StatusInterview, StatusAccepted, StatusRejected}

// Application links a user to a job posting. The (user_id, job_id) pair is
// unique: duplicate submissions are rejected.
type Application struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	JobID       string    `json:"job_id"`
	CoverLetter string    `json:"cover_letter"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplicationInput carries a new submission.
type ApplicationInput struct {
	UserID      string `json:"user_id"`
	JobID       string `json:"job_id"`
	CoverLetter string `json:"cover_letter"`
}

// Validate enforces the submission schema.
func (in ApplicationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.UserID, validation.Required),
		validation.Field(&in.JobID, validation.Required),
		validation.Field(&in.CoverLetter, validation.Length(0, 5000)),
	)
}

// StatusPatch updates the pipeline state of an application.
type StatusPatch struct {
	Status Status `json:"status"`
	Notes  string `json:"notes"`
}

// Validate checks enum membership and note length.
func (p StatusPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Status, validation.Required, validation.In(statuses...)),
		validation.Field(&p.Notes, validation.Length(0, 5000)),
	)
}
