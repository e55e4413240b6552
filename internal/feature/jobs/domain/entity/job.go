// Package entity defines the Job domain model and its validation rules.
package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// JobType enumerates the employment forms a posting can advertise.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

var jobTypes = []any{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// Job is a posting as stored by the data service. Identifiers are opaque
// strings assigned by the store.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	SalaryMin      int        `json:"salary_min"`
	SalaryMax      int        `json:"salary_max"`
	JobType        JobType    `json:"job_type"`
	RemoteFriendly bool       `json:"remote_friendly"`
	IsActive       bool       `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// JobInput carries the caller-supplied fields of a new posting.
type JobInput struct {
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	SalaryMin      int        `json:"salary_min"`
	SalaryMax      int        `json:"salary_max"`
	JobType        JobType    `json:"job_type"`
	RemoteFriendly bool       `json:"remote_friendly"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// Validate enforces the posting schema. Violations come back as
// validation.Errors with per-field detail.
func (in JobInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Company, validation.Length(0, 255)),
		validation.Field(&in.Location, validation.Length(0, 255)),
		validation.Field(&in.Description, validation.Length(0, 20000)),
		validation.Field(&in.SalaryMin, validation.Min(0)),
		validation.Field(&in.SalaryMax, validation.Min(in.SalaryMin)),
		validation.Field(&in.JobType, validation.Required, validation.In(jobTypes...)),
	)
}

// JobPatch carries a partial update; nil fields are left untouched.
type JobPatch struct {
	Title          *string    `json:"title,omitempty"`
	Company        *string    `json:"company,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Description    *string    `json:"description,omitempty"`
	SalaryMin      *int       `json:"salary_min,omitempty"`
	SalaryMax      *int       `json:"salary_max,omitempty"`
	JobType        *JobType   `json:"job_type,omitempty"`
	RemoteFriendly *bool      `json:"remote_friendly,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// Validate checks only the fields present in the patch.
func (p JobPatch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Length(1, 255)),
		validation.Field(&p.Company, validation.Length(0, 255)),
		validation.Field(&p.Location, validation.Length(0, 255)),
		validation.Field(&p.Description, validation.Length(0, 20000)),
		validation.Field(&p.SalaryMin, validation.Min(0)),
		validation.Field(&p.JobType, validation.In(jobTypes...)),
	)
}

// SearchFilter is the effective parameter set of a job search. Salary bounds
// select postings whose advertised range overlaps [SalaryMin, SalaryMax].
type SearchFilter struct {
	Query      string  `json:"query"`
	Location   string  `json:"location"`
	JobType    JobType `json:"job_type"`
	SalaryMin  int     `json:"salary_min"`
	SalaryMax  int     `json:"salary_max"`
	RemoteOnly bool    `json:"remote_only"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

// Validate rejects malformed filters before any request is built.
func (f SearchFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Query, validation.Length(0, 200)),
		validation.Field(&f.Location, validation.Length(0, 255)),
		validation.Field(&f.JobType, validation.In(jobTypes...)),
		validation.Field(&f.SalaryMin, validation.Min(0)),
		validation.Field(&f.SalaryMax, validation.Min(0)),
		validation.Field(&f.Limit, validation.Min(0)),
		validation.Field(&f.Offset, validation.Min(0)),
	)
}
