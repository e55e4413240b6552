// Package dto defines the HTTP transport objects for the jobs feature.
package dto

import (
	"time"

	"jobboard_backend/internal/feature/jobs/domain/entity"
)

// JobResponse is the public shape of a posting.
type JobResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Company        string  `json:"company"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
	SalaryMin      int     `json:"salary_min"`
	SalaryMax      int     `json:"salary_max"`
	JobType        string  `json:"job_type"`
	RemoteFriendly bool    `json:"remote_friendly"`
	CreatedAt      string  `json:"created_at"`
	ExpiresAt      *string `json:"expires_at,omitempty"`
}

// FromJob maps a domain job onto the response shape.
func FromJob(j entity.Job) JobResponse {
	out := JobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Company:        j.Company,
		Location:       j.Location,
		Description:    j.Description,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		JobType:        string(j.JobType),
		RemoteFriendly: j.RemoteFriendly,
		CreatedAt:      j.CreatedAt.UTC().Format(time.RFC3339),
	}
	if j.ExpiresAt != nil {
		s := j.ExpiresAt.UTC().Format(time.RFC3339)
		out.ExpiresAt = &s
	}
	return out
}

// FromJobs maps a slice of domain jobs.
func FromJobs(jobs []entity.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, FromJob(j))
	}
	return out
}

// SearchResponse is the body of GET /api/jobs.
type SearchResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int64         `json:"total"`
}

// TrendingResponse is the body of GET /api/jobs/trending.
type TrendingResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// DetailsResponse is the body of GET /api/jobs/:id.
type DetailsResponse struct {
	Job         JobResponse   `json:"job"`
	SimilarJobs []JobResponse `json:"similar_jobs"`
	HasApplied  bool          `json:"has_applied"`
}

// CreateJobReq is the body of POST /api/jobs.
type CreateJobReq struct {
	Title          string     `json:"title" binding:"required"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	SalaryMin      int        `json:"salary_min"`
	SalaryMax      int        `json:"salary_max"`
	JobType        string     `json:"job_type" binding:"required"`
	RemoteFriendly bool       `json:"remote_friendly"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// UpdateJobReq is the body of PATCH /api/jobs/:id; nil fields are ignored.
type UpdateJobReq struct {
	Title          *string    `json:"title"`
	Company        *string    `json:"company"`
	Location       *string    `json:"location"`
	Description    *string    `json:"description"`
	SalaryMin      *int       `json:"salary_min"`
	SalaryMax      *int       `json:"salary_max"`
	JobType        *string    `json:"job_type"`
	RemoteFriendly *bool      `json:"remote_friendly"`
	IsActive       *bool      `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at"`
}
