// Package handler provides the HTTP handlers for the jobs feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/api"
	"jobboard_backend/internal/feature/jobs/domain/entity"
	"jobboard_backend/internal/feature/jobs/transport/http/dto"
	"jobboard_backend/internal/feature/jobs/usecase"
	jwtmw "jobboard_backend/internal/platform/jwt"
	"jobboard_backend/internal/platform/store"
)

// JobsUsecase defines the job operations this handler consumes. The
// interface lives with the consumer, Go convention.
type JobsUsecase interface {
	SearchJobs(ctx context.Context, actor string, f entity.SearchFilter) (*usecase.SearchResult, error)
	GetJobDetails(ctx context.Context, jobID, userID string) (*usecase.JobDetails, error)
	GetTrendingJobs(ctx context.Context, days, limit int) ([]entity.Job, error)
	CreateJob(ctx context.Context, in entity.JobInput) (*entity.Job, error)
	UpdateJob(ctx context.Context, id string, patch entity.JobPatch) (*entity.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// JobHandler serves the job endpoints.
type JobHandler struct {
	uc JobsUsecase
}

// NewJobHandler creates a JobHandler over the given usecase.
func NewJobHandler(uc JobsUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// Search handles GET /api/jobs.
//
// Example: GET /api/jobs?q=golang&location=berlin&type=full-time&salary_min=50000&remote=true&limit=20
func (h *JobHandler) Search(c *gin.Context) {
	f := entity.SearchFilter{
		Query:      c.Query("q"),
		Location:   c.Query("location"),
		JobType:    entity.JobType(c.Query("type")),
		SalaryMin:  intQuery(c, "salary_min"),
		SalaryMax:  intQuery(c, "salary_max"),
		RemoteOnly: c.Query("remote") == "true",
		Limit:      intQuery(c, "limit"),
		Offset:     intQuery(c, "offset"),
	}

	result, err := h.uc.SearchJobs(c.Request.Context(), c.ClientIP(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SearchResponse{Jobs: dto.FromJobs(result.Jobs), Total: result.Total})
}

// Trending handles GET /api/jobs/trending?days=7&limit=10.
func (h *JobHandler) Trending(c *gin.Context) {
	jobs, err := h.uc.GetTrendingJobs(c.Request.Context(), intQuery(c, "days"), intQuery(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TrendingResponse{Jobs: dto.FromJobs(jobs)})
}

// Details handles GET /api/jobs/:id. The has-applied flag is filled when
// the request carries a valid token.
func (h *JobHandler) Details(c *gin.Context) {
	userID, _ := jwtmw.UserID(c)
	details, err := h.uc.GetJobDetails(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailsResponse{
		Job:         dto.FromJob(details.Job),
		SimilarJobs: dto.FromJobs(details.SimilarJobs),
		HasApplied:  details.HasApplied,
	})
}

// Create handles POST /api/jobs.
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.CreateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err("invalid request"))
		return
	}
	job, err := h.uc.CreateJob(c.Request.Context(), entity.JobInput{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Description:    req.Description,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		JobType:        entity.JobType(req.JobType),
		RemoteFriendly: req.RemoteFriendly,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromJob(*job))
}

// Update handles PATCH /api/jobs/:id.
func (h *JobHandler) Update(c *gin.Context) {
	var req dto.UpdateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err("invalid request"))
		return
	}
	patch := entity.JobPatch{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Description:    req.Description,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		RemoteFriendly: req.RemoteFriendly,
		IsActive:       req.IsActive,
		ExpiresAt:      req.ExpiresAt,
	}
	if req.JobType != nil {
		jt := entity.JobType(*req.JobType)
		patch.JobType = &jt
	}
	job, err := h.uc.UpdateJob(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromJob(*job))
}

// Delete handles DELETE /api/jobs/:id.
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "deleted"})
}

// respondError maps service-layer failures onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	if resp, ok := api.ValidationError(err); ok {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		c.JSON(http.StatusNotFound, api.Err("job not found"))
	case errors.Is(err, usecase.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, api.Err(usecase.ErrRateLimited.Error()))
	case store.IsTransient(err):
		slog.Warn("transient store failure", "error", err, "path", c.FullPath())
		c.JSON(http.StatusServiceUnavailable, api.Err("temporary failure, try again"))
	default:
		slog.Error("job request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusBadGateway, api.Err("request failed"))
	}
}

func intQuery(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}
