// Package handler provides the HTTP handlers for the applications feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/api"
	"jobboard_backend/internal/feature/applications/domain/entity"
	"jobboard_backend/internal/feature/applications/transport/http/dto"
	"jobboard_backend/internal/feature/applications/usecase"
	jwtmw "jobboard_backend/internal/platform/jwt"
	"jobboard_backend/internal/platform/store"
)

// ApplicationsUsecase defines the application operations this handler
// consumes.
type ApplicationsUsecase interface {
	Apply(ctx context.Context, in entity.ApplicationInput) (*entity.Application, error)
	GetUserApplications(ctx context.Context, userID string) (*usecase.UserApplications, error)
	UpdateStatus(ctx context.Context, id string, patch entity.StatusPatch) (*entity.Application, error)
	Withdraw(ctx context.Context, userID, id string) error
}

// ApplicationHandler serves the application endpoints. Every route sits
// behind the auth middleware.
type ApplicationHandler struct {
	uc ApplicationsUsecase
}

// NewApplicationHandler creates an ApplicationHandler over the usecase.
func NewApplicationHandler(uc ApplicationsUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// Apply handles POST /api/jobs/:id/apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Err("authentication required"))
		return
	}
	// The cover letter is optional, so an empty body is fine.
	var req dto.ApplyReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.Err("invalid request"))
			return
		}
	}

	app, err := h.uc.Apply(c.Request.Context(), entity.ApplicationInput{
		UserID:      userID,
		JobID:       c.Param("id"),
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListMine handles GET /api/applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Err("authentication required"))
		return
	}
	apps, err := h.uc.GetUserApplications(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateStatus handles PATCH /api/applications/:id.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err("invalid request"))
		return
	}
	app, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"), entity.StatusPatch{
		Status: entity.Status(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Withdraw handles DELETE /api/applications/:id.
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Err("authentication required"))
		return
	}
	if err := h.uc.Withdraw(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "withdrawn"})
}

func respondError(c *gin.Context, err error) {
	if resp, ok := api.ValidationError(err); ok {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	switch {
	case errors.Is(err, usecase.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, api.Err(usecase.ErrAlreadyApplied.Error()))
	case errors.Is(err, usecase.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, api.Err("application not found"))
	case store.IsTransient(err):
		slog.Warn("transient store failure", "error", err, "path", c.FullPath())
		c.JSON(http.StatusServiceUnavailable, api.Err("temporary failure, try again"))
	default:
		slog.Error("application request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusBadGateway, api.Err("request failed"))
	}
}
