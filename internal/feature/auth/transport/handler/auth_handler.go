// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/api"
	"jobboard_backend/internal/feature/auth/domain/entity"
	"jobboard_backend/internal/feature/auth/transport/http/dto"
	"jobboard_backend/internal/feature/auth/usecase"
	jwtmw "jobboard_backend/internal/platform/jwt"
)

// AuthUsecase defines the auth operations this handler consumes.
type AuthUsecase interface {
	Register(ctx context.Context, in entity.RegisterInput) (*entity.User, error)
	Authenticate(ctx context.Context, email, password string) (*entity.User, string, error)
	GetUserProfile(ctx context.Context, userID string) (*usecase.Profile, error)
}

// AuthHandler serves signup, login and profile.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler over the usecase.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err("invalid request"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), entity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Plan:     entity.Plan(req.Plan),
	})
	if err != nil {
		if resp, ok := api.ValidationError(err); ok {
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, api.Err("signup failed"))
			return
		}
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadGateway, api.Err("signup failed"))
		return
	}

	slog.Info("user signup successful", "user", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.SignupResponse{Success: true, UserID: user.ID})
}

// Login handles POST /login. Credential failures and lockouts are reported
// without revealing whether the account exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err("invalid request"))
		return
	}

	user, token, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrAccountLocked) {
			slog.Warn("login blocked by lockout", "remote_addr", c.ClientIP())
			c.JSON(http.StatusTooManyRequests, api.Err(usecase.ErrAccountLocked.Error()))
			return
		}
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.Err("invalid email or password"))
		return
	}

	slog.Info("user login successful", "user", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginResponse{Success: true, Token: token, User: dto.FromUser(*user)})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Err("authentication required"))
		return
	}

	profile, err := h.auth.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.Err("user not found"))
			return
		}
		slog.Error("profile lookup failed", "error", err, "user", userID)
		c.JSON(http.StatusBadGateway, api.Err("request failed"))
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:         dto.FromUser(profile.User),
		Applications: profile.Applications,
		Statistics:   profile.Stats,
	})
}
