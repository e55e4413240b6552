// Package dto defines the HTTP transport objects for the auth feature.
package dto

import (
	"time"

	appsusecase "jobboard_backend/internal/feature/applications/usecase"
	"jobboard_backend/internal/feature/auth/domain/entity"
)

// SignupReq is the body of POST /signup.
type SignupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Plan     string `json:"subscription_plan"`
}

// LoginReq is the body of POST /login.
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public shape of an account. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	SubscriptionPlan string  `json:"subscription_plan"`
	LastLogin        *string `json:"last_login,omitempty"`
}

// FromUser maps a domain user onto the public shape.
func FromUser(u entity.User) UserResponse {
	out := UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		SubscriptionPlan: string(u.SubscriptionPlan),
	}
	if u.LastLogin != nil {
		s := u.LastLogin.UTC().Format(time.RFC3339)
		out.LastLogin = &s
	}
	return out
}

// SignupResponse is the body of a successful registration.
type SignupResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
}

// LoginResponse is the body of a successful authentication.
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ProfileResponse is the body of GET /api/me.
type ProfileResponse struct {
	User         UserResponse                     `json:"user"`
	Applications []appsusecase.ApplicationWithJob `json:"applications"`
	Statistics   appsusecase.Stats                `json:"statistics"`
}
