// Package entity defines the User domain model.
package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Plan enumerates subscription tiers.
type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

var plans = []any{PlanBasic, PlanPremium, PlanEnterprise}

// User is an account as stored by the data service. PasswordHash is opaque
// to everything but the auth usecase and must never leave the service layer
// in responses.
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"password_hash"`
	SubscriptionPlan Plan       `json:"subscription_plan"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RegisterInput carries a signup request. Password length is capped at 72
// bytes, the bcrypt maximum.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Plan     Plan   `json:"subscription_plan"`
}

// Validate enforces the account schema, including email format.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&in.Plan, validation.In(plans...)),
	)
}
