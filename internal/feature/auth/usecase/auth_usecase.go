package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	appsusecase "jobboard_backend/internal/feature/applications/usecase"
	"jobboard_backend/internal/feature/auth/domain/entity"
	"jobboard_backend/internal/shared/guard"
)

// UserRepository abstracts user persistence. Interfaces live with their
// consumer, Go convention.
type UserRepository interface {
	// Create persists a new user and returns it with its store-assigned
	// identifier. A duplicate email yields ErrEmailAlreadyExists.
	Create(ctx context.Context, u entity.User) (*entity.User, error)

	// FindByEmail returns (nil, nil) when no user carries the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns (nil, nil) when the user does not exist.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// TouchLastLogin stamps a successful authentication.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// JWTGenerator defines the token generation this usecase depends on.
type JWTGenerator interface {
	GenerateToken(userID, email string) (string, error)
}

// ProfileSource provides the applications-and-statistics half of a profile.
type ProfileSource interface {
	GetUserApplications(ctx context.Context, userID string) (*appsusecase.UserApplications, error)
}

// Profile is the composite returned by GetUserProfile.
type Profile struct {
	User         entity.User                      `json:"user"`
	Applications []appsusecase.ApplicationWithJob `json:"applications"`
	Stats        appsusecase.Stats                `json:"statistics"`
}

// AuthUsecase implements registration, authentication with lockout, and
// profile assembly.
type AuthUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
	profiles     ProfileSource
	lockout      *guard.Guard
	now          func() time.Time
}

// NewAuthUsecase wires the auth service layer. lockout may be nil, which
// disables the login gate (tests).
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator, profiles ProfileSource, lockout *guard.Guard) *AuthUsecase {
	return &AuthUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
		profiles:     profiles,
		lockout:      lockout,
		now:          time.Now,
	}
}

// Register creates an account with a hashed password. Validation failures
// surface before any store request is issued.
func (u *AuthUsecase) Register(ctx context.Context, in entity.RegisterInput) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	plan := in.Plan
	if plan == "" {
		plan = entity.PlanBasic
	}
	return u.users.Create(ctx, entity.User{
		Name:             in.Name,
		Email:            strings.ToLower(in.Email),
		PasswordHash:     string(hashed),
		SubscriptionPlan: plan,
	})
}

// Authenticate verifies credentials and returns the user plus a signed JWT.
// The lockout guard is consulted before any store work; repeated failures
// lock the account key for the configured window. To mitigate timing
// attacks the bcrypt comparison runs even when the user does not exist.
func (u *AuthUsecase) Authenticate(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	key := guard.Key("login", email)

	if u.lockout != nil && u.lockout.IsLocked(key) {
		return nil, "", ErrAccountLocked
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	// Dummy hash keeps bcrypt.CompareHashAndPassword on every path.
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if user != nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if user == nil || compareErr != nil {
		if u.lockout != nil {
			u.lockout.RecordAttempt(key, false)
		}
		return nil, "", ErrInvalidCredentials
	}

	if u.lockout != nil {
		u.lockout.RecordAttempt(key, true)
	}

	if err := u.users.TouchLastLogin(ctx, user.ID, u.now()); err != nil {
		// The stamp is bookkeeping; login still succeeds.
		slog.Warn("failed to stamp last login", "user", user.ID, "error", err)
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// GetUserProfile assembles the user, their applications (jobs attached in
// batched requests) and pipeline statistics.
func (u *AuthUsecase) GetUserProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	apps, err := u.profiles.GetUserApplications(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:         *user,
		Applications: apps.Applications,
		Stats:        apps.Stats,
	}, nil
}
