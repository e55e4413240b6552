package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"

	"jobboard_backend/internal/feature/auth/domain/entity"
	"jobboard_backend/internal/feature/auth/usecase"
	jwtmw "jobboard_backend/internal/platform/jwt"
)

// mockAuthUsecase is a func-field mock of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc       func(ctx context.Context, in entity.RegisterInput) (*entity.User, error)
	AuthenticateFunc   func(ctx context.Context, email, password string) (*entity.User, string, error)
	GetUserProfileFunc func(ctx context.Context, userID string) (*usecase.Profile, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, in entity.RegisterInput) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return &entity.User{ID: "u1"}, nil
}

func (m *mockAuthUsecase) Authenticate(ctx context.Context, email, password string) (*entity.User, string, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password)
	}
	return nil, "", usecase.ErrInvalidCredentials
}

func (m *mockAuthUsecase) GetUserProfile(ctx context.Context, userID string) (*usecase.Profile, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, usecase.ErrUserNotFound
}

func postJSON(t *testing.T, router *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) gin.H {
	t.Helper()
	var body gin.H
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Signup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name             string
		requestBody      gin.H
		mockRegisterFunc func(ctx context.Context, in entity.RegisterInput) (*entity.User, error)
		expectedStatus   int
		expectedBody     gin.H
	}{
		{
			name:        "success: user registration",
			requestBody: gin.H{"name": "Alice", "email": "alice@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, in entity.RegisterInput) (*entity.User, error) {
				return &entity.User{ID: "u1", Email: in.Email}, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   gin.H{"success": true, "user_id": "u1"},
		},
		{
			name:             "failure: missing password",
			requestBody:      gin.H{"name": "Alice", "email": "alice@example.com"},
			mockRegisterFunc: nil, // binding rejects before the usecase
			expectedStatus:   http.StatusBadRequest,
			expectedBody:     gin.H{"success": false, "error": "invalid request"},
		},
		{
			name:        "failure: schema violation carries field detail",
			requestBody: gin.H{"name": "Alice", "email": "not-an-email", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, in entity.RegisterInput) (*entity.User, error) {
				return nil, validation.Errors{"email": errors.New("must be a valid email address")}
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: gin.H{
				"success": false,
				"error":   "validation failed",
				"fields":  map[string]any{"email": "must be a valid email address"},
			},
		},
		{
			name:        "failure: duplicate email",
			requestBody: gin.H{"name": "Alice", "email": "existing@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, in entity.RegisterInput) (*entity.User, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   gin.H{"success": false, "error": "signup failed"},
		},
		{
			name:        "failure: store unreachable",
			requestBody: gin.H{"name": "Alice", "email": "alice@example.com", "password": "password123"},
			mockRegisterFunc: func(ctx context.Context, in entity.RegisterInput) (*entity.User, error) {
				return nil, errors.New("store unreachable")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   gin.H{"success": false, "error": "signup failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.mockRegisterFunc})

			router := gin.New()
			router.POST("/signup", handler.Signup)

			w := postJSON(t, router, "/signup", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			for key, want := range tt.expectedBody {
				assert.Equal(t, want, body[key], "body key %q", key)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name                 string
		requestBody          gin.H
		mockAuthenticateFunc func(ctx context.Context, email, password string) (*entity.User, string, error)
		expectedStatus       int
		expectedBody         gin.H
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "alice@example.com", "password": "password123"},
			mockAuthenticateFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return &entity.User{ID: "u1", Email: email}, "dummy-jwt-token", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"success": true, "token": "dummy-jwt-token"},
		},
		{
			name:                 "failure: missing password",
			requestBody:          gin.H{"email": "alice@example.com"},
			mockAuthenticateFunc: nil, // binding rejects before the usecase
			expectedStatus:       http.StatusBadRequest,
			expectedBody:         gin.H{"success": false, "error": "invalid request"},
		},
		{
			name:        "failure: invalid credentials",
			requestBody: gin.H{"email": "alice@example.com", "password": "wrong"},
			mockAuthenticateFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"success": false, "error": "invalid email or password"},
		},
		{
			name:        "failure: account locked",
			requestBody: gin.H{"email": "alice@example.com", "password": "password123"},
			mockAuthenticateFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", usecase.ErrAccountLocked
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   gin.H{"success": false, "error": usecase.ErrAccountLocked.Error()},
		},
		{
			name:        "failure: store error is reported as bad credentials",
			requestBody: gin.H{"email": "alice@example.com", "password": "password123"},
			mockAuthenticateFunc: func(ctx context.Context, email, password string) (*entity.User, string, error) {
				return nil, "", errors.New("store unreachable")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"success": false, "error": "invalid email or password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthUsecase{AuthenticateFunc: tt.mockAuthenticateFunc})

			router := gin.New()
			router.POST("/login", handler.Login)

			w := postJSON(t, router, "/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			for key, want := range tt.expectedBody {
				assert.Equal(t, want, body[key], "body key %q", key)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc AuthUsecase, userID string) *gin.Engine {
		router := gin.New()
		router.GET("/api/me", func(c *gin.Context) {
			if userID != "" {
				c.Set(jwtmw.ContextUserID, userID)
			}
		}, NewAuthHandler(uc).Me)
		return router
	}

	t.Run("unauthenticated request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
		newRouter(&mockAuthUsecase{}, "").ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
		newRouter(&mockAuthUsecase{}, "ghost").ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("profile assembly", func(t *testing.T) {
		uc := &mockAuthUsecase{
			GetUserProfileFunc: func(_ context.Context, userID string) (*usecase.Profile, error) {
				return &usecase.Profile{User: entity.User{ID: userID, Name: "Alice", PasswordHash: "secret-hash"}}, nil
			},
		}
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
		newRouter(uc, "u1").ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		user, ok := body["user"].(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, "Alice", user["name"])
		_, leaked := user["password_hash"]
		assert.False(t, leaked, "the password hash must never appear in a response")
	})
}
