package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard_backend/internal/feature/applications/domain/entity"
	"jobboard_backend/internal/feature/applications/usecase"
	jwtmw "jobboard_backend/internal/platform/jwt"
)

// mockApplicationsUsecase is a func-field mock of the ApplicationsUsecase
// interface.
type mockApplicationsUsecase struct {
	ApplyFunc               func(ctx context.Context, in entity.ApplicationInput) (*entity.Application, error)
	GetUserApplicationsFunc func(ctx context.Context, userID string) (*usecase.UserApplications, error)
	UpdateStatusFunc        func(ctx context.Context, id string, patch entity.StatusPatch) (*entity.Application, error)
	WithdrawFunc            func(ctx context.Context, userID, id string) error
}

func (m *mockApplicationsUsecase) Apply(ctx context.Context, in entity.ApplicationInput) (*entity.Application, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, in)
	}
	return &entity.Application{ID: "a1", UserID: in.UserID, JobID: in.JobID, Status: entity.StatusPending}, nil
}

func (m *mockApplicationsUsecase) GetUserApplications(ctx context.Context, userID string) (*usecase.UserApplications, error) {
	if m.GetUserApplicationsFunc != nil {
		return m.GetUserApplicationsFunc(ctx, userID)
	}
	return &usecase.UserApplications{}, nil
}

func (m *mockApplicationsUsecase) UpdateStatus(ctx context.Context, id string, patch entity.StatusPatch) (*entity.Application, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, patch)
	}
	return &entity.Application{ID: id, Status: patch.Status}, nil
}

func (m *mockApplicationsUsecase) Withdraw(ctx context.Context, userID, id string) error {
	if m.WithdrawFunc != nil {
		return m.WithdrawFunc(ctx, userID, id)
	}
	return nil
}

// asUser simulates the auth middleware for routes that need a signed-in user.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(jwtmw.ContextUserID, userID)
		}
	}
}

func TestApplicationHandler_Apply(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unauthenticated request", func(t *testing.T) {
		router := gin.New()
		router.POST("/api/jobs/:id/apply", asUser(""), NewApplicationHandler(&mockApplicationsUsecase{}).Apply)

		req, _ := http.NewRequest(http.MethodPost, "/api/jobs/j1/apply", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty body submits without a cover letter", func(t *testing.T) {
		uc := &mockApplicationsUsecase{
			ApplyFunc: func(_ context.Context, in entity.ApplicationInput) (*entity.Application, error) {
				assert.Equal(t, "u1", in.UserID)
				assert.Equal(t, "j1", in.JobID)
				assert.Empty(t, in.CoverLetter)
				return &entity.Application{ID: "a1", Status: entity.StatusPending}, nil
			},
		}
		router := gin.New()
		router.POST("/api/jobs/:id/apply", asUser("u1"), NewApplicationHandler(uc).Apply)

		req, _ := http.NewRequest(http.MethodPost, "/api/jobs/j1/apply", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("cover letter is forwarded", func(t *testing.T) {
		uc := &mockApplicationsUsecase{
			ApplyFunc: func(_ context.Context, in entity.ApplicationInput) (*entity.Application, error) {
				assert.Equal(t, "I would love to join", in.CoverLetter)
				return &entity.Application{ID: "a1"}, nil
			},
		}
		router := gin.New()
		router.POST("/api/jobs/:id/apply", asUser("u1"), NewApplicationHandler(uc).Apply)

		b, _ := json.Marshal(gin.H{"cover_letter": "I would love to join"})
		req, _ := http.NewRequest(http.MethodPost, "/api/jobs/j1/apply", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate submission", func(t *testing.T) {
		uc := &mockApplicationsUsecase{
			ApplyFunc: func(_ context.Context, _ entity.ApplicationInput) (*entity.Application, error) {
				return nil, usecase.ErrAlreadyApplied
			},
		}
		router := gin.New()
		router.POST("/api/jobs/:id/apply", asUser("u1"), NewApplicationHandler(uc).Apply)

		req, _ := http.NewRequest(http.MethodPost, "/api/jobs/j1/apply", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, usecase.ErrAlreadyApplied.Error(), body["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		router := gin.New()
		router.POST("/api/jobs/:id/apply", asUser("u1"), NewApplicationHandler(&mockApplicationsUsecase{}).Apply)

		req, _ := http.NewRequest(http.MethodPost, "/api/jobs/j1/apply", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApplicationHandler_ListMine(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockApplicationsUsecase{
		GetUserApplicationsFunc: func(_ context.Context, userID string) (*usecase.UserApplications, error) {
			assert.Equal(t, "u1", userID)
			return &usecase.UserApplications{
				Applications: []usecase.ApplicationWithJob{
					{Application: entity.Application{ID: "a1", Status: entity.StatusPending}},
				},
				Stats: usecase.Stats{Total: 1, ByStatus: map[entity.Status]int{entity.StatusPending: 1}},
			}, nil
		},
	}
	router := gin.New()
	router.GET("/api/applications", asUser("u1"), NewApplicationHandler(uc).ListMine)

	req, _ := http.NewRequest(http.MethodGet, "/api/applications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	stats, ok := body["statistics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["total"])
}

func TestApplicationHandler_UpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("status change", func(t *testing.T) {
		uc := &mockApplicationsUsecase{
			UpdateStatusFunc: func(_ context.Context, id string, patch entity.StatusPatch) (*entity.Application, error) {
				assert.Equal(t, "a1", id)
				assert.Equal(t, entity.StatusInterview, patch.Status)
				assert.Equal(t, "phone screen booked", patch.Notes)
				return &entity.Application{ID: id, Status: patch.Status}, nil
			},
		}
		router := gin.New()
		router.PATCH("/api/applications/:id", asUser("u1"), NewApplicationHandler(uc).UpdateStatus)

		b, _ := json.Marshal(gin.H{"status": "interview", "notes": "phone screen booked"})
		req, _ := http.NewRequest(http.MethodPatch, "/api/applications/a1", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing status fails binding", func(t *testing.T) {
		router := gin.New()
		router.PATCH("/api/applications/:id", asUser("u1"), NewApplicationHandler(&mockApplicationsUsecase{}).UpdateStatus)

		b, _ := json.Marshal(gin.H{"notes": "no status"})
		req, _ := http.NewRequest(http.MethodPatch, "/api/applications/a1", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApplicationHandler_Withdraw(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("owner withdraws", func(t *testing.T) {
		uc := &mockApplicationsUsecase{
			WithdrawFunc: func(_ context.Context, userID, id string) error {
				assert.Equal(t, "u1", userID)
				assert.Equal(t, "a1", id)
				return nil
			},
		}
		router := gin.New()
		router.DELETE("/api/applications/:id", asUser("u1"), NewApplicationHandler(uc).Withdraw)

		req, _ := http.NewRequest(http.MethodDelete, "/api/applications/a1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing or foreign application", func(t *testing.T) {
		uc := &mockApplicationsUsecase{
			WithdrawFunc: func(_ context.Context, _, _ string) error { return usecase.ErrApplicationNotFound },
		}
		router := gin.New()
		router.DELETE("/api/applications/:id", asUser("u1"), NewApplicationHandler(uc).Withdraw)

		req, _ := http.NewRequest(http.MethodDelete, "/api/applications/absent", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
