package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestRESTClient_Get(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Header().Set("Content-Range", "0-1/42")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]restRow{{ID: "j1", Title: "Backend Engineer"}, {ID: "j2", Title: "SRE"}})
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "secret-key", srv.Client())

	params := Params{
		"job_type":   Eq("full-time"),
		ParamLimit:   "2",
		ParamCount:   CountExact,
	}
	var out []restRow
	total, err := client.Do(context.Background(), MethodGet, "jobs", params, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(42), total, "total should come from Content-Range")
	require.Len(t, out, 2)
	assert.Equal(t, "j1", out[0].ID)

	require.NotNil(t, captured)
	assert.Equal(t, "/jobs", captured.URL.Path)
	assert.Equal(t, "eq.full-time", captured.URL.Query().Get("job_type"))
	assert.Equal(t, "2", captured.URL.Query().Get("limit"))
	assert.Equal(t, "count=exact", captured.Header.Get("Prefer"))
	assert.Equal(t, "secret-key", captured.Header.Get("apikey"))
	assert.Equal(t, "Bearer secret-key", captured.Header.Get("Authorization"))
}

func TestRESTClient_GetWithoutCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Prefer"))
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "", srv.Client())
	var out []restRow
	total, err := client.Do(context.Background(), MethodGet, "jobs", Params{"id": Eq("x")}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), total, "total is -1 when no count was requested")
}

func TestRESTClient_MutationRequestsRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Backend Engineer", body["title"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"new-id","title":"Backend Engineer"}]`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "", srv.Client())
	var out []restRow
	_, err := client.Do(context.Background(), MethodPost, "jobs", nil, map[string]any{"title": "Backend Engineer"}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "new-id", out[0].ID)
}

func TestRESTClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
		wantSentinel  error
	}{
		{"not found", http.StatusNotFound, false, ErrNotFound},
		{"conflict", http.StatusConflict, false, ErrConflict},
		{"bad request", http.StatusBadRequest, false, nil},
		{"request timeout", http.StatusRequestTimeout, true, nil},
		{"too many requests", http.StatusTooManyRequests, true, nil},
		{"server error", http.StatusInternalServerError, true, nil},
		{"bad gateway", http.StatusBadGateway, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			client := NewRESTClient(srv.URL, "", srv.Client())
			_, err := client.Do(context.Background(), MethodGet, "jobs", nil, nil, nil)
			require.Error(t, err)

			assert.Equal(t, tt.wantTransient, IsTransient(err))
			if tt.wantSentinel != nil {
				assert.True(t, errors.Is(err, tt.wantSentinel), "expected %v in chain, got %v", tt.wantSentinel, err)
			}

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.status, reqErr.Status)
		})
	}
}

func TestRESTClient_NetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewRESTClient(srv.URL, "", srv.Client())
	srv.Close()

	_, err := client.Do(context.Background(), MethodGet, "jobs", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransient(err), "connection failures must be retryable")
}

func TestParseContentRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header   string
		expected int64
	}{
		{"0-24/3573", 3573},
		{"0-0/1", 1},
		{"*/0", 0},
		{"0-9/*", -1},
		{"", -1},
		{"garbage", -1},
	}
	for _, tt := range tests {
		if got := parseContentRange(tt.header); got != tt.expected {
			t.Errorf("parseContentRange(%q) = %d, expected %d", tt.header, got, tt.expected)
		}
	}
}
