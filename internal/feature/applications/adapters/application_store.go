// Package adapters provides the store-backed repository for the
// applications feature.
package adapters

import (
	"context"

	"jobboard_backend/internal/feature/applications/domain/entity"
	"jobboard_backend/internal/feature/applications/usecase"
	"jobboard_backend/internal/platform/store"
)

const resource = "applications"

// batchCap bounds how many job identifiers one count request may carry.
const batchCap = 500

// applicationStore implements usecase.ApplicationRepository over the store
// request primitive.
type applicationStore struct {
	client store.Client
}

var _ usecase.ApplicationRepository = (*applicationStore)(nil)

// NewApplicationStore creates the applications repository.
func NewApplicationStore(client store.Client) *applicationStore {
	return &applicationStore{client: client}
}

// Create persists a submission with status pending.
func (r *applicationStore) Create(ctx context.Context, in entity.ApplicationInput) (*entity.Application, error) {
	body := map[string]any{
		"user_id":      in.UserID,
		"job_id":       in.JobID,
		"cover_letter": in.CoverLetter,
		"status":       entity.StatusPending,
	}
	var out []entity.Application
	if _, err := r.client.Do(ctx, store.MethodPost, resource, nil, body, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return &out[0], nil
}

// FindByID returns (nil, nil) when the application does not exist.
func (r *applicationStore) FindByID(ctx context.Context, id string) (*entity.Application, error) {
	params := store.Params{
		"id":             store.Eq(id),
		store.ParamLimit: "1",
	}
	var out []entity.Application
	err := store.Retry(ctx, func() error {
		out = out[:0]
		_, err := r.client.Do(ctx, store.MethodGet, resource, params, nil, &out)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// ListByUser returns a user's applications, newest first.
func (r *applicationStore) ListByUser(ctx context.Context, userID string) ([]entity.Application, error) {
	params := store.Params{
		"user_id":        store.Eq(userID),
		store.ParamOrder: "created_at.desc",
	}
	var out []entity.Application
	err := store.Retry(ctx, func() error {
		out = out[:0]
		_, err := r.client.Do(ctx, store.MethodGet, resource, params, nil, &out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an application through the pipeline. Missing records
// yield usecase.ErrApplicationNotFound.
func (r *applicationStore) UpdateStatus(ctx context.Context, id string, patch entity.StatusPatch) (*entity.Application, error) {
	params := store.Params{"id": store.Eq(id)}
	var out []entity.Application
	if _, err := r.client.Do(ctx, store.MethodPatch, resource, params, patch, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, usecase.ErrApplicationNotFound
	}
	return &out[0], nil
}

// Delete withdraws an application.
func (r *applicationStore) Delete(ctx context.Context, id string) error {
	params := store.Params{"id": store.Eq(id)}
	var out []entity.Application
	if _, err := r.client.Do(ctx, store.MethodDelete, resource, params, nil, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return usecase.ErrApplicationNotFound
	}
	return nil
}

// HasApplied checks for an existing (user, job) submission.
func (r *applicationStore) HasApplied(ctx context.Context, userID, jobID string) (bool, error) {
	params := store.Params{
		"user_id":         store.Eq(userID),
		"job_id":          store.Eq(jobID),
		store.ParamSelect: "id",
		store.ParamLimit:  "1",
	}
	var out []struct {
		ID string `json:"id"`
	}
	err := store.Retry(ctx, func() error {
		out = out[:0]
		_, err := r.client.Do(ctx, store.MethodGet, resource, params, nil, &out)
		return err
	})
	if err != nil {
		return false, err
	}
	return len(out) > 0, nil
}

// CountByJobIDs resolves application counts for the whole candidate set in
// ceil(n/batchCap) requests. This is the N+1 fix trending depends on: one
// request per ID set, never one per job. Jobs without applications are
// absent from the map.
func (r *applicationStore) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(jobIDs))
	for start := 0; start < len(jobIDs); start += batchCap {
		end := start + batchCap
		if end > len(jobIDs) {
			end = len(jobIDs)
		}
		params := store.Params{
			"job_id":          store.In(jobIDs[start:end]),
			store.ParamSelect: "job_id",
		}
		var rows []struct {
			JobID string `json:"job_id"`
		}
		err := store.Retry(ctx, func() error {
			rows = rows[:0]
			_, err := r.client.Do(ctx, store.MethodGet, resource, params, nil, &rows)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			counts[row.JobID]++
		}
	}
	return counts, nil
}
