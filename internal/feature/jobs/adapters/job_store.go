// Package adapters provides the store-backed repository for the jobs
// feature.
package adapters

import (
	"context"
	"strconv"
	"time"

	"jobboard_backend/internal/feature/jobs/domain/entity"
	"jobboard_backend/internal/feature/jobs/usecase"
	"jobboard_backend/internal/platform/store"
)

const resource = "jobs"

// batchCap bounds how many identifiers one in-set request may carry; larger
// sets are chunked across sequential batched calls.
const batchCap = 500

// jobStore implements usecase.JobRepository over the store request
// primitive. It only ever builds structured parameter maps.
type jobStore struct {
	client store.Client
}

var _ usecase.JobRepository = (*jobStore)(nil)

// NewJobStore creates the jobs repository over the given store binding.
func NewJobStore(client store.Client) *jobStore {
	return &jobStore{client: client}
}

// Create persists a new posting. Mutations are never retried: a timed-out
// write may still have landed.
func (r *jobStore) Create(ctx context.Context, in entity.JobInput) (*entity.Job, error) {
	body := map[string]any{
		"title":           in.Title,
		"company":         in.Company,
		"location":        in.Location,
		"description":     in.Description,
		"salary_min":      in.SalaryMin,
		"salary_max":      in.SalaryMax,
		"job_type":        in.JobType,
		"remote_friendly": in.RemoteFriendly,
		"is_active":       true,
	}
	if in.ExpiresAt != nil {
		body["expires_at"] = in.ExpiresAt.UTC().Format(time.RFC3339)
	}

	var out []entity.Job
	if _, err := r.client.Do(ctx, store.MethodPost, resource, nil, body, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return &out[0], nil
}

// FindByID returns (nil, nil) when the job does not exist.
func (r *jobStore) FindByID(ctx context.Context, id string) (*entity.Job, error) {
	params := store.Params{
		"id":             store.Eq(id),
		store.ParamLimit: "1",
	}
	var out []entity.Job
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

// FindByIDs resolves the whole identifier set in ceil(n/batchCap) requests.
// Unknown IDs are absent from the result rather than failing the batch.
func (r *jobStore) FindByIDs(ctx context.Context, ids []string) ([]entity.Job, error) {
	jobs := make([]entity.Job, 0, len(ids))
	for start := 0; start < len(ids); start += batchCap {
		end := start + batchCap
		if end > len(ids) {
			end = len(ids)
		}
		params := store.Params{"id": store.In(ids[start:end])}
		var chunk []entity.Job
		err := store.Retry(ctx, func() error {
			chunk = chunk[:0]
			_, err := r.client.Do(ctx, store.MethodGet, resource, params, nil, &chunk)
			return err
		})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, chunk...)
	}
	return jobs, nil
}

// Update patches a posting and returns the stored row. A missing record is
// usecase.ErrJobNotFound, distinct from validation and transient failures.
func (r *jobStore) Update(ctx context.Context, id string, patch entity.JobPatch) (*entity.Job, error) {
	params := store.Params{"id": store.Eq(id)}
	var out []entity.Job
	if _, err := r.client.Do(ctx, store.MethodPatch, resource, params, patch, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, usecase.ErrJobNotFound
	}
	return &out[0], nil
}

// Delete removes a posting; missing records yield usecase.ErrJobNotFound.
func (r *jobStore) Delete(ctx context.Context, id string) error {
	params := store.Params{"id": store.Eq(id)}
	var out []entity.Job
	if _, err := r.client.Do(ctx, store.MethodDelete, resource, params, nil, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return usecase.ErrJobNotFound
	}
	return nil
}

// Search combines every filter into one structured parameter set and issues
// exactly one store request. The limit arrives pre-clamped from the service
// layer but is clamped again here as a backstop.
func (r *jobStore) Search(ctx context.Context, f entity.SearchFilter) ([]entity.Job, int64, error) {
	params := store.Params{
		"is_active":      store.Eq("true"),
		store.ParamOrder: "created_at.desc",
		store.ParamCount: store.CountExact,
	}
	if f.Query != "" {
		params[store.ParamOr] = store.OrILike(f.Query, "title", "company", "description")
	}
	if f.Location != "" {
		params["location"] = store.ILike(f.Location)
	}
	if f.JobType != "" {
		params["job_type"] = store.Eq(string(f.JobType))
	}
	// Salary bounds select overlapping ranges: a posting matches when its
	// max clears the requested min and its min stays under the requested max.
	if f.SalaryMin > 0 {
		params["salary_max"] = store.Gte(f.SalaryMin)
	}
	if f.SalaryMax > 0 {
		params["salary_min"] = store.Lte(f.SalaryMax)
	}
	if f.RemoteOnly {
		params["remote_friendly"] = store.Eq("true")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	params[store.ParamLimit] = strconv.Itoa(limit)
	if f.Offset > 0 {
		params[store.ParamOffset] = strconv.Itoa(f.Offset)
	}

	var out []entity.Job
	var total int64
	err := store.Retry(ctx, func() error {
		out = out[:0]
		var doErr error
		total, doErr = r.client.Do(ctx, store.MethodGet, resource, params, nil, &out)
		return doErr
	})
	if err != nil {
		return nil, 0, err
	}
	if total < 0 {
		total = int64(len(out))
	}
	return out, total, nil
}

// CreatedSince lists active postings created on or after since, newest first.
func (r *jobStore) CreatedSince(ctx context.Context, since time.Time, limit int) ([]entity.Job, error) {
	params := store.Params{
		"is_active":      store.Eq("true"),
		"created_at":     store.GteTime(since),
		store.ParamOrder: "created_at.desc",
		store.ParamLimit: strconv.Itoa(limit),
	}
	var out []entity.Job
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

// DeactivateExpired retires every expired active posting with a single
// filtered PATCH.
func (r *jobStore) DeactivateExpired(ctx context.Context, before time.Time) (int, error) {
	params := store.Params{
		"is_active":  store.Eq("true"),
		"expires_at": store.LtTime(before),
	}
	body := map[string]any{"is_active": false}
	var out []entity.Job
	if _, err := r.client.Do(ctx, store.MethodPatch, resource, params, body, &out); err != nil {
		return 0, err
	}
	return len(out), nil
}
