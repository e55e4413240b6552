package usecase

import (
	"context"
	"errors"
	"log/slog"

	"jobboard_backend/internal/feature/applications/domain/entity"
	jobentity "jobboard_backend/internal/feature/jobs/domain/entity"
	"jobboard_backend/internal/platform/cache"
	"jobboard_backend/internal/platform/store"
)

const cacheEntity = "applications"

// ApplicationRepository is the persistence abstraction this service layer
// consumes.
type ApplicationRepository interface {
	Create(ctx context.Context, in entity.ApplicationInput) (*entity.Application, error)
	// FindByID returns (nil, nil) when no such application exists.
	FindByID(ctx context.Context, id string) (*entity.Application, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Application, error)
	UpdateStatus(ctx context.Context, id string, patch entity.StatusPatch) (*entity.Application, error)
	Delete(ctx context.Context, id string) error
	HasApplied(ctx context.Context, userID, jobID string) (bool, error)
}

// JobResolver batch-resolves the jobs referenced by a set of applications.
type JobResolver interface {
	FindByIDs(ctx context.Context, ids []string) ([]jobentity.Job, error)
}

// ApplicationWithJob attaches the referenced posting to an application.
// Job is nil when the posting no longer resolves; the listing still ships.
type ApplicationWithJob struct {
	entity.Application
	Job *jobentity.Job `json:"job,omitempty"`
}

// Stats summarizes a user's pipeline.
type Stats struct {
	Total    int                   `json:"total"`
	ByStatus map[entity.Status]int `json:"by_status"`
}

// UserApplications is the per-user listing composite.
type UserApplications struct {
	Applications []ApplicationWithJob `json:"applications"`
	Stats        Stats                `json:"statistics"`
}

// ApplicationsUsecase composes the repository, job resolution and cache
// into the application-facing operations.
type ApplicationsUsecase struct {
	apps  ApplicationRepository
	jobs  JobResolver
	cache *cache.Manager
}

// NewApplicationsUsecase wires the applications service layer.
func NewApplicationsUsecase(apps ApplicationRepository, jobs JobResolver, cacheMgr *cache.Manager) *ApplicationsUsecase {
	return &ApplicationsUsecase{apps: apps, jobs: jobs, cache: cacheMgr}
}

// Apply validates and submits an application. A second submission to the
// same job is rejected.
func (u *ApplicationsUsecase) Apply(ctx context.Context, in entity.ApplicationInput) (*entity.Application, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	applied, err := u.apps.HasApplied(ctx, in.UserID, in.JobID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, ErrAlreadyApplied
	}

	app, err := u.apps.Create(ctx, in)
	if err != nil {
		// Two near-simultaneous submissions can both pass the pre-check;
		// the store's uniqueness constraint settles the race.
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	u.invalidate(ctx)
	return app, nil
}

// GetUserApplications lists a user's applications with the referenced jobs
// attached. Jobs are resolved for the full ID set in batched requests and
// warmed through the entity cache; IDs that no longer resolve produce
// entries without a job rather than failing the listing.
func (u *ApplicationsUsecase) GetUserApplications(ctx context.Context, userID string) (*UserApplications, error) {
	key := cache.Key(cacheEntity, "user", userID)
	var cached UserApplications
	if hit, err := u.cache.Get(ctx, key, &cached); err != nil {
		slog.Debug("cache read failed, treating as miss", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	apps, err := u.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	jobsByID, err := u.resolveJobs(ctx, apps)
	if err != nil {
		return nil, err
	}

	result := &UserApplications{
		Applications: make([]ApplicationWithJob, 0, len(apps)),
		Stats:        Stats{Total: len(apps), ByStatus: map[entity.Status]int{}},
	}
	for _, app := range apps {
		item := ApplicationWithJob{Application: app}
		if job, ok := jobsByID[app.JobID]; ok {
			j := job
			item.Job = &j
		}
		result.Applications = append(result.Applications, item)
		result.Stats.ByStatus[app.Status]++
	}

	if err := u.cache.Set(ctx, key, result, cache.DefaultCompositeTTL); err != nil {
		slog.Debug("cache write failed", "key", key, "error", err)
	}
	return result, nil
}

// UpdateStatus moves an application through the pipeline.
func (u *ApplicationsUsecase) UpdateStatus(ctx context.Context, id string, patch entity.StatusPatch) (*entity.Application, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	app, err := u.apps.UpdateStatus(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx)
	return app, nil
}

// Withdraw removes one of the user's own applications. Applications owned
// by someone else are indistinguishable from missing ones.
func (u *ApplicationsUsecase) Withdraw(ctx context.Context, userID, id string) error {
	app, err := u.apps.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if app == nil || app.UserID != userID {
		return ErrApplicationNotFound
	}
	if err := u.apps.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate(ctx)
	return nil
}

// resolveJobs gathers the unique referenced job IDs, serves what it can
// from the entity cache in one batched read, fetches the rest in batched
// store requests and warms the cache with them.
func (u *ApplicationsUsecase) resolveJobs(ctx context.Context, apps []entity.Application) (map[string]jobentity.Job, error) {
	ids := make([]string, 0, len(apps))
	seen := map[string]struct{}{}
	for _, app := range apps {
		if _, ok := seen[app.JobID]; ok {
			continue
		}
		seen[app.JobID] = struct{}{}
		ids = append(ids, app.JobID)
	}
	if len(ids) == 0 {
		return map[string]jobentity.Job{}, nil
	}

	keys := make([]string, len(ids))
	keyToID := make(map[string]string, len(ids))
	for i, id := range ids {
		keys[i] = cache.Key("jobs", "id", id)
		keyToID[keys[i]] = id
	}

	jobsByID := make(map[string]jobentity.Job, len(ids))
	hits, err := cache.MultiGet[jobentity.Job](ctx, u.cache, keys)
	if err != nil {
		slog.Debug("cache multi-read failed, treating as misses", "error", err)
	}
	for key, job := range hits {
		jobsByID[keyToID[key]] = job
	}

	var missing []string
	for _, id := range ids {
		if _, ok := jobsByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return jobsByID, nil
	}

	fetched, err := u.jobs.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	warm := make(map[string]jobentity.Job, len(fetched))
	for _, job := range fetched {
		jobsByID[job.ID] = job
		warm[cache.Key("jobs", "id", job.ID)] = job
	}
	if err := cache.MultiSet(ctx, u.cache, warm, cache.DefaultEntityTTL); err != nil {
		slog.Debug("cache multi-write failed", "error", err)
	}
	return jobsByID, nil
}

func (u *ApplicationsUsecase) invalidate(ctx context.Context) {
	// Trending derives from application counts, so its namespace is
	// cleared alongside the applications namespace.
	for _, prefix := range []string{cache.EntityPrefix(cacheEntity), cache.OpPrefix("jobs", "trending")} {
		if _, err := u.cache.InvalidateByPrefix(ctx, prefix); err != nil {
			slog.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}
