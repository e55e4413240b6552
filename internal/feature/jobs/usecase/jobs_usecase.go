package usecase

import (
	"context"
	"log/slog"
	"time"

	"jobboard_backend/internal/feature/jobs/domain/entity"
	"jobboard_backend/internal/feature/jobs/ranking"
	"jobboard_backend/internal/platform/cache"
	"jobboard_backend/internal/shared/guard"
	"jobboard_backend/internal/shared/sanitize"
)

const (
	defaultSearchLimit = 20
	// maxSearchLimit caps result sizes regardless of what the caller asks
	// for, protecting the backing store.
	maxSearchLimit = 100

	defaultTrendingDays  = 7
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
	// trendingCandidateCap bounds the recent-jobs window that trending
	// ranks over.
	trendingCandidateCap = 200

	similarKeywordCount = 3
	similarProbeLimit   = 20
	defaultSimilarLimit = 5
)

// cacheEntity is the namespace all job cache keys live under.
const cacheEntity = "jobs"

// JobRepository is the persistence abstraction the service layer depends
// on. Interfaces live with their consumer, Go convention.
type JobRepository interface {
	// Create persists a validated posting and returns it with its
	// store-assigned identifier.
	Create(ctx context.Context, in entity.JobInput) (*entity.Job, error)

	// FindByID returns (nil, nil) when no such job exists, so callers can
	// branch on absence without error handling.
	FindByID(ctx context.Context, id string) (*entity.Job, error)

	// FindByIDs resolves a set of jobs in batched requests. IDs that do
	// not resolve are simply absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]entity.Job, error)

	// Update applies a partial change. Missing records yield ErrJobNotFound.
	Update(ctx context.Context, id string, patch entity.JobPatch) (*entity.Job, error)

	// Delete removes a posting. Missing records yield ErrJobNotFound.
	Delete(ctx context.Context, id string) error

	// Search runs the full filter set in a single store request and
	// returns the page plus the total match count.
	Search(ctx context.Context, f entity.SearchFilter) ([]entity.Job, int64, error)

	// CreatedSince lists active jobs created on or after since, newest
	// first, capped at limit.
	CreatedSince(ctx context.Context, since time.Time, limit int) ([]entity.Job, error)

	// DeactivateExpired flips is_active off for every job whose expiry has
	// passed, in one request, and reports how many were touched.
	DeactivateExpired(ctx context.Context, before time.Time) (int, error)
}

// ApplicationCounter resolves application counts for a whole candidate set
// in batched requests, never one request per job.
type ApplicationCounter interface {
	CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error)
}

// AppliedChecker reports whether a user already applied to a job.
type AppliedChecker interface {
	HasApplied(ctx context.Context, userID, jobID string) (bool, error)
}

// SearchResult is a search page plus the total match count.
type SearchResult struct {
	Jobs  []entity.Job `json:"jobs"`
	Total int64        `json:"total"`
}

// JobDetails is the composite returned for a single posting.
type JobDetails struct {
	Job         entity.Job   `json:"job"`
	SimilarJobs []entity.Job `json:"similar_jobs"`
	HasApplied  bool         `json:"has_applied"`
}

// JobsUsecase composes repository, cache, ranking and the rate-limit guard
// into the job-facing service operations.
type JobsUsecase struct {
	jobs      JobRepository
	counts    ApplicationCounter
	applied   AppliedChecker
	cache     *cache.Manager
	extractor ranking.KeywordExtractor
	guard     *guard.Guard
	now       func() time.Time
}

// NewJobsUsecase wires the job service layer. cache and searchGuard may be
// nil; both degrade to pass-through.
func NewJobsUsecase(jobs JobRepository, counts ApplicationCounter, applied AppliedChecker,
	cacheMgr *cache.Manager, extractor ranking.KeywordExtractor, searchGuard *guard.Guard) *JobsUsecase {
	if extractor == nil {
		extractor = ranking.NewFrequencyExtractor()
	}
	return &JobsUsecase{
		jobs:      jobs,
		counts:    counts,
		applied:   applied,
		cache:     cacheMgr,
		extractor: extractor,
		guard:     searchGuard,
		now:       time.Now,
	}
}

// SearchJobs validates and sanitizes the filter, then serves the page from
// cache or a single repository round trip. actor identifies the caller for
// flood limiting and may be empty for trusted internal calls.
func (u *JobsUsecase) SearchJobs(ctx context.Context, actor string, f entity.SearchFilter) (*SearchResult, error) {
	if u.guard != nil && actor != "" && !u.guard.Allow(guard.Key("search", actor)) {
		return nil, ErrRateLimited
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.Query = sanitize.Term(f.Query)
	f.Location = sanitize.Term(f.Location)
	f.Limit = clampLimit(f.Limit, defaultSearchLimit, maxSearchLimit)

	key := cache.Key(cacheEntity, "search", f)
	var cached SearchResult
	if hit, err := u.cache.Get(ctx, key, &cached); err != nil {
		slog.Debug("cache read failed, treating as miss", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	jobs, total, err := u.jobs.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{Jobs: jobs, Total: total}

	if err := u.cache.Set(ctx, key, result, cache.DefaultCompositeTTL); err != nil {
		slog.Debug("cache write failed", "key", key, "error", err)
	}
	return result, nil
}

// GetJob returns one posting, served from the entity cache when possible.
func (u *JobsUsecase) GetJob(ctx context.Context, id string) (*entity.Job, error) {
	key := cache.Key(cacheEntity, "id", id)
	var cached entity.Job
	if hit, err := u.cache.Get(ctx, key, &cached); err != nil {
		slog.Debug("cache read failed, treating as miss", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	job, err := u.jobs.FindByID(ctx, id)
	if err != nil || job == nil {
		return job, err
	}
	if err := u.cache.Set(ctx, key, job, cache.DefaultEntityTTL); err != nil {
		slog.Debug("cache write failed", "key", key, "error", err)
	}
	return job, nil
}

// GetJobDetails returns a posting together with similar jobs and, when
// userID is set, whether that user already applied. The job+similar
// composite is cached; the per-user applied flag is always fresh.
func (u *JobsUsecase) GetJobDetails(ctx context.Context, jobID, userID string) (*JobDetails, error) {
	type composite struct {
		Job     entity.Job
		Similar []entity.Job
	}

	key := cache.Key(cacheEntity, "details", jobID)
	var c composite
	hit, err := u.cache.Get(ctx, key, &c)
	if err != nil {
		slog.Debug("cache read failed, treating as miss", "key", key, "error", err)
		hit = false
	}
	if !hit {
		job, err := u.jobs.FindByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, ErrJobNotFound
		}
		c = composite{Job: *job, Similar: u.similarJobs(ctx, *job, defaultSimilarLimit)}
		if err := u.cache.Set(ctx, key, c, cache.DefaultCompositeTTL); err != nil {
			slog.Debug("cache write failed", "key", key, "error", err)
		}
	}

	details := &JobDetails{Job: c.Job, SimilarJobs: c.Similar}
	if userID != "" && u.applied != nil {
		applied, err := u.applied.HasApplied(ctx, userID, jobID)
		if err != nil {
			// The applied flag is decoration; details still ship.
			slog.Warn("has-applied lookup failed", "job", jobID, "user", userID, "error", err)
		}
		details.HasApplied = applied
	}
	return details, nil
}

// GetTrendingJobs ranks recently created jobs by application volume inside
// a rolling window of days. Counts for the whole candidate set are resolved
// in batched requests.
func (u *JobsUsecase) GetTrendingJobs(ctx context.Context, days, limit int) ([]entity.Job, error) {
	if days <= 0 {
		days = defaultTrendingDays
	}
	limit = clampLimit(limit, defaultTrendingLimit, maxTrendingLimit)

	params := struct {
		Days  int `json:"days"`
		Limit int `json:"limit"`
	}{days, limit}
	key := cache.Key(cacheEntity, "trending", params)
	var cached []entity.Job
	if hit, err := u.cache.Get(ctx, key, &cached); err != nil {
		slog.Debug("cache read failed, treating as miss", "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	since := u.now().AddDate(0, 0, -days)
	candidates, err := u.jobs.CreatedSince(ctx, since, trendingCandidateCap)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(candidates))
	for i, j := range candidates {
		ids[i] = j.ID
	}
	counts, err := u.counts.CountByJobIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	trending := ranking.Trending(candidates, counts, limit)
	if err := u.cache.Set(ctx, key, trending, cache.DefaultCompositeTTL); err != nil {
		slog.Debug("cache write failed", "key", key, "error", err)
	}
	return trending, nil
}

// CreateJob validates and persists a posting, then clears the jobs cache
// namespace.
func (u *JobsUsecase) CreateJob(ctx context.Context, in entity.JobInput) (*entity.Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	job, err := u.jobs.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx)
	return job, nil
}

// UpdateJob applies a partial update and clears the jobs cache namespace,
// so stale pre-mutation data is never served.
func (u *JobsUsecase) UpdateJob(ctx context.Context, id string, patch entity.JobPatch) (*entity.Job, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	job, err := u.jobs.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx)
	return job, nil
}

// DeleteJob removes a posting and clears the jobs cache namespace.
func (u *JobsUsecase) DeleteJob(ctx context.Context, id string) error {
	if err := u.jobs.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate(ctx)
	return nil
}

// DeactivateExpired retires every posting whose expiry has passed. Invoked
// by the cleanup batch; scheduling lives outside this core.
func (u *JobsUsecase) DeactivateExpired(ctx context.Context) (int, error) {
	n, err := u.jobs.DeactivateExpired(ctx, u.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.invalidate(ctx)
	}
	return n, nil
}

// similarJobs finds postings sharing keywords with the source job: one
// bounded search per extracted keyword, merged in keyword-importance order.
func (u *JobsUsecase) similarJobs(ctx context.Context, source entity.Job, limit int) []entity.Job {
	keywords := u.extractor.ExtractKeywords(source.Title+" "+source.Description, similarKeywordCount)
	resultSets := make([][]entity.Job, 0, len(keywords))
	for _, kw := range keywords {
		jobs, _, err := u.jobs.Search(ctx, entity.SearchFilter{Query: kw, Limit: similarProbeLimit})
		if err != nil {
			// Partial results beat failing the whole details call.
			slog.Warn("similar-jobs keyword search failed", "keyword", kw, "error", err)
			continue
		}
		resultSets = append(resultSets, jobs)
	}
	return ranking.MergeSimilar(source.ID, resultSets, limit)
}

func (u *JobsUsecase) invalidate(ctx context.Context) {
	if _, err := u.cache.InvalidateByPrefix(ctx, cache.EntityPrefix(cacheEntity)); err != nil {
		slog.Warn("cache invalidation failed", "prefix", cacheEntity, "error", err)
	}
}

func clampLimit(v, fallback, max int) int {
	if v <= 0 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}
