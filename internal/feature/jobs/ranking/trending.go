// Package ranking computes derived job orderings. Every function is pure:
// ranking works only on data the repository already batch-fetched and never
// issues store requests of its own.
package ranking

import (
	"sort"

	"jobboard_backend/internal/feature/jobs/domain/entity"
)

// Trending orders candidates by recent application volume and truncates to
// limit. Sort key: application count descending, then created_at descending
// (newer postings win ties), then ascending ID as the stable final
// tie-break.
func Trending(candidates []entity.Job, counts map[string]int, limit int) []entity.Job {
	ranked := make([]entity.Job, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := counts[ranked[i].ID], counts[ranked[j].ID]
		if ci != cj {
			return ci > cj
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// MergeSimilar deduplicates keyword search results into one similar-jobs
// list. First-seen order across keyword passes is preserved (earlier
// keywords carry more weight), the source job is excluded, and the output
// never exceeds limit.
func MergeSimilar(sourceID string, resultSets [][]entity.Job, limit int) []entity.Job {
	seen := map[string]struct{}{sourceID: {}}
	var merged []entity.Job
	for _, set := range resultSets {
		for _, job := range set {
			if _, ok := seen[job.ID]; ok {
				continue
			}
			seen[job.ID] = struct{}{}
			merged = append(merged, job)
			if limit > 0 && len(merged) == limit {
				return merged
			}
		}
	}
	return merged
}
