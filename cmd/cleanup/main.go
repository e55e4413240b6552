// Command cleanup deactivates job postings whose expiry date has passed.
// It is meant to run on a schedule (cron or a container job).
package main

import (
	"context"
	"log"
	"time"

	jobsadapters "jobboard_backend/internal/feature/jobs/adapters"
	jobsusecase "jobboard_backend/internal/feature/jobs/usecase"
	"jobboard_backend/internal/platform/cache"
	"jobboard_backend/internal/platform/config"
	platformhttp "jobboard_backend/internal/platform/http"
	infraredis "jobboard_backend/internal/platform/redis"
	"jobboard_backend/internal/platform/store"
)

func main() {
	cfg := config.Load()

	var client store.Client
	if cfg.StoreBackend == "rest" {
		if cfg.StoreURL == "" {
			log.Fatal("STORE_URL must be set for the rest backend")
		}
		client = store.NewRESTClient(cfg.StoreURL, cfg.StoreAPIKey, platformhttp.NewHTTPClient(30*time.Second))
	} else {
		db := store.OpenPostgres(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, false)
		client = store.NewGormClient(db)
	}

	// Cached listings must not keep serving postings this run retires.
	cacheMgr := cache.NewManager(nil, 0)
	if cfg.RedisHost != "" {
		if rdb, err := infraredis.NewRedisClient(cfg.RedisHost+":"+cfg.RedisPort, cfg.RedisPassword); err != nil {
			log.Println("[WARN] Redis unavailable. Stale cached listings will age out by TTL.")
		} else {
			cacheMgr = cache.NewManager(rdb, 0)
			defer rdb.Close()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	uc := jobsusecase.NewJobsUsecase(jobsadapters.NewJobStore(client), nil, nil, cacheMgr, nil, nil)
	n, err := uc.DeactivateExpired(ctx)
	if err != nil {
		log.Fatalf("expiry sweep failed: %v", err)
	}
	log.Printf("expiry sweep done: %d postings deactivated", n)
}
