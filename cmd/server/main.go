package main

import (
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"jobboard_backend/internal/app/router"
	appsadapters "jobboard_backend/internal/feature/applications/adapters"
	appshandler "jobboard_backend/internal/feature/applications/transport/handler"
	appsusecase "jobboard_backend/internal/feature/applications/usecase"
	authadapters "jobboard_backend/internal/feature/auth/adapters"
	authhandler "jobboard_backend/internal/feature/auth/transport/handler"
	authusecase "jobboard_backend/internal/feature/auth/usecase"
	jobsadapters "jobboard_backend/internal/feature/jobs/adapters"
	jobshandler "jobboard_backend/internal/feature/jobs/transport/handler"
	jobsusecase "jobboard_backend/internal/feature/jobs/usecase"
	"jobboard_backend/internal/platform/cache"
	"jobboard_backend/internal/platform/config"
	platformhttp "jobboard_backend/internal/platform/http"
	jwtmw "jobboard_backend/internal/platform/jwt"
	infraredis "jobboard_backend/internal/platform/redis"
	"jobboard_backend/internal/platform/store"
	"jobboard_backend/internal/shared/guard"
)

func main() {
	cfg := config.Load()

	// Data service binding
	client := newStoreClient(cfg)

	// Redis (optional: everything degrades to uncached)
	var rdb *redisv9.Client
	if cfg.RedisHost != "" {
		if tmp, err := infraredis.NewRedisClient(cfg.RedisHost+":"+cfg.RedisPort, cfg.RedisPassword); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	} else {
		log.Println("[WARN] REDIS_HOST not set. Running without cache.")
	}
	cacheMgr := cache.NewManager(rdb, 0)

	// Guards
	lockout := guard.New(guard.Config{
		MaxAttempts:   cfg.LockoutMaxAttempts,
		WindowSeconds: cfg.LockoutWindowSeconds,
	})
	searchGuard := guard.New(guard.Config{
		MaxAttempts:   cfg.SearchRateLimit,
		WindowSeconds: cfg.SearchRateWindowSeconds,
	})

	// Repositories
	jobRepo := jobsadapters.NewJobStore(client)
	appRepo := appsadapters.NewApplicationStore(client)
	userRepo := authadapters.NewUserStore(client)

	// Usecases
	jobsUC := jobsusecase.NewJobsUsecase(jobRepo, appRepo, appRepo, cacheMgr, nil, searchGuard)
	appsUC := appsusecase.NewApplicationsUsecase(appRepo, jobRepo, cacheMgr)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(cfg.JWTSecret, 24*time.Hour), appsUC, lockout)

	// Handlers
	authH := authhandler.NewAuthHandler(authUC)
	jobsH := jobshandler.NewJobHandler(jobsUC)
	appsH := appshandler.NewApplicationHandler(appsUC)

	r := router.NewRouter(authH, jobsH, appsH)

	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

// newStoreClient selects the data-service binding: the hosted REST service
// or a direct SQL connection.
func newStoreClient(cfg config.Config) store.Client {
	if cfg.StoreBackend == "rest" {
		if cfg.StoreURL == "" {
			log.Fatal("STORE_URL must be set for the rest backend")
		}
		return store.NewRESTClient(cfg.StoreURL, cfg.StoreAPIKey, platformhttp.NewHTTPClient(10*time.Second))
	}
	db := store.OpenPostgres(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.RunMigrations)
	return store.NewGormClient(db)
}
