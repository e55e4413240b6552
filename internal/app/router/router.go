// Package router assembles the HTTP routing table.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appshandler "jobboard_backend/internal/feature/applications/transport/handler"
	authhandler "jobboard_backend/internal/feature/auth/transport/handler"
	jobshandler "jobboard_backend/internal/feature/jobs/transport/handler"
	"jobboard_backend/internal/platform/http/handler"
	jwtmw "jobboard_backend/internal/platform/jwt"
)

// NewRouter wires every endpoint. Mutating and per-user routes sit behind
// the JWT middleware; job details runs the optional variant so the
// has-applied flag works for signed-in users.
func NewRouter(authH *authhandler.AuthHandler, jobsH *jobshandler.JobHandler,
	appsH *appshandler.ApplicationHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/healthz", handler.Health)
	r.POST("/signup", authH.Signup)
	r.POST("/login", authH.Login)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/jobs", jobsH.Search)
		apiGroup.GET("/jobs/trending", jobsH.Trending)
		apiGroup.GET("/jobs/:id", jwtmw.AuthOptional(), jobsH.Details)
	}

	authed := r.Group("/api")
	authed.Use(jwtmw.AuthRequired())
	{
		authed.POST("/jobs", jobsH.Create)
		authed.PATCH("/jobs/:id", jobsH.Update)
		authed.DELETE("/jobs/:id", jobsH.Delete)

		authed.POST("/jobs/:id/apply", appsH.Apply)
		authed.GET("/applications", appsH.ListMine)
		authed.PATCH("/applications/:id", appsH.UpdateStatus)
		authed.DELETE("/applications/:id", appsH.Withdraw)

		authed.GET("/me", authH.Me)
	}

	return r
}
