package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/danolu/userhub/internal/config"
	"github.com/danolu/userhub/internal/http/handlers"
	"github.com/danolu/userhub/internal/http/middlewares"
	"github.com/danolu/userhub/internal/observability"
	"github.com/danolu/userhub/internal/ratelimit"
	"github.com/danolu/userhub/internal/repo/postgres"
	"github.com/danolu/userhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, loginLimiter ratelimit.Limiter) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("userhub"))
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/", handlers.Home)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// wire up the repo, the service and the handlers
	usersRepo := postgres.NewUsersRepo(pool, prom)
	usersService := service.NewUserService(usersRepo, log)

	usersHandler := handlers.NewUsersHandler(usersService)
	authHandler := handlers.NewAuthHandler(usersService)

	r.GET("/users", usersHandler.GetAllUsers)
	r.GET("/user/:id", usersHandler.GetUserByID)
	r.POST("/users", usersHandler.CreateUser)
	r.PUT("/user/:id", usersHandler.UpdateUser)
	r.DELETE("/user/:id", usersHandler.DeleteUser)
	r.GET("/search", usersHandler.SearchUsers)
	// login is the brute-force target, keep it behind the limiter
	r.POST("/login", middlewares.RateLimit(loginLimiter, middlewares.KeyByIP), authHandler.Login)

	return r
}
