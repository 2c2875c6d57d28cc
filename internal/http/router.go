package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jujunior/juniorsworld/internal/auth"
	"github.com/jujunior/juniorsworld/internal/bgg"
	"github.com/jujunior/juniorsworld/internal/captcha"
	"github.com/jujunior/juniorsworld/internal/config"
	"github.com/jujunior/juniorsworld/internal/http/handlers"
	"github.com/jujunior/juniorsworld/internal/http/middlewares"
	"github.com/jujunior/juniorsworld/internal/observability"
	"github.com/jujunior/juniorsworld/internal/repo/postgres"
	"github.com/jujunior/juniorsworld/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires every route. Repositories, the BGG client and the media
// presigner are built from the pool and config passed in; nothing here
// reaches for globals.
func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	cfg config.Config,
	reg *prometheus.Registry,
	prom *observability.Prom,
	bggClient *bgg.Client,
	media *storage.Media,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(otelgin.Middleware("juniorsworld-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	r.HandleMethodNotAllowed = true
	r.NoMethod(handlers.RespondMethodNotAllowed)

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	healthHandler := handlers.NewHealthHandler(ping)
	r.GET("/health", healthHandler.Health)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	postsRepo := postgres.NewPostsRepo(pool, prom)
	calendarRepo := postgres.NewCalendarRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLDays)*24*time.Hour)
	verifier := captcha.NewGoogle(cfg.RecaptchaSecret, cfg.RecaptchaMinScore)

	authMW := middlewares.NewAuthMiddleware(jwtManager)
	authed := authMW.RequireAuth()

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, verifier, cfg)
	postsHandler := handlers.NewPostsHandler(postsRepo)
	calendarHandler := handlers.NewCalendarHandler(calendarRepo)
	gamesHandler := handlers.NewGamesHandler(bggClient)
	mediaHandler := handlers.NewMediaHandler(media)

	// login gets its own per-IP limiter
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	api := r.Group("/api")

	api.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	api.GET("/travel/posts", postsHandler.Get)
	api.POST("/travel/posts", authed, postsHandler.Create)
	api.PUT("/travel/posts", authed, postsHandler.Update)
	api.DELETE("/travel/posts", authed, postsHandler.Delete)

	api.POST("/travel/media", authed, authMW.RequireRole("admin"), mediaHandler.Presign)

	api.GET("/petsitting/calendar", calendarHandler.List)
	api.POST("/petsitting/calendar", authed, calendarHandler.Upsert)
	api.PUT("/petsitting/calendar", authed, calendarHandler.Upsert)

	api.GET("/get-games", gamesHandler.GetCollection)

	return r
}
