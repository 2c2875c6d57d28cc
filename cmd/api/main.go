package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jujunior/juniorsworld/internal/bgg"
	"github.com/jujunior/juniorsworld/internal/cache"
	"github.com/jujunior/juniorsworld/internal/config"
	"github.com/jujunior/juniorsworld/internal/db"
	httpx "github.com/jujunior/juniorsworld/internal/http"
	"github.com/jujunior/juniorsworld/internal/observability"
	"github.com/jujunior/juniorsworld/internal/storage"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// tracing is optional: only started when an OTLP endpoint is configured
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "juniorsworld-api", cfg.Env, cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()

			if err := shutdownTracer(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}()
	}

	// database
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	{
		ctx, cancel := config.WithTimeout(30 * time.Second)

		err = db.RunMigrations(ctx, cfg.DBURL)

		if err == nil {
			err = db.EnsureAdminUser(ctx, pool, cfg)
		}

		cancel()

		if err != nil {
			log.Error("database bootstrap failed", "err", err)
			os.Exit(1)
		}
	}

	// metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// BGG responses are cached in Redis when one is configured, otherwise
	// in process memory
	var store cache.Store = cache.NewMemory()

	if cfg.RedisAddr != "" {
		redisStore := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := config.WithTimeout(2 * time.Second)

		err = redisStore.Ping(ctx)

		cancel()

		if err != nil {
			log.Warn("redis unreachable, falling back to memory cache", "err", err)
		} else {
			store = redisStore
			defer redisStore.Close()
		}
	}

	bggClient := bgg.NewClient(cfg.BGGUsername, cfg.BGGToken, store, cfg.BGGCacheTTL, prom)

	media := storage.NewMedia(cfg.S3Region, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.MediaBaseURL)

	// set up routers with the log
	router := httpx.NewRouter(log, pool, cfg, reg, prom, bggClient, media)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
