package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.ConnectWithRetry(ctx, cfg.DatabaseURL, db.ConnectOptions{
		MaxConns: cfg.DBMaxConns,
		Retries:  cfg.DBConnectRetries,
		Delay:    cfg.DBConnectDelay,
	})
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("migrations failed", "error", err)
	}
	if err := db.Seed(ctx, pool, db.SeedOptions{
		Admin:         cfg.SeedAdmin,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}); err != nil {
		logger.Fatal("seed failed", "error", err)
	}

	rdb := connectRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	var relay ws.Relay
	if rdb != nil {
		relay = ws.NewRedisRelay(rdb, ws.DefaultRelayChannel)
	}
	hub := ws.NewHub(relay)
	go hub.Run(ctx)

	tokens, err := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatal("jwt setup failed", "error", err)
	}

	store := repository.NewStore(pool)
	statsCache := cache.New(rdb, "stats", cfg.StatsCacheTTL)
	events := ws.NewBroadcaster(hub)
	activities := service.NewActivityService(store, events)

	h := handlers.NewHandler(handlers.Services{
		Auth:          service.NewAuthService(store, tokens).WithStats(statsCache),
		Users:         service.NewUserService(store),
		Tasks:         service.NewTaskService(store, activities, events, statsCache),
		Statuses:      service.NewStatusService(store, events, statsCache),
		Activities:    activities,
		Notifications: service.NewNotificationService(store, events, statsCache),
		Stats:         service.NewStatsService(store, statsCache),
	}, handlers.HandlerConfig{Production: cfg.IsProduction()})

	var redisPinger handlers.Pinger
	if rdb != nil {
		redisPinger = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	health := handlers.NewHealthHandler(pool, redisPinger, hub, version)

	r := httpServer.NewEngine(httpServer.Deps{
		Handler: h,
		Health:  health,
		Hub:     hub,
		Limiter: middleware.NewRateLimiter(rdb),
		Limits: httpServer.Limits{
			API:        cfg.APIRateLimit,
			APIWindow:  cfg.APIRateWindow,
			Auth:       cfg.AuthRateLimit,
			AuthWindow: cfg.AuthRateWindow,
		},
		Timeout:  cfg.RequestTimeout,
		Frontend: cfg.FrontendURL,
		WSOrigin: cfg.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.AppEnv, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// server then runs with in-process rate limiting, no stats cache and a
// single-instance hub.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr)
	return rdb
}
