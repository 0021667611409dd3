// Package main is the entry point for the Momentum Hub API server.
//
// Momentum Hub turns IELTS preparation into a daily habit: three seeded
// challenges per study day, XP and levels, a streak counter and a shared
// leaderboard. The server wires the layers together and exposes them over
// a JSON REST API.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: PostgreSQL repositories, Redis cache
// - Interface: HTTP handlers
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ielts-momentum/momentum-hub/config"
	"github.com/ielts-momentum/momentum-hub/internal/application/command"
	"github.com/ielts-momentum/momentum-hub/internal/application/query"
	"github.com/ielts-momentum/momentum-hub/internal/infrastructure/persistence/postgres"
	"github.com/ielts-momentum/momentum-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/ielts-momentum/momentum-hub/internal/interface/http"
	"github.com/ielts-momentum/momentum-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Observability.LogLevel))
	log.Info("starting Momentum Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")

	var dbConn *postgres.Connection
	if cfg.Database.URL != "" {
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	} else {
		dbConn, err = postgres.NewConnection(ctx, postgres.DefaultConfig())
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established", logger.Component("postgres"))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed", logger.Component("postgres"), logger.Operation("migrate"))

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var leaderboardCache *redis.LeaderboardCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, leaderboard caching disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established", logger.Component("redis"))
		}
	} else {
		log.Info("Redis disabled, leaderboard reads go straight to PostgreSQL")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	challengeRepo := postgres.NewChallengeRepository(dbConn)
	scoreRepo := postgres.NewScoreRepository(dbConn)
	activityRepo := postgres.NewActivityRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────

	// The nil-interface dance: a typed nil inside a non-nil interface would
	// defeat the handlers' nil checks, so the cache is only assigned when it
	// actually exists.
	var invalidator command.LeaderboardInvalidator
	var queryCache query.LeaderboardCache
	if leaderboardCache != nil {
		invalidator = leaderboardCache
		queryCache = leaderboardCache
	}

	signUp := command.NewSignUpHandler(userRepo, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLen)
	authenticate := command.NewAuthenticateHandler(userRepo, activityRepo)
	ensureChallenges := command.NewEnsureDailyChallengesHandler(challengeRepo)
	completeChallenge := command.NewCompleteChallengeHandler(challengeRepo, activityRepo, invalidator)
	submitScore := command.NewSubmitScoreHandler(scoreRepo)
	updateProfile := command.NewUpdateProfileHandler(userRepo)
	manageUser := command.NewManageUserHandler(userRepo)
	publishChallenge := command.NewPublishChallengeHandler()

	getDashboard := query.NewGetDashboardHandler(userRepo, challengeRepo, activityRepo)
	getLeaderboard := query.NewGetLeaderboardHandler(challengeRepo, userRepo, queryCache)
	getScoreHistory := query.NewGetScoreHistoryHandler(scoreRepo)
	getAdminOverview := query.NewGetAdminOverviewHandler(userRepo, activityRepo)
	listUsers := query.NewListUsersHandler(userRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SEED ACCOUNTS
	// ─────────────────────────────────────────────────────────────────────────
	created, err := command.EnsureSeedUsers(ctx, signUp, userRepo, command.DefaultSeedUsers())
	if err != nil {
		return fmt.Errorf("failed to ensure seed users: %w", err)
	}
	if created > 0 {
		log.Info("seed accounts created", logger.Int("count", created))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpDeps := httpserver.Dependencies{
		SignUp:                signUp,
		Authenticate:          authenticate,
		EnsureDailyChallenges: ensureChallenges,
		CompleteChallenge:     completeChallenge,
		SubmitScore:           submitScore,
		UpdateProfile:         updateProfile,
		ManageUser:            manageUser,
		PublishChallenge:      publishChallenge,
		GetDashboard:          getDashboard,
		GetLeaderboard:        getLeaderboard,
		GetScoreHistory:       getScoreHistory,
		GetAdminOverview:      getAdminOverview,
		ListUsers:             listUsers,
		Users:                 userRepo,
		Pinger:                dbConn,
		Logger:                log,
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", logger.String("address", server.Address()))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Momentum Hub is running", logger.String("address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed")
	return nil
}
