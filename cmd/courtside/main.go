package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/ingest/bref"
	"github.com/fortuna/courtside/internal/ingest/dataset"
	"github.com/fortuna/courtside/internal/ingest/nba"
	"github.com/fortuna/courtside/internal/logger"
	"github.com/fortuna/courtside/internal/scheduler"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
	"github.com/sirupsen/logrus"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"

	redisMaxRetries = 30
	redisRetryDelay = 2 * time.Second
)

func main() {
	cfg, foundEnv, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if !foundEnv {
		log.Debug("no .env file found, using environment only")
	}
	log.Infof("Starting %s v%s - NBA stats dashboard service", serviceName, serviceVersion)

	loc, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	// Initialize database connection
	db, err := store.NewDatabase(cfg.Database.DSN, logger.WithComponent("store"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	if err := db.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Initialize Redis client with retry logic
	var redisCache *cache.RedisCache
	for i := 0; i < redisMaxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL)
		if err == nil {
			break
		}
		if i < redisMaxRetries-1 {
			log.WithError(err).Warnf("Redis connection attempt %d/%d failed (retrying in %v)", i+1, redisMaxRetries, redisRetryDelay)
			time.Sleep(redisRetryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", redisMaxRetries, err)
		}
	}
	defer redisCache.Close()
	log.Info("Connected to Redis")

	nbaClient := nba.New(nba.Options{
		BaseURL:           cfg.NBAStats.BaseURL,
		Timeout:           cfg.NBAStats.Timeout,
		RequestsPerSecond: cfg.NBAStats.RequestsPerSecond,
		Logger:            logger.WithComponent("nba"),
	})

	ttl := service.CacheTTL{
		Today:   cfg.Cache.TodayTTL,
		Past:    cfg.Cache.PastTTL,
		Session: cfg.Cache.SessionTTL,
	}
	svcLog := logrus.NewEntry(log)
	teams := repository.NewTeamRepository(db)
	seasonStats := repository.NewSeasonStatsRepository(db)

	scoreboardSvc := service.NewScoreboardService(nbaClient, redisCache, ttl, loc, svcLog)
	boxScoreSvc := service.NewBoxScoreService(nbaClient, redisCache, ttl, svcLog)
	leaderboardSvc := service.NewLeaderboardService(seasonStats, svcLog)
	guessSvc := service.NewGuessService(nbaClient, redisCache, teams, cfg.NBAStats.CurrentSeason, ttl, nil, svcLog)

	// Initialize backfill service
	browser := bref.NewBrowserFetcher()
	defer browser.Close()
	runner := backfill.NewRunner(
		bref.NewClient(cfg.Reference.BaseURL, browser, logger.WithComponent("bref")),
		dataset.LoadFile,
		seasonStats,
	)
	backfillSvc := backfill.NewService(backfill.NewRepository(db), runner, svcLog)
	backfillSvc.Start()
	log.Info("Backfill service started")

	// Initialize scheduler
	var sched *scheduler.Orchestrator
	if cfg.Schedule.Enabled {
		schedulerConfig := scheduler.DefaultConfig()
		schedulerConfig.WarmupHour = cfg.Schedule.WarmupHour
		schedulerConfig.Location = loc
		schedulerConfig.CurrentSeason = cfg.NBAStats.CurrentSeason

		sched, err = scheduler.NewOrchestrator(scoreboardSvc, boxScoreSvc, backfillSvc, schedulerConfig, svcLog)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
	}

	// Initialize REST API server
	restServer := rest.NewServer(cfg.Server.RESTPort, rest.Dependencies{
		Scoreboard: scoreboardSvc,
		BoxScores:  boxScoreSvc,
		Leaders:    leaderboardSvc,
		Teams:      teams,
		Guesses:    guessSvc,
		Backfill:   backfillSvc,
		DatasetDir: cfg.Dataset.Dir,
		Checks: map[string]rest.HealthChecker{
			"postgres": db,
			"redis":    redisCache,
		},
	}, logger.WithComponent("rest"))
	go func() {
		log.Infof("REST API server listening on :%s", cfg.Server.RESTPort)
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("REST server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("REST API server shutdown error: %v", err)
	}
	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Errorf("Scheduler shutdown error: %v", err)
		}
	}
	if err := backfillSvc.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Backfill shutdown error: %v", err)
	}

	log.Info("Courtside stopped")
}
