package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	"github.com/mohammadpnp/alumni-sync/internal/bootstrap"
	"github.com/mohammadpnp/alumni-sync/internal/config"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
	"github.com/mohammadpnp/alumni-sync/internal/infrastructure/cache"
	"github.com/mohammadpnp/alumni-sync/internal/infrastructure/db"
	infrafile "github.com/mohammadpnp/alumni-sync/internal/infrastructure/file"
	"github.com/mohammadpnp/alumni-sync/internal/infrastructure/repository"
	"github.com/mohammadpnp/alumni-sync/internal/logger"
)

func main() {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log = logger.Get()

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: db.NewGormLogger(log).LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := db.EnsureSchema(context.Background(), gdb); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare database schema")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pgx pool")
	}
	defer pool.Close()

	serviceOpts := []app.ImportServiceOption{app.WithDefaultBatchSize(cfg.ImportBatchSize)}

	var results domain.ImportResultReader
	if cfg.RedisURL != "" {
		redisClient, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisClient.Close()

		resultStore := cache.NewResultStore(redisClient, cfg.ResultTTL)
		results = resultStore
		serviceOpts = append(serviceOpts, app.WithResultRecorder(resultStore))
	} else {
		log.Warn().Msg("REDIS_URL is not set, import results will not be stored")
	}

	importService := app.NewImportService(repository.NewMemberStore(pool), log, serviceOpts...)
	importJobRepo := repository.NewImportJobRepository(gdb)

	server := bootstrap.NewHTTPServer(bootstrap.ServerDeps{
		Importer:      importService,
		Results:       results,
		ImportJobs:    importJobRepo,
		MemberQueries: repository.NewMemberQueryRepository(gdb),
		Log:           log,
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	worker := app.NewImportWorker(importJobRepo, infrafile.NewLocalSource(cfg.ImportBaseDir), importService, log, app.ImportWorkerConfig{
		Workers:       cfg.ImportWorkers,
		LeaseDuration: cfg.JobLease,
	})
	worker.Start(workerCtx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := server.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
