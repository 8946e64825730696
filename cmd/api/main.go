package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aareend/llm-text-processor/internal/application"
	"github.com/aareend/llm-text-processor/internal/application/processing"
	"github.com/aareend/llm-text-processor/internal/application/reporting"
	"github.com/aareend/llm-text-processor/internal/config"
	"github.com/aareend/llm-text-processor/internal/domain/records"
	"github.com/aareend/llm-text-processor/internal/infra/ai"
	mysqlp "github.com/aareend/llm-text-processor/internal/infra/db/mysql"
	postgresp "github.com/aareend/llm-text-processor/internal/infra/db/postgres"
	"github.com/aareend/llm-text-processor/internal/infra/httpserver"
	"github.com/aareend/llm-text-processor/internal/infra/store/memory"
	minioArchive "github.com/aareend/llm-text-processor/internal/infra/storage"
	"github.com/aareend/llm-text-processor/internal/logging"
	"github.com/aareend/llm-text-processor/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.Logging.Level, Console: cfg.Logging.Console})
	ctx := context.Background()
	clock := application.SystemClock{}

	repo, checkers, cleanup, err := buildRepository(ctx, cfg, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init error")
	}
	defer cleanup()

	// provider variant is fixed here for the process lifetime
	backend, err := ai.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("provider init error")
	}
	log.Info().Str("provider", backend.Name()).Str("storage", cfg.Storage.Driver).Msg("provider initialized")

	var archiver records.Archiver
	if cfg.Archive.Enabled {
		archiver, err = minioArchive.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init error")
		}
	}

	processingSvc := &processing.Service{
		Backend: backend,
		Repo:    repo,
		Archive: archiver,
		Log:     log,
	}
	reportingSvc := &reporting.Service{
		Repo:  repo,
		Clock: clock,
	}

	health := middleware.HealthHandler(backend.Name(), checkers)
	handler := httpserver.NewRouter(processingSvc, reportingSvc, health, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // backend calls block until the model answers
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

// buildRepository picks the record store per config. Memory is the default;
// the SQL drivers exist so a persistent store can be swapped in without
// touching the services.
func buildRepository(ctx context.Context, cfg *config.Config, clock application.Clock) (records.Repository, map[string]middleware.HealthChecker, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		db, err := mysqlp.Connect(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("mysql connect: %w", err)
		}
		repo := mysqlp.NewRecordRepository(db, clock)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, noop, fmt.Errorf("mysql schema: %w", err)
		}
		checkers := map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		}
		return repo, checkers, func() { db.Close() }, nil

	case config.StoragePostgres:
		db, err := postgresp.Connect(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("postgres connect: %w", err)
		}
		repo := postgresp.NewRecordRepository(db, clock)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, noop, fmt.Errorf("postgres schema: %w", err)
		}
		checkers := map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		}
		return repo, checkers, func() { db.Close() }, nil

	default:
		return memory.New(clock), nil, noop, nil
	}
}
