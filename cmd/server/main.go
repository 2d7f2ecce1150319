// @title        CSE341 Records API
// @version      1.0
// @description  CRUD API for data records and users, with GitHub OAuth protected routes.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cse341/records-api/internal/api"
	mongostore "github.com/cse341/records-api/internal/infrastructure/db/mongo"
	redisstore "github.com/cse341/records-api/internal/infrastructure/db/redis"
	"github.com/cse341/records-api/internal/infrastructure/queue"
	"github.com/cse341/records-api/internal/pkg/config"
	"github.com/cse341/records-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "records-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongostore.Disconnect(client, shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongostore.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare collections")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	if cfg.GitHub.ClientID == "" || cfg.GitHub.ClientSecret == "" {
		log.Warn().Msg("GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set; GitHub login will fail")
	}

	auditQueue := queue.NewAuditDispatcher(cfg.AuditWorkers, mongostore.NewAuditRepository(db), logger.Component(log, "audit"))
	auditQueue.Start()

	e := api.New(cfg, db, rdb, auditQueue, log)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("docs", "http://localhost:"+cfg.Port+"/api-docs/index.html").
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	auditQueue.Close()
}
