package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/authfacil/auth-system/internal/api"
	"github.com/authfacil/auth-system/internal/core/service"
	mongodb "github.com/authfacil/auth-system/internal/infrastructure/db/mongo"
	"github.com/authfacil/auth-system/internal/infrastructure/db/postgres"
	redisdb "github.com/authfacil/auth-system/internal/infrastructure/db/redis"
	"github.com/authfacil/auth-system/internal/pkg/config"
	"github.com/authfacil/auth-system/pkg/logger"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- PostgreSQL: source of truth ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN(),
		MaxOpenConns: cfg.Postgres.MaxOpen,
		MaxIdleConns: cfg.Postgres.MaxIdle,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	// --- MongoDB: profile mirror + audit trail ---
	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	// --- Redis: login throttling ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mirror := mongodb.NewProfileMirror(mongoDB)
	audit := mongodb.NewAuditLog(mongoDB)
	if err := mirror.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure profile indexes")
	}
	if err := audit.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure audit indexes")
	}

	accounts := service.NewAccountService(
		postgres.NewAccountRepository(db),
		mirror,
		audit,
		service.NewBcryptHasher(),
		redisdb.NewLoginThrottle(rdb, 0, 0),
		cfg.JWTSecret,
		tokenTTL,
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Accounts:  accounts,
		DB:        db,
		Mongo:     mongoDB,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
