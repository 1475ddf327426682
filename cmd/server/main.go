package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/artefacto/heritage-api/internal/config"
	"github.com/artefacto/heritage-api/internal/database"
	"github.com/artefacto/heritage-api/internal/handler"
	"github.com/artefacto/heritage-api/internal/logger"
	mw "github.com/artefacto/heritage-api/internal/middleware"
	"github.com/artefacto/heritage-api/internal/queue"
	"github.com/artefacto/heritage-api/internal/repository"
	"github.com/artefacto/heritage-api/internal/router"
	"github.com/artefacto/heritage-api/internal/storage"
)

func main() {
	_ = godotenv.Load() // absent .env is fine in containers

	cfg := config.Load()
	logger.Setup(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage client failed")
	}

	// Redis is optional: a nil client turns the cache and rate limiter
	// into pass-throughs.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	temples := repository.NewTempleRepo(db)
	artifacts := repository.NewArtifactRepo(db)
	engagements := repository.NewEngagementRepo(db)
	tickets := repository.NewTicketRepo(db)
	transactions := repository.NewTransactionRepo(db)
	ownedTickets := repository.NewOwnedTicketRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, store),
		Temples:      handler.NewTempleHandler(temples, store),
		Artifacts:    handler.NewArtifactHandler(artifacts, temples, engagements, store),
		Tickets:      handler.NewTicketHandler(tickets, temples),
		Transactions: handler.NewTransactionHandler(tickets, transactions, ownedTickets),
		OwnedTickets: handler.NewOwnedTicketHandler(ownedTickets, tickets),
		Predict:      handler.NewPredictHandler(cfg.PredictURL),
	}, router.Middleware{
		Cache:     mw.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: mw.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	}, users, cfg.JWTSecret)

	// The purchase consumer keeps retrying the broker on its own; a dead
	// broker never blocks the API.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Warn().Err(err).Msg("purchase consumer stopped")
		}
	}()

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
