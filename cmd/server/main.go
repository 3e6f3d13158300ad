package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orderfood/ordering-system/internal/api"
	"github.com/orderfood/ordering-system/internal/api/handler"
	"github.com/orderfood/ordering-system/internal/core/ports"
	"github.com/orderfood/ordering-system/internal/core/service"
	"github.com/orderfood/ordering-system/internal/infrastructure/authprovider"
	"github.com/orderfood/ordering-system/internal/infrastructure/authprovider/google"
	"github.com/orderfood/ordering-system/internal/infrastructure/config"
	mongostore "github.com/orderfood/ordering-system/internal/infrastructure/db/mongo"
	redisstore "github.com/orderfood/ordering-system/internal/infrastructure/db/redis"
	"github.com/orderfood/ordering-system/internal/infrastructure/queue"
	"github.com/orderfood/ordering-system/internal/session"
	"github.com/orderfood/ordering-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "ordering-system",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Datastores ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Auth provider ---
	var oauth handler.OAuthStarter
	var googleExchanger *google.Exchanger
	if cfg.Auth.Google.Enabled() {
		googleExchanger, err = google.New(ctx, cfg.Auth.Google.ClientID, cfg.Auth.Google.ClientSecret, cfg.Auth.Google.RedirectURL)
		if err != nil {
			log.Fatal().Err(err).Msg("google oauth initialization failed")
		}
	}

	var provider ports.AuthProvider
	switch cfg.Auth.Mode {
	case "remote":
		remote := authprovider.NewRemote(authprovider.RemoteConfig{
			BaseURL: cfg.Auth.RemoteURL,
			APIKey:  cfg.Auth.RemoteAPIKey,
		})
		provider = remote
		oauth = remote
	default:
		if cfg.Auth.JWTSecret == "" {
			log.Fatal().Msg("JWT_SECRET is required in local auth mode")
		}
		var exchanger authprovider.OAuthExchanger
		if googleExchanger != nil {
			exchanger = googleExchanger
			oauth = googleExchanger
		}
		provider = authprovider.NewLocal(
			mongostore.NewCredentialRepository(db),
			redisstore.NewRevocationStore(rdb),
			exchanger,
			cfg.Auth.JWTSecret,
			cfg.Auth.TokenTTL,
		)
	}
	provider = authprovider.NewInstrumented(provider)

	// --- Kitchen event pipeline ---
	orderRepo := mongostore.NewOrderRepository(db)
	eventService := service.NewOrderEventService(orderRepo, redisstore.NewDedupChecker(rdb), log)
	dispatcher := queue.NewDispatcher(0, eventService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.RouterDeps{
		DB:         db,
		Redis:      rdb,
		Provider:   provider,
		OAuth:      oauth,
		Dispatcher: dispatcher,
		ViewCache:  redisstore.NewViewCache(rdb),
		CookieOpts: session.CookieOptions{Secure: cfg.IsProduction()},
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("ordering-system started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("ordering-system stopped cleanly")
}
