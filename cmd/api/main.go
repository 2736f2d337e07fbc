package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"travelhub/internal/config"
	"travelhub/internal/database"
	"travelhub/internal/modules/notification"
	"travelhub/internal/modules/upload"
	jwtsvc "travelhub/internal/pkg/jwt"
	"travelhub/internal/pkg/logger"
	"travelhub/internal/queue"
	"travelhub/internal/repository"
	"travelhub/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.App.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DB.URL, cfg.DB.MaxOpenConns, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("database migrate")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repository.NewRepos(db)
	hub := notification.NewHub(log)

	var dispatcher notification.Dispatcher
	switch cfg.Outbox.Mode {
	case "queue":
		pub, err := queue.Dial(cfg.Outbox.AMQPURL, cfg.Outbox.Queue, log)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq")
		}
		defer pub.Close()
		dispatcher = pub
		log.Info().Str("queue", cfg.Outbox.Queue).Msg("outbox is delivered by cmd/worker")
	default:
		channels, err := notification.NewAWSChannels(ctx, awsOptions(cfg), repos.Users)
		if err != nil {
			log.Fatal().Err(err).Msg("aws channels")
		}
		dispatcher = notification.NewSyncDispatcher(repository.NewTxRunner(db), hub, log, channels...)
	}

	var rdb redis.Scripter
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, rate limiter fails open")
		}
		rdb = client
	}

	router := server.NewRouter(server.Deps{
		Config:     cfg,
		DB:         db,
		Tokens:     jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer),
		Dispatcher: dispatcher,
		Hub:        hub,
		Redis:      rdb,
		Storage:    upload.NewStorage(cfg.Uploads.Dir, cfg.Uploads.PublicBase, cfg.Uploads.MaxBytes),
		Log:        log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Env).Str("outbox", cfg.Outbox.Mode).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")
	shutdown(srv, log)
}

func shutdown(srv *http.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("stopped")
}

func awsOptions(cfg *config.Config) notification.AWSOptions {
	return notification.AWSOptions{
		Region:       cfg.AWS.Region,
		EmailEnabled: cfg.AWS.EmailEnabled,
		SMSEnabled:   cfg.AWS.SMSEnabled,
		SenderEmail:  cfg.AWS.SenderEmail,
	}
}
