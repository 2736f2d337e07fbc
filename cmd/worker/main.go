package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"travelhub/internal/config"
	"travelhub/internal/database"
	"travelhub/internal/modules/notification"
	"travelhub/internal/pkg/logger"
	"travelhub/internal/queue"
	"travelhub/internal/repository"
)

// worker drains the outbox queue filled by the API when OUTBOX_MODE=queue.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	lg := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	db, err := database.Connect(cfg.DB.URL, cfg.DB.MaxOpenConns, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("database connect")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repository.NewRepos(db)
	channels, err := notification.NewAWSChannels(ctx, notification.AWSOptions{
		Region:       cfg.AWS.Region,
		EmailEnabled: cfg.AWS.EmailEnabled,
		SMSEnabled:   cfg.AWS.SMSEnabled,
		SenderEmail:  cfg.AWS.SenderEmail,
	}, repos.Users)
	if err != nil {
		lg.Fatal().Err(err).Msg("aws channels")
	}

	// The worker has no websocket clients of its own, pushes go to an empty hub.
	applier := notification.NewSyncDispatcher(repository.NewTxRunner(db), notification.NewHub(lg), lg, channels...)
	consumer := queue.NewConsumer(cfg.Outbox.AMQPURL, cfg.Outbox.Queue, cfg.Outbox.Prefetch, applier, lg)

	lg.Info().Str("queue", cfg.Outbox.Queue).Int("channels", len(channels)).Msg("worker started")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal().Err(err).Msg("consumer")
	}
	lg.Info().Msg("worker stopped")
}
