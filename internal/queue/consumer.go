package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"travelhub/internal/domain"
)

// Applier writes an outbox. The worker passes notification.SyncDispatcher.
type Applier interface {
	Dispatch(ctx context.Context, box domain.Outbox) error
}

type Consumer struct {
	url      string
	queue    string
	prefetch int
	applier  Applier
	log      zerolog.Logger
}

func NewConsumer(url, queue string, prefetch int, applier Applier, log zerolog.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 16
	}
	return &Consumer{url: url, queue: queue, prefetch: prefetch, applier: applier, log: log}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("rabbitmq dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("set qos failed")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info().Str("queue", c.queue).Msg("consuming outbox")

	for d := range deliveries {
		if err := c.Handle(ctx, d.Body); err != nil {
			c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("outbox message failed")
			// malformed messages are dropped, store errors go back to the queue once
			_ = d.Nack(false, !errors.Is(err, ErrMalformed) && !d.Redelivered)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

var ErrMalformed = errors.New("malformed outbox message")

// Handle decodes one message body and applies its outbox.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var msg OutboxMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return c.applier.Dispatch(ctx, msg.Outbox)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
