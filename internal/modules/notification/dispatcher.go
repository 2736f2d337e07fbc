package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/metrics"
)

// SyncDispatcher writes the outbox in-process: activity and notification rows in one
// transaction, then realtime push and external channels. Channel failures are logged only.
type SyncDispatcher struct {
	store    OutboxStore
	pusher   Pusher
	channels []Channel
	log      zerolog.Logger
}

func NewSyncDispatcher(store OutboxStore, pusher Pusher, log zerolog.Logger, channels ...Channel) *SyncDispatcher {
	return &SyncDispatcher{
		store:    store,
		pusher:   pusher,
		channels: channels,
		log:      log,
	}
}

func (d *SyncDispatcher) Dispatch(ctx context.Context, box domain.Outbox) error {
	if box.Empty() {
		return nil
	}
	if err := d.store.SaveOutbox(ctx, box); err != nil {
		metrics.OutboxDispatched.WithLabelValues("activity", "error").Add(float64(len(box.Activities)))
		metrics.OutboxDispatched.WithLabelValues("notification", "error").Add(float64(len(box.Notifications)))
		return fmt.Errorf("save outbox: %w", err)
	}
	metrics.OutboxDispatched.WithLabelValues("activity", "ok").Add(float64(len(box.Activities)))
	metrics.OutboxDispatched.WithLabelValues("notification", "ok").Add(float64(len(box.Notifications)))

	for _, n := range box.Notifications {
		d.deliver(ctx, n)
	}
	return nil
}

func (d *SyncDispatcher) deliver(ctx context.Context, n domain.Notification) {
	if d.pusher != nil {
		d.pusher.Push(n)
	}
	for _, ch := range d.channels {
		if err := ch.Deliver(ctx, n); err != nil {
			metrics.OutboxDispatched.WithLabelValues(ch.Name(), "error").Inc()
			d.log.Warn().Err(err).
				Str("channel", ch.Name()).
				Int64("notification_id", n.ID).
				Int64("recipient_id", n.RecipientID).
				Msg("external delivery failed")
			continue
		}
		metrics.OutboxDispatched.WithLabelValues(ch.Name(), "ok").Inc()
	}
}

// Deliver dispatches box and logs instead of returning the error. Workflows never fail
// because their side effects could not be delivered.
func Deliver(ctx context.Context, d Dispatcher, box domain.Outbox, log zerolog.Logger) {
	if d == nil || box.Empty() {
		return
	}
	if err := d.Dispatch(ctx, box); err != nil {
		log.Error().Err(err).
			Int("activities", len(box.Activities)).
			Int("notifications", len(box.Notifications)).
			Msg("outbox dispatch failed")
	}
}
