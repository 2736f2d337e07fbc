// Package queue moves workflow outboxes through RabbitMQ. The API publishes; cmd/worker
// consumes and applies them with the in-process dispatcher.
package queue

import (
	"time"

	"travelhub/internal/domain"
)

// OutboxMessage is the JSON body of one queued outbox.
type OutboxMessage struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Outbox    domain.Outbox `json:"outbox"`
}
