package notification

import (
	"context"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, p repository.Page) ([]domain.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	SetStatus(ctx context.Context, id, recipientID int64, status domain.NotificationStatus) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, a *domain.ActivityLog) error
}

// OutboxStore persists every row of an outbox atomically.
type OutboxStore interface {
	SaveOutbox(ctx context.Context, box domain.Outbox) error
}

// UserLookup resolves contact details for external channels.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Pusher delivers a stored notification to connected clients.
type Pusher interface {
	Push(n domain.Notification)
}

// Channel is an external delivery route (email, SMS).
type Channel interface {
	Name() string
	Deliver(ctx context.Context, n domain.Notification) error
}

// Dispatcher delivers an outbox produced by a workflow.
type Dispatcher interface {
	Dispatch(ctx context.Context, box domain.Outbox) error
}
