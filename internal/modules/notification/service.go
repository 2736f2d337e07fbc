package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type Service struct {
	notifications NotificationRepositoryInterface
	activities    ActivityRepositoryInterface
	users         UserLookup
	pusher        Pusher
	log           zerolog.Logger
}

func NewService(notifications NotificationRepositoryInterface, activities ActivityRepositoryInterface, users UserLookup, pusher Pusher, log zerolog.Logger) *Service {
	return &Service{
		notifications: notifications,
		activities:    activities,
		users:         users,
		pusher:        pusher,
		log:           log,
	}
}

// LogActivity is best-effort: a failed insert is logged and returned, callers may ignore it.
func (s *Service) LogActivity(ctx context.Context, actor domain.Actor, typ domain.ActivityType, description, entityType string, entityID *int64, metadata map[string]any) error {
	a := domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: typ,
		Description:  description,
		EntityType:   entityType,
		EntityID:     entityID,
		Metadata:     metadata,
	}
	if err := s.activities.Create(ctx, &a); err != nil {
		s.log.Warn().Err(err).Str("activity_type", string(typ)).Msg("activity log insert failed")
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

type SendInput struct {
	SenderID    *int64
	RecipientID int64
	Title       string
	Message     string
	RelatedType string
	RelatedID   *int64
	ActionURL   string
}

// SendNotification stores one unread notification and pushes it to the recipient if connected.
func (s *Service) SendNotification(ctx context.Context, in SendInput) (*domain.Notification, error) {
	if in.RecipientID <= 0 || in.Title == "" {
		return nil, ErrInvalidNotification
	}
	n := domain.Notification{
		RecipientID: in.RecipientID,
		SenderID:    in.SenderID,
		Title:       in.Title,
		Message:     in.Message,
		Status:      domain.NotificationUnread,
		RelatedType: in.RelatedType,
		RelatedID:   in.RelatedID,
		ActionURL:   in.ActionURL,
	}
	if err := s.notifications.Create(ctx, &n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if s.pusher != nil {
		s.pusher.Push(n)
	}
	return &n, nil
}

type MessageInput struct {
	RecipientID int64
	Title       string
	Message     string
	ActionURL   string
}

// SendMessage lets a super-admin write directly to one user's inbox.
func (s *Service) SendMessage(ctx context.Context, actor domain.Actor, in MessageInput) (*domain.Notification, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.RecipientID <= 0 || in.Title == "" {
		return nil, ErrInvalidNotification
	}
	recipient, err := s.users.GetByID(ctx, in.RecipientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("load recipient: %w", err)
	}

	n, err := s.SendNotification(ctx, SendInput{
		SenderID:    actor.UserRef(),
		RecipientID: recipient.ID,
		Title:       in.Title,
		Message:     in.Message,
		RelatedType: domain.EntityUser,
		RelatedID:   domain.Ref(recipient.ID),
		ActionURL:   in.ActionURL,
	})
	if err != nil {
		return nil, err
	}
	_ = s.LogActivity(ctx, actor, domain.ActivityMessageSent,
		fmt.Sprintf("Message sent to %s", recipient.Email),
		domain.EntityUser, domain.Ref(recipient.ID),
		map[string]any{"notification_id": n.ID, "title": n.Title})
	return n, nil
}

type ListResult struct {
	Items       []domain.Notification `json:"items"`
	Total       int64                 `json:"total"`
	UnreadCount int64                 `json:"unread_count"`
	Page        int                   `json:"page"`
	Limit       int                   `json:"limit"`
}

func (s *Service) List(ctx context.Context, actor domain.Actor, unreadOnly bool, page, limit int) (*ListResult, error) {
	p := repository.Page{Page: page, Limit: limit}.Normalize()
	items, total, err := s.notifications.ListByRecipient(ctx, actor.UserID, unreadOnly, p)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return &ListResult{Items: items, Total: total, UnreadCount: unread, Page: p.Page, Limit: p.Limit}, nil
}

// MarkRead and MarkUnread only touch rows owned by the actor; anything else is ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, actor domain.Actor, id int64) error {
	return s.notifications.SetStatus(ctx, id, actor.UserID, domain.NotificationRead)
}

func (s *Service) MarkUnread(ctx context.Context, actor domain.Actor, id int64) error {
	return s.notifications.SetStatus(ctx, id, actor.UserID, domain.NotificationUnread)
}

func (s *Service) MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.notifications.MarkAllRead(ctx, actor.UserID)
}
