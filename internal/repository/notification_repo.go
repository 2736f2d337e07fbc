package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"travelhub/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.Status == "" {
		n.Status = domain.NotificationUnread
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateBatch inserts all rows and fills their IDs.
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	for i := range ns {
		if ns[i].Status == "" {
			ns[i].Status = domain.NotificationUnread
		}
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, p Page) ([]domain.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("status = ?", domain.NotificationUnread)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Notification
	err := paginate(q.Order("created_at DESC, id DESC"), p).Find(&out).Error
	return out, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, domain.NotificationUnread).
		Count(&n).Error
	return n, err
}

// SetStatus toggles read state for a notification owned by recipientID.
// Returns domain.ErrNotFound when no such row belongs to the recipient.
func (r *NotificationRepository) SetStatus(ctx context.Context, id, recipientID int64, status domain.NotificationStatus) error {
	updates := map[string]any{"status": status, "read_at": nil}
	if status == domain.NotificationRead {
		updates["read_at"] = time.Now()
	}
	tx := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, domain.NotificationUnread).
		Updates(map[string]any{"status": domain.NotificationRead, "read_at": time.Now()})
	return tx.RowsAffected, tx.Error
}
