package domain

import "time"

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Related entity kinds referenced by notifications and activity logs.
const (
	EntityUser    = "user"
	EntityAgent   = "agent"
	EntityPackage = "package"
	EntityBooking = "booking"
)

// Notification is insert-only apart from the read-state toggle.
type Notification struct {
	ID          int64              `json:"id" gorm:"primaryKey"`
	RecipientID int64              `json:"recipient_id" gorm:"index:idx_notifications_recipient_status;not null"`
	SenderID    *int64             `json:"sender_id,omitempty"`
	Title       string             `json:"title" gorm:"not null"`
	Message     string             `json:"message" gorm:"type:text"`
	Status      NotificationStatus `json:"status" gorm:"type:varchar(10);index:idx_notifications_recipient_status;not null"`
	RelatedType string             `json:"related_type,omitempty"`
	RelatedID   *int64             `json:"related_id,omitempty"`
	ActionURL   string             `json:"action_url,omitempty"`
	ReadAt      *time.Time         `json:"read_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
