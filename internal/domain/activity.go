package domain

import "time"

type ActivityType string

const (
	ActivityRegistration         ActivityType = "registration"
	ActivityLogin                ActivityType = "login"
	ActivityAgentApproved        ActivityType = "agent_approved"
	ActivityAgentRejected        ActivityType = "agent_rejected"
	ActivityAgentSuspended       ActivityType = "agent_suspended"
	ActivityPlanChanged          ActivityType = "plan_changed"
	ActivityPackageCreated       ActivityType = "package_created"
	ActivityPackageUpdated       ActivityType = "package_updated"
	ActivityPackageSubmitted     ActivityType = "package_submitted"
	ActivityPackageArchived      ActivityType = "package_archived"
	ActivityPackageApproved      ActivityType = "package_approved"
	ActivityPackageRejected      ActivityType = "package_rejected"
	ActivityPackagePublished     ActivityType = "package_published"
	ActivityPackageUnpublished   ActivityType = "package_unpublished"
	ActivityBookingCreated       ActivityType = "booking_created"
	ActivityBookingStatusChanged ActivityType = "booking_status_changed"
	ActivityDocumentUploaded     ActivityType = "document_uploaded"
	ActivityDataExported         ActivityType = "data_exported"
	ActivityMessageSent          ActivityType = "message_sent"
)

// ActivityLog is an append-only audit row.
type ActivityLog struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	UserID       *int64         `json:"user_id,omitempty" gorm:"index"`
	ActivityType ActivityType   `json:"activity_type" gorm:"type:varchar(40);index;not null"`
	Description  string         `json:"description"`
	EntityType   string         `json:"entity_type,omitempty"`
	EntityID     *int64         `json:"entity_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" gorm:"type:text;serializer:json"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
