package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PackageStatus string

const (
	PackageDraft    PackageStatus = "draft"
	PackagePending  PackageStatus = "pending"
	PackageApproved PackageStatus = "approved"
	PackageRejected PackageStatus = "rejected"
	PackageArchived PackageStatus = "archived"
)

type PublishStatus string

const (
	PublishDraft       PublishStatus = "draft"
	PublishPublished   PublishStatus = "published"
	PublishUnpublished PublishStatus = "unpublished"
)

// TravelPackage is a sellable itinerary owned by one agent.
type TravelPackage struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	AgentID         int64           `json:"agent_id" gorm:"index;not null"`
	Title           string          `json:"title" gorm:"not null"`
	Slug            string          `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string          `json:"description,omitempty" gorm:"type:text"`
	Destination     string          `json:"destination" gorm:"index"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Currency        string          `json:"currency" gorm:"type:varchar(3);not null;default:'USD'"`
	DurationDays    int             `json:"duration_days" gorm:"not null"`
	Status          PackageStatus   `json:"status" gorm:"type:varchar(20);index;not null"`
	PublishStatus   PublishStatus   `json:"publish_status" gorm:"type:varchar(20);index;not null"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ReviewedBy      *int64          `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (TravelPackage) TableName() string { return "packages" }

// Bookable reports whether customers can see and book the package.
func (p *TravelPackage) Bookable() bool {
	return p.Status == PackageApproved && p.PublishStatus == PublishPublished
}
