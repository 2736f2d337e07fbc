package domain

import "time"

type AgentStatus string

const (
	AgentPending   AgentStatus = "pending"
	AgentApproved  AgentStatus = "approved"
	AgentRejected  AgentStatus = "rejected"
	AgentSuspended AgentStatus = "suspended"
)

// Agent is a destination-management company account. Created pending by registration,
// changed afterwards only by admin moderation.
type Agent struct {
	ID                       int64       `json:"id" gorm:"primaryKey"`
	UserID                   int64       `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyName              string      `json:"company_name" gorm:"not null"`
	BusinessType             string      `json:"business_type"`
	TaxID                    string      `json:"tax_id"`
	LicenseNumber            string      `json:"license_number"`
	Address                  string      `json:"address"`
	Website                  string      `json:"website,omitempty"`
	ContactName              string      `json:"contact_name"`
	ContactEmail             string      `json:"contact_email"`
	ContactPhone             string      `json:"contact_phone"`
	Status                   AgentStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	Plan                     PlanID      `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	ApprovedBy               *int64      `json:"approved_by,omitempty"`
	ApprovedAt               *time.Time  `json:"approved_at,omitempty"`
	RejectionReason          string      `json:"rejection_reason,omitempty"`
	SuspensionReason         string      `json:"suspension_reason,omitempty"`
	Documents                []string    `json:"documents" gorm:"type:text;serializer:json"`
	TermsAcceptedAt          time.Time   `json:"terms_accepted_at"`
	DataProcessingAcceptedAt time.Time   `json:"data_processing_accepted_at"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Agent) TableName() string { return "agents" }
