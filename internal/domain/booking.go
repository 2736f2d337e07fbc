package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	BookingID       string          `json:"booking_id" gorm:"uniqueIndex;type:varchar(16);not null"`
	PackageID       int64           `json:"package_id" gorm:"index;not null"`
	CustomerID      int64           `json:"customer_id" gorm:"index;not null"`
	AgentID         int64           `json:"agent_id" gorm:"index;not null"`
	TravelDate      time.Time       `json:"travel_date" gorm:"not null"`
	Travelers       int             `json:"travelers" gorm:"not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status          BookingStatus   `json:"status" gorm:"type:varchar(20);index;not null"`
	SpecialRequests string          `json:"special_requests,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
