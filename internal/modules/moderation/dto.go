package moderation

import (
	"github.com/shopspring/decimal"

	"travelhub/internal/domain"
)

type ActionRequest struct {
	Reason string `json:"reason"`
}

type BulkRequest struct {
	IDs    []int64              `json:"ids" binding:"required,min=1"`
	Action domain.PackageAction `json:"action" binding:"required"`
	Reason string               `json:"reason"`
}

// BulkResult: Updated changed state, Skipped were already in the target state.
type BulkResult struct {
	Updated []int64 `json:"updated"`
	Skipped []int64 `json:"skipped"`
}

type PageResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type Stats struct {
	TotalUsers      int64           `json:"total_users"`
	TotalAgents     int64           `json:"total_agents"`
	PendingAgents   int64           `json:"pending_agents"`
	ApprovedAgents  int64           `json:"approved_agents"`
	TotalPackages   int64           `json:"total_packages"`
	PendingPackages int64           `json:"pending_packages"`
	TotalBookings   int64           `json:"total_bookings"`
	BookingsToday   int64           `json:"bookings_today"`
	Revenue         decimal.Decimal `json:"revenue"`
}
