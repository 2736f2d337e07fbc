package booking

import (
	"context"

	"travelhub/internal/domain"
)

// BookingRepository defines the booking storage used by the service.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	ListByAgent(ctx context.Context, agentID int64, status domain.BookingStatus) ([]domain.Booking, error)
}

type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TravelPackage, error)
}

type AgentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error)
}
