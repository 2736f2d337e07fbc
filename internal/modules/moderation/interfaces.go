package moderation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

type AgentReader interface {
	List(ctx context.Context, f repository.AgentFilter) ([]domain.Agent, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.AgentStatus) (int64, error)
}

type PackageReader interface {
	List(ctx context.Context, f repository.PackageFilter) ([]domain.TravelPackage, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.PackageStatus) (int64, error)
}

type UserReader interface {
	List(ctx context.Context, f repository.UserFilter) ([]domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type BookingStatsReader interface {
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

type ActivityReader interface {
	List(ctx context.Context, f repository.ActivityFilter) ([]domain.ActivityLog, int64, error)
}
