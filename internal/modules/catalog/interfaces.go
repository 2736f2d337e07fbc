package catalog

import (
	"context"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type AgentLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error)
}

type PackageRepositoryInterface interface {
	Create(ctx context.Context, p *domain.TravelPackage) error
	GetByID(ctx context.Context, id int64) (*domain.TravelPackage, error)
	GetBySlug(ctx context.Context, slug string) (*domain.TravelPackage, error)
	Update(ctx context.Context, p *domain.TravelPackage) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByAgent(ctx context.Context, agentID int64) ([]domain.TravelPackage, error)
	CountActiveByAgent(ctx context.Context, agentID int64) (int64, error)
	ListPublic(ctx context.Context, f repository.PublicPackageFilter) ([]domain.TravelPackage, int64, error)
}

type AdminLister interface {
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}
