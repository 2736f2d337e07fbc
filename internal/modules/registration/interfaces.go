package registration

import (
	"context"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

type AdminLister interface {
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}
