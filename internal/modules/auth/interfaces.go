package auth

import (
	"context"
	"time"

	"travelhub/internal/domain"
)

type IdentityRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	TouchSignIn(ctx context.Context, id string, at time.Time) error
}

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIdentityID(ctx context.Context, identityID string) (*domain.User, error)
}

type AgentRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error)
}

type TokenGenerator interface {
	GenerateToken(userID int64, role string) (string, error)
}
