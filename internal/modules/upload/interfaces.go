package upload

import (
	"context"
	"io"

	"travelhub/internal/domain"
)

type AgentRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error)
	Update(ctx context.Context, a *domain.Agent) error
}

type FileStore interface {
	Save(originalName string, size int64, r io.Reader) (*StoredFile, error)
	Remove(f *StoredFile) error
}
