package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"travelhub/internal/domain"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Create assigns a uuid when ID is empty. Duplicate emails return ErrDuplicate.
func (r *IdentityRepository) Create(ctx context.Context, id *domain.Identity) error {
	if id.ID == "" {
		id.ID = uuid.NewString()
	}
	id.Email = normalizeEmail(id.Email)
	return mapErr(r.db.WithContext(ctx).Create(id).Error)
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var out domain.Identity
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&out).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *IdentityRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Identity{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
