package repository

import (
	"context"

	"gorm.io/gorm"

	"travelhub/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) CreateBatch(ctx context.Context, as []domain.ActivityLog) error {
	if len(as) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&as).Error
}

type ActivityFilter struct {
	UserID     int64
	Type       domain.ActivityType
	EntityType string
	Page
}

func (r *ActivityRepository) List(ctx context.Context, f ActivityFilter) ([]domain.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ActivityLog{})
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Type != "" {
		q = q.Where("activity_type = ?", f.Type)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.ActivityLog
	err := paginate(q.Order("created_at DESC, id DESC"), f.Page).Find(&out).Error
	return out, total, err
}
