package repository

import (
	"context"

	"gorm.io/gorm"

	"travelhub/internal/domain"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(ctx context.Context, a *domain.Agent) error {
	if a.Documents == nil {
		a.Documents = []string{}
	}
	return mapErr(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AgentRepository) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.WithContext(ctx).Preload("User").First(&a, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *AgentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

// Update writes every column of a. The associated User is never touched.
func (r *AgentRepository) Update(ctx context.Context, a *domain.Agent) error {
	return mapErr(r.db.WithContext(ctx).Omit("User").Save(a).Error)
}

type AgentFilter struct {
	Status domain.AgentStatus
	Page
}

func (r *AgentRepository) List(ctx context.Context, f AgentFilter) ([]domain.Agent, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Agent{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Agent
	err := paginate(q.Preload("User").Order("created_at DESC, id DESC"), f.Page).Find(&out).Error
	return out, total, err
}

// All returns every agent ordered by id. Used by CSV export.
func (r *AgentRepository) All(ctx context.Context) ([]domain.Agent, error) {
	var out []domain.Agent
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *AgentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Agent{}).Count(&n).Error
	return n, err
}

func (r *AgentRepository) CountByStatus(ctx context.Context, status domain.AgentStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Agent{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
