package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelhub/internal/domain"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.TravelPackage) error {
	return mapErr(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.TravelPackage, error) {
	var p domain.TravelPackage
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *PackageRepository) GetBySlug(ctx context.Context, slug string) (*domain.TravelPackage, error) {
	var p domain.TravelPackage
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// GetByIDsForUpdate loads the given packages, locking rows on PostgreSQL.
func (r *PackageRepository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]domain.TravelPackage, error) {
	var out []domain.TravelPackage
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("id IN ?", ids).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *PackageRepository) Update(ctx context.Context, p *domain.TravelPackage) error {
	return mapErr(r.db.WithContext(ctx).Save(p).Error)
}

func (r *PackageRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.TravelPackage{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *PackageRepository) ListByAgent(ctx context.Context, agentID int64) ([]domain.TravelPackage, error) {
	var out []domain.TravelPackage
	err := r.db.WithContext(ctx).Where("agent_id = ?", agentID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// CountActiveByAgent counts packages that occupy a plan slot (everything but archived).
func (r *PackageRepository) CountActiveByAgent(ctx context.Context, agentID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.TravelPackage{}).
		Where("agent_id = ? AND status <> ?", agentID, domain.PackageArchived).
		Count(&n).Error
	return n, err
}

type PackageFilter struct {
	Status  domain.PackageStatus
	AgentID int64
	Page
}

func (r *PackageRepository) List(ctx context.Context, f PackageFilter) ([]domain.TravelPackage, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.TravelPackage{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AgentID > 0 {
		q = q.Where("agent_id = ?", f.AgentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.TravelPackage
	err := paginate(q.Order("created_at DESC, id DESC"), f.Page).Find(&out).Error
	return out, total, err
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type PublicPackageFilter struct {
	Destination string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Sort        string
	Page
}

// ListPublic returns only approved and published packages.
func (r *PackageRepository) ListPublic(ctx context.Context, f PublicPackageFilter) ([]domain.TravelPackage, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.TravelPackage{}).
		Where("status = ? AND publish_status = ?", domain.PackageApproved, domain.PublishPublished)
	if d := strings.TrimSpace(f.Destination); d != "" {
		q = q.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(d)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC, id ASC")
	case SortPriceDesc:
		q = q.Order("price DESC, id DESC")
	default:
		q = q.Order("created_at DESC, id DESC")
	}

	var out []domain.TravelPackage
	err := paginate(q, f.Page).Find(&out).Error
	return out, total, err
}

func (r *PackageRepository) All(ctx context.Context) ([]domain.TravelPackage, error) {
	var out []domain.TravelPackage
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *PackageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.TravelPackage{}).Count(&n).Error
	return n, err
}

func (r *PackageRepository) CountByStatus(ctx context.Context, status domain.PackageStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.TravelPackage{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
