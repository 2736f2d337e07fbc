package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"travelhub/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	IdentityID string    `gorm:"column:identity_id"`
	Email      string    `gorm:"column:email"`
	Name       string    `gorm:"column:name"`
	Role       string    `gorm:"column:role"`
	Phone      *string   `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}
	return domain.User{
		ID:         m.ID,
		IdentityID: m.IdentityID,
		Email:      m.Email,
		Name:       m.Name,
		Role:       domain.UserRole(m.Role),
		Phone:      phone,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	return userModel{
		ID:         u.ID,
		IdentityID: u.IdentityID,
		Email:      normalizeEmail(u.Email),
		Name:       strings.TrimSpace(u.Name),
		Role:       string(u.Role),
		Phone:      phone,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toDomainUsers(ms []userModel) []domain.User {
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainUser(m))
	}
	return out
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapErr(err)
	}
	*u = toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapErr(err)
	}
	u := toDomainUser(m)
	return &u, nil
}

func (r *UserRepository) GetByIdentityID(ctx context.Context, identityID string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	u := toDomainUser(m)
	return &u, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var ms []userModel
	err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("id ASC").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return toDomainUsers(ms), nil
}

type UserFilter struct {
	Role  domain.UserRole
	Query string
	Page
}

// List ищет по email/имени (без учёта регистра).
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []userModel
	if err := paginate(q.Order("created_at DESC, id DESC"), f.Page).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toDomainUsers(ms), total, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&n).Error
	return n, err
}
