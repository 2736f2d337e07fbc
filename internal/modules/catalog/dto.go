package catalog

import (
	"github.com/shopspring/decimal"

	"travelhub/internal/domain"
)

type CreatePackageRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"max=10000"`
	Destination  string          `json:"destination" validate:"required,max=120"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
	DurationDays int             `json:"duration_days" validate:"required,gte=1,lte=365"`
}

// UpdatePackageRequest: nil fields are left unchanged. The slug never changes.
type UpdatePackageRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=10000"`
	Destination  *string          `json:"destination,omitempty" validate:"omitempty,min=1,max=120"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Currency     *string          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	DurationDays *int             `json:"duration_days,omitempty" validate:"omitempty,gte=1,lte=365"`
}

// PublicQuery is the raw query string of GET /packages.
type PublicQuery struct {
	Destination string `form:"destination"`
	MinPrice    string `form:"min_price"`
	MaxPrice    string `form:"max_price"`
	Sort        string `form:"sort"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

type PackageList struct {
	Items []domain.TravelPackage `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}
