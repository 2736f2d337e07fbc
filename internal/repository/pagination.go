package repository

import "gorm.io/gorm"

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

func paginate(q *gorm.DB, p Page) *gorm.DB {
	n := p.Normalize()
	return q.Offset(n.Offset()).Limit(n.Limit)
}
