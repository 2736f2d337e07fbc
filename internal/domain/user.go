package domain

import "time"

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleAgent      UserRole = "agent"
	RoleSuperAdmin UserRole = "super_admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleSuperAdmin:
		return true
	}
	return false
}

// Identity is the authentication record. A User row points at exactly one identity.
type Identity struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Identity) TableName() string { return "auth_identities" }

type User struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	IdentityID string    `json:"-" gorm:"uniqueIndex;type:varchar(36);not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Role       UserRole  `json:"role" gorm:"type:varchar(20);index;not null"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
