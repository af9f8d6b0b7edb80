package entities

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
)

// User is a local CMS account. Accounts managed by the external auth
// provider are not stored here.
type User struct {
	Model
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name             string     `gorm:"size:255" json:"name"`
	PasswordHash     string     `gorm:"size:255" json:"-"`
	Role             UserRole   `gorm:"size:20;default:'editor'" json:"role"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
