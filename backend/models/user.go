package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Roles        []string  `gorm:"-" json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// RoleGrant gives a user a role on top of the implicit "user" role.
type RoleGrant struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_role_grants_user_role" json:"userId"`
	Role      string    `gorm:"size:32;not null;uniqueIndex:idx_role_grants_user_role" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (RoleGrant) TableName() string { return "role_grants" }

// NormalizeEmail makes email uniqueness case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
