package model

import (
	"time"
)

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleUser       UserRole = "USER"
	RoleStoreOwner UserRole = "STORE_OWNER"
)

// Valid reports whether r is one of the three known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"size:60;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Address      string    `gorm:"size:400" json:"address"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Identity returns the authorization view of u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}
