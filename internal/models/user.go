// Package models contains data structures for the application's domain models.
package models

import "time"

// Roles a user account can hold.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

// IsValidRole reports whether role is one of the known account roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the DevCamper directory.
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Name                string     `gorm:"size:100;not null" json:"name"`
	Email               string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role                string     `gorm:"size:20;not null;default:'user'" json:"role"`
	Password            string     `gorm:"not null" json:"-"`
	ResetPasswordToken  *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
