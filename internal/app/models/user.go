package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"user@example.com"`
	Password    string     `json:"-" db:"password_hash"`
	FirstName   string     `json:"firstName" db:"first_name" example:"Ali"`
	LastName    string     `json:"lastName" db:"last_name" example:"Rezaei"`
	Phone       string     `json:"phone" db:"phone" example:"09121234567"`
	Role        RoleType   `json:"role" db:"role" example:"user"`
	Status      UserStatus `json:"status" db:"status" example:"active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
