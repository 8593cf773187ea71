package models

// RoleType defines the user role type
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// UserStatus is the account state of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

// IsValid reports whether s is a known user status
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusBanned:
		return true
	}
	return false
}

// RegistrationStatus is the review state shared by suppliers and visitors
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationApproved  RegistrationStatus = "approved"
	RegistrationRejected  RegistrationStatus = "rejected"
	RegistrationSuspended RegistrationStatus = "suspended"
)

// IsValid reports whether s is a known registration status
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected, RegistrationSuspended:
		return true
	}
	return false
}
