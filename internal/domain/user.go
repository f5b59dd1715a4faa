package domain

import (
	"strings"
	"time"
)

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleBuyer   UserRole = "buyer"
	UserRoleManager UserRole = "manager"
	UserRoleAdmin   UserRole = "admin"
)

// ParseUserRole maps a stored or submitted role onto the closed set of roles.
// Anything unrecognised falls back to buyer, the least privileged role.
func ParseUserRole(s string) UserRole {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case UserRoleAdmin:
		return UserRoleAdmin
	case UserRoleManager:
		return UserRoleManager
	default:
		return UserRoleBuyer
	}
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleBuyer, UserRoleManager, UserRoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a role may be chosen at registration time.
func (r UserRole) SelfAssignable() bool {
	return r == UserRoleBuyer || r == UserRoleManager
}

// UserStatus enumerates account approval states.
type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
)

// ParseUserStatus maps a stored status; unknown values are treated as pending.
func ParseUserStatus(s string) UserStatus {
	if UserStatus(strings.ToLower(strings.TrimSpace(s))) == UserStatusActive {
		return UserStatusActive
	}
	return UserStatusPending
}

// User represents an account known to the identity provider.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PhotoURL     string
	Role         UserRole
	Status       UserStatus
	PasswordHash string
	GoogleSub    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with email and password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
