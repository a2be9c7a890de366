package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a user within the portal
type Role string

const (
	RoleStudent    Role = "student"
	RoleLecturer   Role = "lecturer"
	RoleAdmin      Role = "admin"
	RoleVendor     Role = "vendor"
	RoleDelivery   Role = "delivery"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every valid role. Kept in a fixed order so access tables and
// tests can iterate the closed set.
var Roles = []Role{RoleStudent, RoleLecturer, RoleAdmin, RoleVendor, RoleDelivery, RoleSuperAdmin}

// IsValid reports whether r is one of the closed role set
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin, RoleVendor, RoleDelivery, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents a profile row backed by an identity in the hosted auth service
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	AuthSub      string     `json:"auth_sub" db:"auth_sub"` // auth service subject identifier
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	Role         Role       `json:"role" db:"role"`
	UniversityID *uuid.UUID `json:"university_id,omitempty" db:"university_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, fullName, authSub string, role Role) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		AuthSub:   authSub,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsSuperAdmin returns true if the user has the super_admin role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// CanManageUsers returns true if the user may list and delete other users
func (u *User) CanManageUsers() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
