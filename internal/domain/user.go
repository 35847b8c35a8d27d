package domain

import "time"

// UserRole classifies members of the campus community. Staff accounts also
// act as issue operators.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleStaff   UserRole = "staff"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for campus members who report and handle issues.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Department   string
	PhoneNumber  string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user may operate on issues they do not own.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// ValidRole reports whether r is one of the three community roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleStaff:
		return true
	}
	return false
}
