package domain

import (
	"fmt"
	"strings"
	"time"
)

// AdminRole scopes a privileged account.
type AdminRole string

const (
	AdminRoleMain       AdminRole = "MAIN_ADMIN"
	AdminRoleDepartment AdminRole = "DEPARTMENT_ADMIN"
)

// ParseAdminRole rejects values outside the closed set.
func ParseAdminRole(raw string) (AdminRole, error) {
	role := AdminRole(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case AdminRoleMain, AdminRoleDepartment:
		return role, nil
	}
	return "", fmt.Errorf("unknown admin role %q", raw)
}

// AdminStatus enumerates account states for privileged accounts.
type AdminStatus string

const (
	AdminStatusActive    AdminStatus = "ACTIVE"
	AdminStatusInactive  AdminStatus = "INACTIVE"
	AdminStatusSuspended AdminStatus = "SUSPENDED"
)

// ParseAdminStatus rejects values outside the closed set.
func ParseAdminStatus(raw string) (AdminStatus, error) {
	status := AdminStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case AdminStatusActive, AdminStatusInactive, AdminStatusSuspended:
		return status, nil
	}
	return "", fmt.Errorf("unknown admin status %q", raw)
}

// AdminUser models a privileged account, separate from the user directory.
// Invariant: Department is required iff the role is DEPARTMENT_ADMIN and
// forced nil for MAIN_ADMIN.
type AdminUser struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         AdminRole
	Department   *Department
	Phone        *string
	Status       AdminStatus
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
