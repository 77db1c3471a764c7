package domain

import "time"

// User is the domain model for accounts that submit queries, including
// department staff. Department members carry their department identifier;
// plain students leave it nil.
type User struct {
	ID               int64
	FullName         string
	Email            string
	PasswordHash     string
	Role             string
	Department       *Department
	IsDepartmentHead bool
	IsActive         bool
	Phone            *string
	Position         *string
	Status           string
	CreatedAt        time.Time
}

// DefaultUserRole is assigned when signup supplies no role.
const DefaultUserRole = "student"

// DefaultUserStatus is the initial profile status string.
const DefaultUserStatus = "Active"
