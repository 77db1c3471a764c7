package domain

import (
	"fmt"
	"strings"
)

// Department identifies one of the fixed organizational routing targets.
type Department string

const (
	DepartmentIT             Department = "IT"
	DepartmentMaintenance    Department = "MAINTENANCE"
	DepartmentRector         Department = "RECTOR"
	DepartmentWarden         Department = "WARDEN"
	DepartmentAdministration Department = "ADMINISTRATION"
)

// Departments returns the fixed set in display order.
func Departments() []Department {
	return []Department{
		DepartmentIT,
		DepartmentMaintenance,
		DepartmentRector,
		DepartmentWarden,
		DepartmentAdministration,
	}
}

// ParseDepartment normalizes input to uppercase and rejects values outside
// the configured set.
func ParseDepartment(raw string) (Department, error) {
	dept := Department(strings.ToUpper(strings.TrimSpace(raw)))
	switch dept {
	case DepartmentIT, DepartmentMaintenance, DepartmentRector, DepartmentWarden, DepartmentAdministration:
		return dept, nil
	}
	return "", fmt.Errorf("unknown department %q", raw)
}

// Category returns the query category a department's queue maps to. The
// mapping is an identity over the same five values; transfers rely on it.
func (d Department) Category() QueryCategory {
	return QueryCategory(d)
}
