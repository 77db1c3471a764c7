// Package routing holds the static department directory: display metadata
// and the dashboard URL table consulted after admin login. The directory is
// built once at startup and injected; it is never mutated at runtime.
package routing

import (
	"github.com/acadtrack/query-portal/internal/domain"
)

// DepartmentInfo is the display metadata for one routing target.
type DepartmentInfo struct {
	ID          domain.Department
	Name        string
	Description string
}

// DefaultDashboardURL is returned for role/department combinations the
// table does not know about.
const DefaultDashboardURL = "/admin/dashboard.html"

type dashboardKey struct {
	role domain.AdminRole
	dept domain.Department
}

// Directory resolves department metadata and admin dashboard URLs.
type Directory struct {
	departments []DepartmentInfo
	byID        map[domain.Department]DepartmentInfo
	dashboards  map[dashboardKey]string
}

// NewDirectory builds the fixed five-department directory.
func NewDirectory() *Directory {
	departments := []DepartmentInfo{
		{ID: domain.DepartmentIT, Name: "IT Department", Description: "Information Technology Support"},
		{ID: domain.DepartmentMaintenance, Name: "Maintenance Department", Description: "Facility Maintenance & Infrastructure"},
		{ID: domain.DepartmentRector, Name: "Rector Office", Description: "Academic Affairs & Administration"},
		{ID: domain.DepartmentWarden, Name: "Warden Office", Description: "Student Housing & Accommodation"},
		{ID: domain.DepartmentAdministration, Name: "Administration", Description: "General Administrative Services"},
	}

	byID := make(map[domain.Department]DepartmentInfo, len(departments))
	for _, info := range departments {
		byID[info.ID] = info
	}

	dashboards := map[dashboardKey]string{
		{role: domain.AdminRoleMain}:                                           DefaultDashboardURL,
		{role: domain.AdminRoleDepartment, dept: domain.DepartmentIT}:          "/dashboards/it/it-dashboard.html",
		{role: domain.AdminRoleDepartment, dept: domain.DepartmentMaintenance}: "/dashboards/maintenance/maintenance-dashboard.html",
		{role: domain.AdminRoleDepartment, dept: domain.DepartmentRector}:      "/dashboards/rector/rector-dashboard.html",
		{role: domain.AdminRoleDepartment, dept: domain.DepartmentWarden}:      "/dashboards/warden/warden-dashboard.html",
		{role: domain.AdminRoleDepartment, dept: domain.DepartmentAdministration}: "/dashboards/admin/admin-dashboard.html",
	}

	return &Directory{departments: departments, byID: byID, dashboards: dashboards}
}

// Departments returns the table in its fixed order.
func (d *Directory) Departments() []DepartmentInfo {
	out := make([]DepartmentInfo, len(d.departments))
	copy(out, d.departments)
	return out
}

// Lookup parses the identifier (case-insensitive) and returns the matching
// entry. The second return is false for identifiers outside the table.
func (d *Directory) Lookup(id string) (DepartmentInfo, bool) {
	dept, err := domain.ParseDepartment(id)
	if err != nil {
		return DepartmentInfo{}, false
	}
	info, ok := d.byID[dept]
	return info, ok
}

// DashboardURL maps an admin role and optional department to the dashboard
// the admin lands on after login. Unrecognized combinations fall back to
// the generic admin dashboard.
func (d *Directory) DashboardURL(role domain.AdminRole, dept *domain.Department) string {
	key := dashboardKey{role: role}
	if dept != nil {
		key.dept = *dept
	}
	if url, ok := d.dashboards[key]; ok {
		return url
	}
	return DefaultDashboardURL
}
