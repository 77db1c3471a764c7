package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/query-portal/internal/domain"
)

func TestDirectoryLookup(t *testing.T) {
	dir := NewDirectory()

	info, ok := dir.Lookup("it")
	require.True(t, ok)
	assert.Equal(t, domain.DepartmentIT, info.ID)
	assert.Equal(t, "IT Department", info.Name)

	info, ok = dir.Lookup("  Warden ")
	require.True(t, ok)
	assert.Equal(t, "Warden Office", info.Name)

	_, ok = dir.Lookup("payroll")
	assert.False(t, ok)

	_, ok = dir.Lookup("")
	assert.False(t, ok)
}

func TestDirectoryOrder(t *testing.T) {
	dir := NewDirectory()
	infos := dir.Departments()
	require.Len(t, infos, 5)

	expected := []domain.Department{
		domain.DepartmentIT,
		domain.DepartmentMaintenance,
		domain.DepartmentRector,
		domain.DepartmentWarden,
		domain.DepartmentAdministration,
	}
	for i, dept := range expected {
		assert.Equal(t, dept, infos[i].ID)
	}
}

func TestDashboardURLs(t *testing.T) {
	dir := NewDirectory()

	assert.Equal(t, "/admin/dashboard.html", dir.DashboardURL(domain.AdminRoleMain, nil))

	cases := map[domain.Department]string{
		domain.DepartmentIT:             "/dashboards/it/it-dashboard.html",
		domain.DepartmentMaintenance:    "/dashboards/maintenance/maintenance-dashboard.html",
		domain.DepartmentRector:         "/dashboards/rector/rector-dashboard.html",
		domain.DepartmentWarden:         "/dashboards/warden/warden-dashboard.html",
		domain.DepartmentAdministration: "/dashboards/admin/admin-dashboard.html",
	}
	for dept, want := range cases {
		d := dept
		assert.Equal(t, want, dir.DashboardURL(domain.AdminRoleDepartment, &d))
	}

	// Unknown combinations fall back to the generic dashboard.
	assert.Equal(t, DefaultDashboardURL, dir.DashboardURL(domain.AdminRoleDepartment, nil))
	it := domain.DepartmentIT
	assert.Equal(t, DefaultDashboardURL, dir.DashboardURL(domain.AdminRoleMain, &it))
}
