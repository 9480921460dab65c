package rbac_test

import (
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type fakeRBACRepository struct {
	rbac.Repository

	employeeRoles   []rbac.EmployeeRoleRow
	rolePermissions []rbac.RolePermissionRow

	loads int
}

func (f *fakeRBACRepository) GetEmployeeRoles() ([]rbac.EmployeeRoleRow, error) {
	f.loads++
	return f.employeeRoles, nil
}

func (f *fakeRBACRepository) GetRolePermissions() ([]rbac.RolePermissionRow, error) {
	return f.rolePermissions, nil
}

func newTestService(t *testing.T, repo *fakeRBACRepository) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	svc := rbac.NewService(repo, enforcer)
	assert.NoError(t, svc.Reload())
	return svc
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRBACRepository{
		employeeRoles: []rbac.EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
		rolePermissions: []rbac.RolePermissionRow{
			{RoleID: "role-hr", Resource: "leave", Action: "read-all"},
			{RoleID: "role-hr", Resource: "ledger", Action: "post"},
		},
	}
	svc := newTestService(t, repo)

	cases := []struct {
		name string
		req  domain.EnforceRequest
		want bool
	}{
		{"role grants resource action", domain.EnforceRequest{EmployeeID: "emp-1", Resource: "leave", Action: "read-all"}, true},
		{"second permission of same role", domain.EnforceRequest{EmployeeID: "emp-1", Resource: "ledger", Action: "post"}, true},
		{"action not granted", domain.EnforceRequest{EmployeeID: "emp-1", Resource: "leave", Action: "delete"}, false},
		{"employee without role", domain.EnforceRequest{EmployeeID: "emp-2", Resource: "leave", Action: "read-all"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.req)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}

func TestRBACService_ReloadPicksUpChanges(t *testing.T) {
	repo := &fakeRBACRepository{
		employeeRoles: []rbac.EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
		rolePermissions: []rbac.RolePermissionRow{
			{RoleID: "role-hr", Resource: "leave", Action: "read"},
		},
	}
	svc := newTestService(t, repo)

	allowed, err := svc.Enforce(domain.EnforceRequest{EmployeeID: "emp-1", Resource: "leave", Action: "act"})
	assert.NoError(t, err)
	assert.False(t, allowed)

	repo.rolePermissions = append(repo.rolePermissions, rbac.RolePermissionRow{
		RoleID: "role-hr", Resource: "leave", Action: "act",
	})
	assert.NoError(t, svc.Reload())

	allowed, err = svc.Enforce(domain.EnforceRequest{EmployeeID: "emp-1", Resource: "leave", Action: "act"})
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRBACService_PolicyCachedWithinTTL(t *testing.T) {
	repo := &fakeRBACRepository{
		employeeRoles: []rbac.EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
	}
	svc := newTestService(t, repo)

	loadsAfterSetup := repo.loads
	for i := 0; i < 5; i++ {
		_, err := svc.Enforce(domain.EnforceRequest{EmployeeID: "emp-1", Resource: "leave", Action: "read"})
		assert.NoError(t, err)
	}
	assert.Equal(t, loadsAfterSetup, repo.loads)
}
