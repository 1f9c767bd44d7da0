package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/student-support/internal/domain"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(domain.RoleSubject, domain.PermissionSubmitQuery))
	assert.True(t, HasPermission(domain.RoleSubject, domain.PermissionViewOwn))
	assert.False(t, HasPermission(domain.RoleSubject, domain.PermissionViewAnySubject))
	assert.False(t, HasPermission(domain.RoleSubject, domain.PermissionManageUsers))

	assert.True(t, HasPermission(domain.RoleStaff, domain.PermissionViewAnySubject))
	assert.True(t, HasPermission(domain.RoleStaff, domain.PermissionViewAnalytics))
	assert.False(t, HasPermission(domain.RoleStaff, domain.PermissionViewAllSubjects))
	assert.False(t, HasPermission(domain.RoleStaff, domain.PermissionSystemConfig))

	for _, p := range []domain.Permission{
		domain.PermissionViewOwn,
		domain.PermissionViewAnySubject,
		domain.PermissionViewAllSubjects,
		domain.PermissionSubmitQuery,
		domain.PermissionViewOwnHistory,
		domain.PermissionViewAllQueries,
		domain.PermissionViewAnalytics,
		domain.PermissionManageUsers,
		domain.PermissionSystemConfig,
	} {
		assert.True(t, HasPermission(domain.RoleAdmin, p), "admin should hold %s", p)
	}
}

func TestHasPermissionUnknownRole(t *testing.T) {
	assert.False(t, HasPermission(domain.Role("ghost"), domain.PermissionViewOwn))
	assert.Nil(t, Permissions(domain.Role("ghost")))
}

func TestPermissionsSizes(t *testing.T) {
	assert.Len(t, Permissions(domain.RoleSubject), 3)
	assert.Len(t, Permissions(domain.RoleStaff), 5)
	assert.Len(t, Permissions(domain.RoleAdmin), 9)
}

func TestCanViewSubject(t *testing.T) {
	assert.True(t, CanViewSubject(domain.RoleSubject, "S1", "S1"))
	assert.False(t, CanViewSubject(domain.RoleSubject, "S1", "S2"))
	assert.False(t, CanViewSubject(domain.RoleSubject, "", ""))

	assert.True(t, CanViewSubject(domain.RoleStaff, "anyone", "S2"))
	assert.True(t, CanViewSubject(domain.RoleAdmin, "anyone", "S2"))
	assert.False(t, CanViewSubject(domain.Role("ghost"), "S1", "S1"))
}
