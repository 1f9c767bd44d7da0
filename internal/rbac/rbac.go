// Package rbac maps roles to fixed permission sets and answers visibility
// questions about subject records. It is pure: no stores, no side effects.
package rbac

import "github.com/spec-kit/student-support/internal/domain"

var subjectPermissions = []domain.Permission{
	domain.PermissionViewOwn,
	domain.PermissionSubmitQuery,
	domain.PermissionViewOwnHistory,
}

var staffPermissions = append([]domain.Permission{
	domain.PermissionViewAnySubject,
	domain.PermissionViewAnalytics,
}, subjectPermissions...)

var adminPermissions = []domain.Permission{
	domain.PermissionViewOwn,
	domain.PermissionViewAnySubject,
	domain.PermissionViewAllSubjects,
	domain.PermissionSubmitQuery,
	domain.PermissionViewOwnHistory,
	domain.PermissionViewAllQueries,
	domain.PermissionViewAnalytics,
	domain.PermissionManageUsers,
	domain.PermissionSystemConfig,
}

var rolePermissions = map[domain.Role]map[domain.Permission]struct{}{
	domain.RoleSubject: toSet(subjectPermissions),
	domain.RoleStaff:   toSet(staffPermissions),
	domain.RoleAdmin:   toSet(adminPermissions),
}

func toSet(perms []domain.Permission) map[domain.Permission]struct{} {
	set := make(map[domain.Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Permissions returns the fixed permission set for a role. Unknown roles
// have no permissions.
func Permissions(role domain.Role) []domain.Permission {
	set, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	perms := make([]domain.Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	return perms
}

// HasPermission is a set-membership test against the static role table.
func HasPermission(role domain.Role, permission domain.Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, has := set[permission]
	return has
}

// CanViewSubject reports whether a caller may view the target subject's
// records. Subjects see only themselves; staff and admin see anyone.
func CanViewSubject(role domain.Role, requesterSubjectID, targetSubjectID string) bool {
	switch role {
	case domain.RoleStaff, domain.RoleAdmin:
		return true
	case domain.RoleSubject:
		return requesterSubjectID != "" && requesterSubjectID == targetSubjectID
	}
	return false
}
