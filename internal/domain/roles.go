package domain

// Role is the closed set of caller roles.
type Role string

const (
	RoleSubject Role = "subject"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleSubject, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Permission is the closed set of system permissions.
type Permission string

const (
	PermissionViewOwn         Permission = "view_own"
	PermissionViewAnySubject  Permission = "view_any_subject"
	PermissionViewAllSubjects Permission = "view_all_subjects"
	PermissionSubmitQuery     Permission = "submit_query"
	PermissionViewOwnHistory  Permission = "view_own_history"
	PermissionViewAllQueries  Permission = "view_all_queries"
	PermissionViewAnalytics   Permission = "view_analytics"
	PermissionManageUsers     Permission = "manage_users"
	PermissionSystemConfig    Permission = "system_config"
)
