package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/rbac"
	"github.com/spec-kit/student-support/pkg/util"
)

// RequireRole ensures the caller holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return util.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequirePermission ensures the caller's role grants the permission.
func RequirePermission(permission domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}
		if !rbac.HasPermission(principal.Role, permission) {
			return util.NewForbidden("missing permission: " + string(permission))
		}
		return c.Next()
	}
}
