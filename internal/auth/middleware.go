package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/repository"
	"github.com/spec-kit/student-support/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. StudentID is nil for staff
// and admin accounts.
type Principal struct {
	Account   *domain.Account
	Role      domain.Role
	StudentID *string
}

// OwnStudentID returns the linked student record id, or "" when none.
func (p *Principal) OwnStudentID() string {
	if p.StudentID == nil {
		return ""
	}
	return *p.StudentID
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	account, err := m.accounts.GetByID(c.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.NewUnauthorized("account not found")
		}
		return util.MapError(err)
	}
	if !account.IsActive {
		return util.NewUnauthorized("account disabled")
	}

	c.Locals(principalKey, &Principal{
		Account:   account,
		Role:      account.Role,
		StudentID: account.StudentID,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
