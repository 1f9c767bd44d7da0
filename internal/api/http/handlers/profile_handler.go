package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/api/dto"
	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/service"
	"github.com/spec-kit/student-support/pkg/util"
)

// ProfileHandler serves unified student profiles.
type ProfileHandler struct {
	service *service.SupportService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(supportService *service.SupportService) *ProfileHandler {
	return &ProfileHandler{service: supportService}
}

// MyProfile GET /students/me/profile.
func (h *ProfileHandler) MyProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	studentID := principal.OwnStudentID()
	if studentID == "" {
		return util.NewValidationError("account has no linked student record", nil)
	}
	return h.respond(c, principal, studentID)
}

// StudentProfile GET /students/:id/profile. Staff and admin only (enforced
// in the route group); visibility is still re-checked in the service.
func (h *ProfileHandler) StudentProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	return h.respond(c, principal, c.Params("id"))
}

func (h *ProfileHandler) respond(c *fiber.Ctx, principal *auth.Principal, studentID string) error {
	profile, err := h.service.GetProfile(c.Context(), principal.Role, principal.OwnStudentID(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

func profileResponse(profile *domain.UnifiedProfile) dto.ProfileResponse {
	return dto.ProfileResponse{
		Identity: profile.Identity,
		Academic: profile.Academic,
		Aid:      profile.Aid,
		Housing:  profile.Housing,
		Library:  profile.Library,
		Meta: dto.ProfileMetaResponse{
			ProvidersQueried:   profile.Meta.ProvidersQueried,
			ProvidersResponded: profile.Meta.ProvidersResponded,
			AggregatedAt:       profile.Meta.AggregatedAt,
			Freshness:          profile.Meta.Freshness,
		},
	}
}
