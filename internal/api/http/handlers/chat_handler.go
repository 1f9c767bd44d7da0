package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/api/dto"
	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/service"
	"github.com/spec-kit/student-support/pkg/util"
)

// ChatHandler serves the query endpoint.
type ChatHandler struct {
	service *service.SupportService
}

// NewChatHandler constructs the handler.
func NewChatHandler(supportService *service.SupportService) *ChatHandler {
	return &ChatHandler{service: supportService}
}

// Query POST /chat/query. Subjects query their own record; staff and admin
// may target any student via student_id.
func (h *ChatHandler) Query(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return util.NewValidationError("message required", nil)
	}

	target := req.StudentID
	if target == "" {
		target = principal.OwnStudentID()
	}
	if target == "" {
		return util.NewValidationError("student_id required for accounts without a linked student record", nil)
	}

	result, err := h.service.SubmitQuery(c.Context(), principal.Role, principal.OwnStudentID(), target, req.Message)
	if err != nil {
		return err
	}

	resp := dto.QueryResponse{
		Response:   result.Response.Text,
		Category:   result.Response.Category,
		Confidence: result.Response.Confidence,
		Automated:  result.Response.Automated,
		Timestamp:  result.Response.Timestamp,
		Sources:    result.Response.Sources,
		Escalated:  result.Escalated,
	}
	if result.Ticket != nil {
		summary := ticketSummary(result.Ticket)
		resp.Ticket = &summary
	}
	return c.JSON(fiber.Map{"data": resp})
}
