package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/api/dto"
	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/escalation"
	"github.com/spec-kit/student-support/pkg/util"
)

// TicketsHandler manages subject-facing ticket endpoints.
type TicketsHandler struct {
	service *escalation.Service
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(escalationService *escalation.Service) *TicketsHandler {
	return &TicketsHandler{service: escalationService}
}

// ListMine GET /tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	studentID := principal.OwnStudentID()
	if studentID == "" {
		return util.NewValidationError("account has no linked student record", nil)
	}

	tickets, err := h.service.ListSubjectTickets(c.Context(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// CreateTicket POST /tickets. Lets a subject request human support directly,
// even when the automated answer was satisfactory.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	studentID := principal.OwnStudentID()
	if studentID == "" {
		return util.NewValidationError("account has no linked student record", nil)
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Query) == "" {
		return util.NewValidationError("query required", nil)
	}

	confidence := 0.5
	if req.AIConfidence != nil {
		confidence = *req.AIConfidence
	}

	ticket, err := h.service.RequestSupport(c.Context(), studentID, req.Query, domain.Category(req.Category), confidence)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// GetTicket GET /tickets/:id. Subjects may only read their own tickets.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	ticket, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleSubject && ticket.SubjectID != principal.OwnStudentID() {
		return util.NewForbidden("not your ticket")
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddMessage POST /tickets/:id/messages. The subject replies on their own
// ticket, which moves it back to in-progress.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	studentID := principal.OwnStudentID()
	if studentID == "" {
		return util.NewValidationError("account has no linked student record", nil)
	}

	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if ticket.SubjectID != studentID {
		return util.NewForbidden("not your ticket")
	}

	updated, err := h.service.AddMessage(c.Context(), ticket.ID, domain.SenderSubject, studentID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(updated)})
}

func parseStatusFilter(c *fiber.Ctx) *domain.TicketStatus {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return nil
	}
	status := domain.TicketStatus(strings.ToUpper(raw))
	return &status
}

func parsePaging(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		SubjectID:    ticket.SubjectID,
		Subject:      ticket.Subject,
		Category:     ticket.Category,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		AssignedTo:   ticket.AssignedTo,
		AIConfidence: ticket.AIConfidence,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	messages := make([]dto.TicketMessageResponse, 0, len(ticket.Messages))
	for _, msg := range ticket.Messages {
		messages = append(messages, dto.TicketMessageResponse{
			ID:        msg.ID,
			Sender:    msg.Sender,
			SenderID:  msg.SenderID,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		})
	}
	return dto.TicketDetailResponse{
		TicketSummary:   ticketSummary(ticket),
		Query:           ticket.Query,
		AIResponse:      ticket.AIResponse,
		ResolutionNotes: ticket.ResolutionNotes,
		Messages:        messages,
	}
}
