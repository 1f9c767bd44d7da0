package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/student-support/internal/api/dto"
	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/escalation"
	"github.com/spec-kit/student-support/pkg/util"
)

// StaffTicketsHandler manages the staff ticket workspace.
type StaffTicketsHandler struct {
	service *escalation.Service
}

// NewStaffTicketsHandler constructs the handler.
func NewStaffTicketsHandler(escalationService *escalation.Service) *StaffTicketsHandler {
	return &StaffTicketsHandler{service: escalationService}
}

// ListTickets GET /staff/tickets?status=&page=&page_size=.
func (h *StaffTicketsHandler) ListTickets(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	tickets, err := h.service.ListTickets(c.Context(), parseStatusFilter(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// MyQueue GET /staff/tickets/queue — tickets assigned to the caller.
func (h *StaffTicketsHandler) MyQueue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListStaffTickets(c.Context(), principal.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// AssignTicket POST /staff/tickets/:id/assign. Without an explicit staff_id
// the caller takes the ticket themselves.
func (h *StaffTicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return util.NewValidationError("invalid payload", nil)
	}

	staffID := req.StaffID
	staffName := principal.Account.Name
	if staffID == "" {
		staffID = principal.Account.ID
	} else if staffID != principal.Account.ID {
		staffName = staffID
	}

	ticket, err := h.service.AssignTicket(c.Context(), c.Params("id"), staffID, staffName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddMessage POST /staff/tickets/:id/messages — a staff reply, which parks
// the ticket waiting on the subject.
func (h *StaffTicketsHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.AddMessage(c.Context(), c.Params("id"), domain.SenderStaff, principal.Account.ID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ResolveTicket POST /staff/tickets/:id/resolve.
func (h *StaffTicketsHandler) ResolveTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.ResolutionNotes == "" {
		return util.NewValidationError("resolution_notes required", nil)
	}

	ticket, err := h.service.ResolveTicket(c.Context(), c.Params("id"), principal.Account.ID, req.ResolutionNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// CloseTicket POST /staff/tickets/:id/close — archives a resolved ticket.
func (h *StaffTicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	ticket, err := h.service.CloseTicket(c.Context(), c.Params("id"), principal.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Stats GET /staff/tickets/stats.
func (h *StaffTicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
