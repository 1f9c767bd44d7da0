// Package escalation owns the hand-off from automated answers to human
// staff: the escalation decision, ticket creation and the ticket lifecycle.
package escalation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/events"
	"github.com/spec-kit/student-support/internal/knowledge"
	"github.com/spec-kit/student-support/internal/repository"
	"github.com/spec-kit/student-support/pkg/util"
)

// escalationThreshold is the confidence floor below which every response is
// routed to a human.
const escalationThreshold = 0.70

// highPriorityConfidence marks responses so weak the ticket jumps straight
// to high priority.
const highPriorityConfidence = 0.30

// highPriorityCategories always produce high-priority tickets regardless of
// confidence.
var highPriorityCategories = map[domain.Category]bool{
	"financial_aid": true,
	"emergency":     true,
}

// Stats summarizes the ticket backlog for the staff dashboard.
type Stats struct {
	TotalTickets   int                     `json:"total_tickets"`
	Open           int                     `json:"open"`
	InProgress     int                     `json:"in_progress"`
	PendingSubject int                     `json:"pending_subject"`
	Resolved       int                     `json:"resolved"`
	Closed         int                     `json:"closed"`
	ByCategory     map[domain.Category]int `json:"by_category"`
	AvgConfidence  float64                 `json:"avg_escalation_confidence"`
}

// Service manages escalation decisions and support tickets.
type Service struct {
	tickets    repository.TicketRepository
	base       *knowledge.Base
	dispatcher events.Dispatcher
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires the escalation service.
func NewService(tickets repository.TicketRepository, base *knowledge.Base, dispatcher events.Dispatcher, logger *zap.Logger) *Service {
	return &Service{
		tickets:    tickets,
		base:       base,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
		newID:      newTicketID,
	}
}

func newTicketID() string {
	return "TKT-" + strings.ToUpper(uuid.NewString()[:8])
}

// ShouldEscalate reports whether a generated response needs human review:
// either the confidence fell below the threshold, or the category is one
// that always gets a human in the loop.
func (s *Service) ShouldEscalate(confidence float64, category domain.Category) bool {
	if confidence < escalationThreshold {
		return true
	}
	for _, sensitive := range s.base.SensitiveCategories {
		if category == sensitive {
			return true
		}
	}
	return false
}

// CreateTicket opens a ticket for an escalated query. The thread starts with
// the subject's query and a system acknowledgment carrying the ticket number.
func (s *Service) CreateTicket(ctx context.Context, subjectID, query string, response domain.GeneratedResponse) (*domain.Ticket, error) {
	now := s.now().UTC()
	id := s.newID()

	ticket := &domain.Ticket{
		ID:           id,
		SubjectID:    subjectID,
		Subject:      ticketSubject(response.Category),
		Query:        query,
		AIResponse:   response.Text,
		AIConfidence: response.Confidence,
		Category:     response.Category,
		Status:       domain.TicketStatusOpen,
		Priority:     ticketPriority(response.Confidence, response.Category),
		CreatedAt:    now,
		UpdatedAt:    now,
		Messages: []domain.TicketMessage{
			{
				ID:        uuid.NewString(),
				Sender:    domain.SenderSubject,
				SenderID:  subjectID,
				Body:      query,
				CreatedAt: now,
			},
			{
				ID:     uuid.NewString(),
				Sender: domain.SenderSystem,
				Body: fmt.Sprintf("Your query has been escalated to our support team. "+
					"A specialist will respond within 24 hours. Your ticket number is %s.", id),
				CreatedAt: now,
			},
		},
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("subject_id", subjectID),
		zap.String("category", string(ticket.Category)),
		zap.String("priority", string(ticket.Priority)),
		zap.Float64("ai_confidence", response.Confidence))

	s.publish(ctx, events.EventTicketEscalated, ticket.ID,
		events.Actor{Role: domain.RoleSubject, SubjectID: subjectID},
		events.TicketEscalatedPayload{
			SubjectID:    subjectID,
			Category:     ticket.Category,
			Priority:     ticket.Priority,
			AIConfidence: response.Confidence,
		})
	return ticket, nil
}

// RequestSupport opens a ticket at the subject's explicit request, even when
// the automated answer was satisfactory ("Talk to Support"). The stored
// response records that a human was asked for rather than an answer text.
func (s *Service) RequestSupport(ctx context.Context, subjectID, query string, category domain.Category, confidence float64) (*domain.Ticket, error) {
	if strings.TrimSpace(query) == "" {
		return nil, util.NewValidationError("query must not be empty", nil)
	}
	if category == "" {
		category = domain.CategoryGeneral
	}
	return s.CreateTicket(ctx, subjectID, query, domain.GeneratedResponse{
		Text:       "Student requested human support",
		Category:   category,
		Confidence: confidence,
	})
}

// AssignTicket hands an open or in-progress ticket to a staff member and
// moves it to in-progress.
func (s *Service) AssignTicket(ctx context.Context, ticketID, staffID, staffName string) (*domain.Ticket, error) {
	now := s.now().UTC()
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.Status.IsTerminal() {
			return util.NewInvalidTransition(
				fmt.Sprintf("ticket %s is %s and cannot be assigned", t.ID, t.Status))
		}
		t.AssignedTo = staffID
		t.Status = domain.TicketStatusInProgress
		t.UpdatedAt = now
		t.Messages = append(t.Messages, domain.TicketMessage{
			ID:        uuid.NewString(),
			Sender:    domain.SenderSystem,
			Body:      fmt.Sprintf("Ticket assigned to %s.", staffName),
			CreatedAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket assigned",
		zap.String("ticket_id", ticketID),
		zap.String("staff_id", staffID))

	s.publish(ctx, events.EventTicketAssigned, ticketID,
		events.Actor{Role: domain.RoleStaff, StaffID: staffID},
		events.TicketAssignedPayload{StaffID: staffID})
	return ticket, nil
}

// AddMessage appends to the ticket thread. A staff message moves the ticket
// to pending-subject, a subject message back to in-progress; system messages
// leave the status alone.
func (s *Service) AddMessage(ctx context.Context, ticketID string, sender domain.MessageSender, senderID, body string) (*domain.Ticket, error) {
	if strings.TrimSpace(body) == "" {
		return nil, util.NewValidationError("message body must not be empty", nil)
	}

	now := s.now().UTC()
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.Status.IsTerminal() {
			return util.NewInvalidTransition(
				fmt.Sprintf("ticket %s is %s and no longer accepts messages", t.ID, t.Status))
		}
		t.Messages = append(t.Messages, domain.TicketMessage{
			ID:        uuid.NewString(),
			Sender:    sender,
			SenderID:  senderID,
			Body:      body,
			CreatedAt: now,
		})
		switch sender {
		case domain.SenderStaff:
			t.Status = domain.TicketStatusPendingSubject
		case domain.SenderSubject:
			t.Status = domain.TicketStatusInProgress
		}
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketMessageAdded, ticketID,
		actorFor(sender, senderID),
		events.TicketMessageAddedPayload{
			Sender:      sender,
			SenderID:    senderID,
			BodyPreview: preview(body),
			NewStatus:   ticket.Status,
		})
	return ticket, nil
}

// ResolveTicket closes out the work on a ticket with resolution notes.
func (s *Service) ResolveTicket(ctx context.Context, ticketID, staffID, notes string) (*domain.Ticket, error) {
	now := s.now().UTC()
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.Status.IsTerminal() {
			return util.NewInvalidTransition(
				fmt.Sprintf("ticket %s is already %s", t.ID, t.Status))
		}
		t.Status = domain.TicketStatusResolved
		t.ResolutionNotes = notes
		t.UpdatedAt = now
		t.Messages = append(t.Messages, domain.TicketMessage{
			ID:        uuid.NewString(),
			Sender:    domain.SenderSystem,
			Body:      fmt.Sprintf("Ticket resolved. Resolution: %s", notes),
			CreatedAt: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket resolved",
		zap.String("ticket_id", ticketID),
		zap.String("staff_id", staffID))

	s.publish(ctx, events.EventTicketResolved, ticketID,
		events.Actor{Role: domain.RoleStaff, StaffID: staffID},
		events.TicketResolvedPayload{ResolutionNotes: notes})
	return ticket, nil
}

// CloseTicket archives a resolved ticket. This is the only transition out of
// the resolved state.
func (s *Service) CloseTicket(ctx context.Context, ticketID, staffID string) (*domain.Ticket, error) {
	now := s.now().UTC()
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.Status != domain.TicketStatusResolved {
			return util.NewInvalidTransition(
				fmt.Sprintf("ticket %s is %s; only resolved tickets can be closed", t.ID, t.Status))
		}
		t.Status = domain.TicketStatusClosed
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketClosed, ticketID,
		events.Actor{Role: domain.RoleStaff, StaffID: staffID}, nil)
	return ticket, nil
}

// GetTicket fetches one ticket.
func (s *Service) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// ListTickets returns all tickets, optionally filtered by status.
func (s *Service) ListTickets(ctx context.Context, status *domain.TicketStatus, limit, offset int) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{Limit: limit, Offset: offset}
	if status != nil {
		filter.Statuses = []domain.TicketStatus{*status}
	}
	return s.tickets.List(ctx, filter)
}

// ListSubjectTickets returns the tickets belonging to one subject.
func (s *Service) ListSubjectTickets(ctx context.Context, subjectID string) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{SubjectID: &subjectID})
}

// ListStaffTickets returns the tickets assigned to one staff member.
func (s *Service) ListStaffTickets(ctx context.Context, staffID string) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{AssignedTo: &staffID})
}

// GetStats aggregates backlog counts for the dashboard.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{Limit: 10000})
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByCategory: make(map[domain.Category]int)}
	var confidenceSum float64
	for _, t := range tickets {
		stats.TotalTickets++
		stats.ByCategory[t.Category]++
		confidenceSum += t.AIConfidence
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusPendingSubject:
			stats.PendingSubject++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
	}
	if stats.TotalTickets > 0 {
		stats.AvgConfidence = confidenceSum / float64(stats.TotalTickets)
	}
	return stats, nil
}

func ticketPriority(confidence float64, category domain.Category) domain.TicketPriority {
	if confidence < highPriorityConfidence || highPriorityCategories[category] {
		return domain.TicketPriorityHigh
	}
	return domain.TicketPriorityMedium
}

// ticketSubject renders "financial_aid" as "Financial Aid Query".
func ticketSubject(category domain.Category) string {
	words := strings.Split(string(category), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ") + " Query"
}

func actorFor(sender domain.MessageSender, senderID string) events.Actor {
	switch sender {
	case domain.SenderStaff:
		return events.Actor{Role: domain.RoleStaff, StaffID: senderID}
	case domain.SenderSubject:
		return events.Actor{Role: domain.RoleSubject, SubjectID: senderID}
	}
	return events.Actor{}
}

func preview(body string) string {
	const max = 120
	if len(body) <= max {
		return body
	}
	return body[:max] + "..."
}

func (s *Service) publish(ctx context.Context, eventType events.EventType, ticketID string, actor events.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
}
