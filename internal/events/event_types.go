package events

import (
	"time"

	"github.com/spec-kit/student-support/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketEscalated    EventType = "ticket_escalated"
	EventTicketAssigned     EventType = "ticket_assigned"
	EventTicketMessageAdded EventType = "ticket_message_added"
	EventTicketResolved     EventType = "ticket_resolved"
	EventTicketClosed       EventType = "ticket_closed"
)

// Actor encapsulates who triggered an event.
type Actor struct {
	Role      domain.Role `json:"role"`
	SubjectID string      `json:"subject_id,omitempty"`
	StaffID   string      `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	SubjectID    string                `json:"subject_id"`
	Category     domain.Category       `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	AIConfidence float64               `json:"ai_confidence"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	StaffID string `json:"staff_id"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	Sender      domain.MessageSender `json:"sender"`
	SenderID    string               `json:"sender_id"`
	BodyPreview string               `json:"body_preview"`
	NewStatus   domain.TicketStatus  `json:"new_status"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	ResolutionNotes string `json:"resolution_notes"`
}
