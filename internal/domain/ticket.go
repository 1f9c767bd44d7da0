package domain

import "time"

// TicketStatus enumerates lifecycle states for escalation tickets.
type TicketStatus string

const (
	TicketStatusOpen           TicketStatus = "OPEN"
	TicketStatusInProgress     TicketStatus = "IN_PROGRESS"
	TicketStatusPendingSubject TicketStatus = "PENDING_SUBJECT"
	TicketStatusResolved       TicketStatus = "RESOLVED"
	TicketStatusClosed         TicketStatus = "CLOSED"
)

// IsTerminal reports whether the status permits no further transitions
// through normal operations. Resolved still allows explicit archival to
// Closed; both block assignment, messaging and resolution.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// MessageSender identifies who authored a ticket message.
type MessageSender string

const (
	SenderSubject MessageSender = "SUBJECT"
	SenderStaff   MessageSender = "STAFF"
	SenderSystem  MessageSender = "SYSTEM"
)

// TicketMessage is one entry in a ticket's append-only thread.
type TicketMessage struct {
	ID        string
	Sender    MessageSender
	SenderID  string
	Body      string
	CreatedAt time.Time
}

// Ticket is the aggregate for a human-escalated request. Tickets are never
// deleted; they terminate via status.
type Ticket struct {
	ID              string
	SubjectID       string
	Subject         string
	Query           string
	AIResponse      string
	AIConfidence    float64
	Category        Category
	Status          TicketStatus
	Priority        TicketPriority
	AssignedTo      string
	Messages        []TicketMessage
	ResolutionNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
