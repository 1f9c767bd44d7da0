package dto

import (
	"time"

	"github.com/spec-kit/student-support/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	ID           string                `json:"id"`
	SubjectID    string                `json:"student_id"`
	Subject      string                `json:"subject"`
	Category     domain.Category       `json:"category"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	AssignedTo   string                `json:"assigned_to,omitempty"`
	AIConfidence float64               `json:"ai_confidence"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info including the thread.
type TicketDetailResponse struct {
	TicketSummary
	Query           string                  `json:"original_query"`
	AIResponse      string                  `json:"ai_response"`
	ResolutionNotes string                  `json:"resolution_notes,omitempty"`
	Messages        []TicketMessageResponse `json:"messages"`
}

// TicketMessageResponse represents one thread message.
type TicketMessageResponse struct {
	ID        string               `json:"id"`
	Sender    domain.MessageSender `json:"sender"`
	SenderID  string               `json:"sender_id,omitempty"`
	Body      string               `json:"message"`
	CreatedAt time.Time            `json:"timestamp"`
}

// CreateTicketRequest payload for a subject-initiated ticket. Category and
// confidence are optional; they default to the general category and a neutral
// 0.5 score.
type CreateTicketRequest struct {
	Query        string   `json:"query"`
	Category     string   `json:"category,omitempty"`
	AIConfidence *float64 `json:"ai_confidence,omitempty"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body string `json:"message"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	StaffID string `json:"staff_id,omitempty"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	ResolutionNotes string `json:"resolution_notes"`
}
