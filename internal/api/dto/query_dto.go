package dto

import (
	"time"

	"github.com/spec-kit/student-support/internal/domain"
)

// QueryRequest payload for chat queries. StudentID is only honored for
// staff and admin callers; subjects always query their own record.
type QueryRequest struct {
	Message   string `json:"message"`
	StudentID string `json:"student_id,omitempty"`
}

// QueryResponse is the generated answer plus the escalation outcome.
type QueryResponse struct {
	Response   string          `json:"response"`
	Category   domain.Category `json:"category"`
	Confidence float64         `json:"confidence"`
	Automated  bool            `json:"automated"`
	Timestamp  time.Time       `json:"timestamp"`
	Sources    []string        `json:"sources,omitempty"`
	Escalated  bool            `json:"escalated"`
	Ticket     *TicketSummary  `json:"ticket,omitempty"`
}
