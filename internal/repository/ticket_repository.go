package repository

import (
	"context"

	"github.com/spec-kit/student-support/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	SubjectID  *string
	AssignedTo *string
	Statuses   []domain.TicketStatus
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence. Mutate is the single
// write path for existing tickets: it runs fn against the current state as
// one atomic unit per ticket id, so concurrent mutations of the same ticket
// serialize while different tickets proceed independently.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Mutate(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error)
}

// AccountRepository encapsulates login account lookup and credential updates.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	TouchLastLogin(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
