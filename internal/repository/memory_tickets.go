package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/pkg/util"
)

// memoryTicketRepository is the default store when no database is configured.
// Each ticket carries its own mutex, so Mutate serializes per ticket while
// unrelated tickets proceed concurrently.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*memoryTicket
}

type memoryTicket struct {
	mu     sync.Mutex
	ticket domain.Ticket
}

// NewMemoryTickets returns an in-memory ticket repository.
func NewMemoryTickets() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]*memoryTicket)}
}

func (r *memoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; exists {
		return util.NewConflict(fmt.Sprintf("ticket %s already exists", ticket.ID), nil)
	}
	r.tickets[ticket.ID] = &memoryTicket{ticket: cloneTicket(ticket)}
	return nil
}

func (r *memoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	snapshot := cloneTicket(&entry.ticket)
	return &snapshot, nil
}

func (r *memoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	entries := make([]*memoryTicket, 0, len(r.tickets))
	for _, entry := range r.tickets {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	var result []domain.Ticket
	for _, entry := range entries {
		entry.mu.Lock()
		snapshot := cloneTicket(&entry.ticket)
		entry.mu.Unlock()
		if matchesFilter(&snapshot, filter) {
			result = append(result, snapshot)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *memoryTicketRepository) Mutate(_ context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	entry, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := cloneTicket(&entry.ticket)
	if err := fn(&working); err != nil {
		return nil, err
	}
	entry.ticket = cloneTicket(&working)
	return &working, nil
}

func (r *memoryTicketRepository) entry(id string) (*memoryTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id, util.ErrNotFound)
	}
	return entry, nil
}

func matchesFilter(ticket *domain.Ticket, filter TicketFilter) bool {
	if filter.SubjectID != nil && ticket.SubjectID != *filter.SubjectID {
		return false
	}
	if filter.AssignedTo != nil && ticket.AssignedTo != *filter.AssignedTo {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if ticket.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func cloneTicket(t *domain.Ticket) domain.Ticket {
	clone := *t
	clone.Messages = append([]domain.TicketMessage(nil), t.Messages...)
	return clone
}
