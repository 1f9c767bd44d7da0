package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/pkg/util"
)

func ticketFixture(id, subjectID string, status domain.TicketStatus, createdAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:        id,
		SubjectID: subjectID,
		Subject:   "Question about financial aid",
		Query:     "Why is my aid on hold?",
		Category:  domain.Category("financial_aid"),
		Status:    status,
		Priority:  domain.TicketPriorityMedium,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryTicketsCreateAndGet(t *testing.T) {
	repo := NewMemoryTickets()
	ctx := context.Background()

	ticket := ticketFixture("TKT-1", "STU2024001", domain.TicketStatusOpen, time.Now())
	require.NoError(t, repo.Create(ctx, ticket))

	got, err := repo.GetByID(ctx, "TKT-1")
	require.NoError(t, err)
	assert.Equal(t, "STU2024001", got.SubjectID)

	// Snapshots are detached from the store.
	got.Status = domain.TicketStatusClosed
	again, err := repo.GetByID(ctx, "TKT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, again.Status)
}

func TestMemoryTicketsGetMissing(t *testing.T) {
	repo := NewMemoryTickets()

	_, err := repo.GetByID(context.Background(), "TKT-missing")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestMemoryTicketsCreateDuplicate(t *testing.T) {
	repo := NewMemoryTickets()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-1", "STU2024001", domain.TicketStatusOpen, time.Now())))
	assert.Error(t, repo.Create(ctx, ticketFixture("TKT-1", "STU2024002", domain.TicketStatusOpen, time.Now())))
}

func TestMemoryTicketsListFilters(t *testing.T) {
	repo := NewMemoryTickets()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-1", "STU2024001", domain.TicketStatusOpen, base.Add(-2*time.Hour))))
	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-2", "STU2024001", domain.TicketStatusResolved, base.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-3", "STU2024002", domain.TicketStatusOpen, base)))

	subjectID := "STU2024001"
	mine, err := repo.List(ctx, TicketFilter{SubjectID: &subjectID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "TKT-2", mine[0].ID, "newest first")

	open, err := repo.List(ctx, TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusOpen}})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	limited, err := repo.List(ctx, TicketFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "TKT-3", limited[0].ID)
}

func TestMemoryTicketsMutate(t *testing.T) {
	repo := NewMemoryTickets()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-1", "STU2024001", domain.TicketStatusOpen, time.Now())))

	updated, err := repo.Mutate(ctx, "TKT-1", func(t *domain.Ticket) error {
		t.Status = domain.TicketStatusInProgress
		t.AssignedTo = "staff-1"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	stored, err := repo.GetByID(ctx, "TKT-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", stored.AssignedTo)
}

func TestMemoryTicketsMutateErrorDiscardsChanges(t *testing.T) {
	repo := NewMemoryTickets()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-1", "STU2024001", domain.TicketStatusOpen, time.Now())))

	_, err := repo.Mutate(ctx, "TKT-1", func(t *domain.Ticket) error {
		t.Status = domain.TicketStatusClosed
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	stored, err := repo.GetByID(ctx, "TKT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status, "failed mutation must not commit")
}

func TestMemoryTicketsMutateConcurrentAppends(t *testing.T) {
	repo := NewMemoryTickets()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, ticketFixture("TKT-1", "STU2024001", domain.TicketStatusOpen, time.Now())))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.Mutate(ctx, "TKT-1", func(t *domain.Ticket) error {
				t.Messages = append(t.Messages, domain.TicketMessage{
					ID:        fmt.Sprintf("msg-%d", n),
					Sender:    domain.SenderSubject,
					SenderID:  "STU2024001",
					Body:      "follow-up",
					CreatedAt: time.Now(),
				})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, "TKT-1")
	require.NoError(t, err)
	assert.Len(t, stored.Messages, writers, "every concurrent append must land")
}
