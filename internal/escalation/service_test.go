package escalation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/events"
	"github.com/spec-kit/student-support/internal/knowledge"
	"github.com/spec-kit/student-support/internal/repository"
	"github.com/spec-kit/student-support/pkg/util"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type
	}
	return out
}

func newTestService(t *testing.T) (*Service, *recordingDispatcher) {
	t.Helper()
	dispatcher := &recordingDispatcher{}
	svc := NewService(repository.NewMemoryTickets(), knowledge.Default(), dispatcher, zap.NewNop())
	return svc, dispatcher
}

func lowConfidenceResponse(category domain.Category) domain.GeneratedResponse {
	return domain.GeneratedResponse{
		Text:       "I am not sure.",
		Category:   category,
		Confidence: 0.45,
		Automated:  false,
	}
}

func TestShouldEscalate(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name       string
		confidence float64
		category   domain.Category
		want       bool
	}{
		{"low confidence", 0.45, "grades", true},
		{"just under threshold", 0.699, "grades", true},
		{"at threshold", 0.70, "grades", false},
		{"high confidence plain category", 0.90, "housing", false},
		{"sensitive category overrides confidence", 0.95, "complaint", true},
		{"financial aid appeal is sensitive", 0.88, "financial_aid_appeal", true},
		{"emergency is sensitive", 0.99, "emergency", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ShouldEscalate(tt.confidence, tt.category))
		})
	}
}

func TestCreateTicket(t *testing.T) {
	svc, dispatcher := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "I want to appeal my aid decision", lowConfidenceResponse("financial_aid"))
	require.NoError(t, err)

	assert.True(t, len(ticket.ID) > 4 && ticket.ID[:4] == "TKT-")
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority, "financial_aid tickets are high priority")
	assert.Equal(t, "Financial Aid Query", ticket.Subject)
	assert.Empty(t, ticket.AssignedTo)

	require.Len(t, ticket.Messages, 2)
	assert.Equal(t, domain.SenderSubject, ticket.Messages[0].Sender)
	assert.Equal(t, "I want to appeal my aid decision", ticket.Messages[0].Body)
	assert.Equal(t, domain.SenderSystem, ticket.Messages[1].Sender)
	assert.Contains(t, ticket.Messages[1].Body, ticket.ID)
	assert.True(t, ticket.Messages[0].CreatedAt.Equal(ticket.Messages[1].CreatedAt),
		"seed messages share a timestamp; order comes from position, not time")

	assert.Equal(t, []events.EventType{events.EventTicketEscalated}, dispatcher.types())
}

func TestCreateTicketPriority(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		confidence float64
		category   domain.Category
		want       domain.TicketPriority
	}{
		{"very low confidence", 0.2, "housing", domain.TicketPriorityHigh},
		{"emergency category", 0.6, "emergency", domain.TicketPriorityHigh},
		{"fallback confidence plain category", 0.30, "general", domain.TicketPriorityMedium},
		{"ordinary escalation", 0.45, "grades", domain.TicketPriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := domain.GeneratedResponse{Category: tt.category, Confidence: tt.confidence}
			ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", resp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ticket.Priority)
		})
	}
}

func TestRequestSupport(t *testing.T) {
	svc, dispatcher := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.RequestSupport(ctx, "STU2024001", "The answer did not cover my situation", "", 0.5)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.CategoryGeneral, ticket.Category, "empty category defaults to general")
	assert.Equal(t, "Student requested human support", ticket.AIResponse)
	assert.Equal(t, 0.5, ticket.AIConfidence)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)

	require.Len(t, ticket.Messages, 2)
	assert.Equal(t, "The answer did not cover my situation", ticket.Messages[0].Body)

	assert.Equal(t, []events.EventType{events.EventTicketEscalated}, dispatcher.types())
}

func TestRequestSupportValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RequestSupport(context.Background(), "STU2024001", "   ", "", 0.5)
	assert.Error(t, err)
}

func TestAssignTicket(t *testing.T) {
	svc, dispatcher := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)

	assigned, err := svc.AssignTicket(ctx, ticket.ID, "staff-1", "Maria Jones")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, assigned.Status)
	assert.Equal(t, "staff-1", assigned.AssignedTo)

	last := assigned.Messages[len(assigned.Messages)-1]
	assert.Equal(t, domain.SenderSystem, last.Sender)
	assert.Contains(t, last.Body, "Maria Jones")

	assert.Equal(t, []events.EventType{events.EventTicketEscalated, events.EventTicketAssigned}, dispatcher.types())
}

func TestAssignTicketTerminalRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)
	_, err = svc.ResolveTicket(ctx, ticket.ID, "staff-1", "answered by phone")
	require.NoError(t, err)

	_, err = svc.AssignTicket(ctx, ticket.ID, "staff-2", "Someone Else")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestAssignTicketMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AssignTicket(context.Background(), "TKT-NOPE", "staff-1", "Maria Jones")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestAddMessageStatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)

	afterStaff, err := svc.AddMessage(ctx, ticket.ID, domain.SenderStaff, "staff-1", "Can you share more details?")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPendingSubject, afterStaff.Status)

	afterSubject, err := svc.AddMessage(ctx, ticket.ID, domain.SenderSubject, "STU2024001", "Sure, here they are.")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, afterSubject.Status)

	afterSystem, err := svc.AddMessage(ctx, ticket.ID, domain.SenderSystem, "", "Reminder: SLA at risk.")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, afterSystem.Status, "system messages leave status alone")

	assert.Len(t, afterSystem.Messages, 5)
}

func TestAddMessageValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, ticket.ID, domain.SenderSubject, "STU2024001", "   ")
	require.Error(t, err)

	_, err = svc.ResolveTicket(ctx, ticket.ID, "staff-1", "done")
	require.NoError(t, err)
	_, err = svc.AddMessage(ctx, ticket.ID, domain.SenderSubject, "STU2024001", "one more thing")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestResolveAndCloseTicket(t *testing.T) {
	svc, dispatcher := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)

	resolved, err := svc.ResolveTicket(ctx, ticket.ID, "staff-1", "explained transcript process")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	assert.Equal(t, "explained transcript process", resolved.ResolutionNotes)
	last := resolved.Messages[len(resolved.Messages)-1]
	assert.Contains(t, last.Body, "explained transcript process")

	// Resolving twice is rejected.
	_, err = svc.ResolveTicket(ctx, ticket.ID, "staff-1", "again")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	closed, err := svc.CloseTicket(ctx, ticket.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)

	// Closed is fully terminal.
	_, err = svc.CloseTicket(ctx, ticket.ID, "staff-1")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	assert.Equal(t, []events.EventType{
		events.EventTicketEscalated,
		events.EventTicketResolved,
		events.EventTicketClosed,
	}, dispatcher.types())
}

func TestCloseRequiresResolved(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)

	_, err = svc.CloseTicket(ctx, ticket.ID, "staff-1")
	assert.ErrorIs(t, err, util.ErrInvalidTransition, "open tickets cannot be closed directly")
}

func TestListAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, "STU2024001", "aid question", lowConfidenceResponse("financial_aid"))
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, "STU2024002", "dorm question", lowConfidenceResponse("housing"))
	require.NoError(t, err)

	_, err = svc.AssignTicket(ctx, first.ID, "staff-1", "Maria Jones")
	require.NoError(t, err)

	mine, err := svc.ListSubjectTickets(ctx, "STU2024001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	staffQueue, err := svc.ListStaffTickets(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, staffQueue, 1)

	open := domain.TicketStatusOpen
	openOnly, err := svc.ListTickets(ctx, &open, 0, 0)
	require.NoError(t, err)
	assert.Len(t, openOnly, 1)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTickets)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.ByCategory["financial_aid"])
	assert.InDelta(t, 0.45, stats.AvgConfidence, 0.0001)
}

func TestTicketIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ticket, err := svc.CreateTicket(ctx, "STU2024001", "help", lowConfidenceResponse("grades"))
		require.NoError(t, err)
		assert.False(t, seen[ticket.ID])
		seen[ticket.ID] = true
	}
}

func TestTicketTimestamps(t *testing.T) {
	svc, _ := newTestService(t)
	fixed := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	ticket, err := svc.CreateTicket(context.Background(), "STU2024001", "help", lowConfidenceResponse("grades"))
	require.NoError(t, err)
	assert.Equal(t, fixed, ticket.CreatedAt)
	assert.Equal(t, fixed, ticket.UpdatedAt)
}
