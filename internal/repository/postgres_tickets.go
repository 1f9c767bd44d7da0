package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/pkg/util"
)

type pgTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTickets returns a Postgres-backed ticket repository. Mutations
// lock the ticket row with SELECT FOR UPDATE so concurrent updates to one
// ticket serialize at the database.
func NewPostgresTickets(pool *pgxpool.Pool) TicketRepository {
	return &pgTicketRepository{pool: pool}
}

const ticketColumns = `id, subject_id, subject, query, ai_response, ai_confidence,
        category, status, priority, assigned_to, resolution_notes, created_at, updated_at`

func (r *pgTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
        INSERT INTO tickets (id, subject_id, subject, query, ai_response, ai_confidence,
                             category, status, priority, assigned_to, resolution_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.ID,
		ticket.SubjectID,
		ticket.Subject,
		ticket.Query,
		ticket.AIResponse,
		ticket.AIConfidence,
		ticket.Category,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedTo,
		ticket.ResolutionNotes,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	if err := insertMessages(ctx, tx, ticket.ID, ticket.Messages); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticket %s: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	if ticket.Messages, err = r.loadMessages(ctx, r.pool, id); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *pgTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubjectID != nil {
		args = append(args, *filter.SubjectID)
		clauses = append(clauses, fmt.Sprintf("subject_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if result[i].Messages, err = r.loadMessages(ctx, r.pool, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *pgTicketRepository) Mutate(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 FOR UPDATE`, ticketColumns)
	ticket, err := scanTicket(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticket %s: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	if ticket.Messages, err = r.loadMessages(ctx, tx, id); err != nil {
		return nil, err
	}

	priorMessages := len(ticket.Messages)
	if err := fn(ticket); err != nil {
		return nil, err
	}

	const update = `
        UPDATE tickets SET status=$1, priority=$2, assigned_to=$3, resolution_notes=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, update,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedTo,
		ticket.ResolutionNotes,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return nil, err
	}

	if len(ticket.Messages) > priorMessages {
		if err := insertMessages(ctx, tx, ticket.ID, ticket.Messages[priorMessages:]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *pgTicketRepository) loadMessages(ctx context.Context, q querier, ticketID string) ([]domain.TicketMessage, error) {
	// seq, not created_at, carries the thread order: messages inserted in
	// one operation share a timestamp.
	const query = `
        SELECT id, sender, sender_id, body, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY seq ASC`

	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.SenderID, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func insertMessages(ctx context.Context, tx pgx.Tx, ticketID string, messages []domain.TicketMessage) error {
	const query = `
        INSERT INTO ticket_messages (id, ticket_id, sender, sender_id, body, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for _, msg := range messages {
		if _, err := tx.Exec(ctx, query, msg.ID, ticketID, msg.Sender, msg.SenderID, msg.Body, msg.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.SubjectID,
		&ticket.Subject,
		&ticket.Query,
		&ticket.AIResponse,
		&ticket.AIConfidence,
		&ticket.Category,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssignedTo,
		&ticket.ResolutionNotes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
