package provider

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-support/internal/domain"
)

// postgresIdentityProvider serves identity records from the students table.
// Chosen over the static connector when a database is configured so the
// identity system of record is shared with the rest of the deployment.
type postgresIdentityProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresIdentity builds the database-backed identity provider.
func NewPostgresIdentity(pool *pgxpool.Pool) RecordProvider {
	return &postgresIdentityProvider{pool: pool}
}

func (p *postgresIdentityProvider) ID() domain.ProviderID { return domain.ProviderAdmissions }

func (p *postgresIdentityProvider) FetchRecord(ctx context.Context, subjectID string) (domain.SubRecord, error) {
	const query = `
        SELECT student_id, first_name, last_name, email, program, program_code,
               admission_type, admission_date, expected_graduation, status
        FROM students WHERE student_id=$1`
	var rec domain.IdentityRecord
	err := p.pool.QueryRow(ctx, query, subjectID).Scan(
		&rec.StudentID,
		&rec.FirstName,
		&rec.LastName,
		&rec.Email,
		&rec.Program,
		&rec.ProgramCode,
		&rec.AdmissionType,
		&rec.AdmissionDate,
		&rec.ExpectedGraduation,
		&rec.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordAbsent
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
