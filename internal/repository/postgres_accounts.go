package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/pkg/util"
)

type pgAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccounts returns a Postgres-backed account repository.
func NewPostgresAccounts(pool *pgxpool.Pool) AccountRepository {
	return &pgAccountRepository{pool: pool}
}

const accountColumns = `id, email, name, password_hash, role, student_id, department, is_active, created_at, last_login_at`

func (r *pgAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email=$1`, accountColumns)
	return r.fetchSingle(ctx, query, email)
}

func (r *pgAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id=$1`, accountColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *pgAccountRepository) TouchLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE accounts SET last_login_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, util.ErrNotFound)
	}
	return nil
}

func (r *pgAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE accounts SET password_hash=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, util.ErrNotFound)
	}
	return nil
}

func (r *pgAccountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.Role,
		&account.StudentID,
		&account.Department,
		&account.IsActive,
		&account.CreatedAt,
		&account.LastLoginAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account: %w", util.ErrNotFound)
		}
		return nil, err
	}
	return &account, nil
}
