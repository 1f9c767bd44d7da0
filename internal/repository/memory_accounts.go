package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/pkg/util"
)

// memoryAccountRepository backs auth when no database is configured.
type memoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]*domain.Account
}

// NewMemoryAccounts returns an in-memory account repository holding the given
// accounts.
func NewMemoryAccounts(accounts []domain.Account) AccountRepository {
	repo := &memoryAccountRepository{
		byID:    make(map[string]*domain.Account, len(accounts)),
		byEmail: make(map[string]*domain.Account, len(accounts)),
	}
	for i := range accounts {
		account := accounts[i]
		repo.byID[account.ID] = &account
		repo.byEmail[strings.ToLower(account.Email)] = &account
	}
	return repo
}

func (r *memoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("account: %w", util.ErrNotFound)
	}
	snapshot := *account
	return &snapshot, nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, util.ErrNotFound)
	}
	snapshot := *account
	return &snapshot, nil
}

func (r *memoryAccountRepository) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, util.ErrNotFound)
	}
	now := time.Now().UTC()
	account.LastLoginAt = &now
	return nil
}

func (r *memoryAccountRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, util.ErrNotFound)
	}
	account.PasswordHash = passwordHash
	return nil
}

// DemoAccounts builds the bundled demo directory: three subject accounts
// linked to the seeded student records, two staff and two admins. Passwords
// are bcrypt-hashed at startup.
func DemoAccounts() ([]domain.Account, error) {
	type seed struct {
		email      string
		name       string
		password   string
		role       domain.Role
		studentID  string
		department string
	}
	seeds := []seed{
		{"sarah.johnson@techedu.edu", "Sarah Johnson", "demo123", domain.RoleSubject, "STU2024001", ""},
		{"michael.chen@techedu.edu", "Michael Chen", "demo123", domain.RoleSubject, "STU2024002", ""},
		{"emily.rodriguez@techedu.edu", "Emily Rodriguez", "demo123", domain.RoleSubject, "STU2024003", ""},
		{"advisor.smith@techedu.edu", "Dr. James Smith", "staff123", domain.RoleStaff, "", "Academic Advising"},
		{"finaid.jones@techedu.edu", "Maria Jones", "staff123", domain.RoleStaff, "", "Financial Aid Office"},
		{"admin@techedu.edu", "System Administrator", "admin123", domain.RoleAdmin, "", "IT Services"},
		{"director@techedu.edu", "Dr. Patricia Wilson", "admin123", domain.RoleAdmin, "", "Student Services"},
	}

	accounts := make([]domain.Account, 0, len(seeds))
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo password: %w", err)
		}
		account := domain.Account{
			ID:           uuid.NewString(),
			Email:        s.email,
			Name:         s.name,
			PasswordHash: string(hash),
			Role:         s.role,
			Department:   s.department,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if s.studentID != "" {
			studentID := s.studentID
			account.StudentID = &studentID
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
