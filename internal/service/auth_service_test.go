package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/student-support/internal/auth"
	"github.com/spec-kit/student-support/internal/config"
	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/repository"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	hash := func(password string) string {
		hashed, err := auth.HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
		return hashed
	}

	studentID := "STU2024001"
	accounts := []domain.Account{
		{
			ID:           "acc-subject",
			Email:        "sarah.johnson@techedu.edu",
			Name:         "Sarah Johnson",
			PasswordHash: hash("demo123"),
			Role:         domain.RoleSubject,
			StudentID:    &studentID,
			IsActive:     true,
		},
		{
			ID:           "acc-staff",
			Email:        "advisor.smith@techedu.edu",
			Name:         "Dr. James Smith",
			PasswordHash: hash("staff123"),
			Role:         domain.RoleStaff,
			Department:   "Academic Advising",
			IsActive:     true,
		},
		{
			ID:           "acc-disabled",
			Email:        "former.staff@techedu.edu",
			Name:         "Former Staff",
			PasswordHash: hash("staff123"),
			Role:         domain.RoleStaff,
			IsActive:     false,
		},
	}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}}
	return NewAuthService(cfg, repository.NewMemoryAccounts(accounts))
}

func TestLoginIssuesRoleBearingToken(t *testing.T) {
	svc := newTestAuthService(t)

	account, token, expiresAt, err := svc.Login(context.Background(), "sarah.johnson@techedu.edu", "demo123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSubject, account.Role)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-subject", claims.AccountID)
	assert.Equal(t, domain.RoleSubject, claims.Role)
	require.NotNil(t, claims.StudentID)
	assert.Equal(t, "STU2024001", *claims.StudentID)
}

func TestLoginStaffTokenCarriesNoStudentID(t *testing.T) {
	svc := newTestAuthService(t)

	_, token, _, err := svc.Login(context.Background(), "advisor.smith@techedu.edu", "staff123")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.Nil(t, claims.StudentID)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, _, unknownErr := svc.Login(ctx, "nobody@techedu.edu", "demo123")
	require.Error(t, unknownErr)

	_, _, _, wrongErr := svc.Login(ctx, "sarah.johnson@techedu.edu", "wrong")
	require.Error(t, wrongErr)

	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginDisabledAccount(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, _, err := svc.Login(context.Background(), "former.staff@techedu.edu", "staff123")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "acc-subject", "demo123", "brand-new-secret")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "sarah.johnson@techedu.edu", "demo123")
	assert.Error(t, err, "old password no longer works")

	_, _, _, err = svc.Login(ctx, "sarah.johnson@techedu.edu", "brand-new-secret")
	assert.NoError(t, err)
}

func TestChangePasswordRejectsBadInput(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "acc-subject", "wrong-current", "brand-new-secret")
	assert.Error(t, err)

	err = svc.ChangePassword(ctx, "acc-subject", "demo123", "short")
	assert.Error(t, err)

	_, _, _, err = svc.Login(ctx, "sarah.johnson@techedu.edu", "demo123")
	assert.NoError(t, err, "failed attempts leave the credential untouched")
}
