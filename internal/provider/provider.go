// Package provider defines the capability contract backend record systems
// implement, plus adapters for systems that live in Redis, Postgres or
// in-process seed data.
package provider

import (
	"context"
	"errors"

	"github.com/spec-kit/student-support/internal/domain"
)

// ErrRecordAbsent signals the system holds no record for the subject. For
// secondary providers this is a data gap, not a failure.
var ErrRecordAbsent = errors.New("record absent")

// RecordProvider is the contract every backend data source implements.
// FetchRecord must be side-effect-free and must not block past the caller's
// context deadline; wrap providers that cannot guarantee this with
// WithTimeout.
type RecordProvider interface {
	ID() domain.ProviderID
	FetchRecord(ctx context.Context, subjectID string) (domain.SubRecord, error)
}
