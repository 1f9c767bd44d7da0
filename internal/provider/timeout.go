package provider

import (
	"context"
	"time"

	"github.com/spec-kit/student-support/internal/domain"
)

// timeoutProvider bounds every fetch with its own deadline. The inner call
// runs in a goroutine so even a provider that ignores its context cannot
// hold up the caller; a late result is discarded.
type timeoutProvider struct {
	inner   RecordProvider
	timeout time.Duration
}

// WithTimeout wraps a provider with a per-call deadline.
func WithTimeout(inner RecordProvider, timeout time.Duration) RecordProvider {
	if timeout <= 0 {
		return inner
	}
	return &timeoutProvider{inner: inner, timeout: timeout}
}

func (p *timeoutProvider) ID() domain.ProviderID { return p.inner.ID() }

func (p *timeoutProvider) FetchRecord(ctx context.Context, subjectID string) (domain.SubRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		record domain.SubRecord
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		record, err := p.inner.FetchRecord(ctx, subjectID)
		ch <- result{record: record, err: err}
	}()

	select {
	case res := <-ch:
		return res.record, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
