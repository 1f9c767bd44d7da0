// Package aggregator assembles unified student profiles by fanning out to
// every configured backend system and merging the answers under a
// partial-failure policy: the identity system is authoritative, everything
// else degrades to documented defaults.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/provider"
	"github.com/spec-kit/student-support/pkg/util"
)

// Config bounds the fan-out.
type Config struct {
	// ProviderTimeout caps each backend call independently.
	ProviderTimeout time.Duration
	// OverallTimeout caps the whole aggregation, identity call included.
	OverallTimeout time.Duration
}

// Aggregator fans out to one identity provider and N secondary providers.
type Aggregator struct {
	identity    provider.RecordProvider
	secondaries []provider.RecordProvider
	cfg         Config
	logger      *zap.Logger
	now         func() time.Time
}

// New constructs an Aggregator. Every provider is wrapped with the
// per-provider timeout so a slow system cannot stall the merge.
func New(identity provider.RecordProvider, secondaries []provider.RecordProvider, cfg Config, logger *zap.Logger) *Aggregator {
	wrapped := make([]provider.RecordProvider, 0, len(secondaries))
	for _, p := range secondaries {
		wrapped = append(wrapped, provider.WithTimeout(p, cfg.ProviderTimeout))
	}
	return &Aggregator{
		identity:    provider.WithTimeout(identity, cfg.ProviderTimeout),
		secondaries: wrapped,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

type fanoutResult struct {
	id     domain.ProviderID
	record domain.SubRecord
	err    error
}

// Aggregate builds the unified profile for one subject. The identity
// provider's absence is the only hard failure; every secondary gap is
// recorded in metadata and substituted with that section's default.
func (a *Aggregator) Aggregate(ctx context.Context, subjectID string) (*domain.UnifiedProfile, error) {
	if a.cfg.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.OverallTimeout)
		defer cancel()
	}

	identityRecord, err := a.identity.FetchRecord(ctx, subjectID)
	if err != nil {
		if errors.Is(err, provider.ErrRecordAbsent) {
			return nil, fmt.Errorf("subject %s: %w", subjectID, util.ErrNotFound)
		}
		return nil, fmt.Errorf("identity provider: %w", err)
	}
	identity, ok := identityRecord.(domain.IdentityRecord)
	if !ok {
		return nil, fmt.Errorf("identity provider returned %T", identityRecord)
	}

	results := make(chan fanoutResult, len(a.secondaries))
	var wg sync.WaitGroup
	for _, p := range a.secondaries {
		wg.Add(1)
		go func(p provider.RecordProvider) {
			defer wg.Done()
			record, err := p.FetchRecord(ctx, subjectID)
			results <- fanoutResult{id: p.ID(), record: record, err: err}
		}(p)
	}
	wg.Wait()
	close(results)

	profile := &domain.UnifiedProfile{
		Identity: identity,
		Academic: domain.DefaultAcademicRecord(),
		Aid:      domain.DefaultAidRecord(),
		Housing:  domain.DefaultHousingRecord(),
		Library:  domain.DefaultLibraryRecord(),
	}

	responded := map[domain.ProviderID]bool{a.identity.ID(): true}
	for res := range results {
		if res.err != nil {
			// Absence, timeout and transport failure are all the same data
			// gap; the section keeps its default.
			a.logger.Debug("secondary provider gap",
				zap.String("provider", string(res.id)),
				zap.String("subject_id", subjectID),
				zap.Error(res.err))
			continue
		}
		if err := merge(profile, res.record); err != nil {
			a.logger.Warn("discarding mismatched record",
				zap.String("provider", string(res.id)),
				zap.Error(err))
			continue
		}
		responded[res.id] = true
	}

	profile.Meta = a.buildMeta(responded)
	return profile, nil
}

// merge is a pure structural combination; each record type owns its own
// section of the profile and never touches another's field space.
func merge(profile *domain.UnifiedProfile, record domain.SubRecord) error {
	switch rec := record.(type) {
	case domain.AcademicRecord:
		profile.Academic = rec
	case domain.AidRecord:
		profile.Aid = rec
	case domain.HousingRecord:
		profile.Housing = rec
	case domain.LibraryRecord:
		profile.Library = rec
	default:
		return fmt.Errorf("unmergeable record type %T", record)
	}
	return nil
}

func (a *Aggregator) buildMeta(responded map[domain.ProviderID]bool) domain.AggregationMeta {
	queried := make([]domain.ProviderID, 0, len(a.secondaries)+1)
	queried = append(queried, a.identity.ID())
	for _, p := range a.secondaries {
		queried = append(queried, p.ID())
	}

	answered := make([]domain.ProviderID, 0, len(queried))
	for _, id := range queried {
		if responded[id] {
			answered = append(answered, id)
		}
	}

	return domain.AggregationMeta{
		ProvidersQueried:   queried,
		ProvidersResponded: answered,
		AggregatedAt:       a.now(),
		Freshness:          "real-time",
	}
}
