package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/provider"
	"github.com/spec-kit/student-support/pkg/util"
)

type fakeProvider struct {
	id     domain.ProviderID
	record domain.SubRecord
	err    error
	delay  time.Duration
}

func (f *fakeProvider) ID() domain.ProviderID { return f.id }

func (f *fakeProvider) FetchRecord(ctx context.Context, subjectID string) (domain.SubRecord, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func identityFixture() domain.IdentityRecord {
	return domain.IdentityRecord{
		StudentID: "S1", FirstName: "Sarah", LastName: "Johnson",
		Program: "Computer Science", Status: "Active",
	}
}

func newTestAggregator(identity provider.RecordProvider, secondaries ...provider.RecordProvider) *Aggregator {
	return New(identity, secondaries, Config{
		ProviderTimeout: 200 * time.Millisecond,
		OverallTimeout:  time.Second,
	}, zap.NewNop())
}

func TestAggregateIdentityAbsentIsNotFound(t *testing.T) {
	agg := newTestAggregator(
		&fakeProvider{id: domain.ProviderAdmissions, err: provider.ErrRecordAbsent},
		&fakeProvider{id: domain.ProviderAcademic, record: domain.AcademicRecord{GPACumulative: 3.7}},
	)

	_, err := agg.Aggregate(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestAggregateMergesAllSections(t *testing.T) {
	agg := newTestAggregator(
		&fakeProvider{id: domain.ProviderAdmissions, record: identityFixture()},
		&fakeProvider{id: domain.ProviderAcademic, record: domain.AcademicRecord{YearLevel: 3, GPACumulative: 3.7, AcademicStanding: "Good Standing"}},
		&fakeProvider{id: domain.ProviderFinancial, record: domain.AidRecord{Status: "Active", TotalAid: 30000}},
		&fakeProvider{id: domain.ProviderHousing, record: domain.HousingRecord{AssignmentStatus: "Assigned", Building: "West Hall"}},
		&fakeProvider{id: domain.ProviderLibrary, record: domain.LibraryRecord{ItemsCheckedOut: 3}},
	)

	profile, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", profile.Identity.DisplayName())
	assert.Equal(t, 3.7, profile.Academic.GPACumulative)
	assert.Equal(t, 30000, profile.Aid.TotalAid)
	assert.Equal(t, "West Hall", profile.Housing.Building)
	assert.Equal(t, 3, profile.Library.ItemsCheckedOut)
	assert.Len(t, profile.Meta.ProvidersQueried, 5)
	assert.Len(t, profile.Meta.ProvidersResponded, 5)
}

func TestAggregateAbsentAidUsesDefaults(t *testing.T) {
	agg := newTestAggregator(
		&fakeProvider{id: domain.ProviderAdmissions, record: identityFixture()},
		&fakeProvider{id: domain.ProviderFinancial, err: provider.ErrRecordAbsent},
	)

	profile, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, domain.NotAvailable, profile.Aid.Status)
	assert.Zero(t, profile.Aid.TotalAid)
	assert.Zero(t, profile.Aid.RemainingBalance)
	assert.Empty(t, profile.Aid.Grants)
	assert.NotContains(t, profile.Meta.ProvidersResponded, domain.ProviderFinancial)
}

func TestAggregateProviderFailureIsNonFatal(t *testing.T) {
	agg := newTestAggregator(
		&fakeProvider{id: domain.ProviderAdmissions, record: identityFixture()},
		&fakeProvider{id: domain.ProviderHousing, err: errors.New("connector down")},
		&fakeProvider{id: domain.ProviderLibrary, record: domain.LibraryRecord{ItemsCheckedOut: 1}},
	)

	profile, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "Not Assigned", profile.Housing.AssignmentStatus)
	assert.Equal(t, 1, profile.Library.ItemsCheckedOut)
	assert.ElementsMatch(t,
		[]domain.ProviderID{domain.ProviderAdmissions, domain.ProviderLibrary},
		profile.Meta.ProvidersResponded)
}

func TestAggregateSlowProviderTreatedAsAbsent(t *testing.T) {
	agg := New(
		&fakeProvider{id: domain.ProviderAdmissions, record: identityFixture()},
		[]provider.RecordProvider{
			&fakeProvider{id: domain.ProviderAcademic, record: domain.AcademicRecord{GPACumulative: 4.0}, delay: 500 * time.Millisecond},
			&fakeProvider{id: domain.ProviderLibrary, record: domain.LibraryRecord{ItemsCheckedOut: 2}},
		},
		Config{ProviderTimeout: 30 * time.Millisecond, OverallTimeout: time.Second},
		zap.NewNop(),
	)

	start := time.Now()
	profile, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond, "slow provider must not stall the merge")
	assert.Equal(t, domain.NotAvailable, profile.Academic.AcademicStanding, "timed-out section keeps its default")
	assert.Equal(t, 2, profile.Library.ItemsCheckedOut, "fast provider still merges")
}

func TestAggregateHonorsCallerDeadline(t *testing.T) {
	agg := New(
		&fakeProvider{id: domain.ProviderAdmissions, record: identityFixture()},
		[]provider.RecordProvider{
			&fakeProvider{id: domain.ProviderHousing, record: domain.HousingRecord{Building: "West Hall"}, delay: time.Second},
		},
		Config{ProviderTimeout: 5 * time.Second, OverallTimeout: 5 * time.Second},
		zap.NewNop(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	profile, err := agg.Aggregate(ctx, "S1")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 800*time.Millisecond)
	assert.Equal(t, "Not Assigned", profile.Housing.AssignmentStatus)
}

func TestAggregateMetaReportsIdentityProviderID(t *testing.T) {
	registry := domain.ProviderID("registry")
	agg := newTestAggregator(
		&fakeProvider{id: registry, record: identityFixture()},
		&fakeProvider{id: domain.ProviderLibrary, record: domain.LibraryRecord{ItemsCheckedOut: 1}},
	)

	profile, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)
	assert.Contains(t, profile.Meta.ProvidersQueried, registry)
	assert.Contains(t, profile.Meta.ProvidersResponded, registry)
	assert.NotContains(t, profile.Meta.ProvidersQueried, domain.ProviderAdmissions)
}

func TestAggregateIdempotentExcludingFreshness(t *testing.T) {
	agg := newTestAggregator(
		&fakeProvider{id: domain.ProviderAdmissions, record: identityFixture()},
		&fakeProvider{id: domain.ProviderAcademic, record: domain.AcademicRecord{YearLevel: 3, GPACumulative: 3.7}},
		&fakeProvider{id: domain.ProviderFinancial, record: domain.AidRecord{Status: "Active", TotalAid: 30000}},
	)

	first, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)
	second, err := agg.Aggregate(context.Background(), "S1")
	require.NoError(t, err)

	first.Meta.AggregatedAt = time.Time{}
	second.Meta.AggregatedAt = time.Time{}
	assert.Equal(t, first, second)
}
