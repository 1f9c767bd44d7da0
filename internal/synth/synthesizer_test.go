package synth

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/knowledge"
)

func profileFixture() *domain.UnifiedProfile {
	return &domain.UnifiedProfile{
		Identity: domain.IdentityRecord{
			StudentID: "S1", FirstName: "Sarah", LastName: "Johnson", Program: "Computer Science",
		},
		Academic: domain.AcademicRecord{
			YearLevel: 3, Semester: "Fall 2024", GPACumulative: 3.7, GPASemester: 3.8,
			CreditsCompleted: 75, CreditsInProgress: 15, AcademicStanding: "Good Standing", DeanList: true,
			Courses: []domain.CourseEnrollment{{Code: "CS350"}, {Code: "CS360"}},
		},
		Aid: domain.AidRecord{
			Status: "Active", TotalAid: 30000, RemainingBalance: 10000, NextDisbursement: "2025-01-15",
			Grants: []domain.AidAward{{Name: "Pell", Amount: 7395}},
		},
		Housing: domain.HousingRecord{
			AssignmentStatus: "Assigned", Building: "West Hall", Room: "204B", RoomType: "Double", Floor: 2,
			MealPlan: domain.MealPlan{Name: "Gold Plan", MealsPerWeek: 14, FlexRemaining: 145},
		},
		Library: domain.LibraryRecord{ItemsCheckedOut: 3},
	}
}

func newTestSynthesizer(seed int64) *Synthesizer {
	return NewSynthesizer(knowledge.Default(), rand.New(rand.NewSource(seed)))
}

func TestSynthesizeEscalation(t *testing.T) {
	s := newTestSynthesizer(1)

	resp := s.Synthesize("I have a complaint", profileFixture(), domain.CategoryEscalation)
	assert.Equal(t, domain.CategoryEscalation, resp.Category)
	assert.Equal(t, 0.45, resp.Confidence)
	assert.False(t, resp.Automated)
	assert.Contains(t, resp.Text, "human assistance")
	assert.Equal(t, []string{"support.techedu.edu"}, resp.Sources)
}

func TestSynthesizeFallback(t *testing.T) {
	s := newTestSynthesizer(1)

	resp := s.Synthesize("gibberish", profileFixture(), domain.CategoryGeneral)
	assert.Equal(t, domain.CategoryGeneral, resp.Category)
	assert.Equal(t, 0.30, resp.Confidence)
	assert.True(t, resp.Automated)
	assert.True(t, strings.HasPrefix(resp.Text, "Hi Sarah!"), "fallback is personalized with the given name")
}

func TestSynthesizeMatchedCategory(t *testing.T) {
	s := newTestSynthesizer(42)

	resp := s.Synthesize("what is my gpa", profileFixture(), domain.Category("grades"))
	assert.Equal(t, domain.Category("grades"), resp.Category)
	assert.True(t, resp.Automated)
	assert.GreaterOrEqual(t, resp.Confidence, 0.80)
	assert.LessOrEqual(t, resp.Confidence, 0.90)
	assert.NotContains(t, resp.Text, "{", "placeholders must be substituted")
	assert.Contains(t, resp.Text, "3.7")
	assert.Equal(t, []string{"grades.techedu.edu", "knowledge-base"}, resp.Sources)
}

func TestSynthesizeDeterministicUnderSeed(t *testing.T) {
	first := newTestSynthesizer(7).Synthesize("housing question", profileFixture(), domain.Category("housing"))
	second := newTestSynthesizer(7).Synthesize("housing question", profileFixture(), domain.Category("housing"))

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestSubstituteUnknownPlaceholderReturnsTemplateVerbatim(t *testing.T) {
	fields := profileFields(profileFixture())

	template := "Balance: {remaining_balance}, mystery: {no_such_field}"
	assert.Equal(t, template, substitute(template, fields))

	substituted := substitute("Balance: {remaining_balance}", fields)
	assert.Equal(t, "Balance: $10,000", substituted)
}

func TestSynthesizeDefaultProfileSections(t *testing.T) {
	s := newTestSynthesizer(3)
	profile := &domain.UnifiedProfile{
		Identity: domain.IdentityRecord{StudentID: "S2", FirstName: "Alex"},
		Academic: domain.DefaultAcademicRecord(),
		Aid:      domain.DefaultAidRecord(),
		Housing:  domain.DefaultHousingRecord(),
		Library:  domain.DefaultLibraryRecord(),
	}

	resp := s.Synthesize("financial aid please", profile, domain.Category("financial_aid"))
	require.True(t, resp.Automated)
	assert.NotContains(t, resp.Text, "{", "defaults must cover the whole field space")
	assert.Contains(t, resp.Text, "$0")
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "$999", money(999))
	assert.Equal(t, "$30,000", money(30000))
	assert.Equal(t, "$1,234,567", money(1234567))
	assert.Equal(t, "-$1,500", money(-1500))
}
