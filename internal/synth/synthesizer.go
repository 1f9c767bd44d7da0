// Package synth turns a classified query plus a unified profile into a
// generated response: template selection, placeholder substitution and a
// self-reported confidence score.
package synth

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/knowledge"
)

const (
	highConfidence       = 0.85
	confidenceJitter     = 0.05
	escalationConfidence = 0.45
	fallbackConfidence   = 0.30
)

const escalationText = "I understand this is an important matter that needs personal attention. " +
	"Your query may require human assistance.\n\n" +
	"I can create a support ticket so our staff can help you personally, " +
	"or you can reach us at (555) 123-4567 / support@techedu.edu.\n\n" +
	"Use 'Talk to Support' to create a ticket. Average response time: 4-24 hours."

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Synthesizer generates responses from the configured template catalog. The
// random source is injected so tests can pin selection and jitter.
type Synthesizer struct {
	base *knowledge.Base
	mu   sync.Mutex
	rng  *rand.Rand
	now  func() time.Time
}

// NewSynthesizer builds a Synthesizer over the catalog.
func NewSynthesizer(base *knowledge.Base, rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{base: base, rng: rng, now: time.Now}
}

// Synthesize produces the candidate response for one query. Pure apart from
// the injected random source.
func (s *Synthesizer) Synthesize(message string, profile *domain.UnifiedProfile, category domain.Category) domain.GeneratedResponse {
	if category == domain.CategoryEscalation {
		return domain.GeneratedResponse{
			Text:       escalationText,
			Category:   domain.CategoryEscalation,
			Confidence: escalationConfidence,
			Automated:  false,
			Timestamp:  s.now(),
			Sources:    []string{"support.techedu.edu"},
		}
	}

	entry, ok := s.base.Category(category)
	if !ok || len(entry.Templates) == 0 {
		return s.fallbackResponse(profile)
	}

	template := entry.Templates[s.intn(len(entry.Templates))]
	return domain.GeneratedResponse{
		Text:       substitute(template, profileFields(profile)),
		Category:   category,
		Confidence: highConfidence + s.jitter(),
		Automated:  true,
		Timestamp:  s.now(),
		Sources:    []string{fmt.Sprintf("%s.techedu.edu", category), "knowledge-base"},
	}
}

func (s *Synthesizer) fallbackResponse(profile *domain.UnifiedProfile) domain.GeneratedResponse {
	text := fmt.Sprintf(
		"Hi %s! I'm not quite sure I understood your question correctly. "+
			"Here are some things I can help you with:\n\n"+
			"- Financial Aid: scholarships, payments, FAFSA\n"+
			"- Registration: courses, enrollment, schedules\n"+
			"- Grades & GPA: transcripts, academic records\n"+
			"- Housing: dorms, room assignments, maintenance\n"+
			"- Admissions: applications, requirements\n"+
			"- Career Services: jobs, internships, resume help\n\n"+
			"Could you rephrase your question? Or use 'Talk to Support' for human assistance.",
		profile.Identity.FirstName)

	return domain.GeneratedResponse{
		Text:       text,
		Category:   domain.CategoryGeneral,
		Confidence: fallbackConfidence,
		Automated:  true,
		Timestamp:  s.now(),
		Sources:    []string{"help.techedu.edu"},
	}
}

func (s *Synthesizer) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Synthesizer) jitter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.rng.Float64()*2 - 1) * confidenceJitter
}

// substitute fills template placeholders from the profile field space. If
// the template references a field the space does not define, the template is
// returned verbatim rather than failing the request.
func substitute(template string, fields map[string]string) string {
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := fields[match[1]]; !ok {
			return template
		}
	}
	pairs := make([]string, 0, len(fields)*2)
	for key, value := range fields {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// profileFields flattens the unified profile into the documented template
// field space.
func profileFields(p *domain.UnifiedProfile) map[string]string {
	return map[string]string{
		"name":       p.Identity.DisplayName(),
		"first_name": firstNameOr(p.Identity, "Student"),
		"program":    orNA(p.Identity.Program),
		"year":       intOrNA(p.Academic.YearLevel),

		"gpa":                 gpaOrNA(p.Academic.GPACumulative),
		"gpa_semester":        gpaOrNA(p.Academic.GPASemester),
		"credits_completed":   strconv.Itoa(p.Academic.CreditsCompleted),
		"credits_in_progress": strconv.Itoa(p.Academic.CreditsInProgress),
		"academic_standing":   orNA(p.Academic.AcademicStanding),
		"dean_list":           yesNo(p.Academic.DeanList),
		"course_count":        strconv.Itoa(len(p.Academic.Courses)),
		"semester":            orNA(p.Academic.Semester),

		"aid_status":         orNA(p.Aid.Status),
		"total_aid":          money(p.Aid.TotalAid),
		"remaining_balance":  money(p.Aid.RemainingBalance),
		"next_disbursement":  orNA(p.Aid.NextDisbursement),
		"grants_total":       money(p.Aid.GrantsTotal()),
		"scholarships_total": money(p.Aid.ScholarshipsTotal()),
		"loans_total":        money(p.Aid.LoansTotal()),
		"cost_of_attendance": money(p.Aid.CostOfAttendance),
		"financial_need":     money(p.Aid.FinancialNeed),

		"building":       orNA(p.Housing.Building),
		"room":           orNA(p.Housing.Room),
		"room_type":      orNA(p.Housing.RoomType),
		"floor":          intOrNA(p.Housing.Floor),
		"meal_plan":      valueOr(p.Housing.MealPlan.Name, "None"),
		"meals_per_week": strconv.Itoa(p.Housing.MealPlan.MealsPerWeek),
		"flex_remaining": money(p.Housing.MealPlan.FlexRemaining),
		"move_in_date":   orNA(p.Housing.MoveInDate),
		"move_out_date":  orNA(p.Housing.MoveOutDate),

		"library_items":   strconv.Itoa(p.Library.ItemsCheckedOut),
		"library_overdue": strconv.Itoa(p.Library.ItemsOverdue),
		"library_fines":   fmt.Sprintf("$%.2f", p.Library.FinesOwed),
	}
}

func firstNameOr(identity domain.IdentityRecord, fallback string) string {
	if identity.FirstName != "" {
		return identity.FirstName
	}
	return fallback
}

func orNA(value string) string {
	return valueOr(value, "N/A")
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func intOrNA(value int) string {
	if value == 0 {
		return "N/A"
	}
	return strconv.Itoa(value)
}

func gpaOrNA(value float64) string {
	if value == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

// money renders a dollar amount with thousands separators.
func money(amount int) string {
	digits := strconv.Itoa(amount)
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	}
	var b strings.Builder
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
