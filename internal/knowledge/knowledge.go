// Package knowledge holds the configured category catalog: ordered keyword
// sets, response templates, escalation triggers and sensitive categories.
// The catalog is injected configuration, not logic; a JSON file can replace
// the compiled-in defaults.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spec-kit/student-support/internal/domain"
)

// CategoryConfig is one entry of the ordered category catalog. Ordering is
// part of the contract: overlapping keyword sets make it observable.
type CategoryConfig struct {
	Name      domain.Category `json:"category"`
	Keywords  []string        `json:"keywords"`
	Templates []string        `json:"responses"`
}

// Base is the full classifier/synthesizer configuration.
type Base struct {
	EscalationKeywords  []string          `json:"escalation_keywords"`
	SensitiveCategories []domain.Category `json:"sensitive_categories"`
	Categories          []CategoryConfig  `json:"categories"`
}

// Category looks up a catalog entry by name.
func (b *Base) Category(name domain.Category) (CategoryConfig, bool) {
	for _, c := range b.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryConfig{}, false
}

// LoadFile reads a catalog from a JSON file.
func LoadFile(path string) (*Base, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var base Base
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(base.Categories) == 0 {
		return nil, fmt.Errorf("knowledge base %s defines no categories", path)
	}
	return &base, nil
}

// Default returns the compiled-in campus catalog.
func Default() *Base {
	return &Base{
		EscalationKeywords: []string{
			"complaint", "angry", "upset", "urgent", "emergency",
			"speak to human", "real person", "manager", "sue", "lawyer",
			"discrimination", "harassment", "unfair",
		},
		SensitiveCategories: []domain.Category{
			"financial_aid_appeal", "complaint", "emergency",
		},
		Categories: []CategoryConfig{
			{
				Name:     "admissions",
				Keywords: []string{"admission", "apply", "application", "deadline", "requirements", "transfer", "enrolled"},
				Templates: []string{
					"Hi {first_name}! You were admitted as a year-{year} student in {program}.\n\nApplication deadlines for referrals: Fall is March 1, Spring is October 1, Summer is March 1. Requirements: high school transcript, SAT/ACT scores, two recommendation letters and a personal essay.",
					"Welcome back, {first_name}! You're currently enrolled in {program} (Year {year}).\n\nThe average GPA for admitted students is 3.5. Review is holistic across academics, extracurriculars and essays.",
					"Hi {first_name}! Transfer students need a minimum 2.5 GPA and transcripts from all institutions. Contact admissions@techedu.edu for more info.",
				},
			},
			{
				Name:     "financial_aid",
				Keywords: []string{"financial aid", "scholarship", "loan", "fafsa", "tuition", "payment", "cost", "fee", "money", "pay", "grant", "disbursement"},
				Templates: []string{
					"Hi {first_name}! Here's your financial aid summary ({aid_status}):\n\nGrants: {grants_total}\nScholarships: {scholarships_total}\nLoans: {loans_total}\nTotal aid: {total_aid}\n\nBalance due: {remaining_balance}\nNext disbursement: {next_disbursement}\n\nNeed more aid? Complete FAFSA by March 1 at financialaid.techedu.edu",
					"Your financial aid status: {aid_status}\n\nCost of attendance: {cost_of_attendance}\nFinancial need: {financial_need}\nAid awarded: {total_aid}\nRemaining balance: {remaining_balance}\n\nThe next disbursement ({next_disbursement}) will be applied directly to your student account.",
					"Payment plans are available, {first_name}! Contact the Bursar's Office at bursar@techedu.edu.\n\nYour current balance is {remaining_balance} after {total_aid} in financial aid.",
				},
			},
			{
				Name:     "registration",
				Keywords: []string{"register", "enroll", "course", "class", "schedule", "drop", "add", "waitlist", "credit", "semester"},
				Templates: []string{
					"Hi {first_name}! Your current enrollment:\n\nSemester: {semester}\nCourses: {course_count} enrolled\nCredits in progress: {credits_in_progress}\nCredits completed: {credits_completed}\n\nRegistration opens Nov 1 for seniors, Nov 8 juniors, Nov 15 sophomores, Nov 22 freshmen.",
					"To add or drop courses, go to Student Portal > Academic Records > Registration.\n\nThe drop deadline is the end of Week 2. Maximum load is 18 credits (overload needs advisor approval).\n\nYou currently have {credits_in_progress} credits in progress.",
					"Hey {first_name}! You're enrolled in {course_count} courses this semester ({credits_in_progress} credits).\n\nFor waitlist questions, contact your department advisor or visit registration.techedu.edu.",
				},
			},
			{
				Name:     "grades",
				Keywords: []string{"grade", "gpa", "transcript", "academic record", "score", "exam", "final", "dean", "standing"},
				Templates: []string{
					"Hi {first_name}! Your academic record:\n\nCumulative GPA: {gpa}\nSemester GPA: {gpa_semester}\nCredits completed: {credits_completed}\nCurrent courses: {course_count}\n\nAcademic standing: {academic_standing}\nDean's list: {dean_list}\n\nOfficial transcripts: registrar.techedu.edu (3-5 business days)",
					"Great news, {first_name}! Your GPA is {gpa}.\n\nThis semester: GPA {gpa_semester}, {course_count} courses, {credits_in_progress} credits.\nAcademic standing: {academic_standing}\n\nGrades post within 72 hours after finals.",
					"For grade appeals, submit within 30 days to Academic Affairs.\n\nYour current record: GPA {gpa}, standing {academic_standing}, dean's list {dean_list}.",
				},
			},
			{
				Name:     "housing",
				Keywords: []string{"housing", "dorm", "residence", "room", "roommate", "apartment", "move", "meal", "dining", "food"},
				Templates: []string{
					"Hi {first_name}! Your housing assignment:\n\nLocation: {building}, Room {room}\nRoom type: {room_type} (Floor {floor})\nMove-in: {move_in_date}\nMove-out: {move_out_date}\n\nMeal plan: {meal_plan} ({meals_per_week} meals/week, {flex_remaining} flex remaining)\n\nFor maintenance: housing.techedu.edu or call (555) 123-4567",
					"You're in {building}, Room {room} ({room_type}).\n\nMeal plan: {meal_plan}\nFlex balance: {flex_remaining}\n\nRoom changes can be requested in the first 2 weeks of semester.",
					"Housing applications for next year open February 1.\n\nYour current assignment: {building}, Room {room}, move-out {move_out_date}.\n\nPriority goes to returning students who apply early!",
				},
			},
			{
				Name:     "support",
				Keywords: []string{"help", "support", "counseling", "health", "wellness", "safety"},
				Templates: []string{
					"Hi {first_name}! Support services available:\n\nStudent Support: Student Center, Room 200 (M-F 8am-6pm)\nCounseling: (555) 123-4568 or counseling.techedu.edu\nCampus Emergency: (555) 123-4569\nHealth Services: Health Center (M-F 8am-5pm)\n\nYou're not alone - we're here to help!",
					"For mental health support, contact the Counseling Center at (555) 123-4568.\n\n24/7 crisis line: (555) 999-HELP\n\nYour wellbeing matters, {first_name}!",
					"Campus safety: use the SafeWalk app or call (555) 123-4569.\n\nHealth Services hours: M-F 8am-5pm. After-hours urgent care info: techedu.edu/health",
				},
			},
			{
				Name:     "career",
				Keywords: []string{"career", "job", "internship", "resume", "interview", "employer", "hire", "work"},
				Templates: []string{
					"Hi {first_name}! Career services for {program} students:\n\nResume reviews: book at careers.techedu.edu\nMock interviews: available weekly\nJob board: check Handshake for {program}-related positions\n\nNext career fair: Spring Career Expo, February 15. Your {gpa} GPA will look great to employers!",
					"The Career Center is here to help, {first_name}!\n\nResume workshops every Tuesday, {program} networking events monthly, 1-on-1 career counseling available.\n\nCall (555) 123-4570 or visit careers.techedu.edu",
					"Looking for internships in {program}? Check Handshake!\n\nWith your {gpa} GPA and {credits_completed} credits completed, you're well positioned for competitive opportunities.",
				},
			},
			{
				Name:     "library",
				Keywords: []string{"library", "book", "research", "study", "borrow", "return", "fine", "overdue"},
				Templates: []string{
					"Hi {first_name}! Your library account:\n\nBooks checked out: {library_items}\nOverdue items: {library_overdue}\nFines owed: {library_fines}\n\nLibrary hours: M-Th 7am-12am, F 7am-9pm, Sat-Sun 10am-10pm. Renew online at library.techedu.edu",
					"Need research help for {program}? Visit the Research Help Desk on the 2nd floor.\n\nYour account: {library_items} items checked out, {library_fines} in fines.",
					"Study rooms can be booked at library.techedu.edu/rooms (2-hour max).\n\nYour library status: {library_items} books out, {library_overdue} overdue.",
				},
			},
		},
	}
}
