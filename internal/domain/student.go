package domain

import "time"

// ProviderID identifies a backend record system.
type ProviderID string

const (
	ProviderAdmissions ProviderID = "admissions"
	ProviderAcademic   ProviderID = "academic"
	ProviderFinancial  ProviderID = "financial"
	ProviderHousing    ProviderID = "housing"
	ProviderLibrary    ProviderID = "library"
)

// SubRecord is a provider-owned slice of a student profile. The aggregator
// merges sub-records structurally; each type occupies its own field space.
type SubRecord interface {
	Provider() ProviderID
}

// IdentityRecord is the admissions-owned student identity. Its absence makes
// the student unresolvable.
type IdentityRecord struct {
	StudentID          string `json:"student_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Program            string `json:"program"`
	ProgramCode        string `json:"program_code,omitempty"`
	AdmissionType      string `json:"admission_type,omitempty"`
	AdmissionDate      string `json:"admission_date,omitempty"`
	ExpectedGraduation string `json:"expected_graduation,omitempty"`
	Status             string `json:"status"`
}

func (IdentityRecord) Provider() ProviderID { return ProviderAdmissions }

// DisplayName returns the student's full name.
func (r IdentityRecord) DisplayName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// CourseEnrollment is one current course from the academic system.
type CourseEnrollment struct {
	Code    string `json:"code"`
	Title   string `json:"title,omitempty"`
	Credits int    `json:"credits,omitempty"`
}

// AcademicRecord holds registrar data for a student.
type AcademicRecord struct {
	YearLevel         int                `json:"year_level"`
	Semester          string             `json:"semester"`
	GPACumulative     float64            `json:"gpa_cumulative"`
	GPASemester       float64            `json:"gpa_semester"`
	CreditsCompleted  int                `json:"credits_completed"`
	CreditsInProgress int                `json:"credits_in_progress"`
	AcademicStanding  string             `json:"academic_standing"`
	DeanList          bool               `json:"dean_list"`
	Courses           []CourseEnrollment `json:"courses"`
}

func (AcademicRecord) Provider() ProviderID { return ProviderAcademic }

// AidAward is a single grant, scholarship or loan line.
type AidAward struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// AidRecord holds the financial aid package for a student.
type AidRecord struct {
	Status           string     `json:"status"`
	AidYear          string     `json:"aid_year,omitempty"`
	CostOfAttendance int        `json:"cost_of_attendance"`
	FinancialNeed    int        `json:"financial_need"`
	TotalAid         int        `json:"total_aid"`
	RemainingBalance int        `json:"remaining_balance"`
	NextDisbursement string     `json:"next_disbursement,omitempty"`
	Grants           []AidAward `json:"grants"`
	Scholarships     []AidAward `json:"scholarships"`
	Loans            []AidAward `json:"loans"`
	SatisfactoryPace bool       `json:"satisfactory_pace"`
}

func (AidRecord) Provider() ProviderID { return ProviderFinancial }

// GrantsTotal sums grant awards.
func (r AidRecord) GrantsTotal() int { return sumAwards(r.Grants) }

// ScholarshipsTotal sums scholarship awards.
func (r AidRecord) ScholarshipsTotal() int { return sumAwards(r.Scholarships) }

// LoansTotal sums loan awards.
func (r AidRecord) LoansTotal() int { return sumAwards(r.Loans) }

func sumAwards(awards []AidAward) int {
	total := 0
	for _, a := range awards {
		total += a.Amount
	}
	return total
}

// MealPlan describes the dining contract tied to a housing assignment.
type MealPlan struct {
	Name          string `json:"name,omitempty"`
	MealsPerWeek  int    `json:"meals_per_week,omitempty"`
	FlexRemaining int    `json:"flex_remaining,omitempty"`
}

// HousingRecord holds the residential assignment for a student.
type HousingRecord struct {
	AssignmentStatus string   `json:"assignment_status"`
	Building         string   `json:"building,omitempty"`
	Room             string   `json:"room,omitempty"`
	RoomType         string   `json:"room_type,omitempty"`
	Floor            int      `json:"floor,omitempty"`
	MoveInDate       string   `json:"move_in_date,omitempty"`
	MoveOutDate      string   `json:"move_out_date,omitempty"`
	MealPlan         MealPlan `json:"meal_plan"`
}

func (HousingRecord) Provider() ProviderID { return ProviderHousing }

// LibraryRecord holds the circulation account for a student.
type LibraryRecord struct {
	LibraryID       string  `json:"library_id,omitempty"`
	ItemsCheckedOut int     `json:"items_checked_out"`
	ItemsOverdue    int     `json:"items_overdue"`
	FinesOwed       float64 `json:"fines_owed"`
	HoldRequests    int     `json:"hold_requests"`
}

func (LibraryRecord) Provider() ProviderID { return ProviderLibrary }

// NotAvailable is the documented neutral status for silent providers.
const NotAvailable = "Not Available"

// DefaultAcademicRecord is the neutral academic sub-record used when the
// registrar system is silent.
func DefaultAcademicRecord() AcademicRecord {
	return AcademicRecord{AcademicStanding: NotAvailable, Courses: []CourseEnrollment{}}
}

// DefaultAidRecord is the neutral aid sub-record: zero amounts, empty award
// lists, "Not Available" status.
func DefaultAidRecord() AidRecord {
	return AidRecord{
		Status:           NotAvailable,
		Grants:           []AidAward{},
		Scholarships:     []AidAward{},
		Loans:            []AidAward{},
		SatisfactoryPace: true,
	}
}

// DefaultHousingRecord is the neutral housing sub-record.
func DefaultHousingRecord() HousingRecord {
	return HousingRecord{AssignmentStatus: "Not Assigned"}
}

// DefaultLibraryRecord is the neutral library sub-record.
func DefaultLibraryRecord() LibraryRecord {
	return LibraryRecord{}
}

// AggregationMeta records which systems answered during profile assembly.
// It is observability data only; downstream logic never branches on it.
type AggregationMeta struct {
	ProvidersQueried   []ProviderID `json:"providers_queried"`
	ProvidersResponded []ProviderID `json:"providers_responded"`
	AggregatedAt       time.Time    `json:"aggregated_at"`
	Freshness          string       `json:"freshness"`
}

// UnifiedProfile is the merged view of one student across all backend
// systems. A profile exists iff the admissions system returned an identity;
// every other section defaults to its documented neutral value.
type UnifiedProfile struct {
	Identity IdentityRecord
	Academic AcademicRecord
	Aid      AidRecord
	Housing  HousingRecord
	Library  LibraryRecord
	Meta     AggregationMeta
}
