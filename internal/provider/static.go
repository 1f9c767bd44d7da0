package provider

import (
	"context"

	"github.com/spec-kit/student-support/internal/domain"
)

// Static providers carry in-process seed data for the five campus systems.
// They stand in for the real admissions/registrar/aid/housing/library
// connectors in development and tests.

type staticProvider struct {
	id      domain.ProviderID
	records map[string]domain.SubRecord
}

func (p *staticProvider) ID() domain.ProviderID { return p.id }

func (p *staticProvider) FetchRecord(ctx context.Context, subjectID string) (domain.SubRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record, ok := p.records[subjectID]
	if !ok {
		return nil, ErrRecordAbsent
	}
	return record, nil
}

// NewStatic builds a provider from a fixed record set.
func NewStatic(id domain.ProviderID, records map[string]domain.SubRecord) RecordProvider {
	return &staticProvider{id: id, records: records}
}

// NewStaticAdmissions returns the seeded identity system.
func NewStaticAdmissions() RecordProvider {
	return NewStatic(domain.ProviderAdmissions, map[string]domain.SubRecord{
		"STU2024001": domain.IdentityRecord{
			StudentID: "STU2024001", FirstName: "Sarah", LastName: "Johnson",
			Email: "sarah.johnson@techedu.edu", Program: "Computer Science", ProgramCode: "CS-BS",
			AdmissionType: "Freshman", AdmissionDate: "2022-08-01", ExpectedGraduation: "2026-05", Status: "Active",
		},
		"STU2024002": domain.IdentityRecord{
			StudentID: "STU2024002", FirstName: "Michael", LastName: "Chen",
			Email: "michael.chen@techedu.edu", Program: "Data Science", ProgramCode: "DS-BS",
			AdmissionType: "Freshman", AdmissionDate: "2023-08-01", ExpectedGraduation: "2027-05", Status: "Active",
		},
		"STU2024003": domain.IdentityRecord{
			StudentID: "STU2024003", FirstName: "Emily", LastName: "Rodriguez",
			Email: "emily.rodriguez@techedu.edu", Program: "Business Administration", ProgramCode: "BA-BS",
			AdmissionType: "Transfer", AdmissionDate: "2021-08-01", ExpectedGraduation: "2025-05", Status: "Active",
		},
	})
}

// NewStaticAcademic returns the seeded registrar system.
func NewStaticAcademic() RecordProvider {
	return NewStatic(domain.ProviderAcademic, map[string]domain.SubRecord{
		"STU2024001": domain.AcademicRecord{
			YearLevel: 3, Semester: "Fall 2024", GPACumulative: 3.7, GPASemester: 3.8,
			CreditsCompleted: 75, CreditsInProgress: 15, AcademicStanding: "Good Standing", DeanList: true,
			Courses: []domain.CourseEnrollment{
				{Code: "CS350", Title: "Software Engineering", Credits: 3},
				{Code: "CS360", Title: "Database Systems", Credits: 3},
			},
		},
		"STU2024002": domain.AcademicRecord{
			YearLevel: 2, Semester: "Fall 2024", GPACumulative: 3.5, GPASemester: 3.6,
			CreditsCompleted: 45, CreditsInProgress: 16, AcademicStanding: "Good Standing",
			Courses: []domain.CourseEnrollment{
				{Code: "DS250", Title: "Machine Learning Basics", Credits: 4},
			},
		},
		"STU2024003": domain.AcademicRecord{
			YearLevel: 4, Semester: "Fall 2024", GPACumulative: 3.9, GPASemester: 4.0,
			CreditsCompleted: 105, CreditsInProgress: 12, AcademicStanding: "Good Standing", DeanList: true,
			Courses: []domain.CourseEnrollment{
				{Code: "BUS450", Title: "Business Capstone", Credits: 4},
			},
		},
	})
}

// NewStaticFinancial returns the seeded aid system.
func NewStaticFinancial() RecordProvider {
	return NewStatic(domain.ProviderFinancial, map[string]domain.SubRecord{
		"STU2024001": domain.AidRecord{
			Status: "Active", AidYear: "2024-2025",
			CostOfAttendance: 52000, FinancialNeed: 40000, TotalAid: 30000, RemainingBalance: 10000,
			NextDisbursement: "2025-01-15", SatisfactoryPace: true,
			Grants: []domain.AidAward{
				{Name: "Federal Pell Grant", Amount: 7395},
				{Name: "State Grant", Amount: 3000},
				{Name: "Institutional Grant", Amount: 4605},
			},
			Scholarships: []domain.AidAward{
				{Name: "Merit Scholarship", Amount: 5000},
				{Name: "CS Department Award", Amount: 2000},
			},
			Loans: []domain.AidAward{
				{Name: "Federal Direct Subsidized", Amount: 3500},
				{Name: "Federal Direct Unsubsidized", Amount: 2000},
			},
		},
		"STU2024002": domain.AidRecord{
			Status: "Pending Review", AidYear: "2024-2025",
			CostOfAttendance: 52000, FinancialNeed: 34000, TotalAid: 15500, RemainingBalance: 18500,
			NextDisbursement: "2025-02-01", SatisfactoryPace: true,
			Grants:       []domain.AidAward{{Name: "Federal Pell Grant", Amount: 5000}},
			Scholarships: []domain.AidAward{{Name: "Data Science Scholarship", Amount: 7000}},
			Loans:        []domain.AidAward{{Name: "Federal Direct Subsidized", Amount: 3500}},
		},
		"STU2024003": domain.AidRecord{
			Status: "Active", AidYear: "2024-2025",
			CostOfAttendance: 52000, FinancialNeed: 44000, TotalAid: 32000, RemainingBalance: 12000,
			NextDisbursement: "2025-01-10", SatisfactoryPace: true,
			Grants: []domain.AidAward{
				{Name: "Federal Pell Grant", Amount: 7395},
				{Name: "State Grant", Amount: 4000},
				{Name: "Institutional Grant", Amount: 6605},
			},
			Scholarships: []domain.AidAward{
				{Name: "Dean's Scholarship", Amount: 8000},
				{Name: "Business Excellence Award", Amount: 3000},
			},
			Loans: []domain.AidAward{},
		},
	})
}

// NewStaticHousing returns the seeded housing system.
func NewStaticHousing() RecordProvider {
	return NewStatic(domain.ProviderHousing, map[string]domain.SubRecord{
		"STU2024001": domain.HousingRecord{
			AssignmentStatus: "Assigned", Building: "West Hall", Room: "204B", RoomType: "Double", Floor: 2,
			MoveInDate: "2024-08-15", MoveOutDate: "2025-05-15",
			MealPlan: domain.MealPlan{Name: "Gold Plan", MealsPerWeek: 14, FlexRemaining: 145},
		},
		"STU2024002": domain.HousingRecord{
			AssignmentStatus: "Assigned", Building: "North Tower", Room: "512A", RoomType: "Single", Floor: 5,
			MoveInDate: "2024-08-20", MoveOutDate: "2025-05-15",
			MealPlan: domain.MealPlan{Name: "Silver Plan", MealsPerWeek: 10, FlexRemaining: 98},
		},
		"STU2024003": domain.HousingRecord{
			AssignmentStatus: "Assigned", Building: "Graduate Commons", Room: "301", RoomType: "Studio", Floor: 3,
			MoveInDate: "2024-08-10", MoveOutDate: "2025-05-20",
			MealPlan: domain.MealPlan{Name: "Flex Only", MealsPerWeek: 0, FlexRemaining: 320},
		},
	})
}

// NewStaticLibrary returns the seeded library system. Only one demo student
// has an account; the rest exercise the default-record path.
func NewStaticLibrary() RecordProvider {
	return NewStatic(domain.ProviderLibrary, map[string]domain.SubRecord{
		"STU2024001": domain.LibraryRecord{
			LibraryID: "LIB-2024-001", ItemsCheckedOut: 3, ItemsOverdue: 0, FinesOwed: 0, HoldRequests: 1,
		},
	})
}
