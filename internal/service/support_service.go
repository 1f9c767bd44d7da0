package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/aggregator"
	"github.com/spec-kit/student-support/internal/analytics"
	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/escalation"
	"github.com/spec-kit/student-support/internal/intent"
	"github.com/spec-kit/student-support/internal/observability"
	"github.com/spec-kit/student-support/internal/rbac"
	"github.com/spec-kit/student-support/internal/synth"
	"github.com/spec-kit/student-support/pkg/util"
)

// QueryResult is the outcome of one submitted query: the generated response,
// and the ticket if the query escalated.
type QueryResult struct {
	Response  domain.GeneratedResponse
	Escalated bool
	Ticket    *domain.Ticket
}

// SupportService runs the query pipeline: authorization, profile
// aggregation, classification, synthesis and the escalation decision.
type SupportService struct {
	aggregator  *aggregator.Aggregator
	classifier  *intent.Classifier
	synthesizer *synth.Synthesizer
	escalation  *escalation.Service
	recorder    *analytics.Recorder
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewSupportService wires the pipeline.
func NewSupportService(
	agg *aggregator.Aggregator,
	classifier *intent.Classifier,
	synthesizer *synth.Synthesizer,
	esc *escalation.Service,
	recorder *analytics.Recorder,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SupportService {
	return &SupportService{
		aggregator:  agg,
		classifier:  classifier,
		synthesizer: synthesizer,
		escalation:  esc,
		recorder:    recorder,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetProfile returns the unified profile for a subject, enforcing
// visibility: subjects see only their own record.
func (s *SupportService) GetProfile(ctx context.Context, role domain.Role, requesterStudentID, targetStudentID string) (*domain.UnifiedProfile, error) {
	if !rbac.CanViewSubject(role, requesterStudentID, targetStudentID) {
		return nil, util.NewForbidden("not allowed to view this student's records")
	}
	return s.aggregator.Aggregate(ctx, targetStudentID)
}

// SubmitQuery answers one query against the target student's unified
// profile. When the response is too weak, or the category demands a human,
// a support ticket is opened as part of the same call.
func (s *SupportService) SubmitQuery(ctx context.Context, role domain.Role, requesterStudentID, targetStudentID, message string) (*QueryResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, util.NewValidationError("message must not be empty", nil)
	}
	if !rbac.CanViewSubject(role, requesterStudentID, targetStudentID) {
		return nil, util.NewForbidden("not allowed to query this student's records")
	}

	profile, err := s.aggregator.Aggregate(ctx, targetStudentID)
	if err != nil {
		return nil, err
	}

	category := s.classifier.Classify(message)
	response := s.synthesizer.Synthesize(message, profile, category)

	result := &QueryResult{Response: response}
	result.Escalated = s.escalation.ShouldEscalate(response.Confidence, response.Category)
	if result.Escalated {
		ticket, err := s.escalation.CreateTicket(ctx, targetStudentID, message, response)
		if err != nil {
			return nil, err
		}
		result.Ticket = ticket
	}

	s.metrics.RecordQuery(result.Escalated)
	record := analytics.QueryRecord{
		ID:         uuid.NewString(),
		SubjectID:  targetStudentID,
		Query:      message,
		Category:   response.Category,
		Confidence: response.Confidence,
		Automated:  response.Automated,
		Escalated:  result.Escalated,
		Timestamp:  time.Now().UTC(),
	}
	if result.Ticket != nil {
		record.TicketID = result.Ticket.ID
	}
	s.recorder.RecordQuery(ctx, record)

	s.logger.Info("query answered",
		zap.String("subject_id", targetStudentID),
		zap.String("category", string(response.Category)),
		zap.Float64("confidence", response.Confidence),
		zap.Bool("escalated", result.Escalated))
	return result, nil
}
