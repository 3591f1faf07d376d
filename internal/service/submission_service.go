package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/intake"
	"github.com/spec-kit/service-requests/internal/observability"
	"github.com/spec-kit/service-requests/internal/repository"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

// SubmissionService accepts new service requests from signed-in users.
type SubmissionService struct {
	requests   repository.RequestRepository
	validator  *intake.Validator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// SubmissionDependencies bundles collaborators for the submission service.
type SubmissionDependencies struct {
	RequestRepo repository.RequestRepository
	Validator   *intake.Validator
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	return &SubmissionService{
		requests:   deps.RequestRepo,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     orNop(deps.Logger),
		now:        orNow(deps.Clock),
	}
}

// Submit validates the input, stores it as a pending request owned by the
// actor and announces it. Nothing is stored when validation fails.
func (s *SubmissionService) Submit(ctx context.Context, actor *domain.Actor, input intake.Input) (*domain.Request, error) {
	if err := requireActor(actor, domain.SubjectTypeUser); err != nil {
		return nil, err
	}

	req, err := s.validator.Normalize(input)
	if err != nil {
		return nil, err
	}
	if err := matchesIdentity(actor, req); err != nil {
		return nil, err
	}
	submitter := actor.ID
	req.SubmitterUserID = &submitter

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("store request: %w", err)
	}
	s.metrics.RecordSubmission(req.ServiceType)

	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:      events.EventRequestSubmitted,
		RequestID: req.ID,
		Actor:     eventActor(actor),
		Payload:   events.RequestSubmittedPayload{Request: *req},
	})
	return req, nil
}

// matchesIdentity rejects submissions filed under another account's
// student ID or email. Fields the account does not carry are not checked.
func matchesIdentity(actor *domain.Actor, req *domain.Request) error {
	var msgs []string
	if actor.StudentID != "" && req.StudentID != actor.StudentID {
		msgs = append(msgs, "Student/Employee ID must match your account.")
	}
	if actor.Email != "" && !strings.EqualFold(req.Email, actor.Email) {
		msgs = append(msgs, "Email must match your account.")
	}
	if len(msgs) > 0 {
		return apperrors.NewValidationErrors(msgs)
	}
	return nil
}

// ServiceTypes lists the categories a submission may use.
func (s *SubmissionService) ServiceTypes() []string {
	return s.validator.ServiceTypes()
}
