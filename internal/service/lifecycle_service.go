package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/observability"
	"github.com/spec-kit/service-requests/internal/repository"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

const invalidStatusMessage = "Status must be one of: pending, approved, denied."

// LifecycleService applies admin decisions and computes dashboard counts.
type LifecycleService struct {
	requests   repository.RequestRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	RequestRepo repository.RequestRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		requests:   deps.RequestRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     orNop(deps.Logger),
		now:        orNow(deps.Clock),
	}
}

// ParseStatus accepts only the enumerated statuses, spelled exactly.
func ParseStatus(raw string) (domain.RequestStatus, error) {
	status := domain.RequestStatus(raw)
	if !status.Valid() {
		return "", apperrors.NewValidationErrors([]string{invalidStatusMessage})
	}
	return status, nil
}

// UpdateStatus sets the status of request id. Any status may follow any other,
// and repeating the current one succeeds.
func (s *LifecycleService) UpdateStatus(ctx context.Context, actor *domain.Actor, id int64, status domain.RequestStatus) (*domain.Request, error) {
	if err := requireActor(actor, domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationErrors([]string{invalidStatusMessage})
	}

	current, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("request", map[string]any{"id": id})
		}
		return nil, fmt.Errorf("load request: %w", err)
	}

	updated, err := s.requests.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}
	if !updated {
		return nil, apperrors.NewNotFound("request", map[string]any{"id": id})
	}
	s.metrics.RecordStatusChange(string(status))

	previous := current.Status
	current.Status = status
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: id,
		Actor:     eventActor(actor),
		Payload: events.RequestStatusChangedPayload{
			OldStatus: previous,
			NewStatus: status,
		},
	})
	return current, nil
}

// ComputeStats counts every request by status plus those created during the
// current UTC day.
func (s *LifecycleService) ComputeStats(ctx context.Context) (domain.RequestStats, error) {
	dayStart, dayEnd := utcDay(s.now())
	stats, err := s.requests.Stats(ctx, dayStart, dayEnd)
	if err != nil {
		return domain.RequestStats{}, fmt.Errorf("compute stats: %w", err)
	}
	return stats, nil
}

// utcDay returns [00:00 UTC, next 00:00 UTC) around t.
func utcDay(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
