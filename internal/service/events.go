package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

// publishEvent fills in the id and timestamp and dispatches synchronously.
// Subscriber failures are logged; the triggering operation has already been
// committed and stays successful.
func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, now func() time.Time, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Error("event subscriber failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Int64("request_id", event.RequestID),
			zap.Error(err))
	}
}

func eventActor(actor *domain.Actor) events.Actor {
	return events.Actor{Type: actor.Type, ID: actor.ID}
}

// requireActor rejects calls made without an identity, or with the wrong kind.
func requireActor(actor *domain.Actor, want domain.SubjectType) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if actor.Type != want {
		switch want {
		case domain.SubjectTypeAdmin:
			return apperrors.NewForbidden("admin required")
		default:
			return apperrors.NewForbidden("user account required")
		}
	}
	return nil
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func orNow(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}
