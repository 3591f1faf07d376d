package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/events"
)

// NotificationService records request events for operators.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     orNop(logger),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestSubmitted, n.handleRequestSubmitted)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleRequestStatusChanged)
}

func (n *NotificationService) handleRequestSubmitted(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("request_id", event.RequestID),
		zap.Int64("user_id", event.Actor.ID),
	}
	if payload, ok := event.Payload.(events.RequestSubmittedPayload); ok {
		fields = append(fields, zap.String("service_type", payload.Request.ServiceType))
	}
	n.logger.Info("RequestSubmitted", fields...)
	return nil
}

func (n *NotificationService) handleRequestStatusChanged(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("request_id", event.RequestID),
		zap.Int64("admin_id", event.Actor.ID),
	}
	if payload, ok := event.Payload.(events.RequestStatusChangedPayload); ok {
		fields = append(fields,
			zap.String("old_status", string(payload.OldStatus)),
			zap.String("new_status", string(payload.NewStatus)))
	}
	n.logger.Info("RequestStatusChanged", fields...)
	return nil
}
