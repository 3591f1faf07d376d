package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/service"
	"github.com/spec-kit/service-requests/internal/workbook"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartWorkbookSync appends every newly submitted request to the workbook.
// Failures are logged and returned to the dispatcher; the stored request is
// not affected.
func StartWorkbookSync(dispatcher events.Dispatcher, appender *workbook.Appender, logger *zap.Logger) {
	if dispatcher == nil || appender == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatcher.Subscribe(events.EventRequestSubmitted, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.RequestSubmittedPayload)
		if !ok {
			return fmt.Errorf("workbook sync: unexpected payload %T", event.Payload)
		}
		if err := appender.Append(ctx, payload.Request); err != nil {
			// No backfill runs later; this entry is the record of the missing row.
			logger.Error("workbook append failed; row missing from workbook",
				zap.Int64("request_id", payload.Request.ID),
				zap.String("student_id", payload.Request.StudentID),
				zap.Time("created_at", payload.Request.CreatedAt),
				zap.String("path", appender.Path()),
				zap.Error(err))
			return fmt.Errorf("workbook sync: %w", err)
		}
		logger.Debug("workbook row appended", zap.Int64("request_id", event.RequestID))
		return nil
	})
}
