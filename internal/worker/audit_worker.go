package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/audit-chat-service/internal/events"
	"github.com/spec-kit/audit-chat-service/internal/repository"
)

// StartAuditWorker subscribes the persistence handler for every audit event
// type. Failures are logged and swallowed; the audit trail never fails a
// request.
func StartAuditWorker(dispatcher events.Dispatcher, audits repository.AuditRepository, logger *zap.Logger) {
	if dispatcher == nil || audits == nil {
		return
	}

	handler := func(ctx context.Context, event events.Event) error {
		if err := audits.Insert(ctx, event); err != nil {
			logger.Warn("failed to persist audit event",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
		return nil
	}

	for _, eventType := range events.AllTypes {
		dispatcher.Subscribe(eventType, handler)
	}
}
