package event

import (
	"context"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes every published event to the log as one structured
// entry carrying the JSON payload.
type AuditLogHandler struct {
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewAuditLogHandler creates an AuditLogHandler
func NewAuditLogHandler(serializer *EventSerializer, logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{serializer: serializer, logger: logger.Named("audit")}
}

// EventTypes returns nil: the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event. Unknown event types are logged without payload.
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	payload, err := h.serializer.Serialize(event)
	if err != nil {
		logger.WithLogger(ctx, h.logger).Warn("domain event without payload", append(fields, zap.Error(err))...)
		return nil
	}
	logger.WithLogger(ctx, h.logger).Info("domain event", append(fields, zap.ByteString("payload", payload))...)
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
