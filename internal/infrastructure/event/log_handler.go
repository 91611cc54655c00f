package event

import (
	"context"

	"github.com/menuhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogHandler writes one info line per domain event
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a LogHandler
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger.Named("domain_events")}
}

// Handle implements shared.EventHandler
func (h *LogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
	)
	return nil
}

// EventTypes implements shared.EventHandler; LogHandler wants every event
func (h *LogHandler) EventTypes() []string {
	return nil
}
