package websocket

import (
	"direct-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventLogger writes connection lifecycle events as structured fields.
type eventLogger struct {
	logger *zap.Logger
}

func newEventLogger(l *logger.Logger) eventLogger {
	return eventLogger{logger: l.Logger.With(zap.String("component", "websocket"))}
}

func (l eventLogger) Info(event string, userID uuid.UUID, connID string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID.String()),
		zap.String("conn_id", connID),
	}, fields...)
	l.logger.Info("websocket_event", allFields...)
}

func (l eventLogger) Error(event string, userID uuid.UUID, connID string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID.String()),
		zap.String("conn_id", connID),
		zap.Error(err),
	}, fields...)
	l.logger.Error("websocket_error", allFields...)
}
