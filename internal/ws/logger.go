package ws

import (
	"go.uber.org/zap"
)

// Logger provides structured logging for websocket events.
type Logger struct {
	logger *zap.Logger
}

func NewLogger() *Logger {
	return &Logger{
		logger: zap.L().With(zap.String("component", "websocket")),
	}
}

func (l *Logger) Info(event string, userID, clientID string, fields ...zap.Field) {
	l.logger.Info("websocket_event", l.with(event, userID, clientID, fields)...)
}

func (l *Logger) Warn(event string, userID, clientID string, fields ...zap.Field) {
	l.logger.Warn("websocket_warning", l.with(event, userID, clientID, fields)...)
}

func (l *Logger) Error(event string, userID, clientID string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	l.logger.Error("websocket_error", l.with(event, userID, clientID, fields)...)
}

func (l *Logger) with(event, userID, clientID string, fields []zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
	}, fields...)
}
