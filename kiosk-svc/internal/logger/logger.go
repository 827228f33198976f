package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func New(service, level string) *Logger {
	return NewWithWriter(service, level, os.Stdout)
}

func NewWithWriter(service, level string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard is used by tests and by components constructed without a logger.
func Discard() *Logger {
	return NewWithWriter("discard", "error", io.Discard)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(action, sessionID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelDebug, action, sessionID, message, attrs)
}

func (l *Logger) Info(action, sessionID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelInfo, action, sessionID, message, attrs)
}

func (l *Logger) Warn(action, sessionID, message string, attrs ...slog.Attr) {
	l.log(slog.LevelWarn, action, sessionID, message, attrs)
}

func (l *Logger) Error(action, sessionID, message string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log(slog.LevelError, action, sessionID, message, attrs)
}

func (l *Logger) log(level slog.Level, action, sessionID, message string, attrs []slog.Attr) {
	base := []slog.Attr{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("session_id", sessionID),
	}
	l.handler.LogAttrs(context.Background(), level, message, append(base, attrs...)...)
}
