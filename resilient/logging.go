package resilient

import (
	"log/slog"
	"os"
)

// Logger is the minimal logging surface the loader needs. It matches the
// shape of log/slog so a *slog.Logger can back it directly.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps an existing slog logger. A nil argument falls back to
// a JSON handler writing to stdout at info level.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
		l = slog.New(handler)
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *SlogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *SlogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

// NopLogger discards everything. It is the default for loaders constructed
// without an explicit logger.
type NopLogger struct{}

func (NopLogger) Info(msg string, args ...any)  {}
func (NopLogger) Warn(msg string, args ...any)  {}
func (NopLogger) Error(msg string, args ...any) {}
