package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger represents a structured, leveled logging interface
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})

	// With returns a logger with the given fields attached to every event
	With(fields map[string]interface{}) Logger
}

type zerologLogger struct {
	logger zerolog.Logger
}

// New creates a logger writing JSON to stderr at the given level
func New() Logger {
	return NewWithWriter(os.Stderr, zerolog.InfoLevel)
}

// NewWithWriter creates a logger writing to the given writer
func NewWithWriter(w io.Writer, level zerolog.Level) Logger {
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zerologLogger{logger: logger}
}

// NewNoop creates a logger that discards all events
func NewNoop() Logger {
	return &zerologLogger{logger: zerolog.Nop()}
}

// ParseLevel maps a configured level name (debug, info, warn, error) to a
// zerolog level. An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", name)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return level, nil
}

func (l *zerologLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}

func (l *zerologLogger) With(fields map[string]interface{}) Logger {
	return &zerologLogger{logger: l.logger.With().Fields(fields).Logger()}
}
