package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string ("debug", "info", ...) to a LogLevel.
// Unknown values map to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug", "DEBUG":
		return LogLevelDebug
	case "warn", "WARN":
		return LogLevelWarn
	case "error", "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface for CrewKit. This allows users
// to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// LoggerConfig configures construction of a CrewLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
	SessionID string
	RunID     string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// CrewLogger wraps slog.Logger adding contextual cloning helpers and domain
// convenience methods. It is cheap to copy via the With* methods.
type CrewLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	sessionID string
	runID     string
}

// NewLogger builds a CrewLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *CrewLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &CrewLogger{
		logger:    slog.New(handler),
		level:     cfg.Level,
		component: cfg.Component,
		sessionID: cfg.SessionID,
		runID:     cfg.RunID,
	}
}

// NewSlogLogger creates a new CrewLogger with the specified level and format.
func NewSlogLogger(level LogLevel, format string, addSource bool) *CrewLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent sets the logical component (orchestrator, registry, a2a, ...).
func (l *CrewLogger) WithComponent(c string) *CrewLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithSession attaches session and run identifiers.
func (l *CrewLogger) WithSession(sessionID, runID string) *CrewLogger {
	nl := *l
	nl.sessionID = sessionID
	nl.runID = runID
	return &nl
}

func (l *CrewLogger) attrs(extra ...slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(extra)+3)
	if l.component != "" {
		out = append(out, slog.String("component", l.component))
	}
	if l.sessionID != "" {
		out = append(out, slog.String("session_id", l.sessionID))
	}
	if l.runID != "" {
		out = append(out, slog.String("run_id", l.runID))
	}
	return append(out, extra...)
}

func (l *CrewLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.attrs()...)
}

// Debug logs at debug level.
func (l *CrewLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *CrewLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *CrewLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *CrewLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogBackendCall records latency and outcome of a backend generate call.
func (l *CrewLogger) LogBackendCall(provider string, dur time.Duration, attempt int, err error) {
	level := slog.LevelInfo
	msg := "Backend call completed"
	extra := []slog.Attr{
		slog.String("provider", provider),
		slog.Duration("duration", dur),
		slog.Int("attempt", attempt),
		slog.Bool("success", err == nil),
	}
	if err != nil {
		level = slog.LevelError
		msg = "Backend call failed"
		extra = append(extra, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(context.Background(), level, msg, l.attrs(extra...)...)
}

// LogTaskRun records aggregate metrics for a completed task batch.
func (l *CrewLogger) LogTaskRun(tasks, failed int, dur time.Duration) {
	extra := []slog.Attr{
		slog.Int("task_count", tasks),
		slog.Int("failed_count", failed),
		slog.Duration("duration", dur),
	}
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Task batch completed", l.attrs(extra...)...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is
// disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
