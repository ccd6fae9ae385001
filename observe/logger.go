package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// WithKind returns a logger that stamps every record with the cache
	// kind, e.g. "pagespeed".
	WithKind(kind string) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// jsonLogger writes one JSON object per record.
type jsonLogger struct {
	level  LogLevel
	writer io.Writer
	mu     *sync.Mutex
	kind   string
}

// NewLogger creates a structured logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a structured logger with a custom writer.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &jsonLogger{
		level:  ParseLogLevel(level),
		writer: w,
		mu:     &sync.Mutex{},
	}
}

func (l *jsonLogger) WithKind(kind string) Logger {
	scoped := *l
	scoped.kind = kind
	return &scoped
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields)
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(LevelError, msg, fields)
}

func (l *jsonLogger) log(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	record := make(map[string]any, len(fields)+4)
	record["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	record["level"] = level.String()
	record["msg"] = msg
	if l.kind != "" {
		record["cache.kind"] = l.kind
	}
	for _, f := range fields {
		record[f.Key] = f.Value
	}

	data, err := json.Marshal(record)
	if err != nil {
		return // drop records that cannot be serialized
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Write(data)
	l.writer.Write([]byte("\n"))
}

// nopLogger discards everything.
type nopLogger struct{}

// NewNopLogger returns a logger that discards all records.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (nopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (nopLogger) WithKind(kind string) Logger                            { return nopLogger{} }

// Ensure implementations satisfy Logger.
var (
	_ Logger = (*jsonLogger)(nil)
	_ Logger = nopLogger{}
)
