// Package logging provides the portal's structured, leveled logger.
//
// A single instance is constructed at startup and injected into every
// component that needs it; there is no package-level global. In development
// mode debug entries are emitted and errors carry a stack trace; in
// production debug is a no-op and stacks are omitted (the error message
// itself is always logged).
package logging

import (
	"io"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// Level is the severity of a log entry, ordered from Debug (lowest) to
// Error (highest).
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Context carries optional structured fields attached to a log entry.
type Context map[string]any

// Logger writes structured log lines with an ISO-8601 timestamp, a level
// tag, a message and optional context fields.
type Logger struct {
	zl  zerolog.Logger
	dev bool
}

// New creates a Logger writing to w. dev enables debug entries and stack
// traces on errors.
func New(w io.Writer, dev bool) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl, dev: dev}
}

// Dev reports whether the logger was constructed in development mode.
func (l *Logger) Dev() bool {
	return l.dev
}

// Debug logs at debug level. Outside development mode this is a no-op.
func (l *Logger) Debug(msg string, ctx Context) {
	if !l.dev {
		return
	}
	l.emit(l.zl.Debug(), msg, ctx)
}

// Info logs at info level.
func (l *Logger) Info(msg string, ctx Context) {
	l.emit(l.zl.Info(), msg, ctx)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, ctx Context) {
	l.emit(l.zl.Warn(), msg, ctx)
}

// Error logs at error level. The error message is always included; the
// stack trace of the logging call site is attached only in development
// mode.
func (l *Logger) Error(msg string, err error, ctx Context) {
	ev := l.zl.Error()
	if err != nil {
		ev = ev.Str("error", err.Error())
		if l.dev {
			ev = ev.Bytes("stack", debug.Stack())
		}
	}
	l.emit(ev, msg, ctx)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, ctx Context) {
	if len(ctx) > 0 {
		ev = ev.Fields(map[string]any(ctx))
	}
	ev.Msg(msg)
}
