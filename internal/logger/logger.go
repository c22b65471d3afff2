// Package logger provides the leveled logger shared by every component.
// Levels are off (no output), normal (info/warn/error) and verbose
// (includes debug). A Logger and all loggers derived from it through
// Named share one level, so changing it on the root affects them all.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Level controls the verbosity of the logger.
type Level int32

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use,
// and calling them on a nil *Logger is a no-op.
type Logger struct {
	level  *atomic.Int32
	prefix string
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	flags := log.Ltime | log.Lmicroseconds
	lvl := new(atomic.Int32)
	lvl.Store(int32(level))

	return &Logger{
		level:  lvl,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

// Named returns a child logger whose messages are prefixed with
// "name: ". The child shares the parent's level and outputs.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	child := *l
	child.prefix = l.prefix + name + ": "
	return &child
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.level.Store(int32(level))
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	if l == nil {
		return LevelOff
	}
	return Level(l.level.Load())
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.output(LevelVerbose, func(l *Logger) *log.Logger { return l.debug }, format, args)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.output(LevelNormal, func(l *Logger) *log.Logger { return l.info }, format, args)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.output(LevelNormal, func(l *Logger) *log.Logger { return l.warn }, format, args)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.output(LevelNormal, func(l *Logger) *log.Logger { return l.errLog }, format, args)
}

func (l *Logger) output(min Level, pick func(*Logger) *log.Logger, format string, args []any) {
	if l == nil || l.GetLevel() < min {
		return
	}
	// calldepth 3: output <- Debug/Info/... <- caller.
	pick(l).Output(3, l.prefix+fmt.Sprintf(format, args...))
}
