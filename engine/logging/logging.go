// Package logging provides the leveled logger shared by the engine packages and the application.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is a leveled logger. Debug output is dropped unless debug is enabled.
type Logger interface {
	// DebugEnabled reports whether Debugf output is emitted.
	DebugEnabled() bool

	// SetDebug toggles Debugf output.
	SetDebug(enabled bool)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes debug and info lines to one writer and warnings and errors to another.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

var _ Logger = &DefaultLogger{}

// NewDefaultLogger creates a logger writing to stdout and stderr.
//
// Parameters:
//   - prefix: tag printed in brackets before the level, omitted when empty
//   - debug: whether Debugf output is emitted
//
// Returns:
//   - *DefaultLogger: the logger
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

// NewWriterLogger creates a logger over arbitrary writers.
func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.line("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.line("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.line("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.line("ERROR", format, args...))
}

func (l *DefaultLogger) line(level, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		return level + ": " + msg
	}
	return "[" + l.prefix + "] " + level + ": " + msg
}

type nopLogger struct{}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool       { return false }
func (nopLogger) SetDebug(bool)            {}
func (nopLogger) Debugf(string, ...any)    {}
func (nopLogger) Infof(string, ...any)     {}
func (nopLogger) Warnf(string, ...any)     {}
func (nopLogger) Errorf(string, ...any)    {}

var (
	defaultOnce   sync.Once
	defaultLogger Logger
)

// Default returns the process-wide logger used when a component is built without WithLogger.
func Default() Logger {
	defaultOnce.Do(func() {
		defaultLogger = NewDefaultLogger("hello-lamp", false)
	})
	return defaultLogger
}

// OrDefault returns l, or Default when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
