// Package logging decouples the rest of the codebase from the concrete
// logging framework. Components receive a Logger; nothing holds a mutable
// package-level logger.
package logging

// Logger is the structured logging interface used throughout the pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger with an error field attached.
	WithError(err error) Logger

	// WithField returns a logger with a single field attached.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger with multiple fields attached.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}
