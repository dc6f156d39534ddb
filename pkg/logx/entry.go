package logx

import (
	"context"
	"fmt"
)

// Entry allows for building up log entries with multiple fields.
// Entries may be retained (e.g. the per-package Component entries) and
// shared across goroutines: every chainable method returns a derived
// copy and never mutates its receiver.
type Entry struct {
	logger *Logger
	fields Fields
	data   interface{}
	err    error
	ctx    context.Context
}

// newEntry creates a new entry
func newEntry(logger *Logger) *Entry {
	return &Entry{
		logger: logger,
		fields: make(Fields),
	}
}

// clone returns a derived entry with its own fields map
func (e *Entry) clone() *Entry {
	fields := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	return &Entry{
		logger: e.logger,
		fields: fields,
		data:   e.data,
		err:    e.err,
		ctx:    e.ctx,
	}
}

// WithField returns a derived entry with the field added (chainable)
func (e *Entry) WithField(key string, value interface{}) *Entry {
	d := e.clone()
	d.fields[key] = value
	return d
}

// WithFields returns a derived entry with the fields added (chainable)
func (e *Entry) WithFields(fields Fields) *Entry {
	d := e.clone()
	for k, v := range fields {
		d.fields[k] = v
	}
	return d
}

// WithError returns a derived entry with an error field (chainable)
func (e *Entry) WithError(err error) *Entry {
	d := e.clone()
	d.err = err
	if err != nil {
		d.fields["error"] = err.Error()
	}
	return d
}

// WithContext returns a derived entry with context (chainable)
func (e *Entry) WithContext(ctx context.Context) *Entry {
	d := e.clone()
	d.ctx = ctx
	return d
}

// WithStruct returns a derived entry with structured data (chainable)
func (e *Entry) WithStruct(data interface{}) *Entry {
	d := e.clone()
	d.data = data
	return d
}

// Trace logs at trace level
func (e *Entry) Trace(msg string) {
	e.logger.log(LevelTrace, msg, e.fields, e.data, e.err)
}

// Debug logs at debug level
func (e *Entry) Debug(msg string) {
	e.logger.log(LevelDebug, msg, e.fields, e.data, e.err)
}

// Info logs at info level
func (e *Entry) Info(msg string) {
	e.logger.log(LevelInfo, msg, e.fields, e.data, e.err)
}

// Warn logs at warn level
func (e *Entry) Warn(msg string) {
	e.logger.log(LevelWarn, msg, e.fields, e.data, e.err)
}

// Error logs at error level
func (e *Entry) Error(msg string) {
	e.logger.log(LevelError, msg, e.fields, e.data, e.err)
}

// Fatal logs at fatal level and exits
func (e *Entry) Fatal(msg string) {
	e.logger.log(LevelFatal, msg, e.fields, e.data, e.err)
	e.logger.exit(1)
}

// Tracef logs formatted trace message
func (e *Entry) Tracef(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.log(LevelTrace, msg, e.fields, e.data, e.err)
}

// Debugf logs formatted debug message
func (e *Entry) Debugf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.log(LevelDebug, msg, e.fields, e.data, e.err)
}

// Infof logs formatted info message
func (e *Entry) Infof(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.log(LevelInfo, msg, e.fields, e.data, e.err)
}

// Warnf logs formatted warn message
func (e *Entry) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.log(LevelWarn, msg, e.fields, e.data, e.err)
}

// Errorf logs formatted error message
func (e *Entry) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.log(LevelError, msg, e.fields, e.data, e.err)
}

// Fatalf logs formatted fatal message and exits
func (e *Entry) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.log(LevelFatal, msg, e.fields, e.data, e.err)
	e.logger.exit(1)
}
