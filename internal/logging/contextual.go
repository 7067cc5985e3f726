package logging

import "log/slog"

// ContextualLogger wraps the default logger with session and component
// attributes so every record from one subsystem carries the same context.
type ContextualLogger struct {
	session   string
	component string
}

// NewContextualLogger creates a logger bound to a session id and component name
func NewContextualLogger(session, component string) *ContextualLogger {
	return &ContextualLogger{session: session, component: component}
}

func (c *ContextualLogger) args(extra []any) []any {
	base := []any{"session", c.session, "component", c.component}
	return append(base, extra...)
}

// Debug logs a debug message with the bound context
func (c *ContextualLogger) Debug(msg string, args ...any) {
	slog.Debug(msg, c.args(args)...)
}

// Info logs an info message with the bound context
func (c *ContextualLogger) Info(msg string, args ...any) {
	slog.Info(msg, c.args(args)...)
}

// Warn logs a warning message with the bound context
func (c *ContextualLogger) Warn(msg string, args ...any) {
	slog.Warn(msg, c.args(args)...)
}

// Error logs an error message with the bound context
func (c *ContextualLogger) Error(msg string, args ...any) {
	slog.Error(msg, c.args(args)...)
}
