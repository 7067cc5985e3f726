package logging

import "time"

// Timer measures a named operation for structured logging
type Timer struct {
	operation string
	session   string
	start     time.Time
}

// StartTimer begins timing an operation
func StartTimer(operation, session string) *Timer {
	Debug("Operation started", "operation", operation, "session", session)
	return &Timer{
		operation: operation,
		session:   session,
		start:     time.Now(),
	}
}

// Stop logs the operation's duration
func (t *Timer) Stop() {
	Debug("Operation completed",
		"operation", t.operation,
		"session", t.session,
		"duration", time.Since(t.start))
}

// StopWithError logs the operation's failure and duration
func (t *Timer) StopWithError(err error, details map[string]any) {
	args := []any{
		"operation", t.operation,
		"session", t.session,
		"duration", time.Since(t.start),
		"error", err,
	}
	for k, v := range details {
		args = append(args, k, v)
	}
	Error("Operation failed", args...)
}

// LogOperation runs fn, logging its start, outcome and duration
func LogOperation(operation, session string, fn func() error) error {
	timer := StartTimer(operation, session)
	if err := fn(); err != nil {
		timer.StopWithError(err, nil)
		return err
	}
	timer.Stop()
	return nil
}
