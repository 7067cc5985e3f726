// Package rotina tracks the execution state of the one rotina (user-authored
// automation script) that may run at a time. Every action primitive consults
// the controller before and during blocking waits; stopping is cooperative,
// observed at these check points rather than preemptively.
package rotina

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rmacedo/rotinactl/internal/constants"
)

// Status is the lifecycle state of the current rotina
type Status int

const (
	// Idle means no rotina is executing
	Idle Status = iota
	// Running means a rotina is executing normally
	Running
	// Paused means execution is suspended until resumed or stopped
	Paused
	// Stopped means the operator cancelled the rotina
	Stopped
)

// String returns a human-readable representation of the status
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CancelledError signals that the operator stopped the rotina. It always
// propagates to the rotina runner unmodified; intermediate primitives never
// swallow it.
type CancelledError struct {
	Reason string
}

func (e *CancelledError) Error() string {
	if e.Reason == "" {
		return "rotina cancelled by operator"
	}
	return fmt.Sprintf("rotina cancelled: %s", e.Reason)
}

// Cancelled creates a CancelledError with an optional reason
func Cancelled(reason string) error {
	return &CancelledError{Reason: reason}
}

// IsCancelled reports whether err is (or wraps) a cancellation
func IsCancelled(err error) bool {
	var ce *CancelledError
	return errors.As(err, &ce)
}

// Controller holds the process-wide rotina state. Exactly one rotina may be
// active; starting a second one fails instead of racing the first (hard
// single-session invariant).
type Controller struct {
	mu     sync.Mutex
	status Status
	name   string
}

// NewController creates an idle controller
func NewController() *Controller {
	return &Controller{status: Idle}
}

// Begin marks a rotina as running. It fails while another one is active.
func (c *Controller) Begin(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == Running || c.status == Paused {
		return fmt.Errorf("rotina %q is already active", c.name)
	}
	c.status = Running
	c.name = name
	return nil
}

// Finish resets the controller to idle, whatever the outcome was
func (c *Controller) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Idle
	c.name = ""
}

// Status returns the current status
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Name returns the active rotina's name, if any
func (c *Controller) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Active reports whether a rotina is running or paused
func (c *Controller) Active() bool {
	s := c.Status()
	return s == Running || s == Paused
}

// RequestPause suspends a running rotina at its next check point
func (c *Controller) RequestPause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Running {
		c.status = Paused
	}
}

// Resume restores a paused rotina to running
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Paused {
		c.status = Running
	}
}

// RequestStop cancels the active rotina; the cancellation is observed at the
// next check point.
func (c *Controller) RequestStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Running || c.status == Paused {
		c.status = Stopped
	}
}

// Check is the state check every primitive runs before side effects. It
// no-ops when no rotina is active, spins while paused, and returns a
// CancelledError when stopped.
func (c *Controller) Check(ctx context.Context) error {
	for {
		switch c.Status() {
		case Idle, Running:
			return nil
		case Stopped:
			return Cancelled("")
		case Paused:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(constants.StatePollInterval):
			}
		}
	}
}
