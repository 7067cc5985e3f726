package automation

import (
	"context"
	"time"

	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/match"
	"github.com/rmacedo/rotinactl/internal/rotina"
	"github.com/rmacedo/rotinactl/internal/screen"
)

// WaitOptions configures WaitForCondition
type WaitOptions struct {
	// Timeout bounds the wait. Zero evaluates the condition exactly once,
	// synchronously, with no waiting at all.
	Timeout time.Duration

	// RaiseOnTimeout turns an expired wait into a TimeoutError instead of
	// a false result
	RaiseOnTimeout bool

	// CaseSensitive switches condition matching (insensitive by default)
	CaseSensitive bool

	// Region restricts the screen area evaluated; nil means full screen
	Region *screen.Region

	// PromptOnFailure pauses the rotina on timeout and asks the operator
	// whether to continue or abort
	PromptOnFailure bool
}

// WaitForCondition blocks until the targets appear in the selected region,
// the timeout expires, or the rotina is stopped. Screen-update events and a
// cooperative poll race each other; a stop observed during a poll tick always
// wins over a simultaneous success or expiry.
func (a *Automator) WaitForCondition(ctx context.Context, targets any, opts WaitOptions) (bool, error) {
	check := func() (bool, error) {
		text := a.reader.RegionText(opts.Region)
		return match.Match(targets, text, match.Options{CaseSensitive: opts.CaseSensitive})
	}

	// Timeout zero: evaluate once, no waiting
	if opts.Timeout == 0 {
		return check()
	}

	if ok, err := check(); err != nil || ok {
		return ok, err
	}

	updates, cancel := a.term.Updates()
	defer cancel()

	deadline := time.Now().Add(opts.Timeout)
	ticker := time.NewTicker(constants.StatePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()

		case <-updates:
			// cancellation takes priority over a simultaneous match, and a
			// pause suspends matching even for updates arriving mid-pause
			switch a.rotina.Status() {
			case rotina.Stopped:
				return false, rotina.Cancelled("")
			case rotina.Paused:
				pausedAt := time.Now()
				if err := a.rotina.Check(ctx); err != nil {
					return false, err
				}
				deadline = deadline.Add(time.Since(pausedAt))
				continue
			}
			if ok, err := check(); err != nil || ok {
				return ok, err
			}

		case <-ticker.C:
			switch a.rotina.Status() {
			case rotina.Stopped:
				return false, rotina.Cancelled("")
			case rotina.Paused:
				// the wall clock freezes while the rotina is paused
				pausedAt := time.Now()
				if err := a.rotina.Check(ctx); err != nil {
					return false, err
				}
				deadline = deadline.Add(time.Since(pausedAt))
				continue
			}

			if ok, err := check(); err != nil || ok {
				return ok, err
			}
			if time.Now().After(deadline) {
				return a.waitExpired(ctx, targets, opts)
			}
		}
	}
}

// waitExpired resolves an expired wait according to the configured policy
func (a *Automator) waitExpired(ctx context.Context, targets any, opts WaitOptions) (bool, error) {
	if opts.PromptOnFailure && a.prompt != nil {
		a.rotina.RequestPause()
		if a.prompt.Confirm("Expected screen content did not appear. Continue the rotina?") {
			a.rotina.Resume()
			return false, nil
		}
		a.rotina.RequestStop()
		return false, rotina.Cancelled("operator aborted after wait timeout")
	}

	if opts.RaiseOnTimeout {
		return false, &TimeoutError{What: "screen condition", Timeout: opts.Timeout}
	}
	return false, nil
}

// WaitForTerminalReady waits for any screen-update event. When none arrives
// within the timeout the rotina is paused and the operator chooses between
// cancelling, waiting longer, or forcing the step through; the prompt is
// dismissed automatically if the screen changes underneath it.
func (a *Automator) WaitForTerminalReady(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = constants.ReadyTimeout
	}

	updates, cancel := a.term.Updates()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-updates:
			return nil
		case <-time.After(timeout):
			a.rotina.RequestPause()
			choice, dismissed := a.chooseOrDismiss(ctx, updates,
				"The terminal session is not responding.",
				ChoiceCancel, ChoiceWait, ChoiceContinue)
			a.rotina.Resume()

			if dismissed {
				// screen activity resolved the stall
				return nil
			}
			switch choice {
			case ChoiceCancel:
				a.rotina.RequestStop()
				return rotina.Cancelled("terminal unresponsive")
			case ChoiceContinue:
				return nil
			default:
				// keep waiting: loop for another timeout window
			}
		}
	}
}

// chooseOrDismiss shows a modal while also watching the update stream. The
// second return is true when a screen update dismissed the prompt before the
// operator answered.
func (a *Automator) chooseOrDismiss(ctx context.Context, updates <-chan struct{}, msg string, options ...string) (string, bool) {
	if a.prompt == nil {
		return ChoiceWait, false
	}

	// the answer channel is buffered: a prompter without a real Dismiss (the
	// console one blocks on stdin) keeps its goroutine parked until the
	// operator eventually answers, and that late answer is dropped here
	answer := make(chan string, 1)
	go func() {
		answer <- a.prompt.Choose(msg, options...)
	}()

	select {
	case <-ctx.Done():
		return ChoiceCancel, false
	case <-updates:
		if d, ok := a.prompt.(Dismisser); ok {
			d.Dismiss()
		}
		return "", true
	case choice := <-answer:
		return choice, false
	}
}
