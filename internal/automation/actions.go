package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/screen"
	"github.com/rmacedo/rotinactl/internal/term"
)

// Type injects text into the terminal's input stream. With verify set it
// re-locates the text inside the digitable fields within the verify timeout
// and fails with a VerificationError when it never shows up; cancellations
// raised during the wait propagate unchanged.
func (a *Automator) Type(ctx context.Context, text string, verify bool) error {
	if err := a.rotina.Check(ctx); err != nil {
		return err
	}

	a.log.Debug("Typing text", "length", len(text), "verify", verify)
	if err := a.term.WriteInput([]byte(text)); err != nil {
		return fmt.Errorf("failed to inject text: %w", err)
	}

	if !verify {
		return a.WaitForTerminalReady(ctx, 0)
	}

	found, err := a.WaitForCondition(ctx, text, WaitOptions{
		Timeout:       constants.VerifyTimeout,
		CaseSensitive: true,
		Region:        &screen.Region{FieldsOnly: true},
	})
	if err != nil {
		return err
	}
	if !found {
		return &VerificationError{Expected: text}
	}
	return nil
}

// PressKey injects a named key's escape sequence after the standard step
// delay and waits for the terminal to react. Unknown key names are logged
// and ignored.
func (a *Automator) PressKey(ctx context.Context, name string) error {
	if err := a.rotina.Check(ctx); err != nil {
		return err
	}

	seq, ok := term.KeySequence(name)
	if !ok {
		a.log.Warn("Ignoring unknown key", "key", name)
		return nil
	}

	if err := a.Sleep(ctx, a.stepDelay); err != nil {
		return err
	}
	a.log.Debug("Pressing key", "key", name)
	if err := a.term.WriteInput([]byte(seq)); err != nil {
		return fmt.Errorf("failed to inject key %q: %w", name, err)
	}
	return a.WaitForTerminalReady(ctx, 0)
}

// Click emulates a left mouse click at the given 1-based position
func (a *Automator) Click(ctx context.Context, row, col int) error {
	if err := a.rotina.Check(ctx); err != nil {
		return err
	}

	if row < 1 || col < 1 {
		return fmt.Errorf("invalid click position (%d, %d): coordinates are 1-based", row, col)
	}

	a.log.Debug("Clicking", "row", row, "col", col)
	if err := a.term.WriteInput([]byte(term.MouseClickSequence(row, col))); err != nil {
		return fmt.Errorf("failed to inject click: %w", err)
	}
	return a.WaitForTerminalReady(ctx, 0)
}

// Sleep waits the given duration (the step delay when zero or negative) in
// short slices, re-checking the rotina state each slice so a stop request
// interrupts even a long wait almost immediately.
func (a *Automator) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = a.stepDelay
	}

	deadline := time.Now().Add(d)
	for {
		if err := a.rotina.Check(ctx); err != nil {
			return err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		slice := constants.SleepSliceInterval
		if remaining < slice {
			slice = remaining
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(slice):
		}
	}
}
