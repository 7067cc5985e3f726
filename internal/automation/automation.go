// Package automation exposes the scripted-interaction primitives: typing,
// key presses, clicks, field positioning, clipboard copies, region capture
// and the wait/poll engine that synchronizes them with screen repaints. All
// primitives run the rotina state check before side effects, so pause and
// stop requests are honored between steps and inside blocking waits.
package automation

import (
	"fmt"
	"time"

	"github.com/rmacedo/rotinactl/internal/constants"
	"github.com/rmacedo/rotinactl/internal/logging"
	"github.com/rmacedo/rotinactl/internal/rotina"
	"github.com/rmacedo/rotinactl/internal/screen"
	"github.com/rmacedo/rotinactl/internal/term"
)

// Prompter is the modal/notification provider the engine reports through
type Prompter interface {
	// Notify shows a transient, non-blocking notification
	Notify(msg string)

	// Confirm shows a blocking yes/no dialog
	Confirm(msg string) bool

	// Choose shows a multi-button modal and returns the chosen option
	Choose(msg string, options ...string) string
}

// Dismisser is optionally implemented by prompters whose pending modal can
// be withdrawn (used when screen activity resolves a prompt on its own).
type Dismisser interface {
	Dismiss()
}

// Clipboard abstracts the system clipboard
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// Choices offered when the terminal stops responding
const (
	ChoiceCancel   = "cancel rotina"
	ChoiceWait     = "keep waiting"
	ChoiceContinue = "continue anyway"
)

// VerificationError reports text that never appeared after typing. It is
// distinct from a cancellation so callers can tell "cancelled" from "failed".
type VerificationError struct {
	Expected string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("typed text %q was not confirmed on screen", e.Expected)
}

// TimeoutError reports a wait that expired with RaiseOnTimeout set
type TimeoutError struct {
	What    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %s", e.Timeout, e.What)
}

// LabelNotFoundError reports a positioning label that never appeared
type LabelNotFoundError struct {
	Label string
}

func (e *LabelNotFoundError) Error() string {
	return fmt.Sprintf("label %q not found on screen", e.Label)
}

// Config assembles an Automator
type Config struct {
	Terminal  term.Terminal
	Rotina    *rotina.Controller
	Prompter  Prompter
	Clipboard Clipboard

	// StepDelay is the standard delay between scripted actions
	StepDelay time.Duration

	// Session identifies the terminal session in log records
	Session string
}

// Automator drives a terminal session programmatically. It is the facade the
// rotina executor and the login flow controller call into.
type Automator struct {
	term      term.Terminal
	reader    *screen.Reader
	rotina    *rotina.Controller
	prompt    Prompter
	clip      Clipboard
	stepDelay time.Duration
	log       *logging.ContextualLogger
}

// New creates an Automator from the given configuration
func New(cfg Config) *Automator {
	delay := cfg.StepDelay
	if delay <= 0 {
		delay = constants.DefaultStepDelay
	}
	ctrl := cfg.Rotina
	if ctrl == nil {
		ctrl = rotina.NewController()
	}
	return &Automator{
		term:      cfg.Terminal,
		reader:    screen.NewReader(cfg.Terminal),
		rotina:    ctrl,
		prompt:    cfg.Prompter,
		clip:      cfg.Clipboard,
		stepDelay: delay,
		log:       logging.NewContextualLogger(cfg.Session, "automation"),
	}
}

// Reader returns the screen reader bound to the automator's terminal
func (a *Automator) Reader() *screen.Reader {
	return a.reader
}

// Terminal returns the underlying terminal session
func (a *Automator) Terminal() term.Terminal {
	return a.term
}

// Rotina returns the rotina state controller
func (a *Automator) Rotina() *rotina.Controller {
	return a.rotina
}

// StepDelay returns the configured delay between scripted actions
func (a *Automator) StepDelay() time.Duration {
	return a.stepDelay
}

// notify reports through the prompter when one is configured
func (a *Automator) notify(msg string) {
	if a.prompt != nil {
		a.prompt.Notify(msg)
	} else {
		logging.UserInfo("%s", msg)
	}
}
