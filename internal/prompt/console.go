// Package prompt provides the interactive console implementation of the
// engine's notification and modal ports.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/rmacedo/rotinactl/internal/login"
)

// Console prompts the operator on stdin/stdout
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a console prompter on the process's standard streams
func NewConsole() *Console {
	return &Console{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// Notify prints a transient notification
func (c *Console) Notify(msg string) {
	fmt.Fprintf(c.out, "%s %s\n", color.CyanString("»"), msg)
}

// Confirm asks a yes/no question, defaulting to no
func (c *Console) Confirm(msg string) bool {
	fmt.Fprintf(c.out, "%s %s [y/N]: ", color.YellowString("?"), msg)
	answer, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// Choose presents numbered options and returns the chosen one. An empty or
// unreadable answer picks the first option.
func (c *Console) Choose(msg string, options ...string) string {
	if len(options) == 0 {
		return ""
	}

	fmt.Fprintf(c.out, "%s %s\n", color.YellowString("?"), msg)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprintf(c.out, "Choice [1]: ")

	answer, err := c.in.ReadString('\n')
	if err != nil {
		return options[0]
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return options[0]
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return options[0]
	}
	return options[n-1]
}

// SelectSystem collects the application, user and password for a login.
// Quick-login offers the cached credentials first; declining them falls
// through to a full prompt. Returning ok=false means the operator wants to
// log in by hand.
func (c *Console) SelectSystem(defaults login.Selection, quickLogin bool) (login.Selection, bool) {
	if quickLogin {
		msg := fmt.Sprintf("Log in as %s with the saved password?", defaults.User)
		if c.Confirm(msg) {
			if defaults.Application == "" {
				defaults.Application = c.ask("Application", "")
			}
			return defaults, true
		}
	}

	sel := login.Selection{}
	sel.Application = c.ask("Application", defaults.Application)
	sel.User = c.ask("User", defaults.User)
	if sel.User == "" {
		return login.Selection{}, false
	}

	pass, err := c.askPassword("Password")
	if err != nil || pass == "" {
		return login.Selection{}, false
	}
	sel.Pass = pass
	sel.Save = c.Confirm("Save this password for quick login?")
	return sel, true
}

// ask reads one line with an optional default
func (c *Console) ask(label, def string) string {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}
	answer, err := c.in.ReadString('\n')
	if err != nil {
		return def
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}

// askPassword reads a password without echo when stdin is a terminal
func (c *Console) askPassword(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	answer, err := c.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
