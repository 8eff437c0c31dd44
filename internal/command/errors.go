package command

import (
	"errors"
	"fmt"
)

// ErrExitRequested is returned by a handler to end the shell session.
// It is a control signal rather than a failure; the shell loop exits cleanly.
var ErrExitRequested = errors.New("exit requested")

// UnknownCommandError reports a command name with no registered handler.
type UnknownCommandError struct {
	Name       string
	Suggestion string // closest registered name, if any is close enough
}

func (e *UnknownCommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown command: %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown command: %q", e.Name)
}

// KindMismatchError reports a prior output a handler cannot consume.
type KindMismatchError struct {
	Command string
	Want    Kind
	Got     Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s from the previous command, got %s", e.Command, e.Want, e.Got)
}

// UsageError reports malformed arguments to a command.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("%s: %s (usage: %s %s)", e.Command, e.Reason, e.Command, e.Usage)
}

// Usagef builds a UsageError for h.
func Usagef(h Handler, format string, args ...any) error {
	return &UsageError{Command: h.Name(), Usage: h.Usage(), Reason: fmt.Sprintf(format, args...)}
}
