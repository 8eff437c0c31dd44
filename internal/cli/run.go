// Package cli implements the reason subcommands on top of a shell session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/render"
	"github.com/marcelocantos/reason/internal/shell"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
)

// RunOnce executes a single line: reason -c LINE
func RunOnce(ctx context.Context, sess *shell.Session, d config.DisplayConfig, line string, stdout, stderr io.Writer) int {
	out, err := sess.Execute(ctx, line)
	if errors.Is(err, command.ErrExitRequested) {
		return ExitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, render.Error(err, d))
		return ExitError
	}
	if out != "" {
		fmt.Fprintln(stdout, out)
	}
	return ExitOK
}

// RunShell reads lines from in until EOF or exit.
func RunShell(ctx context.Context, sess *shell.Session, in io.Reader, out, stderr io.Writer) int {
	err := sess.Loop(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) {
		return ExitOK
	}
	fmt.Fprintf(stderr, "reason: %v\n", err)
	return ExitError
}
