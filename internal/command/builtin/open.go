package builtin

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// ViewerError reports a viewer that exited with a non-zero status.
type ViewerError struct {
	Viewer string
	Path   string
	Code   int
}

func (e *ViewerError) Error() string {
	return fmt.Sprintf("%s %s: exited with status %d", e.Viewer, e.Path, e.Code)
}

type Open struct {
	// run launches the viewer; tests replace it.
	run func(ctx context.Context, viewer, path string) error
}

var _ command.Handler = (*Open)(nil)

func (o *Open) Name() string        { return "open" }
func (o *Open) Description() string { return "open piped or matching papers in the configured viewer" }
func (o *Open) Usage() string       { return "[PATTERN] [by AUTHOR] [at VENUE] [in YEAR] [with TAG]" }

func (o *Open) Run(ctx context.Context, in command.Input, st *store.Store, cfg *config.Config) (command.Output, error) {
	f, err := store.ParseFilter(in.Params())
	if err != nil {
		return nil, command.Usagef(o, "%v", err)
	}
	if in.First() && f.Empty() {
		return nil, command.Usagef(o, "give a filter or pipe papers in")
	}
	if cfg.Viewer == "" {
		return nil, command.Usagef(o, "no viewer configured")
	}
	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}

	var targets []store.Paper
	for _, p := range ps {
		if !f.Match(p) {
			continue
		}
		if p.Filepath == "" {
			return nil, command.Usagef(o, "%q has no filepath; set one with: set filepath PATH", p.Title)
		}
		targets = append(targets, p)
	}

	run := o.run
	if run == nil {
		run = runViewer
	}
	for _, p := range targets {
		if err := run(ctx, cfg.Viewer, p.Filepath); err != nil {
			return nil, err
		}
	}
	return command.None{}, nil
}

// runViewer runs the viewer on path and waits for it to exit.
// Non-zero exit codes are returned as *ViewerError.
func runViewer(ctx context.Context, viewer, path string) error {
	cmd := exec.CommandContext(ctx, viewer, path)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ViewerError{Viewer: viewer, Path: path, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("open: %w", err)
	}
	return nil
}
