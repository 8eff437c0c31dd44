// Package shell runs command lines against the paper store and keeps the
// state file and audit log in step with what each line changed.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/marcelocantos/reason/internal/audit"
	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/pipeline"
	"github.com/marcelocantos/reason/internal/render"
	"github.com/marcelocantos/reason/internal/store"
)

// Session owns one store and runs lines against it one at a time.
type Session struct {
	mu     sync.Mutex
	exec   *pipeline.Executor
	store  *store.Store
	cfg    *config.Config
	logger *log.Logger
	audit  *audit.Logger
	source string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithAudit records every executed line in a. A nil logger disables auditing.
func WithAudit(a *audit.Logger) Option {
	return func(s *Session) { s.audit = a }
}

// WithSource tags audit entries with where the line came from.
func WithSource(source string) Option {
	return func(s *Session) { s.source = source }
}

// New returns a session running lines from reg against st.
func New(reg *command.Registry, st *store.Store, cfg *config.Config, opts ...Option) *Session {
	s := &Session{
		exec:   pipeline.NewExecutor(reg),
		store:  st,
		cfg:    cfg,
		logger: log.New(io.Discard),
		source: "shell",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open loads the store from cfg.StatePath and returns a session over it.
func Open(reg *command.Registry, cfg *config.Config, opts ...Option) (*Session, error) {
	st, err := store.Load(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	return New(reg, st, cfg, opts...), nil
}

// Registry returns the commands the session resolves against.
func (s *Session) Registry() *command.Registry {
	return s.exec.Registry()
}

// Execute runs one line and returns its rendered output.
//
// Changes are written to the state file whenever the store is dirty
// afterwards, including when a later stage failed. Errors from the line are
// returned unchanged; command.ErrExitRequested is left to the caller.
func (s *Session) Execute(ctx context.Context, line string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	chain := pipeline.Tokenize(line)

	out, err := s.exec.Run(ctx, chain, s.store, s.cfg)
	var text string
	if err == nil {
		text, err = render.Output(out, s.store, s.cfg)
	}

	changed := s.store.Dirty()
	if changed {
		if serr := s.store.Save(s.cfg.StatePath); serr != nil {
			s.logger.Error("save state", "path", s.cfg.StatePath, "err", serr)
			if err == nil {
				err = fmt.Errorf("save state: %w", serr)
			}
		}
	}

	elapsed := time.Since(start)
	names := commandNames(chain)
	s.logger.Debug("executed", "line", line, "commands", names, "changed", changed, "duration", elapsed)
	if len(names) > 0 || err != nil {
		s.record(line, names, err, changed, elapsed)
	}
	return text, err
}

func (s *Session) record(line string, names []string, err error, changed bool, elapsed time.Duration) {
	if s.audit == nil {
		return
	}
	if errors.Is(err, command.ErrExitRequested) {
		err = nil
	}
	rerr := s.audit.Log(audit.Record{
		Line:     line,
		Commands: names,
		Source:   s.source,
		Err:      err,
		Changed:  changed,
		Duration: elapsed,
	})
	if rerr != nil {
		s.logger.Warn("audit", "path", s.audit.Path(), "err", rerr)
	}
}

// Loop reads lines from in until EOF, an exit command, or ctx is done.
// Output and errors are written to out, each followed by a newline.
//
// Lines are read on a separate goroutine so a cancelled ctx ends the loop
// while it waits at the prompt. A line that arrives after cancellation is
// not run.
func (s *Session) Loop(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines, done := readLines(readCtx, in)
	for {
		fmt.Fprint(out, s.cfg.Prompt)

		var line string
		select {
		case <-ctx.Done():
			s.endPrompt(out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				s.endPrompt(out)
				return <-done
			}
			line = l
		}
		if err := ctx.Err(); err != nil {
			s.endPrompt(out)
			return err
		}

		text, err := s.Execute(ctx, line)
		switch {
		case errors.Is(err, command.ErrExitRequested):
			return nil
		case err != nil:
			fmt.Fprintln(out, render.Error(err, s.cfg.Display))
		case text != "":
			fmt.Fprintln(out, text)
		}
	}
}

// endPrompt moves past a prompt that will get no input.
func (s *Session) endPrompt(out io.Writer) {
	if s.cfg.Prompt != "" {
		fmt.Fprintln(out)
	}
}

// readLines scans in on its own goroutine. The line channel is closed when
// scanning stops; done then carries the scan error, or ctx's error if ctx
// ended first.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	done := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				done <- ctx.Err()
				return
			}
		}
		done <- sc.Err()
	}()
	return lines, done
}

// commandNames lists the command of each segment. Blank lines and comments
// have none.
func commandNames(chain pipeline.Chain) []string {
	if len(chain) == 0 || chain[0].Name() == pipeline.CommentMarker {
		return nil
	}
	var names []string
	for _, seg := range chain {
		if name := seg.Name(); name != "" {
			names = append(names, name)
		}
	}
	return names
}
