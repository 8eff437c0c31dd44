package builtin

import (
	"context"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Ls struct{}

var _ command.Handler = (*Ls)(nil)

func (l *Ls) Name() string        { return "ls" }
func (l *Ls) Description() string { return "list papers, optionally filtered" }
func (l *Ls) Usage() string {
	return "[PATTERN] [by AUTHOR] [at VENUE] [in YEAR] [with TAG]"
}

func (l *Ls) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	f, err := store.ParseFilter(in.Params())
	if err != nil {
		return nil, command.Usagef(l, "%v", err)
	}
	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}
	return command.Papers{IDs: f.Select(ps)}, nil
}
