package builtin

import (
	"context"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Rm struct{}

var _ command.Handler = (*Rm)(nil)

func (r *Rm) Name() string        { return "rm" }
func (r *Rm) Description() string { return "remove piped or matching papers" }
func (r *Rm) Usage() string       { return "[PATTERN] [by AUTHOR] [at VENUE] [in YEAR] [with TAG]" }

func (r *Rm) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	f, err := store.ParseFilter(in.Params())
	if err != nil {
		return nil, command.Usagef(r, "%v", err)
	}
	if in.First() && f.Empty() {
		return nil, command.Usagef(r, "refusing to remove every paper; give a filter or pipe papers in")
	}
	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}
	n := st.Remove(f.Select(ps)...)
	return command.Message{Text: "removed " + plural(n, "paper")}, nil
}
