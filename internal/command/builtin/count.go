package builtin

import (
	"context"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Count struct{}

var _ command.Handler = (*Count)(nil)

func (c *Count) Name() string        { return "count" }
func (c *Count) Description() string { return "count piped papers, or the whole collection" }
func (c *Count) Usage() string       { return "" }

func (c *Count) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	if len(in.Params()) > 0 {
		return nil, command.Usagef(c, "takes no arguments")
	}
	ids, ok, err := command.PriorPapers(in)
	if err != nil {
		return nil, err
	}
	n := len(ids)
	if !ok {
		n = st.Len()
	}
	return command.Message{Text: plural(n, "paper")}, nil
}
