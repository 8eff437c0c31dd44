package builtin

import (
	"context"
	"strconv"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

const defaultHead = 10

type Head struct{}

var _ command.Handler = (*Head)(nil)

func (h *Head) Name() string        { return "head" }
func (h *Head) Description() string { return "keep the first N papers" }
func (h *Head) Usage() string       { return "[N]" }

func (h *Head) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	n := defaultHead
	switch params := in.Params(); len(params) {
	case 0:
	case 1:
		v, err := strconv.Atoi(params[0])
		if err != nil || v < 0 {
			return nil, command.Usagef(h, "invalid count %q", params[0])
		}
		n = v
	default:
		return nil, command.Usagef(h, "too many arguments")
	}

	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}
	if n < len(ps) {
		ps = ps[:n]
	}
	return command.Papers{IDs: idsOf(ps)}, nil
}
