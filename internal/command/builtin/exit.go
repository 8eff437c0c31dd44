package builtin

import (
	"context"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// Exit ends the shell. It is registered as both exit and quit.
type Exit struct {
	name string
}

var _ command.Handler = (*Exit)(nil)

func (e *Exit) Name() string        { return e.name }
func (e *Exit) Description() string { return "leave the shell" }
func (e *Exit) Usage() string       { return "" }

func (e *Exit) Run(context.Context, command.Input, *store.Store, *config.Config) (command.Output, error) {
	return nil, command.ErrExitRequested
}
