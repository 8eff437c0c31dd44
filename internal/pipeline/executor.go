package pipeline

import (
	"context"
	"fmt"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// InvalidChainError reports a chain with an empty segment.
type InvalidChainError struct {
	Index  int // position of the first empty segment
	Reason string
}

func (e *InvalidChainError) Error() string {
	return e.Reason
}

// Executor runs chains against a fixed command registry.
type Executor struct {
	reg *command.Registry
}

// NewExecutor returns an executor that resolves command names in reg.
func NewExecutor(reg *command.Registry) *Executor {
	return &Executor{reg: reg}
}

// Registry returns the registry the executor resolves against.
func (e *Executor) Registry() *command.Registry {
	return e.reg
}

// Run executes a chain stage by stage, handing each stage's output to the
// next as its prior output, and returns the last stage's output.
//
// Blank lines and comments succeed with command.None without running
// anything. Every segment is validated and resolved before the first handler
// runs. The first failing handler stops the chain and its error is returned
// as is; changes made to st by earlier stages are kept.
func (e *Executor) Run(ctx context.Context, chain Chain, st *store.Store, cfg *config.Config) (command.Output, error) {
	if len(chain) == 0 {
		return command.None{}, nil
	}
	first := chain[0]
	if len(chain) == 1 && first.Empty() {
		return command.None{}, nil
	}
	if first.Name() == CommentMarker {
		return command.None{}, nil
	}

	if err := Validate(chain); err != nil {
		return nil, err
	}

	handlers := make([]command.Handler, len(chain))
	for i, seg := range chain {
		h, err := e.reg.Resolve(seg.Name())
		if err != nil {
			return nil, err
		}
		handlers[i] = h
	}

	var prior command.Output
	for i, seg := range chain {
		out, err := handlers[i].Run(ctx, command.Input{Args: seg, Prior: prior}, st, cfg)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = command.None{}
		}
		prior = out
	}
	return prior, nil
}

// Validate checks that no segment of a multi-stage chain is empty and that
// every non-empty segment names a command, reporting the position of the
// first offending segment.
func Validate(chain Chain) error {
	last := len(chain) - 1
	for i, seg := range chain {
		if !seg.Empty() {
			if seg.Name() == "" {
				return &InvalidChainError{Index: i, Reason: "missing command name"}
			}
			continue
		}
		if len(chain) < 2 {
			continue
		}
		var reason string
		switch i {
		case 0:
			reason = "command cannot begin with a pipe"
		case last:
			reason = "command cannot end with a pipe"
		default:
			reason = fmt.Sprintf("commands can only be chained with one %c character", OpPipe)
		}
		return &InvalidChainError{Index: i, Reason: reason}
	}
	return nil
}
