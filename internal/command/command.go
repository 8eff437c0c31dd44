package command

import (
	"context"
	"fmt"

	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// Handler is the interface every command must implement.
type Handler interface {
	// Name returns the command name typed at the prompt.
	Name() string

	// Description returns a one-line summary for help output.
	Description() string

	// Usage returns the argument synopsis, without the command name.
	Usage() string

	// Run executes the command. in.Args[0] is the command's own name.
	// in.Prior is nil when the command is the first stage of a chain.
	// Handlers must not retain in after returning.
	Run(ctx context.Context, in Input, st *store.Store, cfg *config.Config) (Output, error)
}

// Input is what a handler receives for one invocation.
type Input struct {
	Args  []string
	Prior Output
}

// First reports whether this is the first stage of a chain.
func (in Input) First() bool { return in.Prior == nil }

// Params returns the arguments after the command name.
func (in Input) Params() []string {
	if len(in.Args) <= 1 {
		return nil
	}
	return in.Args[1:]
}

// Kind tags the variants of Output.
type Kind int

const (
	KindNone Kind = iota
	KindPapers
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "nothing"
	case KindPapers:
		return "papers"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Output is a handler result. The set of variants is closed: None, Papers
// and Message.
type Output interface {
	Kind() Kind
	sealed()
}

// None is the empty result of a silent success.
type None struct{}

// Papers references records in the store by id, in display order.
type Papers struct {
	IDs []string
}

// Message is text meant for display.
type Message struct {
	Text string
}

func (None) Kind() Kind    { return KindNone }
func (Papers) Kind() Kind  { return KindPapers }
func (Message) Kind() Kind { return KindMessage }

func (None) sealed()    {}
func (Papers) sealed()  {}
func (Message) sealed() {}

// PriorPapers returns the paper ids handed to in by the previous stage.
// ok is false for the first stage. A prior output of any other kind is a
// *KindMismatchError naming the receiving command.
func PriorPapers(in Input) (ids []string, ok bool, err error) {
	if in.Prior == nil {
		return nil, false, nil
	}
	p, isPapers := in.Prior.(Papers)
	if !isPapers {
		return nil, false, &KindMismatchError{Command: commandName(in), Want: KindPapers, Got: in.Prior.Kind()}
	}
	return p.IDs, true, nil
}

func commandName(in Input) string {
	if len(in.Args) == 0 {
		return ""
	}
	return in.Args[0]
}
