package builtin

import (
	"fmt"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/store"
)

// NewRegistry returns a registry holding every built-in command.
func NewRegistry() *command.Registry {
	help := &Help{}
	reg := command.NewRegistry(
		&Add{},
		&Count{},
		&Exit{name: "exit"},
		&Exit{name: "quit"},
		&Head{},
		help,
		&Ls{},
		&Open{},
		&Rm{},
		&Set{},
		&Show{},
		&Sort{},
		&Tag{},
		&Untag{},
		&Where{},
	)
	help.reg = reg
	return reg
}

// candidates returns the papers a command operates on: the previous stage's
// papers when piped, otherwise the whole collection.
func candidates(in command.Input, st *store.Store) ([]store.Paper, error) {
	ids, piped, err := command.PriorPapers(in)
	if err != nil {
		return nil, err
	}
	if !piped {
		return st.All(), nil
	}
	return st.Lookup(ids)
}

// piped returns the previous stage's papers, failing when the command is run
// on its own.
func piped(h command.Handler, in command.Input, st *store.Store) ([]store.Paper, error) {
	ids, ok, err := command.PriorPapers(in)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, command.Usagef(h, "needs papers piped in, e.g. ls shadowtutor | %s", h.Name())
	}
	return st.Lookup(ids)
}

func idsOf(ps []store.Paper) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
