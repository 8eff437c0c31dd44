package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Help struct {
	reg *command.Registry
}

var _ command.Handler = (*Help)(nil)

func (h *Help) Name() string        { return "help" }
func (h *Help) Description() string { return "list commands, or show usage for one" }
func (h *Help) Usage() string       { return "[COMMAND]" }

func (h *Help) Run(_ context.Context, in command.Input, _ *store.Store, _ *config.Config) (command.Output, error) {
	params := in.Params()
	switch len(params) {
	case 0:
		return command.Message{Text: Overview(h.reg)}, nil
	case 1:
		c, err := h.reg.Resolve(params[0])
		if err != nil {
			return nil, err
		}
		usage := strings.TrimSpace(c.Name() + " " + c.Usage())
		return command.Message{Text: fmt.Sprintf("%s - %s\nusage: %s", c.Name(), c.Description(), usage)}, nil
	default:
		return nil, command.Usagef(h, "too many arguments")
	}
}

// Overview lists every command in reg with its description, followed by a
// short note on pipes and quoting.
func Overview(reg *command.Registry) string {
	var b strings.Builder
	fmt.Fprintln(&b, "commands:")
	for _, c := range reg.All() {
		fmt.Fprintf(&b, "  %-8s %s\n", c.Name(), c.Description())
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "chain commands with |, e.g. ls by Chung | tag energy")
	fmt.Fprintln(&b, "quote arguments containing spaces or pipes with '...'; \\' is a literal quote")
	fmt.Fprint(&b, "lines starting with # are comments")
	return b.String()
}
