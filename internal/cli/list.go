package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
)

// RunCommands lists the registered commands with their usage.
func RunCommands(reg *command.Registry, w io.Writer) int {
	for _, c := range reg.All() {
		fmt.Fprintf(w, "%-8s %s\n", c.Name(), c.Description())
		if u := strings.TrimSpace(c.Usage()); u != "" {
			fmt.Fprintf(w, "%-8s   %s %s\n", "", c.Name(), u)
		}
	}
	return ExitOK
}
