package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/marcelocantos/reason/internal/audit"
	"github.com/marcelocantos/reason/internal/config"
)

// RunAuditVerify checks the hash chain of the audit log at path.
func RunAuditVerify(w io.Writer, path string) int {
	n, err := audit.Verify(path)
	if err != nil {
		var ce *audit.ChainError
		if errors.As(err, &ce) {
			fmt.Fprintf(w, "audit verification FAILED after %d good entries: %v\n", n, err)
		} else {
			fmt.Fprintf(w, "reason audit: %v\n", err)
		}
		return ExitError
	}
	fmt.Fprintf(w, "audit log integrity verified (%d entries)\n", n)
	return ExitOK
}

// RunAuditShow prints the last n audit entries as a table.
func RunAuditShow(w io.Writer, path string, n int, d config.DisplayConfig) int {
	entries, err := audit.Tail(path, n)
	if err != nil {
		fmt.Fprintf(w, "reason audit: %v\n", err)
		return ExitError
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no audit entries")
		return ExitOK
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		changed := ""
		if e.Changed {
			changed = "yes"
		}
		rows[i] = []string{
			fmt.Sprint(e.Seq),
			e.Time.Local().Format("2006-01-02 15:04:05"),
			e.Source,
			e.Line,
			changed,
			fmt.Sprintf("%.1fms", e.Duration),
			e.Error,
		}
	}

	headerStyle := lipgloss.NewStyle().Padding(0, 1)
	if d.Color {
		headerStyle = headerStyle.Bold(true)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SEQ", "TIME", "SOURCE", "LINE", "CHANGED", "TOOK", "ERROR").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, strings.TrimRight(t.String(), "\n"))
	return ExitOK
}
