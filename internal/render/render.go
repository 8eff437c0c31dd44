// Package render turns command outputs into text for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// Color palette shared by all shell output.
const (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorError   = lipgloss.Color("#EF4444")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	plainCell   = lipgloss.NewStyle().Padding(0, 1)
)

// Output renders out for display. None renders as "".
func Output(out command.Output, st *store.Store, cfg *config.Config) (string, error) {
	switch o := out.(type) {
	case nil, command.None:
		return "", nil
	case command.Message:
		return o.Text, nil
	case command.Papers:
		ps, err := st.Lookup(o.IDs)
		if err != nil {
			return "", err
		}
		return Papers(ps, cfg.Display), nil
	default:
		return "", fmt.Errorf("render: unsupported output %T", out)
	}
}

// Papers renders papers as a table.
func Papers(ps []store.Paper, d config.DisplayConfig) string {
	if len(ps) == 0 {
		return style(d, mutedStyle).Render("no papers")
	}

	rows := make([][]string, len(ps))
	for i, p := range ps {
		year := ""
		if p.Year != 0 {
			year = fmt.Sprint(p.Year)
		}
		rows[i] = []string{
			truncate(p.Title, d.MaxTitleWidth),
			p.Nickname,
			authors(p.Authors),
			p.Venue,
			year,
			strings.Join(p.Tags, ", "),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style(d, mutedStyle)).
		Headers("TITLE", "NICKNAME", "AUTHORS", "VENUE", "YEAR", "TAGS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				if d.Color {
					return headerStyle
				}
				return plainCell
			}
			return cellStyle
		})
	return t.String()
}

// Error renders an error line.
func Error(err error, d config.DisplayConfig) string {
	return style(d, errorStyle).Render("error: ") + err.Error()
}

func style(d config.DisplayConfig, s lipgloss.Style) lipgloss.Style {
	if !d.Color {
		return lipgloss.NewStyle()
	}
	return s
}

// authors abbreviates long author lists to "First et al.".
func authors(as []string) string {
	switch len(as) {
	case 0:
		return ""
	case 1, 2:
		return strings.Join(as, ", ")
	default:
		return as[0] + " et al."
	}
}

// truncate shortens s to at most width runes, marking the cut with "...".
// A width of zero means no limit.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
