package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Show struct{}

var _ command.Handler = (*Show)(nil)

func (s *Show) Name() string        { return "show" }
func (s *Show) Description() string { return "show every field of piped or matching papers" }
func (s *Show) Usage() string       { return "[PATTERN] [by AUTHOR] [at VENUE] [in YEAR] [with TAG]" }

func (s *Show) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	f, err := store.ParseFilter(in.Params())
	if err != nil {
		return nil, command.Usagef(s, "%v", err)
	}
	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	n := 0
	for _, p := range ps {
		if !f.Match(p) {
			continue
		}
		if n > 0 {
			b.WriteByte('\n')
		}
		n++
		describe(&b, p)
	}
	if n == 0 {
		return command.Message{Text: "no papers"}, nil
	}
	return command.Message{Text: strings.TrimRight(b.String(), "\n")}, nil
}

func describe(b *strings.Builder, p store.Paper) {
	fmt.Fprintln(b, p.Title)
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(b, "  %-9s %s\n", name+":", value)
		}
	}
	field("nickname", p.Nickname)
	field("authors", strings.Join(p.Authors, ", "))
	field("venue", p.Venue)
	if p.Year != 0 {
		field("year", fmt.Sprint(p.Year))
	}
	field("tags", strings.Join(p.Tags, ", "))
	field("file", p.Filepath)
	field("notes", p.Notes)
	field("added", p.Added.Format("2006-01-02"))
	field("id", p.ID)
}
