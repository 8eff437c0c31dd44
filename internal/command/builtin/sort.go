package builtin

import (
	"context"
	"sort"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Sort struct{}

var _ command.Handler = (*Sort)(nil)

func (s *Sort) Name() string        { return "sort" }
func (s *Sort) Description() string { return "sort papers by a field" }
func (s *Sort) Usage() string       { return "[-r] title|year|venue|author|added" }

func (s *Sort) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	params := in.Params()
	reverse := false
	if len(params) > 0 && params[0] == "-r" {
		reverse = true
		params = params[1:]
	}
	if len(params) != 1 {
		return nil, command.Usagef(s, "expected exactly one field")
	}
	less, ok := paperOrder[params[0]]
	if !ok {
		return nil, command.Usagef(s, "unknown field %q", params[0])
	}

	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if reverse {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
	return command.Papers{IDs: idsOf(ps)}, nil
}

var paperOrder = map[string]func(a, b store.Paper) bool{
	"title": func(a, b store.Paper) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	},
	"year": func(a, b store.Paper) bool { return a.Year < b.Year },
	"venue": func(a, b store.Paper) bool {
		return strings.ToLower(a.Venue) < strings.ToLower(b.Venue)
	},
	"author": func(a, b store.Paper) bool {
		return strings.ToLower(a.FirstAuthor()) < strings.ToLower(b.FirstAuthor())
	},
	"added": func(a, b store.Paper) bool { return a.Added.Before(b.Added) },
}
