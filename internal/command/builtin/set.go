package builtin

import (
	"context"
	"strconv"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Set struct{}

var _ command.Handler = (*Set)(nil)

func (s *Set) Name() string        { return "set" }
func (s *Set) Description() string { return "set a field on piped papers" }
func (s *Set) Usage() string {
	return "title|nickname|authors|venue|year|filepath|notes VALUE..."
}

func (s *Set) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	params := in.Params()
	if len(params) < 1 {
		return nil, command.Usagef(s, "missing field")
	}
	field, value := params[0], strings.Join(params[1:], " ")

	apply, err := s.setter(field, value)
	if err != nil {
		return nil, err
	}
	ps, err := piped(s, in, st)
	if err != nil {
		return nil, err
	}
	if field == "nickname" && value != "" {
		if len(ps) > 1 {
			return nil, command.Usagef(s, "a nickname can only be set on one paper, got %d", len(ps))
		}
		for _, other := range st.All() {
			if len(ps) == 1 && other.ID != ps[0].ID && strings.EqualFold(other.Nickname, value) {
				return nil, command.Usagef(s, "nickname %q already used by %q", value, other.Title)
			}
		}
	}

	for _, p := range ps {
		if err := st.Update(p.ID, apply); err != nil {
			return nil, err
		}
	}
	return command.Papers{IDs: idsOf(ps)}, nil
}

func (s *Set) setter(field, value string) (func(p *store.Paper) error, error) {
	switch field {
	case "title":
		if value == "" {
			return nil, command.Usagef(s, "title must not be empty")
		}
		return func(p *store.Paper) error { p.Title = value; return nil }, nil
	case "nickname":
		return func(p *store.Paper) error { p.Nickname = value; return nil }, nil
	case "authors":
		authors := splitList(value)
		return func(p *store.Paper) error { p.Authors = authors; return nil }, nil
	case "venue":
		return func(p *store.Paper) error { p.Venue = value; return nil }, nil
	case "year":
		y := 0
		if value != "" {
			var err error
			if y, err = strconv.Atoi(value); err != nil {
				return nil, command.Usagef(s, "invalid year %q", value)
			}
		}
		return func(p *store.Paper) error { p.Year = y; return nil }, nil
	case "filepath":
		return func(p *store.Paper) error { p.Filepath = value; return nil }, nil
	case "notes":
		return func(p *store.Paper) error { p.Notes = value; return nil }, nil
	default:
		return nil, command.Usagef(s, "unknown field %q", field)
	}
}
