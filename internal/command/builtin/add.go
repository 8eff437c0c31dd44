package builtin

import (
	"context"
	"strconv"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// keyNickname names the nickname in add. The other keywords are shared with
// filters.
const keyNickname = "as"

type Add struct{}

var _ command.Handler = (*Add)(nil)

func (a *Add) Name() string        { return "add" }
func (a *Add) Description() string { return "add a paper to the collection" }
func (a *Add) Usage() string {
	return "TITLE [by AUTHOR,...] [at VENUE] [in YEAR] [as NICKNAME] [with TAG]"
}

func (a *Add) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	if !in.First() {
		return nil, command.Usagef(a, "does not take input from another command")
	}
	p, err := a.parse(in.Params())
	if err != nil {
		return nil, err
	}
	p, err = st.Add(p)
	if err != nil {
		return nil, &command.UsageError{Command: a.Name(), Reason: err.Error()}
	}
	return command.Papers{IDs: []string{p.ID}}, nil
}

func (a *Add) parse(args []string) (store.Paper, error) {
	var p store.Paper
	var title []string

	for i := 0; i < len(args); i++ {
		key := args[i]
		switch key {
		case store.KeyAuthor, store.KeyVenue, store.KeyYear, store.KeyTag, keyNickname:
		default:
			title = append(title, key)
			continue
		}
		if i+1 >= len(args) {
			return store.Paper{}, command.Usagef(a, "%q requires a value", key)
		}
		i++
		val := args[i]
		switch key {
		case store.KeyAuthor:
			p.Authors = splitList(val)
		case store.KeyVenue:
			p.Venue = val
		case store.KeyYear:
			y, err := strconv.Atoi(val)
			if err != nil {
				return store.Paper{}, command.Usagef(a, "invalid year %q", val)
			}
			p.Year = y
		case store.KeyTag:
			p.Tags = append(p.Tags, splitList(val)...)
		case keyNickname:
			p.Nickname = val
		}
	}

	p.Title = strings.Join(title, " ")
	if p.Title == "" {
		return store.Paper{}, command.Usagef(a, "missing title")
	}
	return p, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
