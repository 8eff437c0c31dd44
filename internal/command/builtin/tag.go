package builtin

import (
	"context"
	"strings"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

type Tag struct{}

var _ command.Handler = (*Tag)(nil)

func (t *Tag) Name() string        { return "tag" }
func (t *Tag) Description() string { return "add tags to piped papers" }
func (t *Tag) Usage() string       { return "TAG..." }

func (t *Tag) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	return retag(t, in, st, func(p *store.Paper, tag string) {
		if !p.HasTag(tag) {
			p.Tags = append(p.Tags, tag)
		}
	})
}

type Untag struct{}

var _ command.Handler = (*Untag)(nil)

func (u *Untag) Name() string        { return "untag" }
func (u *Untag) Description() string { return "remove tags from piped papers" }
func (u *Untag) Usage() string       { return "TAG..." }

func (u *Untag) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	return retag(u, in, st, func(p *store.Paper, tag string) {
		kept := p.Tags[:0]
		for _, existing := range p.Tags {
			if !strings.EqualFold(existing, tag) {
				kept = append(kept, existing)
			}
		}
		p.Tags = kept
	})
}

// retag applies edit for every tag argument to every piped paper and passes
// the papers on.
func retag(h command.Handler, in command.Input, st *store.Store, edit func(p *store.Paper, tag string)) (command.Output, error) {
	tags := in.Params()
	if len(tags) == 0 {
		return nil, command.Usagef(h, "missing tag")
	}
	ps, err := piped(h, in, st)
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		err := st.Update(p.ID, func(p *store.Paper) error {
			// Tags may share a backing array with the caller's copy.
			p.Tags = append([]string(nil), p.Tags...)
			for _, tag := range tags {
				edit(p, tag)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return command.Papers{IDs: idsOf(ps)}, nil
}
