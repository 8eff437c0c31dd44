package builtin

import (
	"context"
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/marcelocantos/reason/internal/command"
	"github.com/marcelocantos/reason/internal/config"
	"github.com/marcelocantos/reason/internal/store"
)

// whereMaxSteps bounds the work a single expression may do per paper.
const whereMaxSteps = 100_000

// Where filters papers with a Starlark boolean expression, e.g.
//
//	where 'year >= 2020 and "gpu" in tags'
type Where struct{}

var _ command.Handler = (*Where)(nil)

func (w *Where) Name() string        { return "where" }
func (w *Where) Description() string { return "filter papers with a Starlark expression" }
func (w *Where) Usage() string {
	return "EXPR (fields: title nickname authors venue year tags filepath notes)"
}

func (w *Where) Run(_ context.Context, in command.Input, st *store.Store, _ *config.Config) (command.Output, error) {
	src := strings.Join(in.Params(), " ")
	if strings.TrimSpace(src) == "" {
		return nil, command.Usagef(w, "missing expression")
	}
	opts := &syntax.FileOptions{}
	if _, err := opts.ParseExpr(w.Name(), src, 0); err != nil {
		return nil, command.Usagef(w, "%v", err)
	}

	ps, err := candidates(in, st)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, p := range ps {
		thread := &starlark.Thread{Name: w.Name()}
		thread.SetMaxExecutionSteps(whereMaxSteps)
		v, err := starlark.EvalOptions(opts, thread, w.Name(), src, paperEnv(p))
		if err != nil {
			return nil, fmt.Errorf("where: %q: %w", p.Title, err)
		}
		if v.Truth() {
			ids = append(ids, p.ID)
		}
	}
	return command.Papers{IDs: ids}, nil
}

// paperEnv exposes a paper's fields as predeclared Starlark values.
func paperEnv(p store.Paper) starlark.StringDict {
	return starlark.StringDict{
		"title":    starlark.String(p.Title),
		"nickname": starlark.String(p.Nickname),
		"authors":  stringList(p.Authors),
		"venue":    starlark.String(p.Venue),
		"year":     starlark.MakeInt(p.Year),
		"tags":     stringList(p.Tags),
		"filepath": starlark.String(p.Filepath),
		"notes":    starlark.String(p.Notes),
	}
}

func stringList(ss []string) *starlark.List {
	elems := make([]starlark.Value, len(ss))
	for i, s := range ss {
		elems[i] = starlark.String(s)
	}
	l := starlark.NewList(elems)
	l.Freeze()
	return l
}
