package command

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds the edit distance for "did you mean" hints.
const maxSuggestDistance = 2

// Registry maps command names to handlers. It is immutable once built and
// safe for concurrent reads.
type Registry struct {
	handlers map[string]Handler
	sorted   []Handler
}

// NewRegistry builds a registry from handlers. Duplicate or empty names are
// a programming error and panic.
func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		name := h.Name()
		if name == "" {
			panic("command: handler with empty name")
		}
		if _, dup := r.handlers[name]; dup {
			panic(fmt.Sprintf("command: duplicate handler %q", name))
		}
		r.handlers[name] = h
		r.sorted = append(r.sorted, h)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].Name() < r.sorted[j].Name()
	})
	return r
}

// Resolve returns the handler registered under exactly name.
func (r *Registry) Resolve(name string) (Handler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, &UnknownCommandError{Name: name, Suggestion: r.suggest(name)}
	}
	return h, nil
}

// All returns all registered handlers sorted by name.
func (r *Registry) All() []Handler {
	out := make([]Handler, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// suggest returns the registered name closest to name, or "".
func (r *Registry) suggest(name string) string {
	if name == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, h := range r.sorted {
		d := levenshtein.ComputeDistance(name, h.Name())
		if d < bestDist && d < len(name) {
			best, bestDist = h.Name(), d
		}
	}
	return best
}
