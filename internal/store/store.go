// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Paper is a single record in the collection.
type Paper struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Nickname string    `yaml:"nickname,omitempty"`
	Authors  []string  `yaml:"authors,omitempty"`
	Venue    string    `yaml:"venue,omitempty"`
	Year     int       `yaml:"year,omitempty"`
	Filepath string    `yaml:"filepath,omitempty"`
	Tags     []string  `yaml:"tags,omitempty"`
	Notes    string    `yaml:"notes,omitempty"`
	Added    time.Time `yaml:"added"`
}

// FirstAuthor returns the first listed author, or "" if there is none.
func (p Paper) FirstAuthor() string {
	if len(p.Authors) == 0 {
		return ""
	}
	return p.Authors[0]
}

// HasTag reports whether the paper carries tag (case-insensitive).
func (p Paper) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// stateFile is the top-level YAML structure.
type stateFile struct {
	Papers []Paper `yaml:"papers"`
}

// Store is an ordered, in-memory paper collection.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	papers []Paper
	index  map[string]int // id -> position in papers
	dirty  bool
}

// New returns an empty store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Load reads a store from YAML. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var sf stateFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}

	s := New()
	for i, p := range sf.Papers {
		if p.ID == "" {
			p.ID = uuid.NewString()
			s.dirty = true
		}
		if _, dup := s.index[p.ID]; dup {
			return nil, fmt.Errorf("state %s: paper %d: duplicate id %q", path, i, p.ID)
		}
		s.index[p.ID] = len(s.papers)
		s.papers = append(s.papers, p)
	}
	return s, nil
}

// Save writes the store to path atomically and marks it clean.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := yaml.Marshal(stateFile{Papers: s.papers})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	s.dirty = false
	return nil
}

// Len returns the number of papers.
func (s *Store) Len() int { return len(s.papers) }

// Dirty reports whether the store changed since it was loaded or saved.
func (s *Store) Dirty() bool { return s.dirty }

// MarkClean forgets pending changes without writing them.
func (s *Store) MarkClean() { s.dirty = false }

// All returns a copy of every paper in insertion order.
func (s *Store) All() []Paper {
	out := make([]Paper, len(s.papers))
	copy(out, s.papers)
	return out
}

// IDs returns every paper id in insertion order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.papers))
	for i, p := range s.papers {
		ids[i] = p.ID
	}
	return ids
}

// Get returns the paper with the given id.
func (s *Store) Get(id string) (Paper, bool) {
	i, ok := s.index[id]
	if !ok {
		return Paper{}, false
	}
	return s.papers[i], true
}

// Lookup resolves ids to papers, preserving the order of ids.
// Unknown ids are an error: a reference that no longer resolves means an
// earlier stage removed the paper.
func (s *Store) Lookup(ids []string) ([]Paper, error) {
	out := make([]Paper, 0, len(ids))
	for _, id := range ids {
		p, ok := s.Get(id)
		if !ok {
			return nil, &NotFoundError{ID: id}
		}
		out = append(out, p)
	}
	return out, nil
}

// Add inserts a paper, assigning a fresh id and timestamp.
func (s *Store) Add(p Paper) (Paper, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return Paper{}, fmt.Errorf("paper title must not be empty")
	}
	if p.Nickname != "" {
		for _, existing := range s.papers {
			if strings.EqualFold(existing.Nickname, p.Nickname) {
				return Paper{}, fmt.Errorf("nickname %q already used by %q", p.Nickname, existing.Title)
			}
		}
	}
	p.ID = uuid.NewString()
	if p.Added.IsZero() {
		p.Added = time.Now().UTC().Truncate(time.Second)
	}
	s.index[p.ID] = len(s.papers)
	s.papers = append(s.papers, p)
	s.dirty = true
	return p, nil
}

// Update applies fn to the stored paper with the given id.
// The id cannot be changed by fn.
func (s *Store) Update(id string, fn func(p *Paper) error) error {
	i, ok := s.index[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	p := s.papers[i]
	if err := fn(&p); err != nil {
		return err
	}
	p.ID = id
	s.papers[i] = p
	s.dirty = true
	return nil
}

// Remove deletes the papers with the given ids and returns how many were removed.
// Unknown ids are ignored.
func (s *Store) Remove(ids ...string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			drop[id] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := s.papers[:0]
	for _, p := range s.papers {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	s.papers = kept
	s.reindex()
	s.dirty = true
	return len(drop)
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.papers))
	for i, p := range s.papers {
		s.index[p.ID] = i
	}
}

// NotFoundError reports a paper reference that does not resolve.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no paper with id %q", e.ID)
}
