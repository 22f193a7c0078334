package move

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrMoveExists is returned when creating a move whose name is taken.
var ErrMoveExists = errors.New("move already exists")

// ErrMoveNotFound is returned when updating or deleting an unknown move.
var ErrMoveNotFound = errors.New("move not found")

// Registry is the move catalogue keyed by name. All methods are safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	moves map[string]*Move
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{moves: make(map[string]*Move)}
}

// Create validates and adds m.
//
// Postcondition: Returns ErrMoveExists if m.Name is already registered.
func (r *Registry) Create(m *Move) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.moves[m.Name]; ok {
		return fmt.Errorf("creating move %q: %w", m.Name, ErrMoveExists)
	}
	r.moves[m.Name] = m
	return nil
}

// Update replaces the move registered under m.Name.
//
// Postcondition: Returns ErrMoveNotFound if m.Name is not registered.
func (r *Registry) Update(m *Move) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.moves[m.Name]; !ok {
		return fmt.Errorf("updating move %q: %w", m.Name, ErrMoveNotFound)
	}
	r.moves[m.Name] = m
	return nil
}

// Delete removes the move named name.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.moves[name]; !ok {
		return fmt.Errorf("deleting move %q: %w", name, ErrMoveNotFound)
	}
	delete(r.moves, name)
	return nil
}

// Get returns the move named name.
func (r *Registry) Get(name string) (*Move, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.moves[name]
	return m, ok
}

// Resolve looks up each name in order.
//
// Postcondition: Returns ErrMoveNotFound naming the first unknown entry.
func (r *Registry) Resolve(names []string) ([]*Move, error) {
	out := make([]*Move, 0, len(names))
	for _, n := range names {
		m, ok := r.Get(n)
		if !ok {
			return nil, fmt.Errorf("resolving move %q: %w", n, ErrMoveNotFound)
		}
		out = append(out, m)
	}
	return out, nil
}

// All returns every move sorted by name.
func (r *Registry) All() []*Move {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Move, 0, len(r.moves))
	for _, m := range r.moves {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadMoves reads every .yaml/.yml file in dir. Each file holds a list of moves.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid moves or the first encountered error.
func LoadMoves(dir string) ([]*Move, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadMoves: cannot read directory %q: %w", dir, err)
	}
	var moves []*Move
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadMoves: cannot read file %q: %w", path, err)
		}
		var doc struct {
			Moves []*Move `yaml:"moves"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("LoadMoves: cannot parse file %q: %w", path, err)
		}
		for _, m := range doc.Moves {
			if err := m.Validate(); err != nil {
				return nil, fmt.Errorf("LoadMoves: invalid move in %q: %w", path, err)
			}
			moves = append(moves, m)
		}
	}
	return moves, nil
}

// LoadRegistry loads dir and registers every move.
//
// Postcondition: Returns an error on the first duplicate name.
func LoadRegistry(dir string) (*Registry, error) {
	moves, err := LoadMoves(dir)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, m := range moves {
		if err := r.Create(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}
