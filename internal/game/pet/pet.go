// Package pet defines the Pet snapshot consumed by battles and its move loadout.
package pet

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/gene"
	"github.com/cory-johannsen/alchemy/internal/game/move"
)

// Pet is a player's creature. A battle treats it as read-only.
type Pet struct {
	ID         uuid.UUID
	Name       string
	Level      int
	Attributes attribute.Loadout
	Genes      gene.Loadout
	Moves      MoveLoadout
}

// Validate checks the pet can enter a battle.
//
// Postcondition: returns nil iff Name is set, Level >= 1, attributes are
// non-negative and every move slot holds a valid move.
func (p *Pet) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", p.Level))
	}
	if err := p.Attributes.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, m := range p.Moves.moves {
		if m == nil {
			errs = append(errs, fmt.Errorf("move slot %d is empty", i))
			continue
		}
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("move slot %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("pet %q invalid: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

// MoveLoadout is the ordered list of a pet's moves; index order is priority.
type MoveLoadout struct {
	moves []*move.Move
}

// NewMoveLoadout builds a loadout in the given priority order.
func NewMoveLoadout(moves ...*move.Move) MoveLoadout {
	cp := make([]*move.Move, len(moves))
	copy(cp, moves)
	return MoveLoadout{moves: cp}
}

// Add appends m at the lowest priority.
func (l *MoveLoadout) Add(m *move.Move) {
	l.moves = append(l.moves, m)
}

// Learn appends m after checking its constraints against attrs.
func (l *MoveLoadout) Learn(m *move.Move, attrs attribute.Loadout) error {
	if err := m.Learnable(attrs); err != nil {
		return err
	}
	l.Add(m)
	return nil
}

// SetPriority moves the entry at current to position next, shifting the
// others.
//
// Precondition: both indexes are within [0, Len()).
func (l *MoveLoadout) SetPriority(current, next int) error {
	n := len(l.moves)
	if current < 0 || current >= n || next < 0 || next >= n {
		return fmt.Errorf("move priority %d -> %d out of range [0,%d)", current, next, n)
	}
	m := l.moves[current]
	l.moves = append(l.moves[:current], l.moves[current+1:]...)
	l.moves = append(l.moves[:next], append([]*move.Move{m}, l.moves[next:]...)...)
	return nil
}

// Moves returns a copy of the loadout in priority order.
func (l MoveLoadout) Moves() []*move.Move {
	cp := make([]*move.Move, len(l.moves))
	copy(cp, l.moves)
	return cp
}

// Names returns the move names in priority order.
func (l MoveLoadout) Names() []string {
	names := make([]string, len(l.moves))
	for i, m := range l.moves {
		names[i] = m.Name
	}
	return names
}

// Len returns the number of moves.
func (l MoveLoadout) Len() int { return len(l.moves) }

// petFile is the on-disk YAML form of a pet.
type petFile struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Level      int               `yaml:"level"`
	Attributes attribute.Loadout `yaml:"attributes"`
	Genes      []string          `yaml:"genes"`
	Moves      []string          `yaml:"moves"`
}

// LoadFile reads a pet from YAML, resolving move names against moves and
// gene names against genes. genes may be nil when the file lists none.
//
// Postcondition: Returns a validated Pet or a non-nil error.
func LoadFile(path string, moves *move.Registry, genes *gene.Registry) (*Pet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pet file %s: %w", path, err)
	}
	var f petFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing pet file %s: %w", path, err)
	}

	p := &Pet{Name: f.Name, Level: f.Level, Attributes: f.Attributes}
	p.ID = uuid.New()
	if f.ID != "" {
		if p.ID, err = uuid.Parse(f.ID); err != nil {
			return nil, fmt.Errorf("pet file %s: invalid id: %w", path, err)
		}
	}

	resolved, err := moves.Resolve(f.Moves)
	if err != nil {
		return nil, fmt.Errorf("pet file %s: %w", path, err)
	}
	p.Moves = NewMoveLoadout(resolved...)

	for _, name := range f.Genes {
		if genes == nil {
			return nil, fmt.Errorf("pet file %s: gene %q listed but no gene catalogue loaded", path, name)
		}
		g, ok := genes.Gene(name)
		if !ok {
			return nil, fmt.Errorf("pet file %s: unknown gene %q", path, name)
		}
		if err := p.Genes.Equip(g); err != nil {
			return nil, fmt.Errorf("pet file %s: %w", path, err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
