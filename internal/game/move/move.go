// Package move defines combat moves, their executable components, and the
// admin move catalogue.
package move

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
	"github.com/cory-johannsen/alchemy/internal/game/constraint"
)

// DamageType selects which shield absorbs a hit and which stacks boost it.
type DamageType string

const (
	Physical DamageType = "physical"
	Magical  DamageType = "magical"
)

// Valid reports whether t is a known damage type.
func (t DamageType) Valid() bool {
	return t == Physical || t == Magical
}

// ComponentKind tags the payload carried by a Component.
type ComponentKind string

const (
	// KindDamage marks a component whose Damage payload is set.
	KindDamage ComponentKind = "damage"
)

// Damage is the payload of a damage component.
type Damage struct {
	BaseDamage int        `yaml:"base_damage"`
	BaseBypass int        `yaml:"base_bypass"`
	Type       DamageType `yaml:"type"`
}

// Component is one executable effect of a move. Exactly the payload matching
// Kind is non-nil.
type Component struct {
	Kind   ComponentKind `yaml:"kind"`
	Damage *Damage       `yaml:"damage,omitempty"`
}

// DamageComponent builds a damage component.
func DamageComponent(base, bypass int, t DamageType) Component {
	return Component{Kind: KindDamage, Damage: &Damage{BaseDamage: base, BaseBypass: bypass, Type: t}}
}

// Validate checks the payload matches the kind.
func (c Component) Validate() error {
	switch c.Kind {
	case KindDamage:
		if c.Damage == nil {
			return errors.New("damage component has no damage payload")
		}
		if c.Damage.BaseDamage < 0 || c.Damage.BaseBypass < 0 {
			return fmt.Errorf("damage values must be >= 0, got base=%d bypass=%d", c.Damage.BaseDamage, c.Damage.BaseBypass)
		}
		if !c.Damage.Type.Valid() {
			return fmt.Errorf("unknown damage type %q", c.Damage.Type)
		}
		return nil
	}
	return fmt.Errorf("unknown component kind %q", c.Kind)
}

// Move is a named combat action. Components execute in declared order.
type Move struct {
	Name        string                  `yaml:"name"`
	Tags        []string                `yaml:"tags"`
	Constraints []constraint.Constraint `yaml:"constraints"`
	Cooldown    int                     `yaml:"cooldown"`
	Components  []Component             `yaml:"components"`
}

// SplashName names the fallback move used when nothing is ready.
const SplashName = "Splash"

// Splash returns the no-op fallback move.
//
// Postcondition: Returns a move with no tags, constraints, or components and cooldown 0.
func Splash() *Move {
	return &Move{
		Name:        SplashName,
		Tags:        []string{},
		Constraints: []constraint.Constraint{},
		Components:  []Component{},
	}
}

// HasDamage reports whether any component deals damage.
func (m *Move) HasDamage() bool {
	for _, c := range m.Components {
		if c.Kind == KindDamage {
			return true
		}
	}
	return false
}

// Learnable reports whether a pet with loadout l meets every constraint of m.
func (m *Move) Learnable(l attribute.Loadout) error {
	if c, ok := constraint.AllSatisfied(m.Constraints, l); !ok {
		return fmt.Errorf("move %q: constraint %s not met", m.Name, c.Signature())
	}
	return nil
}

// Validate checks the move's invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (m *Move) Validate() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if m.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("cooldown must be >= 0, got %d", m.Cooldown))
	}
	for i, c := range m.Constraints {
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("constraint %d: %w", i, err))
		}
	}
	for i, c := range m.Components {
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("component %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("move validation failed: %w", errors.Join(errs...))
	}
	return nil
}
