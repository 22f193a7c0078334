// Package constraint provides attribute-threshold gates used to validate
// which moves and genes a pet may use.
package constraint

import (
	"fmt"

	"github.com/cory-johannsen/alchemy/internal/game/attribute"
)

// Kind selects the comparison a Constraint performs.
type Kind string

const (
	// KindRequirement holds when the attribute is at least the threshold.
	KindRequirement Kind = "requirement"
	// KindRestriction holds when the attribute is below the threshold.
	KindRestriction Kind = "restriction"
)

// Constraint compares one attribute of a pet against a threshold.
type Constraint struct {
	Kind      Kind                `yaml:"kind"`
	Attribute attribute.Attribute `yaml:"attribute"`
	Threshold int                 `yaml:"threshold"`
}

// Requirement builds a constraint satisfied when a >= threshold.
func Requirement(a attribute.Attribute, threshold int) Constraint {
	return Constraint{Kind: KindRequirement, Attribute: a, Threshold: threshold}
}

// Restriction builds a constraint satisfied when a < threshold.
func Restriction(a attribute.Attribute, threshold int) Constraint {
	return Constraint{Kind: KindRestriction, Attribute: a, Threshold: threshold}
}

// Satisfied evaluates c against l.
//
// Postcondition: Returns false for an unknown Kind.
func (c Constraint) Satisfied(l attribute.Loadout) bool {
	v := l.Value(c.Attribute)
	switch c.Kind {
	case KindRequirement:
		return v >= c.Threshold
	case KindRestriction:
		return v < c.Threshold
	}
	return false
}

// Signature is a compact stable identifier such as ">=_STRENGTH_5".
func (c Constraint) Signature() string {
	op := "?"
	switch c.Kind {
	case KindRequirement:
		op = ">="
	case KindRestriction:
		op = "<"
	}
	return fmt.Sprintf("%s_%s_%d", op, c.Attribute, c.Threshold)
}

// Validate checks the kind and attribute are known.
func (c Constraint) Validate() error {
	if c.Kind != KindRequirement && c.Kind != KindRestriction {
		return fmt.Errorf("constraint kind must be requirement or restriction, got %q", c.Kind)
	}
	if !c.Attribute.IsValid() {
		return fmt.Errorf("constraint %s has no valid attribute", c.Kind)
	}
	return nil
}

// AllSatisfied reports whether l meets every constraint in cs, returning the
// first failing constraint otherwise.
func AllSatisfied(cs []Constraint, l attribute.Loadout) (Constraint, bool) {
	for _, c := range cs {
		if !c.Satisfied(l) {
			return c, false
		}
	}
	return Constraint{}, true
}
