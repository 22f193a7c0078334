// Package attribute defines the base and derived pet attributes and the
// per-pet attribute loadout.
package attribute

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Base identifies one of the five primitive pet stats.
type Base int

const (
	Strength Base = iota + 1
	Constitution
	Agility
	Intellect
	Willpower
)

// Derived identifies a stat computed as the sum of two distinct base stats.
type Derived int

const (
	Toughness Derived = iota + 1
	Precision
	Focus
	Momentum
	Defence
	Adaptation
	Resolve
	Clarity
	Instinct
	Mastery
)

// BaseAttributes lists every base attribute in declaration order.
var BaseAttributes = []Base{Strength, Constitution, Agility, Intellect, Willpower}

// DerivedAttributes lists every derived attribute in declaration order.
var DerivedAttributes = []Derived{
	Toughness, Precision, Focus, Momentum, Defence,
	Adaptation, Resolve, Clarity, Instinct, Mastery,
}

var baseNames = map[Base]string{
	Strength:     "STRENGTH",
	Constitution: "CONSTITUTION",
	Agility:      "AGILITY",
	Intellect:    "INTELLECT",
	Willpower:    "WILLPOWER",
}

// derivedTable maps every derived attribute to its name and its two components.
var derivedTable = map[Derived]struct {
	name string
	a, b Base
}{
	Toughness:  {"TOUGHNESS", Strength, Constitution},
	Precision:  {"PRECISION", Strength, Agility},
	Focus:      {"FOCUS", Strength, Intellect},
	Momentum:   {"MOMENTUM", Strength, Willpower},
	Defence:    {"DEFENCE", Constitution, Agility},
	Adaptation: {"ADAPTATION", Constitution, Intellect},
	Resolve:    {"RESOLVE", Constitution, Willpower},
	Clarity:    {"CLARITY", Agility, Intellect},
	Instinct:   {"INSTINCT", Agility, Willpower},
	Mastery:    {"MASTERY", Intellect, Willpower},
}

// String returns the stable upper-case name of b.
func (b Base) String() string {
	if n, ok := baseNames[b]; ok {
		return n
	}
	return fmt.Sprintf("Base(%d)", int(b))
}

// String returns the stable upper-case name of d.
func (d Derived) String() string {
	if e, ok := derivedTable[d]; ok {
		return e.name
	}
	return fmt.Sprintf("Derived(%d)", int(d))
}

// Components returns the two base attributes summed by d.
//
// Postcondition: ok is false for an unknown d.
func (d Derived) Components() (a, b Base, ok bool) {
	e, ok := derivedTable[d]
	return e.a, e.b, ok
}

// Kind distinguishes the two attribute families.
type Kind int

const (
	KindBase Kind = iota + 1
	KindDerived
)

// Attribute is a closed union over base and derived attributes.
// The zero value is invalid.
type Attribute struct {
	kind    Kind
	base    Base
	derived Derived
}

// OfBase wraps a base attribute.
func OfBase(b Base) Attribute { return Attribute{kind: KindBase, base: b} }

// OfDerived wraps a derived attribute.
func OfDerived(d Derived) Attribute { return Attribute{kind: KindDerived, derived: d} }

// Kind reports which family a belongs to.
func (a Attribute) Kind() Kind { return a.kind }

// Base returns the wrapped base attribute and whether a is a base attribute.
func (a Attribute) Base() (Base, bool) { return a.base, a.kind == KindBase }

// Derived returns the wrapped derived attribute and whether a is a derived attribute.
func (a Attribute) Derived() (Derived, bool) { return a.derived, a.kind == KindDerived }

// IsValid reports whether a names a known attribute.
func (a Attribute) IsValid() bool {
	switch a.kind {
	case KindBase:
		_, ok := baseNames[a.base]
		return ok
	case KindDerived:
		_, ok := derivedTable[a.derived]
		return ok
	}
	return false
}

// String returns the stable encoding used in YAML content and the database.
func (a Attribute) String() string {
	switch a.kind {
	case KindBase:
		return a.base.String()
	case KindDerived:
		return a.derived.String()
	}
	return ""
}

// byName resolves every stable encoding to its attribute.
var byName = func() map[string]Attribute {
	m := make(map[string]Attribute, len(baseNames)+len(derivedTable))
	for b, n := range baseNames {
		m[n] = OfBase(b)
	}
	for d, e := range derivedTable {
		m[e.name] = OfDerived(d)
	}
	return m
}()

// Parse resolves the stable encoding s to an Attribute.
//
// Postcondition: Returns an error naming s when it is not a known attribute.
func Parse(s string) (Attribute, error) {
	a, ok := byName[s]
	if !ok {
		return Attribute{}, fmt.Errorf("unknown attribute %q", s)
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Attribute) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("marshalling invalid attribute")
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Attribute) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// UnmarshalYAML decodes a scalar attribute name.
func (a *Attribute) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

// MarshalYAML encodes a as its stable name.
func (a Attribute) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}
