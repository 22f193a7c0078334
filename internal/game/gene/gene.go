// Package gene defines cosmetic, tag-bearing genes and a pet's gene loadout.
package gene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/alchemy/internal/game/constraint"
)

// Type is the body slot a gene occupies.
type Type string

const (
	Horns Type = "horns"
	Ears  Type = "ears"
	Head  Type = "head"
	Floof Type = "floof"
	Body  Type = "body"
	Wings Type = "wings"
	Tail  Type = "tail"
)

// Slots lists every gene slot in display order.
var Slots = []Type{Horns, Ears, Head, Floof, Body, Wings, Tail}

// Gene is one catalogue gene. Image is its unique object key.
type Gene struct {
	Image       string                  `yaml:"image"`
	Name        string                  `yaml:"name"`
	Type        Type                    `yaml:"type"`
	Tags        []string                `yaml:"tags"`
	Constraints []constraint.Constraint `yaml:"constraints"`
}

// Validate checks the gene's invariants.
func (g *Gene) Validate() error {
	var errs []string
	if g.Image == "" {
		errs = append(errs, "image must not be empty")
	}
	if g.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	known := false
	for _, s := range Slots {
		if g.Type == s {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Sprintf("unknown gene type %q", g.Type))
	}
	for i, c := range g.Constraints {
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("constraint %d: %v", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("gene validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Loadout holds at most one gene per slot.
type Loadout struct {
	slots map[Type]*Gene
}

// Equip places g in its slot, replacing any previous gene there.
//
// Postcondition: Returns an error if g is invalid.
func (l *Loadout) Equip(g *Gene) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if l.slots == nil {
		l.slots = make(map[Type]*Gene, len(Slots))
	}
	l.slots[g.Type] = g
	return nil
}

// Slot returns the gene in slot t, or nil.
func (l Loadout) Slot(t Type) *Gene {
	return l.slots[t]
}

// Tags concatenates the tags of every equipped gene in slot order.
func (l Loadout) Tags() []string {
	tags := []string{}
	for _, s := range Slots {
		if g := l.slots[s]; g != nil {
			tags = append(tags, g.Tags...)
		}
	}
	return tags
}

// Registry indexes genes by name.
type Registry struct {
	genes map[string]*Gene
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{genes: make(map[string]*Gene)}
}

// Register adds g.
//
// Postcondition: Returns error if g.Name is already registered.
func (r *Registry) Register(g *Gene) error {
	if _, exists := r.genes[g.Name]; exists {
		return fmt.Errorf("gene: Registry.Register: gene %q already registered", g.Name)
	}
	r.genes[g.Name] = g
	return nil
}

// Gene returns the gene named name.
func (r *Registry) Gene(name string) (*Gene, bool) {
	g, ok := r.genes[name]
	return g, ok
}

// Len returns the number of registered genes.
func (r *Registry) Len() int { return len(r.genes) }

// LoadGenes reads every YAML file in dir; each file holds a list under "genes".
func LoadGenes(dir string) ([]*Gene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var genes []*Gene
	for _, e := range entries {
		if e.IsDir() || (filepath.Ext(e.Name()) != ".yaml" && filepath.Ext(e.Name()) != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var doc struct {
			Genes []*Gene `yaml:"genes"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing gene file %s: %w", path, err)
		}
		for _, g := range doc.Genes {
			if err := g.Validate(); err != nil {
				return nil, fmt.Errorf("invalid gene in %s: %w", path, err)
			}
		}
		genes = append(genes, doc.Genes...)
	}
	return genes, nil
}

// LoadRegistry loads every gene in dir into a new Registry.
//
// Postcondition: Returns an error on duplicate gene names.
func LoadRegistry(dir string) (*Registry, error) {
	genes, err := LoadGenes(dir)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, g := range genes {
		if err := r.Register(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}
