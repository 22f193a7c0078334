// Package wardrobe defines purchasable cosmetic items and their image URLs.
package wardrobe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Category groups wardrobe items by where they are worn.
type Category string

const (
	Hat       Category = "hat"
	Outfit    Category = "outfit"
	Accessory Category = "accessory"
	Backdrop  Category = "backdrop"
)

// Item is a wardrobe catalogue entry. Images are object-storage keys.
type Item struct {
	ID         uuid.UUID `yaml:"id"`
	Author     string    `yaml:"author"`
	Approver   string    `yaml:"approver"`
	Name       string    `yaml:"name"`
	Price      int       `yaml:"price"`
	Category   Category  `yaml:"category"`
	FrontImage string    `yaml:"front_image"`
	BackImage  string    `yaml:"back_image"`
	Removed    bool      `yaml:"removed"`
}

// Approved reports whether an approver signed off on the item.
func (i *Item) Approved() bool { return i.Approver != "" }

// Validate checks the item's invariants.
func (i *Item) Validate() error {
	var errs []error
	if i.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if i.Author == "" {
		errs = append(errs, errors.New("author must not be empty"))
	}
	if i.Price < 0 {
		errs = append(errs, fmt.Errorf("price must be >= 0, got %d", i.Price))
	}
	switch i.Category {
	case Hat, Outfit, Accessory, Backdrop:
	default:
		errs = append(errs, fmt.Errorf("unknown category %q", i.Category))
	}
	if len(errs) > 0 {
		return fmt.Errorf("wardrobe item validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// URLBuilder renders object keys into public or private bucket URLs.
type URLBuilder struct {
	Endpoint      string
	PublicBucket  string
	PrivateBucket string
}

// Public returns the URL of object in the public bucket.
func (b URLBuilder) Public(object string) string {
	return strings.TrimRight(b.Endpoint, "/") + "/" + b.PublicBucket + "/" + object
}

// Private returns the URL of object in the private (pending review) bucket.
func (b URLBuilder) Private(object string) string {
	return strings.TrimRight(b.Endpoint, "/") + "/" + b.PrivateBucket + "/" + object
}

// Images returns the front and back URLs of i. Approved items are served
// from the public bucket, everything else from the private one.
func (b URLBuilder) Images(i *Item) (front, back string) {
	url := b.Private
	if i.Approved() {
		url = b.Public
	}
	return url(i.FrontImage), url(i.BackImage)
}

// LoadItems parses a YAML file holding a list of items under "items".
// Items without an id are assigned a fresh one.
func LoadItems(path string) ([]*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Items []*Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing wardrobe file %s: %w", path, err)
	}
	for _, it := range doc.Items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("invalid wardrobe item in %s: %w", path, err)
		}
	}
	return doc.Items, nil
}

// Available filters out removed items.
func Available(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if !it.Removed {
			out = append(out, it)
		}
	}
	return out
}

// LoadDir loads every YAML file in dir with LoadItems.
//
// Postcondition: Returns an error if two files declare the same item id.
func LoadDir(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	seen := make(map[uuid.UUID]string)
	var items []*Item
	for _, e := range entries {
		if e.IsDir() || (filepath.Ext(e.Name()) != ".yaml" && filepath.Ext(e.Name()) != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		loaded, err := LoadItems(path)
		if err != nil {
			return nil, err
		}
		for _, it := range loaded {
			if prev, dup := seen[it.ID]; dup {
				return nil, fmt.Errorf("wardrobe item %s declared in both %s and %s", it.ID, prev, path)
			}
			seen[it.ID] = path
		}
		items = append(items, loaded...)
	}
	return items, nil
}
