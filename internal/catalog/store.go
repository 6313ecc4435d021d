// Package catalog provides the in-memory product catalog for the Buy Xtra
// storefront. The catalog is loaded once from an embedded fixture and never
// mutated afterwards; every accessor hands out copies.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"buyxtra/pkg/storetypes"
)

//go:embed products.yaml
var catalogData []byte

// catalogFile mirrors the embedded fixture layout.
type catalogFile struct {
	ContactNumber string               `yaml:"contact_number"`
	Brands        []string             `yaml:"brands"`
	Products      []storetypes.Product `yaml:"products"`
}

// Store holds the immutable product catalog for the process lifetime.
type Store struct {
	contactNumber string
	brands        []string
	products      []storetypes.Product
	byID          map[string]int
}

// Load parses the embedded catalog fixture into a Store. A parse failure is
// a build defect, so callers treat an error here as fatal at startup.
func Load() (*Store, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogData, &file); err != nil {
		return nil, fmt.Errorf("failed to parse product catalog: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("product catalog is empty")
	}

	byID := make(map[string]int, len(file.Products))
	for i, p := range file.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if len(p.Variants) == 0 {
			return nil, fmt.Errorf("product %q has no variants", p.ID)
		}
		byID[p.ID] = i
	}

	return &Store{
		contactNumber: file.ContactNumber,
		brands:        file.Brands,
		products:      file.Products,
		byID:          byID,
	}, nil
}

// Products returns a copy of the full catalog in fixture order.
func (s *Store) Products() []storetypes.Product {
	out := make([]storetypes.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (storetypes.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return storetypes.Product{}, fmt.Errorf("product %q not found", id)
	}
	return s.products[i], nil
}

// Count returns the number of catalog records.
func (s *Store) Count() int {
	return len(s.products)
}

// ContactNumber returns the WhatsApp contact number in international
// format without a leading plus sign.
func (s *Store) ContactNumber() string {
	return s.contactNumber
}

// Brands returns the brands present in the given category, deduplicated
// and in catalog order. An empty category returns brands across the whole
// catalog.
func (s *Store) Brands(category storetypes.Category) []string {
	seen := make(map[string]bool)
	var brands []string
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if !seen[p.Brand] {
			seen[p.Brand] = true
			brands = append(brands, p.Brand)
		}
	}
	return brands
}

// Featured returns the products flagged for the home page carousel.
func (s *Store) Featured() []storetypes.Product {
	var out []storetypes.Product
	for _, p := range s.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}

// BestSellers returns the products flagged as best sellers.
func (s *Store) BestSellers() []storetypes.Product {
	var out []storetypes.Product
	for _, p := range s.products {
		if p.IsBestSeller {
			out = append(out, p)
		}
	}
	return out
}
