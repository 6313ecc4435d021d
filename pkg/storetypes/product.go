// Package storetypes defines the shared catalog types for the Buy Xtra
// storefront. This file contains the product record shape used by the
// catalog store, the filter pipeline, and the inventory serializer.
package storetypes

import (
	"strconv"
	"strings"
)

// Category identifies the top-level product grouping.
type Category string

// Supported product categories.
const (
	CategoryMobile      Category = "mobile"
	CategoryElectronics Category = "electronics"
)

// Variant represents one purchasable configuration of a product.
// RAM and Storage are empty for electronics that have no such options.
type Variant struct {
	RAM           string `yaml:"ram,omitempty" json:"ram,omitempty"`
	Storage       string `yaml:"storage,omitempty" json:"storage,omitempty"`
	Price         int    `yaml:"price" json:"price"`
	OriginalPrice int    `yaml:"original_price" json:"original_price"`
}

// RAMGB returns the variant's RAM size in gigabytes, or 0 if the variant
// has no RAM option or the value cannot be parsed.
func (v Variant) RAMGB() int {
	s := strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(v.RAM), "GB"))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Spec is one specification entry. Specs are kept as an ordered list rather
// than a map so that inventory serialization is deterministic.
type Spec struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Product represents a single catalog record. Products are immutable once
// loaded; the catalog store hands out copies, never shared slices.
type Product struct {
	ID           string    `yaml:"id" json:"id"`
	Category     Category  `yaml:"category" json:"category"`
	Brand        string    `yaml:"brand" json:"brand"`
	Model        string    `yaml:"model" json:"model"`
	Name         string    `yaml:"name" json:"name"`
	Images       []string  `yaml:"images" json:"images"`
	Rating       float64   `yaml:"rating" json:"rating"`
	ReviewCount  int       `yaml:"review_count" json:"review_count"`
	Variants     []Variant `yaml:"variants" json:"variants"`
	Specs        []Spec    `yaml:"specs" json:"specs"`
	Highlights   []string  `yaml:"highlights" json:"highlights"`
	IsBestSeller bool      `yaml:"is_best_seller,omitempty" json:"is_best_seller,omitempty"`
	IsFeatured   bool      `yaml:"is_featured,omitempty" json:"is_featured,omitempty"`
}

// StartingPrice returns the price of the first (lowest priced) variant.
// Catalog data lists variants in ascending price order.
func (p Product) StartingPrice() int {
	if len(p.Variants) == 0 {
		return 0
	}
	return p.Variants[0].Price
}

// MaxRAMGB returns the largest RAM option across the product's variants.
func (p Product) MaxRAMGB() int {
	max := 0
	for _, v := range p.Variants {
		if gb := v.RAMGB(); gb > max {
			max = gb
		}
	}
	return max
}

// FormatINR renders a rupee amount with Indian digit grouping, e.g.
// 129999 -> "1,29,999". The last three digits form one group, every two
// digits after that form another.
func FormatINR(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.Itoa(amount)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(append(groups, tail), ",")
	}
	if neg {
		return "-" + s
	}
	return s
}
