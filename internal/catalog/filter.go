package catalog

import (
	"sort"
	"strings"

	"buyxtra/pkg/storetypes"
)

// Filter applies the listing filter pipeline to the given products and
// returns the matching subset in the requested order. The input slice is
// not modified. The pipeline is a pure function: the same inputs always
// produce the same output, and equal sort keys preserve input order.
func Filter(products []storetypes.Product, opts storetypes.FilterOptions) []storetypes.Product {
	result := make([]storetypes.Product, 0, len(products))
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	for _, p := range products {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if len(opts.Brands) > 0 && !containsBrand(opts.Brands, p.Brand) {
			continue
		}
		if opts.MaxPrice > 0 && p.StartingPrice() > opts.MaxPrice {
			continue
		}
		if opts.MinRAM > 0 && p.MaxRAMGB() < opts.MinRAM {
			continue
		}
		if opts.Featured && !p.IsFeatured {
			continue
		}
		if opts.BestSeller && !p.IsBestSeller {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, opts.Sort)
	return result
}

// matchesQuery reports whether the product matches a case-insensitive
// substring search over name, brand, and model.
func matchesQuery(p storetypes.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Brand), query) ||
		strings.Contains(strings.ToLower(p.Model), query)
}

func containsBrand(brands []string, brand string) bool {
	for _, b := range brands {
		if strings.EqualFold(b, brand) {
			return true
		}
	}
	return false
}

// sortProducts orders the slice in place. Price sorts compare the first
// variant's price; the default popularity sort is review count descending.
func sortProducts(products []storetypes.Product, key storetypes.SortKey) {
	switch key {
	case storetypes.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].StartingPrice() < products[j].StartingPrice()
		})
	case storetypes.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].StartingPrice() > products[j].StartingPrice()
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ReviewCount > products[j].ReviewCount
		})
	}
}
