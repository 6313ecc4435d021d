package storetypes

// SortKey selects the ordering applied to a filtered product list.
type SortKey string

// Supported sort orders. Popularity (review count, descending) is the
// default used when no explicit key is given.
const (
	SortPopularity SortKey = "popularity"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
)

// Valid reports whether the sort key is one of the supported values.
func (k SortKey) Valid() bool {
	switch k {
	case SortPopularity, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// FilterOptions carries the full filter and sort state for one listing
// query. The zero value matches every product and sorts by popularity:
// an empty Category or Brands list disables that filter, MaxPrice 0 means
// no price ceiling, and MinRAM 0 (gigabytes) means no RAM minimum. The
// Featured and BestSeller flags restrict to the products merchandised on
// the home page carousels; false means no restriction.
type FilterOptions struct {
	Query      string   `json:"query"`
	Category   Category `json:"category"`
	Brands     []string `json:"brands"`
	MaxPrice   int      `json:"max_price"`
	MinRAM     int      `json:"min_ram"`
	Featured   bool     `json:"featured"`
	BestSeller bool     `json:"best_seller"`
	Sort       SortKey  `json:"sort"`
}
