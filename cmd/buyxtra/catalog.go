package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"buyxtra/internal/catalog"
	"buyxtra/internal/whatsapp"
	"buyxtra/pkg/storetypes"
)

var (
	catalogCategory   string
	catalogBrands     []string
	catalogMaxPrice   int
	catalogMinRAM     int
	catalogFeatured   bool
	catalogBestSeller bool
	catalogSort       string
	catalogQuery      string
)

// catalogCmd browses the product catalog from the terminal.
var catalogCmd = &cobra.Command{
	Use:   "catalog [product-id]",
	Short: "Browse the product catalog",
	Long: `List products, optionally filtered the same way the storefront filters
them. With a product id, show that product's variants and the WhatsApp
order link for each one.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCatalog,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	priceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func init() {
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "Filter by category (mobile|electronics)")
	catalogCmd.Flags().StringSliceVar(&catalogBrands, "brands", nil, "Filter by brand (repeatable)")
	catalogCmd.Flags().IntVar(&catalogMaxPrice, "max-price", 0, "Maximum starting price in rupees")
	catalogCmd.Flags().IntVar(&catalogMinRAM, "min-ram", 0, "Minimum RAM in GB")
	catalogCmd.Flags().BoolVar(&catalogFeatured, "featured", false, "Only featured products")
	catalogCmd.Flags().BoolVar(&catalogBestSeller, "best-seller", false, "Only best sellers")
	catalogCmd.Flags().StringVar(&catalogSort, "sort", "popularity", "Sort order (popularity|price_asc|price_desc)")
	catalogCmd.Flags().StringVarP(&catalogQuery, "query", "q", "", "Search by name, brand, or model")
}

func runCatalog(_ *cobra.Command, args []string) {
	store, err := catalog.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 1 {
		showProduct(store, args[0])
		return
	}

	sort := storetypes.SortKey(catalogSort)
	if !sort.Valid() {
		fmt.Fprintf(os.Stderr, "Unknown sort order %q\n", catalogSort)
		os.Exit(1)
	}

	products := catalog.Filter(store.Products(), storetypes.FilterOptions{
		Query:      catalogQuery,
		Category:   storetypes.Category(catalogCategory),
		Brands:     catalogBrands,
		MaxPrice:   catalogMaxPrice,
		MinRAM:     catalogMinRAM,
		Featured:   catalogFeatured,
		BestSeller: catalogBestSeller,
		Sort:       sort,
	})

	if len(products) == 0 {
		fmt.Println(dimStyle.Render("No products match the given filters."))
		return
	}

	for _, p := range products {
		fmt.Printf("%s  %s\n", titleStyle.Render(p.Name),
			priceStyle.Render("from ₹"+storetypes.FormatINR(p.StartingPrice())))
		fmt.Println(dimStyle.Render(fmt.Sprintf("  id %s · %s · %.1f★ (%d reviews)",
			p.ID, p.Brand, p.Rating, p.ReviewCount)))
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d of %d products", len(products), store.Count())))
}

func showProduct(store *catalog.Store, id string) {
	p, err := store.Get(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render(p.Name))
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s · %s · %.1f★ (%d reviews)", p.Brand, p.Category, p.Rating, p.ReviewCount)))

	for _, spec := range p.Specs {
		fmt.Printf("  %s: %s\n", spec.Key, spec.Value)
	}

	fmt.Println()
	for _, v := range p.Variants {
		label := p.Name
		if v.RAM != "" || v.Storage != "" {
			label = fmt.Sprintf("%s / %s", v.RAM, v.Storage)
		}
		fmt.Printf("%s  %s\n", titleStyle.Render(label), priceStyle.Render("₹"+storetypes.FormatINR(v.Price)))
		fmt.Println(dimStyle.Render("  order: " + whatsapp.ProductLink(store.ContactNumber(), p, v)))
	}
}
