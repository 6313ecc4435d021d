package server

import (
	"net/http"
	"strconv"
	"strings"

	"buyxtra/internal/catalog"
	"buyxtra/internal/whatsapp"
	"buyxtra/pkg/storetypes"
)

// productListResponse is the listing payload.
type productListResponse struct {
	Count    int                      `json:"count"`
	Products []storetypes.Product     `json:"products"`
	Filters  storetypes.FilterOptions `json:"filters"`
}

// buyLink pairs one variant with its WhatsApp order link.
type buyLink struct {
	RAM     string `json:"ram,omitempty"`
	Storage string `json:"storage,omitempty"`
	Price   int    `json:"price"`
	URL     string `json:"url"`
}

// productResponse is the detail payload.
type productResponse struct {
	Product  storetypes.Product `json:"product"`
	BuyLinks []buyLink          `json:"buy_links"`
}

// homeResponse carries the home page carousels.
type homeResponse struct {
	Featured    []storetypes.Product `json:"featured"`
	BestSellers []storetypes.Product `json:"best_sellers"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, homeResponse{
		Featured:    s.store.Featured(),
		BestSellers: s.store.BestSellers(),
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilterOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products := catalog.Filter(s.store.Products(), opts)
	writeJSON(w, http.StatusOK, productListResponse{
		Count:    len(products),
		Products: products,
		Filters:  opts,
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	links := make([]buyLink, len(product.Variants))
	for i, v := range product.Variants {
		links[i] = buyLink{
			RAM:     v.RAM,
			Storage: v.Storage,
			Price:   v.Price,
			URL:     whatsapp.ProductLink(s.store.ContactNumber(), product, v),
		}
	}

	writeJSON(w, http.StatusOK, productResponse{Product: product, BuyLinks: links})
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	category := storetypes.Category(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string][]string{
		"brands": s.store.Brands(category),
	})
}

// parseFilterOptions maps listing query parameters onto FilterOptions.
func parseFilterOptions(r *http.Request) (storetypes.FilterOptions, error) {
	q := r.URL.Query()
	opts := storetypes.FilterOptions{
		Query:    q.Get("q"),
		Category: storetypes.Category(q.Get("category")),
		Sort:     storetypes.SortKey(q.Get("sort")),
	}

	if opts.Sort == "" {
		opts.Sort = storetypes.SortPopularity
	} else if !opts.Sort.Valid() {
		return opts, &badParamError{param: "sort", value: string(opts.Sort)}
	}

	if brands := q.Get("brands"); brands != "" {
		opts.Brands = strings.Split(brands, ",")
	}

	if raw := q.Get("max_price"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, &badParamError{param: "max_price", value: raw}
		}
		opts.MaxPrice = n
	}

	if raw := q.Get("min_ram"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, &badParamError{param: "min_ram", value: raw}
		}
		opts.MinRAM = n
	}

	if raw := q.Get("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, &badParamError{param: "featured", value: raw}
		}
		opts.Featured = b
	}

	if raw := q.Get("best_seller"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, &badParamError{param: "best_seller", value: raw}
		}
		opts.BestSeller = b
	}

	return opts, nil
}

// badParamError reports an unparseable query parameter.
type badParamError struct {
	param string
	value string
}

func (e *badParamError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for parameter " + e.param
}
