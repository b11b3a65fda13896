package catalog

import "strings"

// AllCategories is the category value that disables the category filter.
const AllCategories = "All"

// allProducts is the label the mobile filter sheet sends for the same thing.
const allProducts = "All Products"

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Item is a read-only catalog entry.
type Item struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
	IsNew       bool    `json:"isNew,omitempty"`
}

func (i Item) rate() float64 {
	if i.Rating == nil {
		return 0
	}
	return i.Rating.Rate
}

type SortMode string

const (
	SortPopularity   SortMode = "popularity"
	SortNewest       SortMode = "newest"
	SortPriceLowHigh SortMode = "priceLowHigh"
	SortPriceHighLow SortMode = "priceHighLow"
)

// DefaultSort matches what the filter sheet preselects.
const DefaultSort = SortPopularity

func (m SortMode) Valid() bool {
	switch m {
	case SortPopularity, SortNewest, SortPriceLowHigh, SortPriceHighLow:
		return true
	}
	return false
}

// ParseSortMode accepts the camel case names plus their snake case spelling.
// An empty string yields DefaultSort.
func ParseSortMode(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSort, true
	case "popularity":
		return SortPopularity, true
	case "newest":
		return SortNewest, true
	case "pricelowhigh", "price_low_high":
		return SortPriceLowHigh, true
	case "pricehighlow", "price_high_low":
		return SortPriceHighLow, true
	}
	return "", false
}

// PriceRange bounds are inclusive.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Criteria is comparable so it can key the result memo.
type Criteria struct {
	Category   string     `json:"category"`
	SearchText string     `json:"searchText"`
	PriceRange PriceRange `json:"priceRange"`
	SortMode   SortMode   `json:"sortMode"`
}

// IsAllCategories reports whether category means "no category filter".
func IsAllCategories(category string) bool {
	switch category {
	case "", AllCategories, allProducts:
		return true
	}
	return false
}
