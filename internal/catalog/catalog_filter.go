package catalog

import (
	"math"
	"sort"
	"strings"
)

// FilterAndSort returns the items matching c, sorted by c.SortMode.
// The input slice is never modified and the result never aliases it.
//
// A range whose Min is above Max, whose Max is negative, or with a NaN
// bound matches nothing. A negative Min is treated as 0. Unknown sort
// modes keep the input order.
func FilterAndSort(items []Item, c Criteria) []Item {
	out := make([]Item, 0, len(items))
	if !c.PriceRange.matchable() {
		return out
	}
	minPrice := max(c.PriceRange.Min, 0)
	maxPrice := c.PriceRange.Max

	query := strings.ToLower(strings.TrimSpace(c.SearchText))
	allCategories := IsAllCategories(c.Category)

	for _, it := range items {
		if !allCategories && it.Category != c.Category {
			continue
		}
		if it.Price < minPrice || it.Price > maxPrice {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Title), query) {
			continue
		}
		out = append(out, it)
	}

	sortItems(out, c.SortMode)
	return out
}

func (r PriceRange) matchable() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return false
	}
	return r.Min <= r.Max && r.Max >= 0
}

func sortItems(items []Item, mode SortMode) {
	if !mode.Valid() {
		return
	}

	var less func(a, b Item) bool
	switch mode {
	case SortPopularity:
		less = func(a, b Item) bool { return a.rate() > b.rate() }
	case SortNewest:
		less = func(a, b Item) bool { return a.IsNew && !b.IsNew }
	case SortPriceLowHigh:
		less = func(a, b Item) bool { return a.Price < b.Price }
	case SortPriceHighLow:
		less = func(a, b Item) bool { return a.Price > b.Price }
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

// Categories lists the distinct categories in first-seen order, with
// AllCategories first.
func Categories(items []Item) []string {
	seen := make(map[string]struct{}, 8)
	out := []string{AllCategories}
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// Bounds is the smallest range that contains every item price.
func Bounds(items []Item) PriceRange {
	if len(items) == 0 {
		return PriceRange{}
	}
	r := PriceRange{Min: items[0].Price, Max: items[0].Price}
	for _, it := range items[1:] {
		r.Min = min(r.Min, it.Price)
		r.Max = max(r.Max, it.Price)
	}
	return r
}
