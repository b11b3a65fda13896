package catalog

import "math"

// ==================== REQUEST STRUCTS ====================

type ListQuery struct {
	Category string   `form:"category"`
	Search   string   `form:"search"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
	SortBy   string   `form:"sort_by"`
}

// Validate rejects an unknown sort mode and price bounds that are NaN or
// infinite.
func (q ListQuery) Validate() error {
	if _, ok := ParseSortMode(q.SortBy); !ok {
		return ErrInvalidSortMode
	}
	for _, p := range []*float64{q.MinPrice, q.MaxPrice} {
		if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return ErrInvalidPriceRange
		}
	}
	return nil
}

// criteria fills omitted bounds from the catalog's own price range.
func (q ListQuery) criteria(bounds PriceRange) (Criteria, error) {
	if err := q.Validate(); err != nil {
		return Criteria{}, err
	}
	mode, _ := ParseSortMode(q.SortBy)

	r := bounds
	if q.MinPrice != nil {
		r.Min = *q.MinPrice
	}
	if q.MaxPrice != nil {
		r.Max = *q.MaxPrice
	}

	category := q.Category
	if IsAllCategories(category) {
		category = AllCategories
	}

	return Criteria{
		Category:   category,
		SearchText: q.Search,
		PriceRange: r,
		SortMode:   mode,
	}, nil
}

// ==================== RESPONSE STRUCTS ====================

type ItemResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	DisplayPrice int64   `json:"displayPrice"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Rating       *Rating `json:"rating,omitempty"`
	IsNew        bool    `json:"isNew"`
	Favorited    bool    `json:"favorited"`
}

type ListResponse struct {
	Items    []ItemResponse `json:"items"`
	Count    int            `json:"count"`
	Criteria Criteria       `json:"criteria"`
	Bounds   PriceRange     `json:"bounds"`
}

type CategoriesResponse struct {
	Categories []string   `json:"categories"`
	Bounds     PriceRange `json:"bounds"`
}

// DisplayPrice is the price shown on product cards: rounded to a whole unit.
func DisplayPrice(price float64) int64 {
	return int64(math.Round(price))
}

func toItemResponse(it Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		Title:        it.Title,
		Price:        it.Price,
		DisplayPrice: DisplayPrice(it.Price),
		Category:     it.Category,
		Description:  it.Description,
		Image:        it.Image,
		Rating:       it.Rating,
		IsNew:        it.IsNew,
	}
}

func toItemResponses(items []Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}
