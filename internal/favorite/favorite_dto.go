package favorite

import "math"

// ==================== REQUEST STRUCTS ====================

type ToggleRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	ImageURL  string  `json:"imageUrl" validate:"omitempty,url"`
	Category  string  `json:"category"`
}

func (r ToggleRequest) entry() Entry {
	return Entry{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     r.Price,
		ImageURL:  r.ImageURL,
		Category:  r.Category,
	}
}

// ==================== RESPONSE STRUCTS ====================

type EntryResponse struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DisplayPrice int64   `json:"displayPrice"`
	ImageURL     string  `json:"imageUrl"`
	Category     string  `json:"category"`
}

type ListResponse struct {
	Items []EntryResponse `json:"items"`
	IDs   []string        `json:"ids"`
	Count int             `json:"count"`
}

type ToggleResponse struct {
	ProductID string `json:"productId"`
	Favorited bool   `json:"favorited"`
	Count     int    `json:"count"`
}

func toListResponse(s *Store) ListResponse {
	entries := s.Entries()
	items := make([]EntryResponse, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, EntryResponse{
			ProductID:    e.ProductID,
			Name:         e.Name,
			Price:        e.Price,
			DisplayPrice: int64(math.Round(e.Price)),
			ImageURL:     e.ImageURL,
			Category:     e.Category,
		})
		ids = append(ids, e.ProductID)
	}
	return ListResponse{Items: items, IDs: ids, Count: s.Count()}
}
