package cart

// ==================== REQUEST STRUCTS ====================

type AddItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	ImageURL  string  `json:"imageUrl" validate:"omitempty,url"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// ==================== RESPONSE STRUCTS ====================

type CartLineResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type CartDetailResponse struct {
	Items    []CartLineResponse `json:"items"`
	Count    int                `json:"count"`
	Subtotal float64            `json:"subtotal"`
	Tax      float64            `json:"tax"`
	TaxRate  float64            `json:"taxRate"`
	Total    float64            `json:"total"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

func toDetailResponse(s *Store) CartDetailResponse {
	lines := s.Lines()
	items := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			ImageURL:  l.ImageURL,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: roundMoney(l.UnitPrice * float64(l.Quantity)),
		})
	}

	totals := s.Totals().Rounded()
	return CartDetailResponse{
		Items:    items,
		Count:    s.Count(),
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		TaxRate:  TaxRate,
		Total:    totals.Total,
	}
}
