package cart

import "github.com/shopspring/decimal"

// TaxRate is applied to the subtotal of every cart.
const TaxRate = 0.08

// Line is one product row in a cart. Quantity is always >= 1.
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Item is what the caller knows about a product when adding it.
type Item struct {
	ProductID string
	Name      string
	ImageURL  string
	UnitPrice float64
}

// Totals are kept at full precision; call Rounded for display.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Rounded returns the totals rounded half-up to two decimals.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: roundMoney(t.Subtotal),
		Tax:      roundMoney(t.Tax),
		Total:    roundMoney(t.Total),
	}
}

func roundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Store owns the lines of a single cart. It does no I/O and no locking;
// callers serialise access.
type Store struct {
	lines []Line
}

func NewStore() *Store {
	return &Store{}
}

// Restore rebuilds a store from persisted lines, dropping any line whose
// quantity is not positive.
func Restore(lines []Line) *Store {
	s := &Store{lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add bumps an existing line by one or appends a new line with quantity 1.
// The unit price of an existing line is kept.
func (s *Store) Add(item Item) {
	if i := s.indexOf(item.ProductID); i >= 0 {
		s.lines[i].Quantity++
		return
	}
	s.lines = append(s.lines, Line{
		ProductID: item.ProductID,
		Name:      item.Name,
		ImageURL:  item.ImageURL,
		UnitPrice: item.UnitPrice,
		Quantity:  1,
	})
}

// Increase reports whether a line was found.
func (s *Store) Increase(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.lines[i].Quantity++
	return true
}

// Decrease never takes a line below 1 and never removes it.
// It reports whether the quantity changed.
func (s *Store) Decrease(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 || s.lines[i].Quantity <= 1 {
		return false
	}
	s.lines[i].Quantity--
	return true
}

// Remove reports whether a line was removed.
func (s *Store) Remove(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return true
}

func (s *Store) Clear() {
	s.lines = nil
}

// Line returns a copy of the line for productID.
func (s *Store) Line(productID string) (Line, bool) {
	i := s.indexOf(productID)
	if i < 0 {
		return Line{}, false
	}
	return s.lines[i], true
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Count is the sum of all quantities.
func (s *Store) Count() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Totals() Totals {
	var subtotal float64
	for _, l := range s.lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
