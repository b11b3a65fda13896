package favorite

// Entry is a favorited product. Only ProductID takes part in identity.
type Entry struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Category  string  `json:"category"`
}

// IDSet answers "is this product favorited" in constant time.
type IDSet map[string]struct{}

func (s IDSet) Has(productID string) bool {
	_, ok := s[productID]
	return ok
}

// Slice returns the ids in no particular order.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// Store keeps favorites in the order they were added, with a map index for
// membership. Like cart.Store it does no locking.
type Store struct {
	entries []Entry
	index   IDSet
}

func NewStore() *Store {
	return &Store{index: make(IDSet)}
}

// Restore rebuilds a store, keeping the first entry for any duplicated id.
func Restore(entries []Entry) *Store {
	s := &Store{
		entries: make([]Entry, 0, len(entries)),
		index:   make(IDSet, len(entries)),
	}
	for _, e := range entries {
		if e.ProductID == "" || s.index.Has(e.ProductID) {
			continue
		}
		s.entries = append(s.entries, e)
		s.index[e.ProductID] = struct{}{}
	}
	return s
}

// Toggle removes the entry when present and appends it otherwise.
// It reports whether the product is favorited afterwards.
func (s *Store) Toggle(e Entry) bool {
	if s.Remove(e.ProductID) {
		return false
	}
	s.entries = append(s.entries, e)
	s.index[e.ProductID] = struct{}{}
	return true
}

// Remove reports whether an entry was removed.
func (s *Store) Remove(productID string) bool {
	if !s.index.Has(productID) {
		return false
	}
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	delete(s.index, productID)
	return true
}

func (s *Store) Clear() {
	s.entries = nil
	s.index = make(IDSet)
}

func (s *Store) Has(productID string) bool {
	return s.index.Has(productID)
}

func (s *Store) Entry(productID string) (Entry, bool) {
	if !s.index.Has(productID) {
		return Entry{}, false
	}
	for _, e := range s.entries {
		if e.ProductID == productID {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy in insertion order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IDs returns a copy of the membership set.
func (s *Store) IDs() IDSet {
	out := make(IDSet, len(s.index))
	for id := range s.index {
		out[id] = struct{}{}
	}
	return out
}

func (s *Store) Count() int {
	return len(s.entries)
}
