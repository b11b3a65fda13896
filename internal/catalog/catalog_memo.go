package catalog

import "sync"

const defaultMemoSize = 256

type memoKey struct {
	version  uint64
	criteria Criteria
}

// memo caches pipeline results per (snapshot version, criteria). Entries
// from older versions are dropped as soon as a newer version is seen.
type memo struct {
	mu      sync.Mutex
	version uint64
	size    int
	entries map[memoKey][]Item
	hits    uint64
	misses  uint64
}

func newMemo(size int) *memo {
	if size <= 0 {
		size = defaultMemoSize
	}
	return &memo{size: size, entries: make(map[memoKey][]Item, size)}
}

// get returns a copy of the cached result, computing it with fn on a miss.
func (m *memo) get(version uint64, c Criteria, fn func() []Item) []Item {
	key := memoKey{version: version, criteria: c}

	m.mu.Lock()
	if version != m.version {
		m.version = version
		m.entries = make(map[memoKey][]Item, m.size)
	}
	if res, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return clone(res)
	}
	m.misses++
	m.mu.Unlock()

	res := fn()

	m.mu.Lock()
	if version == m.version {
		if len(m.entries) >= m.size {
			m.entries = make(map[memoKey][]Item, m.size)
		}
		m.entries[key] = res
	}
	m.mu.Unlock()

	return clone(res)
}

func (m *memo) stats() (hits, misses uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
