package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemo(t *testing.T) {
	m := newMemo(2)
	calls := 0
	compute := func() []Item {
		calls++
		return []Item{{ID: "1"}}
	}
	c := Criteria{Category: AllCategories, SortMode: SortPopularity}

	first := m.get(1, c, compute)
	second := m.get(1, c, compute)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	// results are copies
	first[0].ID = "mutated"
	assert.Equal(t, "1", m.get(1, c, compute)[0].ID)

	// new version invalidates
	m.get(2, c, compute)
	assert.Equal(t, 2, calls)

	hits, misses := m.stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestMemo_Bounded(t *testing.T) {
	m := newMemo(2)
	for i := 0; i < 5; i++ {
		c := Criteria{SearchText: string(rune('a' + i))}
		m.get(1, c, func() []Item { return nil })
	}
	assert.LessOrEqual(t, len(m.entries), 2)
}
