package enchant

import "fmt"

// CostEntry is the per-level experience cost of one enchantment.
// Reduced applies when the enchantment comes from a storage item (a book).
type CostEntry struct {
	Base    int
	Reduced int
}

// CostTable is a static lookup of per-level costs. Read-only after
// construction.
type CostTable struct {
	entries [Count]CostEntry
	known   [Count]bool
	size    int
}

// NewCostTable validates and freezes the given entries. Partial tables are
// accepted; enchantments without an entry price at zero.
func NewCostTable(entries map[Enchantment]CostEntry) (*CostTable, error) {
	t := &CostTable{}
	for e, c := range entries {
		if !e.Valid() {
			return nil, fmt.Errorf("%w: cost for unknown enchantment %d", ErrInvalidTable, uint8(e))
		}
		if c.Base < 1 || c.Reduced < 1 {
			return nil, fmt.Errorf("%w: %s costs must be positive, got %d/%d", ErrInvalidTable, e, c.Base, c.Reduced)
		}
		if c.Base > MaxUnitCost {
			return nil, fmt.Errorf("%w: %s base cost %d exceeds %d", ErrInvalidTable, e, c.Base, MaxUnitCost)
		}
		if c.Reduced > c.Base {
			return nil, fmt.Errorf("%w: %s reduced cost %d exceeds base %d", ErrInvalidTable, e, c.Reduced, c.Base)
		}
		t.entries[e] = c
		t.known[e] = true
		t.size++
	}
	return t, nil
}

// Len returns the number of priced enchantments.
func (t *CostTable) Len() int {
	return t.size
}

// Entry returns the cost entry for e, if the table prices it.
func (t *CostTable) Entry(e Enchantment) (CostEntry, bool) {
	if !e.Valid() || !t.known[e] {
		return CostEntry{}, false
	}
	return t.entries[e], true
}

// Missing returns catalog entries the table does not price.
func (t *CostTable) Missing() []Enchantment {
	var out []Enchantment
	for e := Invalid + 1; e < Count; e++ {
		if !t.known[e] {
			out = append(out, e)
		}
	}
	return out
}

// UnitCost returns the per-level cost of e.
//
// NOTE: enchantments missing from the table cost 0, so an unpriced
// enchantment merges for free.
func (t *CostTable) UnitCost(e Enchantment, reduced bool) int {
	c, ok := t.Entry(e)
	if !ok {
		return 0
	}
	if reduced {
		return c.Reduced
	}
	return c.Base
}

// TotalCost sums UnitCost(e, reduced) * level over the profile.
func (t *CostTable) TotalCost(p Profile, reduced bool) int {
	total := 0
	for e, level := range p {
		total += t.UnitCost(e, reduced) * level
	}
	return total
}
