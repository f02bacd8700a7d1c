package enchant

import (
	"fmt"
)

// ConflictRules is the symmetric "cannot coexist" relation over the catalog.
// Built once by NewConflictRules and read-only afterwards, so a single value
// can be shared by any number of goroutines.
type ConflictRules struct {
	matrix [Count][Count]bool
	pairs  int
}

// NewConflictRules builds the relation from an adjacency list.
//
// Every edge must be listed from both ends: if relation[a] contains b then
// relation[b] must contain a. Self-conflicts and unknown enchantments are
// rejected.
func NewConflictRules(relation map[Enchantment][]Enchantment) (*ConflictRules, error) {
	r := &ConflictRules{}

	for a, others := range relation {
		if !a.Valid() {
			return nil, fmt.Errorf("%w: conflict source %d is not a catalog entry", ErrInvalidTable, uint8(a))
		}
		for _, b := range others {
			if !b.Valid() {
				return nil, fmt.Errorf("%w: %s conflicts with unknown enchantment %d", ErrInvalidTable, a, uint8(b))
			}
			if a == b {
				return nil, fmt.Errorf("%w: %s conflicts with itself", ErrInvalidTable, a)
			}
			r.matrix[a][b] = true
		}
	}

	for a := Invalid + 1; a < Count; a++ {
		for b := a + 1; b < Count; b++ {
			if r.matrix[a][b] != r.matrix[b][a] {
				return nil, fmt.Errorf("%w: conflict %s/%s is listed on one side only", ErrInvalidTable, a, b)
			}
			if r.matrix[a][b] {
				r.pairs++
			}
		}
	}

	return r, nil
}

// Pairs returns the number of distinct conflicting pairs.
func (r *ConflictRules) Pairs() int {
	return r.pairs
}

// ConflictsOf returns every enchantment that conflicts with e, in catalog order.
func (r *ConflictRules) ConflictsOf(e Enchantment) []Enchantment {
	if !e.Valid() {
		return nil
	}
	var out []Enchantment
	for b := Invalid + 1; b < Count; b++ {
		if r.matrix[e][b] {
			out = append(out, b)
		}
	}
	return out
}

// Conflicts reports whether a and b cannot coexist. It is false for a == b.
func (r *ConflictRules) Conflicts(a, b Enchantment) (bool, error) {
	if !a.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(a))
	}
	if !b.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(b))
	}
	return r.matrix[a][b], nil
}

// HasAnyConflict reports whether candidate conflicts with at least one
// enchantment in against. Levels in against are not consulted.
func (r *ConflictRules) HasAnyConflict(candidate Enchantment, against Profile) (bool, error) {
	if !candidate.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(candidate))
	}
	for _, e := range against.Keys() {
		if !e.Valid() {
			return false, fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(e))
		}
		if r.matrix[candidate][e] {
			return true, nil
		}
	}
	return false, nil
}

// HasDuplicate reports whether profile holds candidate at exactly level.
// The same enchantment at any other level is not a duplicate.
func (r *ConflictRules) HasDuplicate(candidate Enchantment, level int, profile Profile) (bool, error) {
	if !candidate.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(candidate))
	}
	if level < 1 || level > MaxLevel {
		return false, fmt.Errorf("%w: %s at level %d", ErrInvalidLevel, candidate, level)
	}
	current, ok := profile[candidate]
	return ok && current == level, nil
}
