package enchant

import (
	"fmt"
	"slices"
)

// Profile maps each enchantment on an item to its level.
type Profile map[Enchantment]int

// ParseProfile builds a Profile from catalog names or namespaced keys.
func ParseProfile(levels map[string]int) (Profile, error) {
	p := make(Profile, len(levels))
	for name, level := range levels {
		e, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if _, dup := p[e]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalidInput, e)
		}
		p[e] = level
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks every key is a catalog entry and every level is in
// [1, MaxLevel].
func (p Profile) Validate() error {
	for _, e := range p.Keys() {
		if !e.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(e))
		}
		if level := p[e]; level < 1 || level > MaxLevel {
			return fmt.Errorf("%w: %s at level %d", ErrInvalidLevel, e, level)
		}
	}
	return nil
}

// Keys returns the enchantments in catalog order.
func (p Profile) Keys() []Enchantment {
	keys := make([]Enchantment, 0, len(p))
	for e := range p {
		keys = append(keys, e)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns an independent copy. A nil profile clones to an empty one.
func (p Profile) Clone() Profile {
	c := make(Profile, len(p))
	for e, level := range p {
		c[e] = level
	}
	return c
}

// Names returns the profile keyed by catalog name.
func (p Profile) Names() map[string]int {
	m := make(map[string]int, len(p))
	for e, level := range p {
		m[e.String()] = level
	}
	return m
}
