package model

import (
	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

// MaterialEnchantedBook is the one storage-type material: its enchantments
// are held in the stored set instead of being active.
const MaterialEnchantedBook = "ENCHANTED_BOOK"

// Item is a snapshot of an item in an anvil slot.
// Only the attributes the merge reads or writes are modelled.
type Item struct {
	Material    string          `json:"material" validate:"required"`
	Enchants    enchant.Profile `json:"enchants,omitempty"`
	Stored      enchant.Profile `json:"stored_enchants,omitempty"`
	RepairCost  int             `json:"repair_cost" validate:"gte=0,lte=2147483647"`
	DisplayName string          `json:"display_name,omitempty"`
}

// IsStorage reports whether the item holds stored enchantments (a book).
func (i *Item) IsStorage() bool {
	return i.Material == MaterialEnchantedBook
}

// Profile returns the enchantment set that takes part in a merge:
// the stored set for books, the active set otherwise.
func (i *Item) Profile() enchant.Profile {
	if i.IsStorage() {
		return i.Stored
	}
	return i.Enchants
}

// Clone returns a deep copy.
func (i *Item) Clone() *Item {
	c := *i
	if i.Enchants != nil {
		c.Enchants = i.Enchants.Clone()
	}
	if i.Stored != nil {
		c.Stored = i.Stored.Clone()
	}
	return &c
}

// ApplyMerge writes merged enchantments onto a copy of the item.
// Existing enchantments are kept; merged entries overwrite them. Books
// receive the enchantments in their stored set.
func (i *Item) ApplyMerge(merged enchant.Profile, repairCost int, rename string) *Item {
	out := i.Clone()

	dst := &out.Enchants
	if out.IsStorage() {
		dst = &out.Stored
	}
	if *dst == nil {
		*dst = make(enchant.Profile, len(merged))
	}
	for e, level := range merged {
		(*dst)[e] = level
	}

	out.RepairCost = repairCost
	if rename != "" {
		out.DisplayName = rename
	}
	return out
}
