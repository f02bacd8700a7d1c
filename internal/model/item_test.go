package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

func TestItemProfile(t *testing.T) {
	t.Parallel()

	bow := &Item{Material: "BOW", Enchants: enchant.Profile{enchant.ArrowDamage: 5}}
	book := &Item{
		Material: MaterialEnchantedBook,
		Enchants: enchant.Profile{enchant.Durability: 1},
		Stored:   enchant.Profile{enchant.ArrowInfinite: 1},
	}

	assert.False(t, bow.IsStorage())
	assert.Equal(t, enchant.Profile{enchant.ArrowDamage: 5}, bow.Profile())

	assert.True(t, book.IsStorage())
	assert.Equal(t, enchant.Profile{enchant.ArrowInfinite: 1}, book.Profile())
}

func TestItemApplyMerge(t *testing.T) {
	t.Parallel()

	bow := &Item{
		Material:    "BOW",
		Enchants:    enchant.Profile{enchant.Mending: 1, enchant.ArrowDamage: 4},
		RepairCost:  3,
		DisplayName: "Old Bow",
	}

	out := bow.ApplyMerge(enchant.Profile{enchant.ArrowInfinite: 1, enchant.ArrowDamage: 5}, 7, "Longshot")

	assert.Equal(t, enchant.Profile{
		enchant.Mending:       1,
		enchant.ArrowDamage:   5,
		enchant.ArrowInfinite: 1,
	}, out.Enchants)
	assert.Equal(t, 7, out.RepairCost)
	assert.Equal(t, "Longshot", out.DisplayName)

	// The input snapshot is untouched.
	assert.Equal(t, enchant.Profile{enchant.Mending: 1, enchant.ArrowDamage: 4}, bow.Enchants)
	assert.Equal(t, 3, bow.RepairCost)
	assert.Equal(t, "Old Bow", bow.DisplayName)
}

func TestItemApplyMergeBook(t *testing.T) {
	t.Parallel()

	book := &Item{Material: MaterialEnchantedBook}
	out := book.ApplyMerge(enchant.Profile{enchant.Luck: 2}, 1, "")

	require.NotNil(t, out.Stored)
	assert.Equal(t, enchant.Profile{enchant.Luck: 2}, out.Stored)
	assert.Nil(t, out.Enchants)
	assert.Equal(t, "", out.DisplayName)
}

func TestNewMergeRecord(t *testing.T) {
	t.Parallel()

	a := NewMergeRecord("Steve", "s1", "abcd")
	b := NewMergeRecord("Steve", "s1", "abcd")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Steve", a.Player)
	assert.False(t, a.CreatedAt.IsZero())
}
