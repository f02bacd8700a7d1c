package enchant

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Enchantment
		wantErr bool
	}{
		{"catalog name", "ARROW_INFINITE", ArrowInfinite, false},
		{"lower case", "impaling", Impaling, false},
		{"namespaced key", "minecraft:luck_of_the_sea", Luck, false},
		{"bare key", "sharpness", DamageAll, false},
		{"padded", "  MENDING ", Mending, false},
		{"unknown", "FLIGHT", Invalid, true},
		{"empty", "", Invalid, true},
		{"placeholder name", "INVALID", Invalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidEnchantment))
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	t.Parallel()

	all := All()
	require.Len(t, all, int(Count)-1)

	for _, e := range all {
		assert.True(t, e.Valid(), "%d", uint8(e))

		byName, err := Parse(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, byName)

		byKey, err := Parse(e.Key())
		require.NoError(t, err)
		assert.Equal(t, e, byKey)
	}

	assert.False(t, Invalid.Valid())
	assert.False(t, Count.Valid())
	assert.Equal(t, "", Invalid.Key())
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile Profile
		wantErr error
	}{
		{"empty", Profile{}, nil},
		{"nil", nil, nil},
		{"valid", Profile{Mending: 1, DamageAll: 5}, nil},
		{"zero level", Profile{Mending: 0}, ErrInvalidLevel},
		{"negative level", Profile{Thorns: -2}, ErrInvalidLevel},
		{"max level", Profile{Luck: MaxLevel}, nil},
		{"above max level", Profile{Luck: MaxLevel + 1}, ErrInvalidLevel},
		{"max int level", Profile{Luck: math.MaxInt}, ErrInvalidLevel},
		{"invalid key", Profile{Invalid: 1}, ErrInvalidEnchantment},
		{"out of range key", Profile{Count + 3: 1}, ErrInvalidEnchantment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.profile.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProfileKeysDeterministic(t *testing.T) {
	t.Parallel()

	p := Profile{SwiftSneak: 1, ProtectionEnvironmental: 4, ArrowInfinite: 1, Luck: 3}
	want := []Enchantment{ProtectionEnvironmental, ArrowInfinite, Luck, SwiftSneak}

	for range 20 {
		assert.Equal(t, want, p.Keys())
	}
}

func TestParseProfile(t *testing.T) {
	t.Parallel()

	p, err := ParseProfile(map[string]int{"ARROW_INFINITE": 1, "minecraft:impaling": 2})
	require.NoError(t, err)
	assert.Equal(t, Profile{ArrowInfinite: 1, Impaling: 2}, p)

	_, err = ParseProfile(map[string]int{"infinity": 1, "ARROW_INFINITE": 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseProfile(map[string]int{"LUCK": 0})
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = ParseProfile(map[string]int{"NOPE": 1})
	assert.ErrorIs(t, err, ErrInvalidEnchantment)
}

func TestProfileJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(Profile{ArrowInfinite: 1, Impaling: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ARROW_INFINITE":1,"IMPALING":2}`, string(raw))

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{"minecraft:mending":1,"LUCK":3}`), &p))
	assert.Equal(t, Profile{Mending: 1, Luck: 3}, p)

	err = json.Unmarshal([]byte(`{"NOPE":1}`), &p)
	assert.ErrorIs(t, err, ErrInvalidEnchantment)
}

func TestProfileClone(t *testing.T) {
	t.Parallel()

	orig := Profile{Mending: 1}
	c := orig.Clone()
	c[Mending] = 2
	c[Thorns] = 1

	assert.Equal(t, Profile{Mending: 1}, orig)
	assert.NotNil(t, Profile(nil).Clone())
	assert.Equal(t, map[string]int{"MENDING": 1}, orig.Names())
}
