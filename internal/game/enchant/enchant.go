// Package enchant models the enchantment catalog and the static rule data
// the anvil works with: which enchantments conflict and what each one costs
// per level.
//
// Catalog names follow the Bukkit enum (ARROW_INFINITE, DAMAGE_ALL, ...);
// Parse also accepts the namespaced game keys (minecraft:infinity).
package enchant

import (
	"fmt"
	"strings"
)

// Enchantment identifies one entry of the fixed enchantment catalog.
// The zero value is Invalid.
type Enchantment uint8

const (
	Invalid Enchantment = iota

	ProtectionEnvironmental
	ProtectionFire
	ProtectionFall
	ProtectionExplosions
	ProtectionProjectile
	Oxygen
	WaterWorker
	Thorns
	DepthStrider
	FrostWalker
	BindingCurse
	DamageAll
	DamageUndead
	DamageArthropods
	Knockback
	FireAspect
	LootBonusMobs
	SweepingEdge
	DigSpeed
	SilkTouch
	Durability
	LootBonusBlocks
	ArrowDamage
	ArrowKnockback
	ArrowFire
	ArrowInfinite
	Luck
	Lure
	Loyalty
	Impaling
	Riptide
	Channeling
	Multishot
	QuickCharge
	Piercing
	Mending
	VanishingCurse
	SoulSpeed
	SwiftSneak

	// Count is the size of lookup arrays indexed by Enchantment (Invalid included).
	Count
)

type catalogEntry struct {
	name string // Bukkit enum name
	key  string // namespaced key without the "minecraft:" prefix
}

var catalog = [Count]catalogEntry{
	Invalid:                 {"INVALID", ""},
	ProtectionEnvironmental: {"PROTECTION_ENVIRONMENTAL", "protection"},
	ProtectionFire:          {"PROTECTION_FIRE", "fire_protection"},
	ProtectionFall:          {"PROTECTION_FALL", "feather_falling"},
	ProtectionExplosions:    {"PROTECTION_EXPLOSIONS", "blast_protection"},
	ProtectionProjectile:    {"PROTECTION_PROJECTILE", "projectile_protection"},
	Oxygen:                  {"OXYGEN", "respiration"},
	WaterWorker:             {"WATER_WORKER", "aqua_affinity"},
	Thorns:                  {"THORNS", "thorns"},
	DepthStrider:            {"DEPTH_STRIDER", "depth_strider"},
	FrostWalker:             {"FROST_WALKER", "frost_walker"},
	BindingCurse:            {"BINDING_CURSE", "binding_curse"},
	DamageAll:               {"DAMAGE_ALL", "sharpness"},
	DamageUndead:            {"DAMAGE_UNDEAD", "smite"},
	DamageArthropods:        {"DAMAGE_ARTHROPODS", "bane_of_arthropods"},
	Knockback:               {"KNOCKBACK", "knockback"},
	FireAspect:              {"FIRE_ASPECT", "fire_aspect"},
	LootBonusMobs:           {"LOOT_BONUS_MOBS", "looting"},
	SweepingEdge:            {"SWEEPING_EDGE", "sweeping_edge"},
	DigSpeed:                {"DIG_SPEED", "efficiency"},
	SilkTouch:               {"SILK_TOUCH", "silk_touch"},
	Durability:              {"DURABILITY", "unbreaking"},
	LootBonusBlocks:         {"LOOT_BONUS_BLOCKS", "fortune"},
	ArrowDamage:             {"ARROW_DAMAGE", "power"},
	ArrowKnockback:          {"ARROW_KNOCKBACK", "punch"},
	ArrowFire:               {"ARROW_FIRE", "flame"},
	ArrowInfinite:           {"ARROW_INFINITE", "infinity"},
	Luck:                    {"LUCK", "luck_of_the_sea"},
	Lure:                    {"LURE", "lure"},
	Loyalty:                 {"LOYALTY", "loyalty"},
	Impaling:                {"IMPALING", "impaling"},
	Riptide:                 {"RIPTIDE", "riptide"},
	Channeling:              {"CHANNELING", "channeling"},
	Multishot:               {"MULTISHOT", "multishot"},
	QuickCharge:             {"QUICK_CHARGE", "quick_charge"},
	Piercing:                {"PIERCING", "piercing"},
	Mending:                 {"MENDING", "mending"},
	VanishingCurse:          {"VANISHING_CURSE", "vanishing_curse"},
	SoulSpeed:               {"SOUL_SPEED", "soul_speed"},
	SwiftSneak:              {"SWIFT_SNEAK", "swift_sneak"},
}

// byName indexes the catalog by both spellings, lower-cased.
var byName = func() map[string]Enchantment {
	m := make(map[string]Enchantment, 2*int(Count))
	for e := Invalid + 1; e < Count; e++ {
		m[strings.ToLower(catalog[e].name)] = e
		m[catalog[e].key] = e
	}
	return m
}()

// Valid reports whether e is a catalog entry.
func (e Enchantment) Valid() bool {
	return e > Invalid && e < Count
}

// String returns the catalog name (ARROW_INFINITE).
func (e Enchantment) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Enchantment(%d)", uint8(e))
	}
	return catalog[e].name
}

// Key returns the namespaced game key (minecraft:infinity).
func (e Enchantment) Key() string {
	if !e.Valid() {
		return ""
	}
	return "minecraft:" + catalog[e].key
}

// MarshalText implements encoding.TextMarshaler, so profiles encode as
// JSON objects keyed by catalog name.
func (e Enchantment) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEnchantment, uint8(e))
	}
	return []byte(catalog[e].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Enchantment) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Parse resolves a catalog name or namespaced key, case-insensitively.
func Parse(name string) (Enchantment, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "minecraft:")
	if e, ok := byName[n]; ok {
		return e, nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrInvalidEnchantment, name)
}

// All returns every catalog entry in ordinal order.
func All() []Enchantment {
	all := make([]Enchantment, 0, Count-1)
	for e := Invalid + 1; e < Count; e++ {
		all = append(all, e)
	}
	return all
}
