// Package data loads the static anvil rule data: the conflict relation and
// the cost table. The shipped data is embedded; operators may point the
// server at their own file with the same layout.
package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

//go:embed enchantments.yaml
var defaultRules []byte

// Rules bundles the immutable tables the merge engine reads.
type Rules struct {
	Conflicts *enchant.ConflictRules
	Costs     *enchant.CostTable
}

// enchantmentDef is one entry in enchantments.yaml.
type enchantmentDef struct {
	Name        string   `yaml:"name"`
	Cost        int      `yaml:"cost"`
	ReducedCost int      `yaml:"reduced_cost"`
	Conflicts   []string `yaml:"conflicts"`
}

type rulesFile struct {
	Enchantments []enchantmentDef `yaml:"enchantments"`
}

// Default parses the embedded rule data.
func Default() (*Rules, error) {
	return Parse(defaultRules)
}

// Load reads rules from path; an empty path selects the embedded data.
func Load(path string) (*Rules, error) {
	if path == "" {
		rules, err := Default()
		if err != nil {
			return nil, fmt.Errorf("parsing embedded rules: %w", err)
		}
		slog.Info("loaded enchantment rules", "source", "embedded",
			"enchantments", rules.Costs.Len(), "conflict_pairs", rules.Conflicts.Pairs())
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}
	rules, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	slog.Info("loaded enchantment rules", "source", path,
		"enchantments", rules.Costs.Len(), "conflict_pairs", rules.Conflicts.Pairs())
	return rules, nil
}

// Parse builds Rules from YAML. Every catalog enchantment must be priced
// exactly once and every conflict must be listed on both sides.
func Parse(raw []byte) (*Rules, error) {
	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	costs := make(map[enchant.Enchantment]enchant.CostEntry, len(file.Enchantments))
	relation := make(map[enchant.Enchantment][]enchant.Enchantment)

	for i, def := range file.Enchantments {
		e, err := enchant.Parse(def.Name)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := costs[e]; dup {
			return nil, fmt.Errorf("%w: %s defined twice", enchant.ErrInvalidTable, e)
		}
		costs[e] = enchant.CostEntry{Base: def.Cost, Reduced: def.ReducedCost}

		for _, name := range def.Conflicts {
			other, err := enchant.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("%s conflicts: %w", e, err)
			}
			relation[e] = append(relation[e], other)
		}
	}

	costTable, err := enchant.NewCostTable(costs)
	if err != nil {
		return nil, err
	}
	if missing := costTable.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: no cost entry for %v", enchant.ErrInvalidTable, missing)
	}

	conflicts, err := enchant.NewConflictRules(relation)
	if err != nil {
		return nil, err
	}

	return &Rules{Conflicts: conflicts, Costs: costTable}, nil
}
