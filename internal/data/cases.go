package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

// Case is one merge scenario from a case file, with an optional expected cost.
type Case struct {
	Name       string
	Request    anvil.Request
	ExpectCost *int
}

type caseDef struct {
	Name                string         `yaml:"name"`
	Target              map[string]int `yaml:"target"`
	Sacrifice           map[string]int `yaml:"sacrifice"`
	TargetRepairCost    int            `yaml:"target_repair_cost"`
	SacrificeRepairCost int            `yaml:"sacrifice_repair_cost"`
	TargetIsStorage     bool           `yaml:"target_is_storage"`
	SacrificeIsStorage  bool           `yaml:"sacrifice_is_storage"`
	Renamed             bool           `yaml:"renamed"`
	ExpectCost          *int           `yaml:"expect_cost"`
}

type casesFile struct {
	Cases []caseDef `yaml:"cases"`
}

// LoadCases reads a YAML case file.
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cases %s: %w", path, err)
	}
	cases, err := ParseCases(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing cases %s: %w", path, err)
	}
	return cases, nil
}

// ParseCases decodes a case file. Enchantment names are resolved here, so
// unknown names fail before any merge runs.
func ParseCases(raw []byte) ([]Case, error) {
	var file casesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	cases := make([]Case, 0, len(file.Cases))
	for i, def := range file.Cases {
		name := def.Name
		if name == "" {
			name = fmt.Sprintf("case #%d", i+1)
		}

		target, err := enchant.ParseProfile(def.Target)
		if err != nil {
			return nil, fmt.Errorf("%s target: %w", name, err)
		}
		sacrifice, err := enchant.ParseProfile(def.Sacrifice)
		if err != nil {
			return nil, fmt.Errorf("%s sacrifice: %w", name, err)
		}

		cases = append(cases, Case{
			Name: name,
			Request: anvil.Request{
				Target:              target,
				Sacrifice:           sacrifice,
				TargetRepairCost:    def.TargetRepairCost,
				SacrificeRepairCost: def.SacrificeRepairCost,
				TargetIsStorage:     def.TargetIsStorage,
				SacrificeIsStorage:  def.SacrificeIsStorage,
				Renamed:             def.Renamed,
			},
			ExpectCost: def.ExpectCost,
		})
	}
	return cases, nil
}
