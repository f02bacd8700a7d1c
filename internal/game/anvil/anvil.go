// Package anvil decides the outcome of combining two enchanted items.
//
// The engine is pure: it reads the shared conflict and cost tables, never
// writes them, and keeps no state between calls. Allowance when conflicts
// are present is left to a Policy chosen by the caller.
package anvil

import (
	"fmt"
	"math"

	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

// Request is one combination attempt: target in the first slot, sacrifice
// in the second.
type Request struct {
	Target    enchant.Profile
	Sacrifice enchant.Profile

	TargetRepairCost    int
	SacrificeRepairCost int

	// SacrificeIsStorage prices the merged set at the reduced (book) rate.
	SacrificeIsStorage bool
	// TargetIsStorage narrows the penalty count to the sacrifice's enchantments.
	TargetIsStorage bool

	Renamed bool
}

// Validate checks both profiles and repair costs.
func (r Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if err := r.Sacrifice.Validate(); err != nil {
		return fmt.Errorf("sacrifice: %w", err)
	}
	if r.TargetRepairCost < 0 || r.TargetRepairCost > enchant.MaxRepairCost {
		return fmt.Errorf("target: %w, got %d", enchant.ErrInvalidRepairCost, r.TargetRepairCost)
	}
	if r.SacrificeRepairCost < 0 || r.SacrificeRepairCost > enchant.MaxRepairCost {
		return fmt.Errorf("sacrifice: %w, got %d", enchant.ErrInvalidRepairCost, r.SacrificeRepairCost)
	}
	return nil
}

// Result is the engine's decision for one Request.
type Result struct {
	// Merged holds the enchantments contributed by the sacrifice, with
	// duplicates bumped one level. Target-only enchantments are not included.
	Merged enchant.Profile
	// TotalCost is the experience cost of this merge, saturating at
	// math.MaxInt32.
	TotalCost int
	// Allowed is false only when neither item carries enchantments.
	Allowed bool
	// HasConflicts reports a sacrifice enchantment that conflicts with the
	// target or with another sacrifice enchantment.
	HasConflicts bool
	// Penalty is the repair cost to stamp on the output item for future merges.
	// It is not part of TotalCost.
	Penalty int
}

// Engine combines enchantment profiles using shared, read-only tables.
type Engine struct {
	rules *enchant.ConflictRules
	costs *enchant.CostTable
}

// NewEngine returns an engine bound to the given tables.
func NewEngine(rules *enchant.ConflictRules, costs *enchant.CostTable) *Engine {
	return &Engine{rules: rules, costs: costs}
}

// Rules returns the conflict table the engine reads.
func (e *Engine) Rules() *enchant.ConflictRules { return e.rules }

// Costs returns the cost table the engine reads.
func (e *Engine) Costs() *enchant.CostTable { return e.costs }

// Merge computes the merged profile, cost and penalty for req.
// Invalid input fails with an error wrapping enchant.ErrInvalidInput and no
// partial result.
func (e *Engine) Merge(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if len(req.Target) == 0 && len(req.Sacrifice) == 0 {
		return Result{Merged: enchant.Profile{}}, nil
	}

	hasConflicts := false
	merged := make(enchant.Profile, len(req.Sacrifice))

	for _, ench := range req.Sacrifice.Keys() {
		level := req.Sacrifice[ench]

		if !hasConflicts {
			withTarget, err := e.rules.HasAnyConflict(ench, req.Target)
			if err != nil {
				return Result{}, err
			}
			// conflicts(e, e) is false, so the sacrifice can be checked whole.
			withSelf, err := e.rules.HasAnyConflict(ench, req.Sacrifice)
			if err != nil {
				return Result{}, err
			}
			hasConflicts = withTarget || withSelf
		}

		dup, err := e.rules.HasDuplicate(ench, level, req.Target)
		if err != nil {
			return Result{}, err
		}
		if dup {
			level++
		}
		merged[ench] = level
	}

	penaltyCount := len(req.Target) + len(req.Sacrifice)
	if req.TargetIsStorage {
		penaltyCount = len(req.Sacrifice)
	}

	total := e.costs.TotalCost(merged, req.SacrificeIsStorage) +
		req.TargetRepairCost + req.SacrificeRepairCost
	if req.Renamed {
		total++
	}
	total = min(total, maxTotalCost)

	return Result{
		Merged:       merged,
		TotalCost:    total,
		Allowed:      true,
		HasConflicts: hasConflicts,
		Penalty:      Penalty(penaltyCount),
	}, nil
}

// maxPenalty caps the stamped repair cost at the range of the item's
// persisted field. maxTotalCost does the same for the merge log column.
const (
	maxPenalty   = math.MaxInt32
	maxTotalCost = math.MaxInt32
)

// Penalty returns 2^count - 1, saturating at math.MaxInt32.
func Penalty(count int) int {
	if count <= 0 {
		return 0
	}
	if count >= 31 {
		return maxPenalty
	}
	return 1<<count - 1
}
