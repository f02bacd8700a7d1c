package enchant

import (
	"errors"
	"fmt"
	"math"
)

// MaxLevel is the highest level an item may carry into a merge. A duplicate
// at MaxLevel still bumps to MaxLevel+1 in the result.
const MaxLevel = 255

// MaxRepairCost bounds the accumulated repair cost of an input item.
const MaxRepairCost = math.MaxInt32

// MaxUnitCost bounds a single cost table entry.
const MaxUnitCost = 1 << 10

// ErrInvalidInput is the only error kind the merge core produces.
// Every validation failure below wraps it.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidEnchantment = fmt.Errorf("%w: unknown enchantment", ErrInvalidInput)
	ErrInvalidLevel       = fmt.Errorf("%w: enchantment level must be in [1, %d]", ErrInvalidInput, MaxLevel)
	ErrInvalidRepairCost  = fmt.Errorf("%w: repair cost must be in [0, %d]", ErrInvalidInput, MaxRepairCost)
)

// ErrInvalidTable is returned when static rule data fails construction checks.
var ErrInvalidTable = errors.New("invalid enchantment table")
