package anvil

import (
	"fmt"
	"slices"
)

// Policy decides whether a merge that has conflicts may go ahead.
// It is only consulted when Result.HasConflicts is true.
type Policy interface {
	Allow(req Request, res Result) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(req Request, res Result) bool

// Allow calls f.
func (f PolicyFunc) Allow(req Request, res Result) bool { return f(req, res) }

// Policy names accepted by PolicyByName and the configuration file.
// PolicyItemTarget is the default.
const (
	PolicyItemTarget    = "item-target"
	PolicyStorageTarget = "storage-target"
	PolicyNoBookOnBook  = "no-book-on-book"
	PolicyStrict        = "strict"
	PolicyAllowAll      = "allow-all"
)

var (
	// AllowItemTarget lets a conflicting merge through when the target is not
	// a storage item or the sacrifice is one. Books onto tools and book onto
	// book go ahead; a tool cannot be sacrificed into a book.
	AllowItemTarget = PolicyFunc(func(req Request, _ Result) bool {
		return !req.TargetIsStorage || req.SacrificeIsStorage
	})

	// AllowStorageTarget lets a conflicting merge through when the target is
	// a storage item or the sacrifice is not one.
	AllowStorageTarget = PolicyFunc(func(req Request, _ Result) bool {
		return req.TargetIsStorage || !req.SacrificeIsStorage
	})

	// DenyBookOnBook lets every conflicting merge through except book onto book.
	DenyBookOnBook = PolicyFunc(func(req Request, _ Result) bool {
		return !(req.TargetIsStorage && req.SacrificeIsStorage)
	})

	// Strict rejects every conflicting merge, as the base game does.
	Strict = PolicyFunc(func(Request, Result) bool { return false })

	// AllowAll never rejects.
	AllowAll = PolicyFunc(func(Request, Result) bool { return true })
)

var policies = map[string]Policy{
	PolicyItemTarget:    AllowItemTarget,
	PolicyStorageTarget: AllowStorageTarget,
	PolicyNoBookOnBook:  DenyBookOnBook,
	PolicyStrict:        Strict,
	PolicyAllowAll:      AllowAll,
}

// PolicyNames returns the registered policy names, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// PolicyByName looks up a registered policy.
func PolicyByName(name string) (Policy, error) {
	p, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown merge policy %q (want one of %v)", name, PolicyNames())
	}
	return p, nil
}

// Decide folds the policy into the engine's allowance: a merge is allowed
// when the engine allows it and, if it has conflicts, the policy agrees.
func Decide(p Policy, req Request, res Result) bool {
	if !res.Allowed {
		return false
	}
	if !res.HasConflicts {
		return true
	}
	return p.Allow(req, res)
}
