package testutil

import "errors"

// ErrSimulated stands in for a failing collaborator (database, recorder).
var ErrSimulated = errors.New("simulated collaborator failure")
