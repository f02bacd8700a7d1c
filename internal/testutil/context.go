package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout returns a context with a timeout, cancelled when the test ends.
func ContextWithTimeout(tb testing.TB, d time.Duration) context.Context {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	tb.Cleanup(cancel)

	return ctx
}
