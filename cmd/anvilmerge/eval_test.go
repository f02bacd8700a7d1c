package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/anvilmerge/internal/data"
	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

const evalCases = `
cases:
  - name: infinity onto mending bow
    target: {MENDING: 1, ARROW_DAMAGE: 5}
    sacrifice: {ARROW_INFINITE: 1}
    sacrifice_is_storage: true
    expect_cost: 4
  - name: wrong expectation
    target: {}
    sacrifice: {LUCK: 1}
    sacrifice_is_storage: true
    expect_cost: 9
`

func TestPrintEval(t *testing.T) {
	color.NoColor = true

	cases, err := data.ParseCases([]byte(evalCases))
	require.NoError(t, err)
	rules, err := data.Default()
	require.NoError(t, err)
	engine := anvil.NewEngine(rules.Conflicts, rules.Costs)

	reqs := []anvil.Request{cases[0].Request, cases[1].Request}
	results, err := engine.MergeAll(t.Context(), reqs, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	failed := printEval(&buf, cases, results, anvil.AllowStorageTarget)
	assert.Equal(t, 1, failed)

	out := buf.String()
	assert.Contains(t, out, "infinity onto mending bow")
	assert.Contains(t, out, "denied by policy")
	assert.Contains(t, out, "FAIL (want 9)")
	assert.Contains(t, out, "1 of 2 cases failed")
}

func TestPrintCatalog(t *testing.T) {
	color.NoColor = true

	rules, err := data.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	printCatalog(&buf, anvil.NewEngine(rules.Conflicts, rules.Costs), true)

	out := buf.String()
	assert.Contains(t, out, "minecraft:infinity")
	assert.NotContains(t, out, "minecraft:unbreaking")
	assert.Contains(t, out, "15 conflict pairs")
}

func TestFormatProfile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "{}", formatProfile(nil))
	assert.Equal(t, "{MENDING 1}", formatProfile(enchant.Profile{enchant.Mending: 1}))
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}
