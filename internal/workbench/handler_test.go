package workbench

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/anvilmerge/internal/config"
	"github.com/udisondev/anvilmerge/internal/data"
	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
	"github.com/udisondev/anvilmerge/internal/model"
	"github.com/udisondev/anvilmerge/internal/testutil"
)

// --- helpers ---

type fakeRecorder struct {
	mu      sync.Mutex
	records []model.MergeRecord
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, rec model.MergeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRecorder) all() []model.MergeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.MergeRecord(nil), r.records...)
}

func newTestHandler(t *testing.T, policy anvil.Policy, opts Options) (*Handler, *MemoryView) {
	t.Helper()
	rules, err := data.Default()
	require.NoError(t, err)

	sessions := NewSessions()
	view := &MemoryView{}
	sessions.Open("s1", view)

	perms := NewStaticPermissions(DefaultPermission, []string{"Steve"})
	return NewHandler(anvil.NewEngine(rules.Conflicts, rules.Costs), policy, perms, sessions, opts), view
}

func mendingBow() *model.Item {
	return &model.Item{
		Material:    "BOW",
		Enchants:    enchant.Profile{enchant.Mending: 1, enchant.ArrowDamage: 5},
		RepairCost:  1,
		DisplayName: "Bow",
	}
}

func infinityBook() *model.Item {
	return &model.Item{
		Material: model.MaterialEnchantedBook,
		Stored:   enchant.Profile{enchant.ArrowInfinite: 1},
	}
}

// --- Prepare ---

func TestPrepareConflictingMergeAllowed(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	h, view := newTestHandler(t, anvil.AllowAll, Options{Recorder: rec})

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "s1",
		Player:    "Steve",
		Target:    mendingBow(),
		Sacrifice: infinityBook(),
	})
	require.NoError(t, err)

	assert.True(t, out.Handled)
	assert.True(t, out.Allowed)
	assert.True(t, out.Published)
	assert.True(t, out.Merge.HasConflicts)

	// Infinity from a book: 4 reduced + target repair cost 1.
	assert.Equal(t, 5, out.Cost)
	require.NotNil(t, out.Result)
	assert.Equal(t, enchant.Profile{
		enchant.Mending:       1,
		enchant.ArrowDamage:   5,
		enchant.ArrowInfinite: 1,
	}, out.Result.Enchants)
	// Penalty: 2 target + 1 sacrifice enchantments.
	assert.Equal(t, 7, out.Result.RepairCost)
	assert.Equal(t, "Bow", out.Result.DisplayName)

	shown, cost := view.Snapshot()
	assert.Equal(t, out.Result, shown)
	assert.Equal(t, 5, cost)

	records := rec.all()
	require.Len(t, records, 1)
	assert.Equal(t, "Steve", records[0].Player)
	assert.Equal(t, "s1", records[0].Session)
	assert.Equal(t, 5, records[0].TotalCost)
	assert.True(t, records[0].Allowed)
	assert.Len(t, records[0].Fingerprint, 64)
}

func TestPrepareRename(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, anvil.AllowAll, Options{})

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:    "s1",
		Player:     "Steve",
		Target:     mendingBow(),
		Sacrifice:  infinityBook(),
		RenameText: "Longshot",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, out.Cost)
	assert.Equal(t, "Longshot", out.Result.DisplayName)

	// Re-entering the current name is not a rename.
	out, err = h.Prepare(context.Background(), PrepareRequest{
		Session:    "s1",
		Player:     "Steve",
		Target:     mendingBow(),
		Sacrifice:  infinityBook(),
		RenameText: "Bow",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Cost)
}

func TestPreparePolicyDenies(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	h, view := newTestHandler(t, anvil.AllowStorageTarget, Options{Recorder: rec})
	view.Show(&model.Item{Material: "STALE"}, 99)

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "s1",
		Player:    "Steve",
		Target:    mendingBow(),
		Sacrifice: infinityBook(),
	})
	require.NoError(t, err)

	assert.True(t, out.Handled)
	assert.False(t, out.Allowed)
	assert.Nil(t, out.Result)

	shown, cost := view.Snapshot()
	assert.Nil(t, shown)
	assert.Equal(t, 0, cost)

	records := rec.all()
	require.Len(t, records, 1)
	assert.False(t, records[0].Allowed)
}

func TestPrepareDefaultPolicyAllowsBookOntoSword(t *testing.T) {
	t.Parallel()

	policy, err := anvil.PolicyByName(config.Default().Policy)
	require.NoError(t, err)
	h, view := newTestHandler(t, policy, Options{})

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "s1",
		Player:    "Steve",
		Viewers:   []string{"Steve"},
		Target:    &model.Item{Material: "DIAMOND_SWORD", Enchants: enchant.Profile{enchant.DamageAll: 3}},
		Sacrifice: &model.Item{Material: model.MaterialEnchantedBook, Stored: enchant.Profile{enchant.DamageUndead: 2}},
	})
	require.NoError(t, err)

	assert.True(t, out.Merge.HasConflicts)
	assert.True(t, out.Handled)
	assert.True(t, out.Allowed)
	assert.Equal(t, 2, out.Cost)
	require.NotNil(t, out.Result)
	assert.Equal(t, enchant.Profile{enchant.DamageAll: 3, enchant.DamageUndead: 2}, out.Result.Enchants)

	shown, cost := view.Snapshot()
	assert.Equal(t, out.Result, shown)
	assert.Equal(t, 2, cost)
}

func TestPrepareLeavesVanillaMerges(t *testing.T) {
	t.Parallel()

	h, view := newTestHandler(t, anvil.AllowAll, Options{})

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "s1",
		Player:    "Steve",
		Target:    &model.Item{Material: "BOW", Enchants: enchant.Profile{enchant.ArrowDamage: 2}},
		Sacrifice: &model.Item{Material: model.MaterialEnchantedBook, Stored: enchant.Profile{enchant.ArrowFire: 1}},
	})
	require.NoError(t, err)
	assert.False(t, out.Handled)
	assert.Equal(t, 2, out.Merge.TotalCost)

	shown, _ := view.Snapshot()
	assert.Nil(t, shown)
}

func TestPrepareHandleAll(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, anvil.Strict, Options{HandleAll: true})

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "s1",
		Player:    "Steve",
		Target:    &model.Item{Material: "BOW"},
		Sacrifice: &model.Item{Material: model.MaterialEnchantedBook, Stored: enchant.Profile{enchant.ArrowFire: 1}},
	})
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.True(t, out.Allowed, "policy only applies to conflicting merges")
	assert.Equal(t, 2, out.Cost)
}

func TestPrepareNotHandled(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, anvil.AllowAll, Options{})

	tests := []struct {
		name string
		req  PrepareRequest
	}{
		{"no permission", PrepareRequest{Session: "s1", Player: "Alex", Target: mendingBow(), Sacrifice: infinityBook()}},
		{"viewer without permission", PrepareRequest{
			Session:   "s1",
			Player:    "Steve",
			Viewers:   []string{"Steve", "Alex"},
			Target:    mendingBow(),
			Sacrifice: infinityBook(),
		}},
		{"empty second slot", PrepareRequest{Session: "s1", Player: "Steve", Target: mendingBow()}},
		{"no enchantments", PrepareRequest{Session: "s1", Player: "Steve", Target: &model.Item{Material: "BOW"}, Sacrifice: &model.Item{Material: "BOW"}}},
		{"invalid level", PrepareRequest{
			Session:   "s1",
			Player:    "Steve",
			Target:    mendingBow(),
			Sacrifice: &model.Item{Material: "BOW", Enchants: enchant.Profile{enchant.ArrowInfinite: 0}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := h.Prepare(context.Background(), tt.req)
			require.NoError(t, err)
			assert.False(t, out.Handled)
			assert.Nil(t, out.Result)
		})
	}
}

func TestPrepareUnknownSession(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, anvil.AllowAll, Options{})

	_, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "missing",
		Player:    "Steve",
		Target:    mendingBow(),
		Sacrifice: infinityBook(),
	})
	assert.Error(t, err)
}

func TestPrepareRecorderFailureIgnored(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, anvil.AllowAll, Options{Recorder: &fakeRecorder{err: testutil.ErrSimulated}})

	out, err := h.Prepare(context.Background(), PrepareRequest{
		Session:   "s1",
		Player:    "Steve",
		Target:    mendingBow(),
		Sacrifice: infinityBook(),
	})
	require.NoError(t, err)
	assert.True(t, out.Allowed)
}

func TestPrepareCached(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, anvil.AllowAll, Options{CacheSize: 16, CacheTTL: time.Minute})

	req := PrepareRequest{Session: "s1", Player: "Steve", Target: mendingBow(), Sacrifice: infinityBook()}

	first, err := h.Prepare(context.Background(), req)
	require.NoError(t, err)
	second, err := h.Prepare(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Cost, second.Cost)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, h.cache.Len())
}

func TestPrepareConcurrentSameSession(t *testing.T) {
	t.Parallel()

	h, view := newTestHandler(t, anvil.AllowAll, Options{})

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Prepare(context.Background(), PrepareRequest{
				Session:   "s1",
				Player:    "Steve",
				Target:    mendingBow(),
				Sacrifice: infinityBook(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	shown, cost := view.Snapshot()
	require.NotNil(t, shown)
	assert.Equal(t, 5, cost)
}
