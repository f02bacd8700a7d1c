// Package workbench connects the merge engine to a host server's anvil
// events: it reads the two slot items, checks permissions, applies the
// conflict policy, builds the output item and publishes it to the player's
// open anvil window.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
	"github.com/udisondev/anvilmerge/internal/metrics"
	"github.com/udisondev/anvilmerge/internal/model"
)

// DefaultPermission is the node a player needs for conflicting merges.
const DefaultPermission = "anvilmerge.use"

// Recorder persists handled merges. Failures are logged, never surfaced.
type Recorder interface {
	Record(ctx context.Context, rec model.MergeRecord) error
}

// Options tunes a Handler. Zero values are usable.
type Options struct {
	// Permission node checked before handling; DefaultPermission when empty.
	Permission string
	// HandleAll takes over conflict-free merges too instead of leaving them
	// to the base game.
	HandleAll bool
	// CacheSize bounds the result cache; 0 disables it.
	CacheSize int
	CacheTTL  time.Duration
	// Recorder is optional.
	Recorder Recorder
}

// Handler evaluates anvil prepare events.
type Handler struct {
	engine   *anvil.Engine
	policy   anvil.Policy
	perms    Permissions
	sessions *Sessions
	opts     Options
	cache    *expirable.LRU[Fingerprint, anvil.Result]
}

// NewHandler wires a handler. sessions is shared with whoever opens and
// closes anvil windows.
func NewHandler(engine *anvil.Engine, policy anvil.Policy, perms Permissions, sessions *Sessions, opts Options) *Handler {
	if opts.Permission == "" {
		opts.Permission = DefaultPermission
	}
	h := &Handler{
		engine:   engine,
		policy:   policy,
		perms:    perms,
		sessions: sessions,
		opts:     opts,
	}
	if opts.CacheSize > 0 {
		h.cache = expirable.NewLRU[Fingerprint, anvil.Result](opts.CacheSize, nil, opts.CacheTTL)
	}
	return h
}

// Sessions returns the session registry the handler publishes to.
func (h *Handler) Sessions() *Sessions { return h.sessions }

// PrepareRequest is one anvil prepare event.
type PrepareRequest struct {
	Session string
	Player  string
	// Viewers lists everyone looking at the anvil window. Every viewer needs
	// the permission; when empty, only Player is checked.
	Viewers    []string
	Target     *model.Item
	Sacrifice  *model.Item
	RenameText string
}

// Outcome describes what the handler did with a prepare event.
type Outcome struct {
	// Handled is false when the event is left to the base game.
	Handled bool
	// Allowed is true when an output item was offered.
	Allowed bool
	// Published is false when a newer result was already on screen.
	Published bool
	Result    *model.Item
	Cost      int
	Merge     anvil.Result
}

// Prepare evaluates one prepare event and publishes the outcome to the
// session's view. Invalid item data is not an error: the event is simply
// not handled.
func (h *Handler) Prepare(ctx context.Context, p PrepareRequest) (Outcome, error) {
	if p.Target == nil || p.Sacrifice == nil {
		metrics.RecordMerge(metrics.OutcomeSkipped, false, 0)
		return Outcome{}, nil
	}
	if !h.permitted(p) {
		metrics.RecordMerge(metrics.OutcomeSkipped, false, 0)
		return Outcome{}, nil
	}

	gen, ok := h.sessions.Begin(p.Session)
	if !ok {
		return Outcome{}, fmt.Errorf("session %q is not open", p.Session)
	}

	req := anvil.Request{
		Target:              p.Target.Profile(),
		Sacrifice:           p.Sacrifice.Profile(),
		TargetRepairCost:    p.Target.RepairCost,
		SacrificeRepairCost: p.Sacrifice.RepairCost,
		TargetIsStorage:     p.Target.IsStorage(),
		SacrificeIsStorage:  p.Sacrifice.IsStorage(),
		Renamed:             p.RenameText != "" && p.RenameText != p.Target.DisplayName,
	}
	fp := FingerprintOf(req)

	res, err := h.merge(fp, req)
	if err != nil {
		if errors.Is(err, enchant.ErrInvalidInput) {
			slog.Debug("ignoring anvil event with invalid items",
				"session", p.Session, "player", p.Player, "err", err)
			metrics.RecordMerge(metrics.OutcomeInvalid, false, 0)
			return Outcome{}, nil
		}
		return Outcome{}, fmt.Errorf("merging for %s: %w", p.Player, err)
	}

	if !res.Allowed {
		metrics.RecordMerge(metrics.OutcomeEmpty, false, 0)
		return Outcome{Merge: res}, nil
	}
	if !res.HasConflicts && !h.opts.HandleAll {
		metrics.RecordMerge(metrics.OutcomeSkipped, false, res.TotalCost)
		return Outcome{Merge: res}, nil
	}

	out := Outcome{Handled: true, Merge: res}

	if !anvil.Decide(h.policy, req, res) {
		out.Published = h.sessions.Publish(p.Session, gen, func(v View) { v.Clear() })
		metrics.RecordMerge(metrics.OutcomeDenied, res.HasConflicts, 0)
		h.record(ctx, p, fp, res, false)
		h.logStale(p, out.Published)
		return out, nil
	}

	out.Allowed = true
	out.Cost = res.TotalCost
	out.Result = p.Target.ApplyMerge(res.Merged, res.Penalty, p.RenameText)
	out.Published = h.sessions.Publish(p.Session, gen, func(v View) { v.Show(out.Result, out.Cost) })

	metrics.RecordMerge(metrics.OutcomeAllowed, res.HasConflicts, res.TotalCost)
	h.record(ctx, p, fp, res, true)
	h.logStale(p, out.Published)

	slog.Debug("anvil merge prepared",
		"session", p.Session,
		"player", p.Player,
		"cost", res.TotalCost,
		"penalty", res.Penalty,
		"conflicts", res.HasConflicts)

	return out, nil
}

func (h *Handler) merge(fp Fingerprint, req anvil.Request) (anvil.Result, error) {
	if h.cache != nil {
		if res, ok := h.cache.Get(fp); ok {
			metrics.MergeCacheHits.Inc()
			return res, nil
		}
	}
	res, err := h.engine.Merge(req)
	if err != nil {
		return anvil.Result{}, err
	}
	if h.cache != nil {
		h.cache.Add(fp, res)
	}
	return res, nil
}

func (h *Handler) record(ctx context.Context, p PrepareRequest, fp Fingerprint, res anvil.Result, allowed bool) {
	if h.opts.Recorder == nil {
		return
	}
	rec := model.NewMergeRecord(p.Player, p.Session, fp.String())
	rec.Merged = res.Merged
	rec.TotalCost = res.TotalCost
	rec.Penalty = res.Penalty
	rec.HasConflicts = res.HasConflicts
	rec.Allowed = allowed

	if err := h.opts.Recorder.Record(ctx, rec); err != nil {
		metrics.AuditFailures.Inc()
		slog.Warn("recording anvil merge", "session", p.Session, "player", p.Player, "err", err)
	}
}

func (h *Handler) logStale(p PrepareRequest, published bool) {
	if published {
		return
	}
	metrics.StaleViewUpdates.Inc()
	slog.Debug("dropped stale anvil result", "session", p.Session, "player", p.Player)
}

func (h *Handler) permitted(p PrepareRequest) bool {
	if len(p.Viewers) == 0 {
		return h.perms.HasPermission(p.Player, h.opts.Permission)
	}
	for _, v := range p.Viewers {
		if !h.perms.HasPermission(v, h.opts.Permission) {
			return false
		}
	}
	return true
}
