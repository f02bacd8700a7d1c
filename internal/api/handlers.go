package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
	"github.com/udisondev/anvilmerge/internal/model"
	"github.com/udisondev/anvilmerge/internal/workbench"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type catalogEntry struct {
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Cost        int      `json:"cost"`
	ReducedCost int      `json:"reduced_cost"`
	Conflicts   []string `json:"conflicts"`
}

type mergeRequest struct {
	Target              enchant.Profile `json:"target"`
	Sacrifice           enchant.Profile `json:"sacrifice"`
	TargetRepairCost    int             `json:"target_repair_cost" validate:"gte=0,lte=2147483647"`
	SacrificeRepairCost int             `json:"sacrifice_repair_cost" validate:"gte=0,lte=2147483647"`
	TargetIsStorage     bool            `json:"target_is_storage"`
	SacrificeIsStorage  bool            `json:"sacrifice_is_storage"`
	Renamed             bool            `json:"renamed"`
}

type mergeResponse struct {
	Merged       enchant.Profile `json:"merged"`
	TotalCost    int             `json:"total_cost"`
	Allowed      bool            `json:"allowed"`
	HasConflicts bool            `json:"has_conflicts"`
	Penalty      int             `json:"penalty"`
	PolicyAllows bool            `json:"policy_allows"`
}

type prepareRequest struct {
	Player     string      `json:"player" validate:"required"`
	Viewers    []string    `json:"viewers" validate:"omitempty,dive,required"`
	Target     *model.Item `json:"target" validate:"required"`
	Sacrifice  *model.Item `json:"sacrifice"`
	RenameText string      `json:"rename_text" validate:"max=50"`
}

type prepareResponse struct {
	Handled      bool        `json:"handled"`
	Allowed      bool        `json:"allowed"`
	Published    bool        `json:"published"`
	Result       *model.Item `json:"result,omitempty"`
	Cost         int         `json:"cost"`
	HasConflicts bool        `json:"has_conflicts"`
}

type sessionResponse struct {
	Session string      `json:"session"`
	Result  *model.Item `json:"result,omitempty"`
	Cost    int         `json:"cost"`
}

type historyEntry struct {
	ID           string          `json:"id"`
	Session      string          `json:"session"`
	Merged       enchant.Profile `json:"merged"`
	TotalCost    int             `json:"total_cost"`
	Penalty      int             `json:"penalty"`
	HasConflicts bool            `json:"has_conflicts"`
	Allowed      bool            `json:"allowed"`
	CreatedAt    string          `json:"created_at"`
}

func (rt *router) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	rules, costs := rt.deps.Engine.Rules(), rt.deps.Engine.Costs()

	entries := make([]catalogEntry, 0, enchant.Count-1)
	for _, e := range enchant.All() {
		entry := catalogEntry{
			Name:        e.String(),
			Key:         e.Key(),
			Cost:        costs.UnitCost(e, false),
			ReducedCost: costs.UnitCost(e, true),
			Conflicts:   []string{},
		}
		for _, other := range rules.ConflictsOf(e) {
			entry.Conflicts = append(entry.Conflicts, other.String())
		}
		entries = append(entries, entry)
	}
	writeJSON(w, http.StatusOK, entries)
}

func (rt *router) handleMerge(w http.ResponseWriter, r *http.Request) {
	var body mergeRequest
	if !rt.decode(w, r, &body) {
		return
	}

	req := anvil.Request{
		Target:              body.Target,
		Sacrifice:           body.Sacrifice,
		TargetRepairCost:    body.TargetRepairCost,
		SacrificeRepairCost: body.SacrificeRepairCost,
		TargetIsStorage:     body.TargetIsStorage,
		SacrificeIsStorage:  body.SacrificeIsStorage,
		Renamed:             body.Renamed,
	}

	res, err := rt.deps.Engine.Merge(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, mergeResponse{
		Merged:       res.Merged,
		TotalCost:    res.TotalCost,
		Allowed:      res.Allowed,
		HasConflicts: res.HasConflicts,
		Penalty:      res.Penalty,
		PolicyAllows: anvil.Decide(rt.deps.Policy, req, res),
	})
}

func (rt *router) handlePrepare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body prepareRequest
	if !rt.decode(w, r, &body) {
		return
	}

	sessions := rt.deps.Handler.Sessions()
	if _, ok := sessions.View(id); !ok {
		sessions.Open(id, &workbench.MemoryView{})
	}

	out, err := rt.deps.Handler.Prepare(r.Context(), workbench.PrepareRequest{
		Session:    id,
		Player:     body.Player,
		Viewers:    body.Viewers,
		Target:     body.Target,
		Sacrifice:  body.Sacrifice,
		RenameText: body.RenameText,
	})
	if err != nil {
		slog.Error("preparing anvil merge", "session", id, "err", err)
		writeError(w, http.StatusInternalServerError, "merge failed")
		return
	}

	writeJSON(w, http.StatusOK, prepareResponse{
		Handled:      out.Handled,
		Allowed:      out.Allowed,
		Published:    out.Published,
		Result:       out.Result,
		Cost:         out.Cost,
		HasConflicts: out.Merge.HasConflicts,
	})
}

func (rt *router) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, ok := rt.deps.Handler.Sessions().View(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not open")
		return
	}

	resp := sessionResponse{Session: id}
	if mv, ok := view.(*workbench.MemoryView); ok {
		resp.Result, resp.Cost = mv.Snapshot()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *router) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	rt.deps.Handler.Sessions().Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (rt *router) handleHistory(w http.ResponseWriter, r *http.Request) {
	if rt.deps.History == nil {
		writeError(w, http.StatusNotFound, "merge history disabled")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	player := chi.URLParam(r, "player")
	records, err := rt.deps.History.Recent(r.Context(), player, limit)
	if err != nil {
		slog.Error("listing merge history", "player", player, "err", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			ID:           rec.ID.String(),
			Session:      rec.Session,
			Merged:       rec.Merged,
			TotalCost:    rec.TotalCost,
			Penalty:      rec.Penalty,
			HasConflicts: rec.HasConflicts,
			Allowed:      rec.Allowed,
			CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (rt *router) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid request body"
		if errors.Is(err, enchant.ErrInvalidInput) {
			msg = err.Error()
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	if err := rt.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	return fe.Field() + " failed " + fe.Tag()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
