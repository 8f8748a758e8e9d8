package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/kestrelgames/boardhouse/internal/ai"
	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/store"
)

func (h *Handler) handleList(kind games.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.Orchestrator.List(r.Context(), kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// createRequest carries the initial variant configuration and the seats to bind, per
// spec §6's "body carries participant ids/kinds and variant."
type createRequest struct {
	Config       json.RawMessage   `json:"config"`
	Participants []store.Participant `json:"participants"`
}

func (h *Handler) handleCreate(kind games.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.principal(w, r); !ok {
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, r, apperr.BadRequestf("invalid request body: %v", err))
			return
		}

		row, err := h.Orchestrator.Create(r.Context(), kind, req.Config, req.Participants)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, row)
	}
}

func (h *Handler) handleGet(kind games.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		row, err := h.Orchestrator.Get(r.Context(), kind, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, row)
	}
}

func (h *Handler) handleMove(kind games.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		moveRaw, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, r, apperr.BadRequestf("reading request body: %v", err))
			return
		}

		row, err := h.Orchestrator.Move(r.Context(), kind, id, principal, moveRaw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, row)
	}
}

func (h *Handler) handleDelete(kind games.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.principal(w, r); !ok {
			return
		}
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := h.Orchestrator.Delete(r.Context(), kind, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	row, err := h.Orchestrator.Undo(r.Context(), id, principal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// handleVisualizeAI serves spec §6's "predictor saliency/policy diagnostics for the
// current AI-on-move": the root child visit counts, mean values and priors from that
// seat's MCTS search, for whichever registered strategy is bound to the seat on move.
func (h *Handler) handleVisualizeAI(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.principal(w, r); !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	row, err := h.Orchestrator.Get(r.Context(), games.Azul, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mover, found := row.ParticipantFor(row.CurrentTurn)
	if !found || mover.Kind != "ai" {
		writeError(w, r, apperr.BadRequestf("no AI is on move for game %s", id))
		return
	}

	strategy, found := h.Registry.Lookup(games.Azul, mover.Name)
	if !found {
		writeError(w, r, apperr.NotFoundf("no AI strategy %q registered for azul", mover.Name))
		return
	}
	diagnosable, ok := strategy.(ai.Diagnosable)
	if !ok {
		writeError(w, r, apperr.BadRequestf("strategy %q exposes no search diagnostics", mover.Name))
		return
	}

	engine, err := games.EngineFor(games.Azul)
	if err != nil {
		writeError(w, r, apperr.Internalf("%v", err))
		return
	}
	state, err := engine.DecodeState(row.State)
	if err != nil {
		writeError(w, r, apperr.Internalf("httpapi: decode state: %v", err))
		return
	}

	diagnostics, err := diagnosable.RootDiagnostics(r.Context(), state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": diagnostics})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, apperr.BadRequestf("invalid game id: %v", err))
		return uuid.Nil, false
	}
	return id, true
}
