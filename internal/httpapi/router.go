// Package httpapi implements the REST and WebSocket surface (spec §6) over the
// orchestrator: one route-set per game kind plus the chess-only undo route, the
// azul-only AI-diagnostics route, and the auth routes. Routing uses stdlib
// net/http.ServeMux's Go 1.22 method+pattern matching, the same idiom
// smilemakc-mbflow's own REST server uses, rather than a third-party router.
package httpapi

import (
	"net/http"

	"github.com/kestrelgames/boardhouse/internal/ai"
	"github.com/kestrelgames/boardhouse/internal/auth"
	"github.com/kestrelgames/boardhouse/internal/events"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/orchestrator"
)

// Handler bundles everything the routes need; constructed once in cmd/server/main.go and
// injected here rather than read off package-level globals.
type Handler struct {
	Orchestrator *orchestrator.Orchestrator
	Auth         *auth.Service
	Tokens       auth.TokenService
	Registry     *ai.Registry
	Bus          events.Bus
}

// NewRouter builds the full mux for every registered game kind plus the auth and
// WebSocket routes.
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	for _, kind := range games.Kinds() {
		prefix := "/" + string(kind)
		mux.HandleFunc("GET "+prefix+"/", h.handleList(kind))
		mux.HandleFunc("POST "+prefix+"/", h.handleCreate(kind))
		mux.HandleFunc("GET "+prefix+"/{id}", h.handleGet(kind))
		mux.HandleFunc("POST "+prefix+"/{id}/move", h.handleMove(kind))
		mux.HandleFunc("DELETE "+prefix+"/{id}", h.handleDelete(kind))
		mux.HandleFunc("GET /ws"+prefix+"/{id}", h.handleWebSocket(kind))
	}

	mux.HandleFunc("POST /chess/{id}/undo", h.handleUndo)
	mux.HandleFunc("POST /azul/{id}/visualize_ai", h.handleVisualizeAI)

	mux.HandleFunc("POST /auth/signup", h.handleSignup)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/me", h.handleMe)

	return mux
}

// principal resolves the authenticated caller's user id from the request's bearer token,
// writing an unauthorized response and returning ok=false if it's missing or invalid.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := h.Tokens.FromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	return userID, true
}
