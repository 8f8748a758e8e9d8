package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"

	"github.com/kestrelgames/boardhouse/internal/events"
	"github.com/kestrelgames/boardhouse/internal/games"
)

// writeWait bounds how long a single text frame write may take, grounded on the donor's
// fastview server's identical deadline/ping discipline.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and tails the game's event stream, forwarding
// every bus message verbatim as a JSON text frame (spec §6: "at least type and state").
// A subscriber connecting mid-game receives only events published from that point on.
func (h *Handler) handleWebSocket(kind games.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if _, err := h.Orchestrator.Get(r.Context(), kind, id); err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := h.Tokens.FromRequest(r); err != nil {
			writeError(w, r, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logw.Warningf(r.Context(), "httpapi: websocket upgrade failed for %s %s: %v", kind, id, err)
			return
		}
		defer conn.Close()

		stream := events.StreamKey(kind, id.String())
		ch, unsubscribe := h.Bus.Subscribe(stream)
		defer unsubscribe()

		for ev := range ch {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
