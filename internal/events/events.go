// Package events implements the best-effort, per-game-stream publisher (spec §4.6): events
// are appended in causal order with respect to a single game; delivery is at-least-once to
// whatever subscribers are connected at publish time; no replay from history is offered.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kestrelgames/boardhouse/internal/games"
)

// Type is one of the event kinds named in spec §4.6.
type Type string

const (
	Create Type = "create"
	Move   Type = "move"
	Undo   Type = "undo"
)

// Event is one record on a game's logical stream, forwarded verbatim as a WebSocket text
// frame (spec §6's "at least type and state").
type Event struct {
	Type   Type            `json:"type"`
	By     string          `json:"by,omitempty"`
	Move   json.RawMessage `json:"move,omitempty"`
	State  json.RawMessage `json:"state"`
	Status games.Status    `json:"status"`
	At     time.Time       `json:"at"`
}

// StreamKey is the logical stream identifier: "<game-kind>:<id>".
func StreamKey(kind games.Kind, id string) string {
	return string(kind) + ":" + id
}

// Bus is the publish/subscribe contract the orchestrator and the WebSocket handler depend
// on. A subscriber connecting mid-game receives every event published from that point on;
// it may miss events published strictly before it subscribed (spec §5 ordering guarantees).
type Bus interface {
	Publish(ctx context.Context, stream string, ev Event)
	Subscribe(stream string) (ch <-chan Event, unsubscribe func())
}

const subscriberBuffer = 32

// InProcessBus fans out events to per-stream subscriber channels in-process, grounded on
// the donor's fastview publisher: each subscriber is serviced independently via an
// errgroup so one slow or stuck reader cannot block delivery to the others, bounded by a
// short per-subscriber send deadline consistent with "best-effort" delivery.
type InProcessBus struct {
	mu          sync.Mutex
	subscribers map[string]map[int]chan Event
	nextID      int
}

var _ Bus = (*InProcessBus)(nil)

func NewInProcessBus() *InProcessBus {
	return &InProcessBus{subscribers: map[string]map[int]chan Event{}}
}

func (b *InProcessBus) Subscribe(stream string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[stream] == nil {
		b.subscribers[stream] = map[int]chan Event{}
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[stream][id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subscribers[stream]; ok {
			delete(subs, id)
			close(ch)
			if len(subs) == 0 {
				delete(b.subscribers, stream)
			}
		}
	}
	return ch, unsubscribe
}

func (b *InProcessBus) Publish(ctx context.Context, stream string, ev Event) {
	b.mu.Lock()
	subs := make([]chan Event, 0, len(b.subscribers[stream]))
	for _, ch := range b.subscribers[stream] {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	deadline := 500 * time.Millisecond
	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range subs {
		ch := ch
		g.Go(func() error {
			select {
			case ch <- ev:
			case <-time.After(deadline):
				// Best-effort: a congested subscriber drops this event rather than
				// blocking publication to everyone else.
			case <-gctx.Done():
			}
			return nil
		})
	}
	_ = g.Wait()
}
