package orchestrator

import (
	"sync"

	"github.com/google/uuid"
)

// rowLocks serializes cascades per game row (spec §5: "only one orchestrator cascade runs
// on a given row at a time"), while leaving concurrent reads/writes of different rows
// unrestricted. A plain sync.Mutex-guarded map, not a sync.Map: the lock discipline here
// needs get-or-create-then-lock as one logical step, which sync.Map doesn't offer cleanly.
type rowLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newRowLocks() *rowLocks {
	return &rowLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

func (r *rowLocks) lock(id uuid.UUID) func() {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}
