package idempotency

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Outcome is the stored result of a completed operation, replayed to
// duplicate callers instead of reapplying the effect.
type Outcome struct {
	Key         string
	Status      string
	ProcessedAt time.Time
}

// Guard deduplicates state-changing operations by natural key. The cache is
// a fast path only: the authoritative duplicate check is the entity's own
// terminal-state field read under a row lock inside the caller's
// transaction. The guard records outcomes after commit so replays can return
// the original result without touching the effect again.
type Guard struct {
	mu    sync.Mutex
	store *cache.Cache
}

// New creates a guard retaining outcomes for the given TTL.
func New(ttl time.Duration) *Guard {
	return &Guard{
		store: cache.New(ttl, ttl/2),
	}
}

// Key builds the natural operation key from an entity id and an action.
func Key(id uuid.UUID, action string) string {
	return fmt.Sprintf("%s:%s", id, action)
}

// Check returns the stored outcome for a key, if any.
func (g *Guard) Check(key string) (*Outcome, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if v, found := g.store.Get(key); found {
		o := v.(Outcome)
		return &o, true
	}
	return nil, false
}

// Record stores the outcome of a completed operation.
func (g *Guard) Record(key, status string, processedAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.store.Set(key, Outcome{Key: key, Status: status, ProcessedAt: processedAt}, cache.DefaultExpiration)
}
