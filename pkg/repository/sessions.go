package repository

import (
	"sync"
	"time"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

type sessionEntry struct {
	mu         sync.Mutex
	session    domain.Session
	lastUpdate time.Time
	removed    bool
}

type sessionsRepository struct {
	mu      sync.Mutex
	entries map[int64]*sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewSessionsRepository(ttl time.Duration) *sessionsRepository {
	return &sessionsRepository{
		entries: make(map[int64]*sessionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Acquire locks the user's session until release is called. A session idle
// for longer than the TTL is reset, keeping only its locale.
func (r *sessionsRepository) Acquire(userID int64) (session *domain.Session, release func()) {
	var entry *sessionEntry
	for {
		r.mu.Lock()
		e, ok := r.entries[userID]
		if !ok {
			e = &sessionEntry{lastUpdate: r.now()}
			r.entries[userID] = e
		}
		r.mu.Unlock()

		e.mu.Lock()
		if !e.removed {
			entry = e
			break
		}
		e.mu.Unlock()
	}

	if r.ttl > 0 && r.now().Sub(entry.lastUpdate) > r.ttl {
		entry.session.Reset()
	}

	return &entry.session, func() {
		entry.lastUpdate = r.now()
		entry.mu.Unlock()
	}
}

// Sweep drops idle sessions that nobody holds.
func (r *sessionsRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.entries {
		if !entry.mu.TryLock() {
			continue
		}
		if r.ttl > 0 && r.now().Sub(entry.lastUpdate) > r.ttl {
			delete(r.entries, id)
			entry.removed = true
			removed++
		}
		entry.mu.Unlock()
	}
	return removed
}
