package cache

import (
	"bemestar/internal/model"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryLock struct {
	token   string
	expires time.Time
}

type memorySessionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	locks   map[string]memoryLock
}

// NewMemorySessionCache keeps sessions in process memory. It is meant for a
// single server instance and for tests. A lockTTL of zero never expires locks.
func NewMemorySessionCache(ttl, lockTTL time.Duration) SessionCache {
	return &memorySessionCache{
		ttl:     ttl,
		lockTTL: lockTTL,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]memoryLock),
	}
}

func (c *memorySessionCache) Set(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[session.ID] = memoryEntry{data: data, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *memorySessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if ok && c.ttl > 0 && c.now().After(e.expires) {
		delete(c.entries, id)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session model.Session
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	delete(c.locks, id)
	return nil
}

func (c *memorySessionCache) LockTTL() time.Duration { return c.lockTTL }

// heldLocked reports the live lock on id. c.mu must be held.
func (c *memorySessionCache) heldLocked(id string) (memoryLock, bool) {
	l, ok := c.locks[id]
	if ok && c.lockTTL > 0 && !c.now().Before(l.expires) {
		delete(c.locks, id)
		return memoryLock{}, false
	}
	return l, ok
}

func (c *memorySessionCache) Lock(_ context.Context, id string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.heldLocked(id); held {
		return "", false, nil
	}
	token := uuid.NewString()
	c.locks[id] = memoryLock{token: token, expires: c.now().Add(c.lockTTL)}
	return token, true, nil
}

func (c *memorySessionCache) Extend(_ context.Context, id, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, held := c.heldLocked(id)
	if !held || l.token != token {
		return false, nil
	}
	l.expires = c.now().Add(c.lockTTL)
	c.locks[id] = l
	return true, nil
}

func (c *memorySessionCache) Unlock(_ context.Context, id, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, held := c.heldLocked(id); held && l.token == token {
		delete(c.locks, id)
	}
	return nil
}
