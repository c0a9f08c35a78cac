package cache

import (
	"bemestar/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("cache: session not found")

// SessionCache keeps in-progress sessions between requests. Lock, Extend and
// Unlock serialize mutations of one session across server instances. A lock
// is owned by the token Lock returns and lapses after LockTTL unless extended.
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (token string, ok bool, err error)
	Extend(ctx context.Context, id, token string) (bool, error)
	Unlock(ctx context.Context, id, token string) error
	LockTTL() time.Duration
}

// Both scripts only touch the lock while it still holds the caller's token.
var (
	unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

type sessionCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewSessionCache(client *redis.Client, ttl, lockTTL time.Duration) SessionCache {
	return &sessionCache{
		client:  client,
		ttl:     ttl,
		lockTTL: lockTTL,
	}
}

func sessionKey(id string) string { return "session:" + id }
func lockKey(id string) string    { return "session:" + id + ":lock" }

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("cache: encode session: %w", err)
	}
	return c.client.Set(ctx, sessionKey(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("cache: decode session %s: %w", id, err)
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id), lockKey(id)).Err()
}

func (c *sessionCache) LockTTL() time.Duration { return c.lockTTL }

func (c *sessionCache) Lock(ctx context.Context, id string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, lockKey(id), token, c.lockTTL).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *sessionCache) Extend(ctx context.Context, id, token string) (bool, error) {
	n, err := extendScript.Run(ctx, c.client, []string{lockKey(id)}, token, c.lockTTL.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *sessionCache) Unlock(ctx context.Context, id, token string) error {
	return unlockScript.Run(ctx, c.client, []string{lockKey(id)}, token).Err()
}
