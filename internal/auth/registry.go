package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Registry is the server side record of live sessions.
type Registry interface {
	Put(ctx context.Context, sess *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type RedisRegistry struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRegistry(rdb *redis.Client, prefix string) *RedisRegistry {
	if prefix == "" {
		prefix = "stockdesk"
	}
	return &RedisRegistry{rdb: rdb, prefix: prefix}
}

func (r *RedisRegistry) key(id string) string {
	return r.prefix + ":session:" + id
}

func (r *RedisRegistry) Put(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(sess.ID), data, ttl).Err()
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *RedisRegistry) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, r.key(id)).Err()
}

// MemoryRegistry keeps sessions in process. Used when no Redis is configured.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	sess     Session
	deadline time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: map[string]memoryEntry{},
		now:      time.Now,
	}
}

func (r *MemoryRegistry) Put(_ context.Context, sess *Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID] = memoryEntry{sess: *sess, deadline: r.now().Add(ttl)}
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !r.now().Before(entry.deadline) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	sess := entry.sess
	return &sess, nil
}

func (r *MemoryRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}
