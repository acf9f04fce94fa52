package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the server-side half of a session: session id -> user id.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "dogwatch:session:" // dogwatch:session:{session_id} -> user id

// RedisSessionStore stores sessions as plain keys with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+sessionID, userID, ttl).Err(); err != nil {
		return oops.In("session").Code("SESSION_SAVE_FAILED").Wrapf(err, "failed to save session")
	}
	return nil
}

func (r *RedisSessionStore) Get(ctx context.Context, sessionID string) (uint, error) {
	val, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, oops.In("session").Code("SESSION_LOOKUP_FAILED").Wrapf(err, "failed to get session")
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, oops.In("session").Code("SESSION_CORRUPT").Wrapf(err, "invalid user id in session")
	}

	return uint(userID), nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return oops.In("session").Code("SESSION_DELETE_FAILED").Wrapf(err, "failed to delete session")
	}
	return nil
}

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

// MemorySessionStore is used when no Redis is configured. Sessions do not
// survive a restart.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]memorySession
	now       func() time.Time
	lastSweep time.Time
}

// memorySweepEvery bounds how often Save prunes expired sessions.
const memorySweepEvery = 10 * time.Minute

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sessionID string, userID uint, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= memorySweepEvery {
		m.sweepLocked(now)
	}

	m.sessions[sessionID] = memorySession{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, sessionID string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if m.now().After(s.expiresAt) {
		delete(m.sessions, sessionID)
		return 0, ErrSessionNotFound
	}
	return s.userID, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Sweep drops expired sessions and reports how many were removed. Save
// also sweeps, at most once per memorySweepEvery.
func (m *MemorySessionStore) Sweep(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sweepLocked(m.now())
}

func (m *MemorySessionStore) sweepLocked(now time.Time) int {
	m.lastSweep = now
	removed := 0
	for id, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
