package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRecord is the provider-side record of one signed-in client.
type SessionRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists session records.
type SessionStore interface {
	Save(ctx context.Context, rec SessionRecord) error
	Get(ctx context.Context, sessionID string) (SessionRecord, error)
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps session records in Redis with a TTL matching
// their expiry.
type RedisSessionStore struct {
	redis redis.Cmdable
}

func NewRedisSessionStore(client redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{redis: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, rec SessionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", rec.ID)
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+rec.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", errors.Join(ErrUnavailable, err))
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (SessionRecord, error) {
	raw, err := s.redis.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, fmt.Errorf("redis get session: %w", errors.Join(ErrUnavailable, err))
	}
	var rec SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return SessionRecord{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", errors.Join(ErrUnavailable, err))
	}
	return nil
}

// MemorySessionStore keeps session records in process memory. Used when no
// Redis is configured and in tests.
type MemorySessionStore struct {
	mu      sync.RWMutex
	records map[string]SessionRecord
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{records: make(map[string]SessionRecord)}
}

func (s *MemorySessionStore) Save(_ context.Context, rec SessionRecord) error {
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[sessionID]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return rec, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.records, sessionID)
	s.mu.Unlock()
	return nil
}

var (
	_ SessionStore = (*RedisSessionStore)(nil)
	_ SessionStore = (*MemorySessionStore)(nil)
)
