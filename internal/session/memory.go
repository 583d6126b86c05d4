package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in-process. Used standalone when Redis is
// not configured, and as the fallback side of the failover store.
type MemoryStore struct {
	sessions   sync.Map
	rateLimits sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	val, ok := s.sessions.Load(id)
	if !ok {
		return nil, nil
	}
	sess := val.(*Session)
	if sess.Expired(time.Now()) {
		s.sessions.Delete(id)
		return nil, nil
	}
	return sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	s.sessions.Store(sess.ID, sess)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (s *MemoryStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, _ := s.rateLimits.LoadOrStore(key, &rateLimitEntry{})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
