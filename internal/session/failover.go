package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverStore serves from the primary store until it errors, then
// switches to the fallback and probes the primary again after a minute.
type FailoverStore struct {
	primary   Store
	fallback  Store
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

func (s *FailoverStore) recoveryDue() bool {
	return time.Since(time.Unix(0, s.lastCheck.Load())) > time.Minute
}

func (s *FailoverStore) Get(ctx context.Context, id string) (*Session, error) {
	if !s.isDown.Load() {
		sess, err := s.primary.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		s.markDown(err)
	}

	// Try to recover after 1 minute
	if s.isDown.Load() && s.recoveryDue() {
		sess, err := s.primary.Get(ctx, id)
		if err == nil {
			s.isDown.Store(false)
			return sess, nil
		}
		s.lastCheck.Store(time.Now().UnixNano())
	}

	return s.fallback.Get(ctx, id)
}

func (s *FailoverStore) Set(ctx context.Context, sess *Session) error {
	if !s.isDown.Load() {
		err := s.primary.Set(ctx, sess)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}

	return s.fallback.Set(ctx, sess)
}

func (s *FailoverStore) Delete(ctx context.Context, id string) error {
	if !s.isDown.Load() {
		err := s.primary.Delete(ctx, id)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}

	return s.fallback.Delete(ctx, id)
}

func (s *FailoverStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !s.isDown.Load() {
		allowed, err := s.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		s.markDown(err)
	}

	return s.fallback.CheckRateLimit(ctx, key, limit, window)
}
