// Package session holds server-side admin login sessions. The browser
// only ever carries the opaque session id.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is one logged-in admin.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// New creates a session for the given admin email with a fresh id.
func New(email string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store persists sessions. Get returns (nil, nil) for a missing or
// expired session; errors are reserved for backend failures.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error

	// CheckRateLimit counts an attempt against key and reports whether
	// it is still within limit for the window.
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
