package browse

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	id "donorlink/pkg/domain"
	"donorlink/pkg/platform/sentinel"
)

// MemorySessionStore keeps sessions in memory with a sliding TTL: every Save
// restarts the session's expiry.
type MemorySessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemorySessionStore creates a store whose sessions expire after ttl of
// inactivity. onEvict, when set, runs for sessions that expire or are deleted.
func NewMemorySessionStore(ttl time.Duration, onEvict func(*Session)) *MemorySessionStore {
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	c := cache.New(ttl, cleanup)
	if onEvict != nil {
		c.OnEvicted(func(_ string, v any) {
			if s, ok := v.(*Session); ok {
				onEvict(s)
			}
		})
	}
	return &MemorySessionStore{cache: c, ttl: ttl}
}

func (s *MemorySessionStore) Save(_ context.Context, session *Session) error {
	s.cache.Set(session.ID.String(), session, cache.DefaultExpiration)
	return nil
}

// Find returns sentinel.ErrNotFound for unknown or expired sessions.
func (s *MemorySessionStore) Find(_ context.Context, sessionID id.BrowseSessionID) (*Session, error) {
	v, ok := s.cache.Get(sessionID.String())
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	session, ok := v.(*Session)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID id.BrowseSessionID) error {
	if _, ok := s.cache.Get(sessionID.String()); !ok {
		return sentinel.ErrNotFound
	}
	s.cache.Delete(sessionID.String())
	return nil
}

// CountByOwner counts live sessions belonging to owner.
func (s *MemorySessionStore) CountByOwner(_ context.Context, owner id.UserID) int {
	n := 0
	for _, item := range s.cache.Items() {
		if session, ok := item.Object.(*Session); ok && session.Owner == owner {
			n++
		}
	}
	return n
}
