package browse

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "donorlink/pkg/domain"
	"donorlink/pkg/platform/sentinel"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	var evicted atomic.Int32
	store := NewMemorySessionStore(time.Minute, func(*Session) { evicted.Add(1) })

	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())
	s1 := NewSession(id.NewBrowseSessionID(), alice, nil, time.Now())
	s2 := NewSession(id.NewBrowseSessionID(), alice, nil, time.Now())
	s3 := NewSession(id.NewBrowseSessionID(), bob, nil, time.Now())
	for _, s := range []*Session{s1, s2, s3} {
		require.NoError(t, store.Save(ctx, s))
	}

	found, err := store.Find(ctx, s1.ID)
	require.NoError(t, err)
	assert.Same(t, s1, found)

	assert.Equal(t, 2, store.CountByOwner(ctx, alice))
	assert.Equal(t, 1, store.CountByOwner(ctx, bob))

	require.NoError(t, store.Delete(ctx, s1.ID))
	_, err = store.Find(ctx, s1.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, s1.ID), sentinel.ErrNotFound)
	assert.Equal(t, int32(1), evicted.Load())
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(50*time.Millisecond, nil)
	s := NewSession(id.NewBrowseSessionID(), id.UserID(uuid.New()), nil, time.Now())
	require.NoError(t, store.Save(ctx, s))

	time.Sleep(100 * time.Millisecond)
	_, err := store.Find(ctx, s.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
