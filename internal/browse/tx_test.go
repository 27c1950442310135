package browse

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "donorlink/pkg/domain-errors"
)

func TestHashSessionKey(t *testing.T) {
	assert.Equal(t, uint32(0x811c9dc5), hashSessionKey(""))
	assert.Equal(t, uint32(0xe40c292c), hashSessionKey("a"))
	assert.Equal(t, uint32(0xbf9cf968), hashSessionKey("foobar"))
}

func TestSessionLocks_SerializesOneKey(t *testing.T) {
	locks := &sessionLocks{}
	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locks.run(context.Background(), "session-1", func(context.Context) error {
				mu.Lock()
				inside++
				maxSeen = max(maxSeen, inside)
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestSessionLocks_CancelledContext(t *testing.T) {
	locks := &sessionLocks{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := locks.run(ctx, "session-1", func(context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	assert.False(t, called)
}
