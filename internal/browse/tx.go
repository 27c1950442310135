package browse

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	dErrors "donorlink/pkg/domain-errors"
)

// Events for one session are serialized on a shard chosen by session ID, so
// unrelated sessions rarely contend.
const numSessionShards = 128

const defaultSessionTxTimeout = 5 * time.Second

type sessionLocks struct {
	shards  [numSessionShards]sync.Mutex
	timeout time.Duration
}

func (l *sessionLocks) run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "session event aborted: context cancelled")
	}

	timeout := l.timeout
	if timeout == 0 {
		timeout = defaultSessionTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := hashSessionKey(key) % numSessionShards
	l.shards[shard].Lock()
	defer l.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "session event aborted: context cancelled")
	}
	return fn(ctx)
}

func hashSessionKey(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
