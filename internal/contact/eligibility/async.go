package eligibility

import (
	"context"
	"sync"
)

// Asker runs the questionnaire for itemName and returns the verdict. It must
// return promptly once ctx is cancelled.
type Asker func(ctx context.Context, itemName string) (bool, error)

// Verdict is one asker result. Err is set when the asker failed without a
// verdict; callers usually cancel the episode in that case.
type Verdict struct {
	ItemName string
	Eligible bool
	Err      error
}

// Async runs an Asker in its own goroutine and delivers the verdict on a
// channel. Dismiss cancels the running asker; a dismissed episode never
// delivers.
type Async struct {
	ask      Asker
	verdicts chan Verdict

	mu      sync.Mutex
	cancel  context.CancelFunc
	episode uint64
}

func NewAsync(ask Asker) *Async {
	return &Async{
		ask:      ask,
		verdicts: make(chan Verdict, 1),
	}
}

// Verdicts delivers at most one value per presented episode.
func (a *Async) Verdicts() <-chan Verdict {
	return a.verdicts
}

func (a *Async) Present(ctx context.Context, itemName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return errAlreadyPresented
	}

	askCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.episode++
	episode := a.episode

	go func() {
		eligible, err := a.ask(askCtx, itemName)

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.episode != episode || a.cancel == nil || askCtx.Err() != nil {
			return
		}
		// Drop a stale verdict the caller never consumed so the send cannot block.
		select {
		case <-a.verdicts:
		default:
		}
		a.verdicts <- Verdict{ItemName: itemName, Eligible: eligible, Err: err}
	}()
	return nil
}

// Dismiss cancels the running asker and drops any undelivered verdict. Idempotent.
func (a *Async) Dismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release()
	select {
	case <-a.verdicts:
	default:
	}
}

// Resolved releases the episode after its verdict was consumed.
func (a *Async) Resolved() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release()
}

func (a *Async) release() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}
