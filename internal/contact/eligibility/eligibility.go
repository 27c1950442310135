// Package eligibility implements the screening prompt shown before a
// restricted medicine's donor can be contacted. A screen is presented at most
// once per contact episode and yields exactly one verdict, at a time chosen by
// the user, unless it is dismissed first.
package eligibility

import (
	"context"
	"log/slog"
	"sync"

	dErrors "donorlink/pkg/domain-errors"
)

var errAlreadyPresented = dErrors.New(dErrors.CodeInvalidState, "eligibility screening already presented")

// Deferred records the open prompt and waits for the verdict to arrive
// out-of-band, e.g. posted by an HTTP client.
type Deferred struct {
	mu       sync.Mutex
	itemName string
	open     bool
	logger   *slog.Logger
}

func NewDeferred(logger *slog.Logger) *Deferred {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deferred{logger: logger}
}

func (d *Deferred) Present(ctx context.Context, itemName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return errAlreadyPresented
	}
	d.itemName = itemName
	d.open = true
	d.logger.DebugContext(ctx, "eligibility screening presented", "item", itemName)
	return nil
}

// Dismiss closes the prompt without a verdict. Idempotent.
func (d *Deferred) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.itemName = ""
}

// Resolved closes the prompt after its verdict was consumed.
func (d *Deferred) Resolved() {
	d.Dismiss()
}

// Pending returns the item being screened, if a prompt is open.
func (d *Deferred) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.itemName, d.open
}
