// Package orchestrator drives the Explore/Compress optimization loop
// (spec.md §4.7): shrink the strip while a layout stays feasible, diversify
// via a folded-normal reselection from the local-bests pool when a strike
// fails, then spend the remainder of the time budget squeezing the width
// further with a time-adaptive compression step.
package orchestrator

import (
	"context"
	"sync/atomic"
	"time"
)

// Terminator bounds an optimization run by a wall-clock deadline and an
// explicit cancel flag (e.g. from a Ctrl-C handler), matching spec.md §4.7's
// cooperative-cancellation requirement.
type Terminator struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// NewTerminator builds a terminator that expires after maxTime.
func NewTerminator(maxTime time.Duration) *Terminator {
	ctx, cancel := context.WithTimeout(context.Background(), maxTime)
	return &Terminator{ctx: ctx, cancel: cancel}
}

// Context returns a context.Context cancelled when the deadline passes or
// Cancel is called, suitable for passing to Master.Modify/SeparateLayout.
func (t *Terminator) Context() context.Context { return t.ctx }

// Cancel ends the run immediately, independent of the deadline.
func (t *Terminator) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// Done reports whether the run should stop.
func (t *Terminator) Done() bool {
	return t.cancelled.Load() || t.ctx.Err() != nil
}

// Stop releases the terminator's internal timer; call via defer once the
// run completes normally.
func (t *Terminator) Stop() { t.cancel() }
