package runtime

import (
	"io"
	"time"

	"go.uber.org/zap"
)

// Option configures a Runtime at construction time, the usual
// functional-options pattern.
type Option func(*Runtime)

// WithOutput redirects console/print-style host output to w instead of
// discarding it.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		if w != nil {
			rt.output = w
		}
	}
}

// WithLogger installs the structured logger used for host/catastrophic
// failures, such as the job queue's uncaught-error reports, via
// internal/rjerrors.SetLogger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithGCThreshold overrides the soft allocation threshold that triggers
// an automatic collection.
func WithGCThreshold(n int) Option {
	return func(rt *Runtime) { rt.Heap.SetThreshold(n) }
}

// WithGCMarkBudget bounds the simulated mark-stack capacity, exercising
// the conservative-restart path at a chosen size
// instead of the default unbounded one.
func WithGCMarkBudget(n int) Option {
	return func(rt *Runtime) { rt.Heap.SetMarkBudget(n) }
}

// WithClock overrides the monotonic clock the timer queue reads.
// Tests inject a fake clock so timer firing is deterministic; embedding
// hosts with a virtualized time source do the same.
func WithClock(now func() time.Time) Option {
	return func(rt *Runtime) {
		if now != nil {
			rt.clock = now
		}
	}
}

// WithGCDisabled turns off automatic collection; the embedding host is
// then responsible for calling Heap.Collect() itself.
func WithGCDisabled() Option {
	return func(rt *Runtime) { rt.Heap.Enable(false) }
}
