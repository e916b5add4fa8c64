package runtime

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
)

// EnqueueJob appends a job to the FIFO queue,
// run with realm current and refs kept alive until the job runs.
func (rt *Runtime) EnqueueJob(realm *context.Realm, refs []*gcheap.Thing, run func() error) {
	rt.Jobs.Enqueue(rt.Heap, realm, refs, run)
}

// SolveJobs drains the job queue FIFO until empty. A job that
// errors is reported through the host error-dump hook rather than
// propagated; jobs must not throw out of the pump.
func (rt *Runtime) SolveJobs() {
	rt.Jobs.Pump(func(err error) {
		rjerrors.DumpHostFailure(&rjerrors.HostFailure{
			Component: "jobs",
			Message:   "uncaught error from job",
			Err:       err,
		})
	})
}

// SolveEvents drains both event sources: the microtask job queue and
// the timer queue. Jobs drain first; then each timer whose deadline
// has passed fires, followed by another full job drain, so a timer
// callback's own promise work settles before the next timer runs. An
// undue timer stays queued for a later SolveEvents call — there is no
// blocking wait.
func (rt *Runtime) SolveEvents() {
	for {
		rt.SolveJobs()
		t := rt.timers.popDue(rt.clock())
		if t == nil {
			return
		}
		t.fn()
	}
}
