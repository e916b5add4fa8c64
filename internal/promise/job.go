package promise

import (
	"github.com/cwbudde/ratjs/internal/coll"
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
)

// Job is one queued microtask: a run function, the realm it executes
// under, and the heap references it must keep alive while queued.
// Go's own collector frees the Job struct
// itself once it is dequeued and unreferenced; refs is the "scan" half
// of that record — the set of gcheap.Things the closure in run
// captures. The job queue is a GC root, so anything
// a queued job can still reach must stay marked even if nothing else
// references it (e.g. a pending promise no script variable points at
// anymore).
type Job struct {
	Thing *gcheap.Thing
	Realm *context.Realm
	run   func() error
	refs  []*gcheap.Thing
}

var jobHeapOps = &gcheap.Ops{Kind: gcheap.KindGeneric, Name: "promise-job", Scan: scanJob}

func scanJob(t *gcheap.Thing, out []*gcheap.Thing) []*gcheap.Thing {
	j := t.Data.(*Job)
	return append(out, j.refs...)
}

// Queue is the microtask job queue plus unhandled-rejection
// tracking: a promise rejected with zero reactions registered
// is provisionally "unhandled" until either a .then/.catch attaches one
// or the host asks what's still outstanding at a microtask checkpoint.
type Queue struct {
	jobs      coll.List[*Job]
	unhandled []*object.Object
}

// NewQueue creates an empty job queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue links a new job at the tail. realm is recorded so a pump
// loop can make it current while
// run executes; refs lists every gcheap.Thing run's closure captures,
// for GCRoots to keep alive while the job is still queued.
func (q *Queue) Enqueue(heap *gcheap.Heap, realm *context.Realm, refs []*gcheap.Thing, run func() error) {
	j := &Job{Realm: realm, run: run, refs: refs}
	j.Thing = heap.Alloc(jobHeapOps, j)
	q.jobs.PushBack(j)
}

// Len reports the number of jobs currently queued.
func (q *Queue) Len() int { return q.jobs.Len() }

// GCRoots implements gcheap.RootProvider: every still-queued job's
// captured references survive collection.
func (q *Queue) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	q.jobs.Each(func(j *Job) bool {
		if j.Thing != nil {
			out = append(out, j.Thing)
		}
		return true
	})
	return out
}

// Step runs exactly one queued job (one microtask turn),
// reporting whether a job actually ran. Useful for asserting
// ordering precisely, e.g. "after one microtask turn, not yet
// fulfilled; after two, fulfilled."
func (q *Queue) Step(onError func(error)) bool {
	j, ok := q.jobs.PopFront()
	if !ok {
		return false
	}
	if err := j.run(); err != nil && onError != nil {
		onError(err)
	}
	return true
}

// Pump drains the queue FIFO until empty,
// dequeuing one job at a time so a job that itself
// enqueues more jobs (every reaction job does) picks them up in the
// correct registration order rather than running a snapshot. A job
// that returns an error does not stop the drain — it is reported
// through onError: jobs must not throw synchronously out of
// the pump, so any error is captured and handed to the host
// error-dump hook instead.
func (q *Queue) Pump(onError func(error)) {
	for q.Step(onError) {
	}
}

// trackUnhandled records p as rejected with nothing watching yet.
func (q *Queue) trackUnhandled(p *object.Object) {
	q.unhandled = append(q.unhandled, p)
}

// markHandled removes p from the unhandled set, called the moment a
// reaction is registered against it (PerformPromiseThen always flips
// PromiseIsHandled, per the real algorithm, regardless of branch).
func (q *Queue) markHandled(p *object.Object) {
	for i, u := range q.unhandled {
		if u == p {
			q.unhandled = append(q.unhandled[:i], q.unhandled[i+1:]...)
			return
		}
	}
}

// UnhandledRejections drains and returns every promise that settled
// rejected with no reaction ever registered, for the host to report
// through its error-dump hook at a microtask checkpoint. Calling this
// clears the tracked set: a promise reported once is not reported again
// unless it is rejected afresh, which settlement rules make
// impossible — once settled, a promise's state
// never changes again".
func (q *Queue) UnhandledRejections() []*object.Object {
	out := q.unhandled
	q.unhandled = nil
	return out
}
