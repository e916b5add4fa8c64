package runtime

import (
	"time"

	"github.com/cwbudde/ratjs/internal/rbtree"
)

// Timer is one scheduled host callback. Timers are the runtime's only
// built-in event source besides the microtask queue; SolveEvents fires
// the due ones interleaved with job drains. The zero Timer is not
// usable — mint one with SetTimeout.
type Timer struct {
	node     rbtree.Node
	deadline time.Time
	seq      uint64
	fn       func()
	queued   bool
}

// timerQueue orders pending timers by (deadline, insertion sequence),
// so two timers sharing a deadline fire in the order they were set.
type timerQueue struct {
	tree *rbtree.Tree
	seq  uint64
}

func newTimerQueue() *timerQueue {
	return &timerQueue{tree: rbtree.New(func(a, b any) bool {
		ta, tb := a.(*Timer), b.(*Timer)
		if !ta.deadline.Equal(tb.deadline) {
			return ta.deadline.Before(tb.deadline)
		}
		return ta.seq < tb.seq
	})}
}

func (tq *timerQueue) add(deadline time.Time, fn func()) *Timer {
	tq.seq++
	t := &Timer{deadline: deadline, seq: tq.seq, fn: fn, queued: true}
	t.node.Value = t
	tq.tree.Insert(&t.node)
	return t
}

func (tq *timerQueue) remove(t *Timer) {
	if !t.queued {
		return
	}
	tq.tree.Remove(&t.node)
	t.queued = false
}

// popDue unlinks and returns the earliest timer whose deadline is at or
// before now, or nil if none is due.
func (tq *timerQueue) popDue(now time.Time) *Timer {
	n := tq.tree.First()
	if n == nil {
		return nil
	}
	t := n.Value.(*Timer)
	if t.deadline.After(now) {
		return nil
	}
	tq.tree.Remove(n)
	t.queued = false
	return t
}

// SetTimeout schedules fn to run once delay has elapsed, at the next
// SolveEvents call that observes the deadline passed. The returned
// Timer cancels through ClearTimeout. fn runs on the runtime's own
// thread, never concurrently — there is no background goroutine, only
// a deadline the event drain checks.
func (rt *Runtime) SetTimeout(delay time.Duration, fn func()) *Timer {
	return rt.timers.add(rt.clock().Add(delay), fn)
}

// ClearTimeout cancels t if it has not fired yet; clearing a fired or
// already-cleared timer is a no-op.
func (rt *Runtime) ClearTimeout(t *Timer) {
	rt.timers.remove(t)
}

// PendingTimers reports how many timers are scheduled and not yet
// fired or cleared.
func (rt *Runtime) PendingTimers() int {
	return rt.timers.tree.Len()
}
