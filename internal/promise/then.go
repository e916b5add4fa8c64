package promise

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
)

// PerformPromiseThen implements the core of Promise.prototype.then:
// register two reactions on the receiver; if the
// receiver is already settled, schedule the matching reaction
// immediately. onFulfilled/onRejected may be nil for the default
// passthrough behavior; resultCapability may be nil when the caller
// (e.g. await, or an internal consumer) does not need a downstream
// promise.
func PerformPromiseThen(heap *gcheap.Heap, queue *Queue, realm *context.Realm, promiseObj *object.Object, onFulfilled, onRejected *object.Object, resultCapability *Capability) {
	st := StateOf(promiseObj)

	fulfillReaction := &Reaction{Capability: resultCapability, Type: ReactionFulfill, Handler: onFulfilled}
	rejectReaction := &Reaction{Capability: resultCapability, Type: ReactionReject, Handler: onRejected}

	switch st.State {
	case Pending:
		// Registration order matters: reactions registered before
		// settlement run in registration order, preserved by simple
		// append.
		st.FulfillReactions = append(st.FulfillReactions, fulfillReaction)
		st.RejectReactions = append(st.RejectReactions, rejectReaction)
	case Fulfilled:
		enqueueReactionJob(heap, queue, realm, fulfillReaction, st.Result)
	case Rejected:
		enqueueReactionJob(heap, queue, realm, rejectReaction, st.Result)
	}

	if !st.Handled {
		st.Handled = true
		queue.markHandled(promiseObj)
	}
}

// Then is the species-agnostic convenience wrapper most internal
// callers want: mint a fresh capability, perform the then, and return
// its promise as a value. internal/builtin's Promise.prototype.then and
// catch wiring call this directly; no species constructor is consulted.
func Then(heap *gcheap.Heap, queue *Queue, realm *context.Realm, promiseObj *object.Object, onFulfilled, onRejected *object.Object) *object.Object {
	capability := NewCapability(heap, queue, realm)
	PerformPromiseThen(heap, queue, realm, promiseObj, onFulfilled, onRejected, capability)
	return capability.Promise
}
