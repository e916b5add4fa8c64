package promise

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// ReactionType selects which settlement a reaction fires on.
type ReactionType int

const (
	ReactionFulfill ReactionType = iota
	ReactionReject
)

// Reaction bundles a capability, a type, and an optional handler.
// Capability is nil for a reaction with no downstream promise
// to settle (the internal resolve-thenable bookkeeping never needs
// one); Handler is nil for a passthrough reaction — "fulfill" re-uses
// the settled value, "reject" re-throws the reason, matching
// Promise.prototype.then's default-identity/default-thrower fallback.
type Reaction struct {
	Capability *Capability
	Type       ReactionType
	Handler    *object.Object
}

func (r *Reaction) scanInto(addVal func(value.Value)) {
	if r.Handler != nil {
		addVal(r.Handler.Value())
	}
	if r.Capability != nil {
		addVal(r.Capability.Promise.Value())
		addVal(r.Capability.Resolve.Value())
		addVal(r.Capability.Reject.Value())
	}
}

// triggerPromiseReactions enqueues one reaction job per reaction, each
// carrying the same settled argument.
func triggerPromiseReactions(heap *gcheap.Heap, queue *Queue, realm *context.Realm, reactions []*Reaction, argument value.Value) {
	for _, r := range reactions {
		enqueueReactionJob(heap, queue, realm, r, argument)
	}
}

func enqueueReactionJob(heap *gcheap.Heap, queue *Queue, realm *context.Realm, r *Reaction, argument value.Value) {
	refs := []*gcheap.Thing{}
	if r.Handler != nil {
		refs = append(refs, r.Handler.Thing)
	}
	if r.Capability != nil {
		refs = append(refs, r.Capability.Promise.Thing, r.Capability.Resolve.Thing, r.Capability.Reject.Thing)
	}
	if isHeapValue(argument) {
		refs = append(refs, argument.Ref().Thing)
	}
	queue.Enqueue(heap, realm, refs, func() error {
		return runReactionJob(heap, realm.Interner, r, argument)
	})
}

// runReactionJob is the "reaction job" body: invoke the
// handler (or, if absent, re-use the result) and call the downstream
// capability's resolve or reject.
func runReactionJob(heap *gcheap.Heap, in *strprim.Interner, r *Reaction, argument value.Value) error {
	if r.Handler == nil {
		if r.Type == ReactionFulfill {
			return settleCapability(r.Capability, true, argument)
		}
		return settleCapability(r.Capability, false, argument)
	}
	result, err := object.CallFunction(r.Handler, value.Undefined, []value.Value{argument})
	if err != nil {
		return settleCapability(r.Capability, false, errorToValue(heap, in, err))
	}
	return settleCapability(r.Capability, true, result)
}

func settleCapability(cap *Capability, fulfilled bool, v value.Value) error {
	if cap == nil {
		return nil
	}
	target := cap.Reject
	if fulfilled {
		target = cap.Resolve
	}
	_, err := object.CallFunction(target, value.Undefined, []value.Value{v})
	return err
}
