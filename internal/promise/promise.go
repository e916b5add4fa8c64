// Package promise implements the promise and microtask job-queue
// machinery: capability records,
// the resolve/reject algorithm, reaction propagation, and a FIFO job
// queue a host pump drains between synchronous turns.
package promise

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
)

// State is a promise's settlement state.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Well-known intrinsic keys this package reads off realm.Intrinsics.
// internal/builtin installs these once it wires %Promise% and
// %Function%; until then NewPromise/CreateResolvingFunctions fall back
// to a null prototype, matching object.ToObject's "caller supplies the
// real prototype, out of this package's scope" convention.
const (
	PromiseProtoKey  = "%Promise.prototype%"
	FunctionProtoKey = "%Function.prototype%"
)

func protoOrNull(realm *context.Realm, key string) value.Value {
	if realm != nil {
		if v, ok := realm.Intrinsics[key]; ok {
			return v
		}
	}
	return value.Null
}

// PromiseState is the Ext payload a promise object carries: a state, a
// handled flag, a stored result value, and two lists of pending
// reactions.
type PromiseState struct {
	State            State
	Result           value.Value
	Handled          bool
	FulfillReactions []*Reaction
	RejectReactions  []*Reaction
}

// ScanExt implements the object package's Ext-scanning hook so a
// promise's result and its pending reactions stay reachable while the
// promise itself is rooted.
func (p *PromiseState) ScanExt(addVal func(value.Value)) {
	addVal(p.Result)
	for _, r := range p.FulfillReactions {
		r.scanInto(addVal)
	}
	for _, r := range p.RejectReactions {
		r.scanInto(addVal)
	}
}

// NewPromise allocates a fresh pending promise object.
func NewPromise(heap *gcheap.Heap, realm *context.Realm) *object.Object {
	o := object.New(heap, protoOrNull(realm, PromiseProtoKey))
	o.Ext = &PromiseState{State: Pending}
	return o
}

// StateOf recovers the PromiseState Ext payload from a promise object.
func StateOf(p *object.Object) *PromiseState {
	return p.Ext.(*PromiseState)
}

func isHeapValue(v value.Value) bool {
	switch v.Kind() {
	case value.KindString, value.KindSymbol, value.KindBigInt, value.KindObject, value.KindGeneric:
		return true
	default:
		return false
	}
}

func argOrUndefined(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Undefined
}
