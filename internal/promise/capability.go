package promise

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
)

// Capability is a (promise, resolve, reject) triple, minted by
// invoking the constructor with an executor that
// captures the two functions into the capability. The full
// species-constructor dispatch lives in internal/builtin once
// %Promise% is wired; this core only needs the triple itself, so
// NewCapability mints it directly rather than round-tripping through a
// constructor call.
type Capability struct {
	Promise *object.Object
	Resolve *object.Object
	Reject  *object.Object
}

// NewCapability mints a fresh pending promise plus its paired
// resolve/reject functions, registered against queue for reaction-job
// scheduling.
func NewCapability(heap *gcheap.Heap, queue *Queue, realm *context.Realm) *Capability {
	p := NewPromise(heap, realm)
	resolve, reject := CreateResolvingFunctions(heap, queue, realm, p)
	return &Capability{Promise: p, Resolve: resolve, Reject: reject}
}
