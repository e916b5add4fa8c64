// Package context implements the running-function context stack and
// realm: a context is a GC-managed stack frame
// referencing a realm, the executing function, and its environments;
// a realm is the set of built-in intrinsics plus a global object/
// environment, and multiple realms can coexist in one runtime.
//
// The package owns only the state the (external) interpreter
// manipulates — frames, realms, and the pending-error sidecar —
// not the dispatch loop itself.
package context

import (
	"github.com/google/uuid"

	"github.com/cwbudde/ratjs/internal/env"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// Realm is the set of built-in intrinsics plus a global object and
// global environment. ID gives every realm a stable
// identity independent of pointer equality, so cross-realm bookkeeping
// (which intrinsic does this object belong to?) survives serialization
// and doesn't depend on comparing *Realm pointers directly.
type Realm struct {
	ID uuid.UUID

	GlobalObject *object.Object
	GlobalEnv    *env.Environment

	// Intrinsics holds the realm's standard constructors/prototypes
	// (%Array%, %Promise%, %Object.prototype%, …), keyed by name.
	// internal/builtin populates this at realm-creation time; this
	// package only owns the storage and lookup, not the wiring.
	Intrinsics map[string]value.Value

	Interner *strprim.Interner
	Symbols  *strprim.Registry
}

// NewRealm allocates a fresh realm with its own property-key interner,
// global object, and global environment. symbols is shared across every
// realm in the runtime (strprim.Registry's own doc comment: "distinct
// from the well-known symbols" — Symbol.for/keyFor is a process-
// wide table per ECMAScript, not a per-realm one, so the caller — the
// runtime package — owns a single Registry and passes it
// to every realm it creates). Cross-realm constructions must walk back
// through the target's realm for intrinsics, so lookups always
// go through Realm.Intrinsics rather than a package-level global, since
// a runtime hosts more than one realm.
func NewRealm(heap *gcheap.Heap, globalProto value.Value, symbols *strprim.Registry) *Realm {
	in := strprim.NewInterner(heap)
	heap.AddRootProvider(in)

	globalObj := object.New(heap, globalProto)
	r := &Realm{
		ID:           uuid.New(),
		GlobalObject: globalObj,
		Interner:     in,
		Symbols:      symbols,
		Intrinsics:   make(map[string]value.Value),
	}
	r.GlobalEnv = env.NewGlobal(heap, globalObj, in)
	return r
}

// Intrinsic looks up a named standard object (e.g. "%Array.prototype%"),
// reporting whether it has been installed yet.
func (r *Realm) Intrinsic(name string) (value.Value, bool) {
	v, ok := r.Intrinsics[name]
	return v, ok
}

// SetIntrinsic installs or overwrites a named standard object.
func (r *Realm) SetIntrinsic(name string, v value.Value) {
	r.Intrinsics[name] = v
}

// GCRoots implements gcheap.RootProvider — every known realm is a
// root: the global object, the global environment, and
// every installed intrinsic, so a realm with no script-visible
// references yet (e.g. before any global code has run) still keeps its
// standard library alive.
func (r *Realm) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	if r.GlobalObject != nil && r.GlobalObject.Thing != nil {
		out = append(out, r.GlobalObject.Thing)
	}
	if r.GlobalEnv != nil && r.GlobalEnv.Thing != nil {
		out = append(out, r.GlobalEnv.Thing)
	}
	for _, v := range r.Intrinsics {
		if isHeapValue(v) {
			out = append(out, v.Ref().Thing)
		}
	}
	return out
}
