// Package runtime is the top-level embedding API that ties the GC heap,
// value stack, realms, context stack, error channel, and job queue
// together into the minimal surface the core exposes to an embedding
// host or an external bytecode interpreter: construct a Runtime with
// functional options, create realms, push contexts, evaluate a Script,
// and drain jobs. The package owns the state an external
// Script-consuming interpreter manipulates, since
// this module's Script (internal/script) never gets opcode semantics.
package runtime

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/ratjs/internal/builtin"
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/promise"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/cwbudde/ratjs/internal/vstack"
)

// Runtime owns every piece of state belonging to one cooperative,
// single-threaded owner: the GC heap, the value stack, the
// process-wide symbol registry, the context stack, the pending-error
// slot, the job queue, and the realms it hosts. Values from one Runtime
// must not cross into another.
type Runtime struct {
	Heap     *gcheap.Heap
	Stack    *vstack.Stack
	Symbols  *strprim.Registry
	Contexts *context.Stack
	Errors   *context.ErrorState
	Jobs     *promise.Queue

	WellKnown WellKnownSymbols

	output io.Writer
	logger *zap.SugaredLogger
	timers *timerQueue
	clock  func() time.Time

	realms  []*context.Realm
	current *context.Realm
}

// New creates a Runtime with a fresh heap, value stack, job queue, and
// one default realm (with every intrinsic and global binding this
// package and internal/builtin know how to install), applying opts over
// those defaults.
func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		Heap:     gcheap.New(),
		Stack:    vstack.New(),
		Symbols:  strprim.NewRegistry(),
		Contexts: context.NewStack(),
		Errors:   context.NewErrorState(),
		Jobs:     promise.NewQueue(),
		output:   io.Discard,
		timers:   newTimerQueue(),
		clock:    time.Now,
	}
	rt.Heap.AddRootProvider(rt.Symbols)
	rt.Heap.AddRootProvider(rt.Stack)
	rt.Heap.AddRootProvider(rt.Contexts)
	rt.Heap.AddRootProvider(rt.Jobs)

	for _, opt := range opts {
		opt(rt)
	}
	if rt.logger != nil {
		rjerrors.SetLogger(rt.logger)
	}

	rt.WellKnown = newWellKnownSymbols(rt.Heap)
	rt.Heap.AddRootProvider(rt)

	if _, err := rt.NewRealm(); err != nil {
		return nil, err
	}
	return rt, nil
}

// NewRealm allocates a fresh realm sharing this Runtime's heap and
// symbol registry (multiple realms coexist in one
// runtime), installs every intrinsic internal/builtin knows about, and
// wires this package's global bindings (globalThis, console,
// constructors — see globals.go) onto it. The first realm created
// becomes Current(); later ones do not, until SetCurrent picks them.
func (rt *Runtime) NewRealm() (*context.Realm, error) {
	realm := context.NewRealm(rt.Heap, value.Null, rt.Symbols)
	rt.Heap.AddRootProvider(realm)
	builtin.InstallIntrinsics(rt.Heap, realm, rt.Jobs)
	if err := rt.installGlobals(realm); err != nil {
		return nil, err
	}
	rt.realms = append(rt.realms, realm)
	if rt.current == nil {
		rt.current = realm
	}
	return realm, nil
}

// Current returns the realm new Contexts are pushed against by default.
func (rt *Runtime) Current() *context.Realm { return rt.current }

// SetCurrent changes which realm Current returns.
func (rt *Runtime) SetCurrent(r *context.Realm) { rt.current = r }

// Realms returns every realm this Runtime hosts, in creation order.
func (rt *Runtime) Realms() []*context.Realm {
	out := make([]*context.Realm, len(rt.realms))
	copy(out, rt.realms)
	return out
}

// Output returns the writer host-visible output (console.log, etc.) is
// written to.
func (rt *Runtime) Output() io.Writer { return rt.output }

// GCRoots implements gcheap.RootProvider for the Runtime itself: the
// well-known symbols
// must survive collection even before any realm has installed one onto
// a property, since they are minted once here and shared across every
// realm this Runtime hosts.
func (rt *Runtime) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	for _, v := range []value.Value{
		rt.WellKnown.ToPrimitive,
		rt.WellKnown.Iterator,
		rt.WellKnown.AsyncIterator,
		rt.WellKnown.ToStringTag,
		rt.WellKnown.HasInstance,
		rt.WellKnown.Species,
		rt.WellKnown.Unscopables,
	} {
		if v.Kind() == value.KindSymbol {
			out = append(out, v.Ref().Thing)
		}
	}
	return out
}
