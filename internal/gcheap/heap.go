// Package gcheap implements the runtime's non-moving mark-sweep
// collector: typed allocation, an explicit mark stack, weak references
// with finalizers enqueued as jobs rather than called synchronously.
//
// Go's own runtime already garbage-collects; this package does not
// replace it, it layers a second, script-visible collection discipline on
// top: the *shape* of collection (roots, mark,
// weak-ref sweep, sweep) must be observable and controllable from the
// embedding API (manual GC triggers, weak refs with ordering guarantees,
// deterministic finalizer scheduling) in ways Go's own GC does not
// expose. Every GC-managed ECMAScript value — string, symbol, bigint,
// object, or an environment/context — is allocated as a Thing here so the
// object model's heap lifetime is deterministic, independent of
// when the Go garbage collector happens to run.
package gcheap

// Kind identifies a GC-thing's category; the object model layers its own
// Kind (ordinary/proxy/array/namespace and the rest) inside
// KindObject's Data payload. At the heap level only the handful of
// scan/free-relevant categories matter.
type Kind uint8

const (
	KindString Kind = iota
	KindSymbol
	KindBigInt
	KindObject
	KindEnvironment
	KindContext
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindBigInt:
		return "bigint"
	case KindObject:
		return "object"
	case KindEnvironment:
		return "environment"
	case KindContext:
		return "context"
	default:
		return "generic"
	}
}

// Ops is the per-kind operations record every Thing's header points
// at: a Scan function enumerating outgoing references and a Free
// function releasing kind-specific resources.
type Ops struct {
	Kind Kind
	Name string
	// Scan appends every Thing this thing directly references onto out
	// and returns the extended slice, letting callers reuse a scratch
	// buffer across calls.
	Scan func(t *Thing, out []*Thing) []*Thing
	// Free releases any non-GC resources (e.g. a data-block refcount
	// decrement) before the Thing itself is discarded.
	Free func(t *Thing)
}

// Thing is the 8-byte-header analogue: every heap-allocated
// ECMAScript value embeds one, directly or via Data.
type Thing struct {
	Ops    *Ops
	Data   any
	next   *Thing // sweep-list link
	marked bool
}

// Kind reports the thing's category.
func (t *Thing) Kind() Kind {
	if t.Ops == nil {
		return KindGeneric
	}
	return t.Ops.Kind
}

// RootProvider is implemented by anything the heap must treat as a GC
// root: the context stack, realms, the interned string/symbol tables,
// the job queue, and the value stack.
type RootProvider interface {
	GCRoots(out []*Thing) []*Thing
}

// FinalizerScheduler decouples the heap from the job-queue package
// without an import cycle; finalizers are enqueued as jobs, never called
// synchronously from inside a collection.
type FinalizerScheduler interface {
	ScheduleFinalizer(fn func())
}

type weakRef struct {
	target    *Thing
	finalizer func()
}

// Heap owns the full set of live Things, the weak-reference registry, and
// the allocation-threshold bookkeeping that triggers automatic
// collections.
type Heap struct {
	head       *Thing
	count      int
	roots      []RootProvider
	weakRefs   []*weakRef
	scheduler  FinalizerScheduler
	enabled    bool
	running    bool // reentrant guard
	bytesSince int
	threshold  int
	markBudget int // simulated mark-stack capacity; 0 = unbounded
	stackFull  bool
	lastStats  Stats
}

// Stats summarizes the outcome of the most recent collection, useful for
// diagnostics and tests.
type Stats struct {
	Marked          int
	Swept           int
	WeakRefsCleared int
	ConservativeRestart bool
}

// DefaultThreshold is the soft allocation threshold (in allocation count,
// standing in for bytes) checked on every allocation.
const DefaultThreshold = 4096

// New creates a heap with GC enabled and the default threshold.
func New() *Heap {
	return &Heap{enabled: true, threshold: DefaultThreshold}
}

// SetThreshold overrides the soft allocation threshold.
func (h *Heap) SetThreshold(n int) { h.threshold = n }

// SetMarkBudget bounds the mark stack so tests can exercise the
// conservative-restart path deterministically. Zero
// means unbounded.
func (h *Heap) SetMarkBudget(n int) { h.markBudget = n }

// Enable turns automatic threshold-triggered collection on or off.
func (h *Heap) Enable(enabled bool) { h.enabled = enabled }

// AddRootProvider registers a source of GC roots.
func (h *Heap) AddRootProvider(rp RootProvider) {
	h.roots = append(h.roots, rp)
}

// SetFinalizerScheduler installs the job-queue adapter finalizers are
// routed through. With no scheduler installed, the finalizer of a
// cleared weak reference is discarded without running.
func (h *Heap) SetFinalizerScheduler(s FinalizerScheduler) {
	h.scheduler = s
}

// Count returns the number of live Things.
func (h *Heap) Count() int { return h.count }

// LastStats returns statistics from the most recent Collect call.
func (h *Heap) LastStats() Stats { return h.lastStats }

// Alloc creates and links a new Thing, running a collection first if the
// soft allocation threshold has been crossed and collection is enabled.
func (h *Heap) Alloc(ops *Ops, data any) *Thing {
	if h.enabled && !h.running && h.bytesSince >= h.threshold {
		h.Collect()
	}
	t := &Thing{Ops: ops, Data: data, next: h.head}
	h.head = t
	h.count++
	h.bytesSince++
	return t
}

// NewWeakRef registers a weak reference to target with an optional
// finalizer, handed to the installed FinalizerScheduler (never called
// synchronously) once target is found unreachable by a collection.
func (h *Heap) NewWeakRef(target *Thing, finalizer func()) {
	h.weakRefs = append(h.weakRefs, &weakRef{target: target, finalizer: finalizer})
}

// Collect runs one full mark-sweep cycle: roots, mark, weak refs,
// sweep. A reentrant guard prevents nested collection
// triggered from a user finalizer running synchronously inside Collect —
// but finalizers never run synchronously here (they're scheduled), so the
// guard exists purely to protect against Alloc calls made while scanning
// root providers that themselves allocate.
func (h *Heap) Collect() {
	if h.running {
		return
	}
	h.running = true
	defer func() { h.running = false }()

	h.bytesSince = 0
	h.stackFull = false

	for t := h.head; t != nil; t = t.next {
		t.marked = false
	}

	var roots []*Thing
	for _, rp := range h.roots {
		roots = rp.GCRoots(roots)
	}

	marked := h.mark(roots)
	if h.stackFull {
		// Conservative restart: re-mark one entry at a time from every root
		// and every marked thing's children until a pass finds nothing new.
		for n := -1; n != 0; marked += n {
			n = 0
			seeds := append([]*Thing(nil), roots...)
			for t := h.head; t != nil; t = t.next {
				if t.marked && t.Ops != nil && t.Ops.Scan != nil {
					seeds = t.Ops.Scan(t, seeds)
				}
			}
			for _, s := range seeds {
				n += h.mark([]*Thing{s})
			}
		}
	}

	cleared := h.sweepWeakRefs()
	swept := h.sweep()

	h.lastStats = Stats{Marked: marked, Swept: swept, WeakRefsCleared: cleared, ConservativeRestart: h.stackFull}
}

func (h *Heap) mark(roots []*Thing) int {
	stack := append([]*Thing(nil), roots...)
	marked := 0
	var scanBuf []*Thing
	for len(stack) > 0 {
		if h.markBudget > 0 && len(stack) > h.markBudget {
			h.stackFull = true
			// Drop the overflow; the caller re-scans roots afterward.
			stack = stack[:h.markBudget]
		}
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t == nil || t.marked {
			continue
		}
		t.marked = true
		marked++
		if t.Ops != nil && t.Ops.Scan != nil {
			scanBuf = t.Ops.Scan(t, scanBuf[:0])
			for _, child := range scanBuf {
				if child != nil && !child.marked {
					stack = append(stack, child)
				}
			}
		}
	}
	return marked
}

func (h *Heap) sweepWeakRefs() int {
	cleared := 0
	live := h.weakRefs[:0]
	for _, wr := range h.weakRefs {
		if wr.target != nil && !wr.target.marked {
			cleared++
			if wr.finalizer != nil {
				fn := wr.finalizer
				if h.scheduler != nil {
					h.scheduler.ScheduleFinalizer(fn)
				}
			}
			continue
		}
		live = append(live, wr)
	}
	h.weakRefs = live
	return cleared
}

func (h *Heap) sweep() int {
	var prev *Thing
	swept := 0
	for t := h.head; t != nil; {
		next := t.next
		if !t.marked {
			if prev == nil {
				h.head = next
			} else {
				prev.next = next
			}
			if t.Ops != nil && t.Ops.Free != nil {
				t.Ops.Free(t)
			}
			h.count--
			swept++
		} else {
			prev = t
		}
		t = next
	}
	return swept
}
