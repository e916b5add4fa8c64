// Package vstack implements the runtime's value stack: push/push_n,
// save/restore, and pop-to-pointer over slots of value.Value. Engines
// anchor indirect value handles to a stack pointer so
// they survive GC without relocation; since this rewrite's GC is
// non-moving, a handle only needs to survive the slot being
// popped and reused — which the generation counter in value.StackSlot
// catches.
//
// Storage is a single growable slice rather than literally segmented
// chunks: Go slice growth already amortizes the copy cost segmentation
// avoids, and a slice index is simpler to check against a generation
// than a segment+offset pair. The segmentation survives only as
// SegmentSize, the growth increment.
package vstack

import (
	"fmt"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
)

// SegmentSize is the growth increment used when the stack needs more
// capacity, echoing the original's segmented allocation strategy.
const SegmentSize = 1024

// Stack is a runtime's value stack: a growable vector of slots, each
// carrying a generation so stale Handles are caught rather than silently
// reading a reused slot.
type Stack struct {
	slots       []value.Value
	generations []uint32
}

// New creates an empty value stack.
func New() *Stack {
	return &Stack{}
}

// Len returns the current stack depth.
func (s *Stack) Len() int { return len(s.slots) }

// Push appends one value and returns an indirect handle anchoring it.
func (s *Stack) Push(v value.Value) value.Handle {
	idx := uint32(len(s.slots))
	s.slots = append(s.slots, v)
	gen := s.generations
	if int(idx) >= len(gen) {
		s.generations = append(s.generations, 1)
	} else {
		s.generations[idx]++
	}
	return value.IndirectHandle(value.StackSlot{Index: idx, Generation: s.generations[idx]})
}

// PushN reserves n fresh undefined slots and returns handles to all of
// them, used when a call needs a contiguous argument window.
func (s *Stack) PushN(n int) []value.Handle {
	handles := make([]value.Handle, n)
	for i := 0; i < n; i++ {
		handles[i] = s.Push(value.Undefined)
	}
	return handles
}

// Save returns a mark that Restore can roll the stack back to.
func (s *Stack) Save() int {
	return len(s.slots)
}

// Restore truncates the stack back to a previously saved mark, bumping
// the generation of every discarded slot so outstanding Handles into them
// become detectably stale.
func (s *Stack) Restore(mark int) {
	s.PopTo(mark)
}

// PopToPointer is an alias for PopTo kept for callers that think in
// saved-pointer terms.
func (s *Stack) PopToPointer(mark int) { s.PopTo(mark) }

// PopTo truncates the stack to depth, discarding everything above it.
func (s *Stack) PopTo(depth int) {
	if depth < 0 || depth > len(s.slots) {
		panic(fmt.Sprintf("vstack: PopTo(%d) out of range [0,%d]", depth, len(s.slots)))
	}
	for i := depth; i < len(s.slots); i++ {
		s.generations[i]++
	}
	s.slots = s.slots[:depth]
}

// At returns the value at a raw slot index, without generation checking —
// used internally by the interpreter's fast paths where the index is
// known fresh this turn.
func (s *Stack) At(index uint32) value.Value {
	return s.slots[index]
}

// SetAt overwrites the value at a raw slot index.
func (s *Stack) SetAt(index uint32, v value.Value) {
	s.slots[index] = v
}

// Resolve dereferences a Handle, consulting the stack only when the
// handle is indirect. It returns an error if the handle addresses a slot
// whose generation has since moved on (the slot was popped and reused) —
// a stale-handle host failure, not a language error.
func (s *Stack) Resolve(h value.Handle) (value.Value, error) {
	if !h.IsIndirect() {
		return h.Direct(), nil
	}
	slot := h.Slot()
	if int(slot.Index) >= len(s.slots) {
		return value.Undefined, fmt.Errorf("vstack: handle slot %d out of range (stack depth %d)", slot.Index, len(s.slots))
	}
	if s.generations[slot.Index] != slot.Generation {
		return value.Undefined, fmt.Errorf("vstack: handle slot %d is stale (generation %d, current %d)", slot.Index, slot.Generation, s.generations[slot.Index])
	}
	return s.slots[slot.Index], nil
}

// Slots returns the live backing slice, used by the GC to mark every
// alive value-stack slot as a root.
func (s *Stack) Slots() []value.Value {
	return s.slots
}

func isHeapValue(v value.Value) bool {
	switch v.Kind() {
	case value.KindString, value.KindSymbol, value.KindBigInt, value.KindObject, value.KindGeneric:
		return true
	default:
		return false
	}
}

// GCRoots implements gcheap.RootProvider: every live slot on the stack
// is a root, since a
// handle returned to a caller must anchor its value independent of
// whatever else references it.
func (s *Stack) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	for _, v := range s.slots {
		if isHeapValue(v) {
			out = append(out, v.Ref().Thing)
		}
	}
	return out
}
