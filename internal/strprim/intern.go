package strprim

import (
	"golang.org/x/text/unicode/norm"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
)

// Interner is a realm's property-key string table (context.NewRealm gives
// each realm its own), itself a GC root provider so an interned key
// always survives collection. Every distinct content routed
// through it addresses the same
// heap Thing — the object model's property table can then key directly
// on value.Value equality instead of needing a separate content-based
// key type.
type Interner struct {
	heap  *gcheap.Heap
	table map[string]value.Value
}

// NewInterner creates an empty interner over heap.
func NewInterner(heap *gcheap.Heap) *Interner {
	return &Interner{heap: heap, table: make(map[string]value.Value)}
}

// Intern returns the canonical heap string for s, allocating it on first
// use. No normalization is applied: ToPropertyKey and property-key
// equality compare strings by content only, and arbitrary
// property keys — as opposed to source-text identifiers — are never
// Unicode-normalized by ECMAScript. See NormalizeIdentifier for the one
// place NFC folding belongs.
func (in *Interner) Intern(s string) value.Value {
	if v, ok := in.table[s]; ok {
		return v
	}
	v := FromUTF8(in.heap, s)
	in.table[s] = v
	return v
}

// NormalizeIdentifier folds s to Unicode Normalization Form C, matching
// how ECMAScript source text identifiers are compared: two source
// identifiers that differ only by combining-character representation
// (e.g. "é" as one code point vs. "e" + U+0301) name the same binding.
// Real ECMAScript engines apply this fold in the lexer, which is
// external to this core; callers that construct a Script from
// already-parsed identifier text (e.g. a script loader reading a
// declaration table built by an external front end that has not already
// folded it) call this before interning the name. Ordinary property-key
// interning (Intern above) must never do this: ECMAScript does not
// Unicode-normalize arbitrary property keys, only source identifiers.
func NormalizeIdentifier(s string) string {
	return norm.NFC.String(s)
}

// GCRoots implements gcheap.RootProvider: every interned string survives
// collection regardless of other reachability.
func (in *Interner) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	for _, v := range in.table {
		out = append(out, v.Ref().Thing)
	}
	return out
}

// Keys returns the content of every interned entry, unordered, in the
// shape rjerrors.DumpHeapCensus takes for a census of the property-key
// table; callers that need a stable order sort the result themselves.
func (in *Interner) Keys() []string {
	keys := make([]string, 0, len(in.table))
	for k := range in.table {
		keys = append(keys, k)
	}
	return keys
}
