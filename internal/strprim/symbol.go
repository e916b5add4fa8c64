package strprim

import (
	"fmt"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
)

// SymbolData is the payload of a heap-allocated symbol: an optional
// description and a uniqueness token (symbols never compare equal to one
// another except by identity, even with the same description).
type SymbolData struct {
	Description string
	HasDesc     bool
}

var symbolOps = &gcheap.Ops{Kind: gcheap.KindSymbol, Name: "symbol"}

// NewSymbol allocates a fresh, never-interned symbol.
func NewSymbol(heap *gcheap.Heap, description string, hasDescription bool) value.Value {
	t := heap.Alloc(symbolOps, &SymbolData{Description: description, HasDesc: hasDescription})
	return value.Symbol(value.Ref{Thing: t})
}

// SymbolDescription returns the symbol's description and whether it has
// one ("Symbol()" with no argument has none).
func SymbolDescription(v value.Value) (string, bool) {
	d := v.Ref().Thing.Data.(*SymbolData)
	return d.Description, d.HasDesc
}

// SymbolString renders "Symbol(description)" (Symbol.prototype.toString form).
func SymbolString(v value.Value) string {
	desc, has := SymbolDescription(v)
	if !has {
		return "Symbol()"
	}
	return fmt.Sprintf("Symbol(%s)", desc)
}

// Registry implements the global symbol registry (Symbol.for/Symbol.keyFor):
// a process-wide table from key to symbol, distinct from the well-known
// symbols. It is its own GC root since registry entries
// must outlive any single realm.
type Registry struct {
	byKey map[string]value.Value
}

// NewRegistry creates an empty global symbol registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]value.Value)}
}

// For implements Symbol.for(key): returns the existing symbol for key, or
// allocates and registers a fresh one.
func (r *Registry) For(heap *gcheap.Heap, key string) value.Value {
	if sym, ok := r.byKey[key]; ok {
		return sym
	}
	sym := NewSymbol(heap, key, true)
	r.byKey[key] = sym
	return sym
}

// KeyFor implements Symbol.keyFor(sym): the registry key for sym, if any.
func (r *Registry) KeyFor(sym value.Value) (string, bool) {
	for k, v := range r.byKey {
		if value.Equal(v, sym) {
			return k, true
		}
	}
	return "", false
}

// GCRoots implements gcheap.RootProvider: every registered symbol must
// survive collection regardless of other reachability.
func (r *Registry) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	for _, v := range r.byKey {
		out = append(out, v.Ref().Thing)
	}
	return out
}
