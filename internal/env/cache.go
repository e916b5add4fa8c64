package env

import (
	"strconv"

	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// NoSlot is the sentinel stored in a fresh binding reference's cache
// slots before its first resolution.
const NoSlot uint16 = 0xffff

// MaxCachedDepth bounds the outer-chain hop count the cache can record;
// a reference deeper than this always falls back to the walking lookup
// (an environment chain this deep from a single binding reference does
// not occur in practice, and the cache slot is only 16 bits).
const MaxCachedDepth = 0xfffe

// BindingRef is a compiled binding reference carrying (envHops,
// bindingIdx) cache slots, a 16-bit hop count and an int binding
// index: the bytecode compiler emits one per identifier
// reference, and the interpreter resolves it through Resolve below,
// mutating it in place to cache the result of the first lookup.
type BindingRef struct {
	Name    string
	EnvHops uint16 // outer-chain hop count from the resolving environment
	Index   int    // insertion-order position of the binding in the target environment's Bindings vector
}

// NewBindingRef creates an uncached reference for name.
func NewBindingRef(name string) *BindingRef {
	return &BindingRef{Name: name, EnvHops: NoSlot, Index: -1}
}

// Resolve finds the environment record (walking the outer chain) that
// binds ref.Name starting from start, caching the hop count and slot
// index on first resolution so repeated lookups skip name hashing
// entirely. Returns nil if no environment in
// the chain binds the name (the caller should then fall back to the
// global environment or raise ReferenceError, per standard identifier
// resolution).
func (ref *BindingRef) Resolve(start *Environment) *Environment {
	if ref.EnvHops != NoSlot {
		target := start
		for i := uint16(0); i < ref.EnvHops && target != nil; i++ {
			target = target.Outer
		}
		if target != nil && target.bindingAt(ref.Index) == ref.Name {
			return target
		}
		// Stale cache (e.g. an intervening eval() spliced in a new
		// environment): invalidate and fall through to a full walk.
		ref.EnvHops = NoSlot
		ref.Index = -1
	}
	hops := uint16(0)
	for e := start; e != nil; e = e.Outer {
		if e.Bindings != nil {
			if idx := e.Bindings.Index(e.key(ref.Name)); idx >= 0 {
				if hops <= MaxCachedDepth {
					ref.EnvHops = hops
					ref.Index = idx
				}
				return e
			}
		} else if e.Kind == KindObject || e.Kind == KindGlobal {
			if has, _ := e.HasBinding(ref.Name); has {
				return e // object/global records are never slot-cached: no stable index
			}
		}
		hops++
	}
	return nil
}

// bindingAt returns the name stored at insertion-order position idx, or
// "" if out of range — used by Resolve to validate a cached slot still
// names the same binding before trusting it.
func (e *Environment) bindingAt(idx int) string {
	if e.Bindings == nil {
		return ""
	}
	k, _, ok := e.Bindings.At(idx)
	if !ok {
		return ""
	}
	return bindingKeyName(k)
}

// bindingKeyName recovers the Go string a binding key was interned
// from. Binding keys are always plain identifiers (never symbols), so
// this only needs the string and index-string cases.
func bindingKeyName(k value.Value) string {
	if k.Kind() == value.KindIndexString {
		return strconv.FormatUint(uint64(k.IndexStringValue()), 10)
	}
	return strprim.ToGoString(k)
}
