package runtime

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// WellKnownSymbols holds the handful of @@-prefixed symbols ECMAScript
// specifies as process-wide singletons (Symbol.toPrimitive,
// Symbol.iterator, Symbol.toStringTag, ...). They are minted once per
// Runtime rather than per realm: internal/object.ToPrimitive,
// internal/object.ToString, and internal/object.NewModuleNamespace all
// take one as a caller-supplied parameter instead of reaching for a
// package global, so this is the one place that owns the canonical
// instance every realm this Runtime hosts shares.
type WellKnownSymbols struct {
	ToPrimitive value.Value
	Iterator    value.Value
	AsyncIterator value.Value
	ToStringTag value.Value
	HasInstance value.Value
	Species     value.Value
	Unscopables value.Value
}

func newWellKnownSymbols(heap *gcheap.Heap) WellKnownSymbols {
	mint := func(desc string) value.Value {
		return strprim.NewSymbol(heap, desc, true)
	}
	return WellKnownSymbols{
		ToPrimitive:   mint("Symbol.toPrimitive"),
		Iterator:      mint("Symbol.iterator"),
		AsyncIterator: mint("Symbol.asyncIterator"),
		ToStringTag:   mint("Symbol.toStringTag"),
		HasInstance:   mint("Symbol.hasInstance"),
		Species:       mint("Symbol.species"),
		Unscopables:   mint("Symbol.unscopables"),
	}
}
