package strprim

import (
	"math/big"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
)

// BigIntData is the payload of a heap-allocated bigint, backed by the
// standard library's arbitrary-precision integer — there is no reason to
// hand-roll one when math/big already exists and is what the rest of the
// Go ecosystem reaches for.
type BigIntData struct {
	Int *big.Int
}

var bigIntOps = &gcheap.Ops{Kind: gcheap.KindBigInt, Name: "bigint"}

// NewBigInt allocates a heap bigint from a *big.Int. The value is copied
// so the caller's big.Int can continue to be mutated independently.
func NewBigInt(heap *gcheap.Heap, n *big.Int) value.Value {
	t := heap.Alloc(bigIntOps, &BigIntData{Int: new(big.Int).Set(n)})
	return value.BigInt(value.Ref{Thing: t})
}

// BigIntFromInt64 is a convenience wrapper for small literal bigints.
func BigIntFromInt64(heap *gcheap.Heap, n int64) value.Value {
	return NewBigInt(heap, big.NewInt(n))
}

// BigIntValue extracts the underlying *big.Int.
func BigIntValue(v value.Value) *big.Int {
	return v.Ref().Thing.Data.(*BigIntData).Int
}

// BigIntString renders the bigint in base 10 with no "n" suffix (the
// suffix is source-syntax only, not part of the runtime value).
func BigIntString(v value.Value) string {
	return BigIntValue(v).String()
}
