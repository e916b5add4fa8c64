package object

import (
	"math"
	"math/big"
	"testing"

	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestToBoolean(t *testing.T) {
	heap := newTestHeap()

	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"undefined", value.Undefined, false},
		{"null", value.Null, false},
		{"false", value.False, false},
		{"true", value.True, true},
		{"zero", value.Number(0), false},
		{"negative zero", value.Number(math.Copysign(0, -1)), false},
		{"NaN", value.Number(math.NaN()), false},
		{"nonzero", value.Number(-3.5), true},
		{"empty string", strprim.FromUTF8(heap, ""), false},
		{"nonempty string", strprim.FromUTF8(heap, "0"), true},
		{"index string", value.IndexString(0), true},
		{"zero bigint", strprim.BigIntFromInt64(heap, 0), false},
		{"nonzero bigint", strprim.BigIntFromInt64(heap, -1), true},
		{"symbol", strprim.NewSymbol(heap, "s", true), true},
		{"object", New(heap, value.Null).Value(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ToBoolean(tc.v))
		})
	}
}

func TestToBigInt(t *testing.T) {
	heap := newTestHeap()
	in := strprim.NewInterner(heap)

	t.Run("bigint passes through", func(t *testing.T) {
		v := strprim.BigIntFromInt64(heap, 42)
		got, err := ToBigInt(heap, in, value.Undefined, v)
		require.NoError(t, err)
		require.Equal(t, v, got)
	})

	t.Run("booleans become 0n and 1n", func(t *testing.T) {
		got, err := ToBigInt(heap, in, value.Undefined, value.True)
		require.NoError(t, err)
		require.Equal(t, int64(1), strprim.BigIntValue(got).Int64())

		got, err = ToBigInt(heap, in, value.Undefined, value.False)
		require.NoError(t, err)
		require.Equal(t, int64(0), strprim.BigIntValue(got).Int64())
	})

	t.Run("integer string parses", func(t *testing.T) {
		got, err := ToBigInt(heap, in, value.Undefined, strprim.FromUTF8(heap, "  18446744073709551617  "))
		require.NoError(t, err)
		want := new(big.Int)
		want.SetString("18446744073709551617", 10)
		require.Zero(t, strprim.BigIntValue(got).Cmp(want))
	})

	t.Run("empty string is 0n", func(t *testing.T) {
		got, err := ToBigInt(heap, in, value.Undefined, strprim.FromUTF8(heap, "   "))
		require.NoError(t, err)
		require.Equal(t, int64(0), strprim.BigIntValue(got).Int64())
	})

	t.Run("index string converts directly", func(t *testing.T) {
		got, err := ToBigInt(heap, in, value.Undefined, value.IndexString(7))
		require.NoError(t, err)
		require.Equal(t, int64(7), strprim.BigIntValue(got).Int64())
	})

	t.Run("number is a TypeError", func(t *testing.T) {
		_, err := ToBigInt(heap, in, value.Undefined, value.Number(1))
		require.ErrorIs(t, err, rjerrors.TypeError(""))
	})

	t.Run("non-integer string is a SyntaxError", func(t *testing.T) {
		_, err := ToBigInt(heap, in, value.Undefined, strprim.FromUTF8(heap, "1.5"))
		require.ErrorIs(t, err, rjerrors.SyntaxError(""))
	})
}
