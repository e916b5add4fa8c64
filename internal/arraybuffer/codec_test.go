package arraybuffer

import (
	"math/big"
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestRoundTripEachElementKind(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	cases := []struct {
		name string
		t    ElementType
		in   value.Value
		want float64
	}{
		{"Uint8", Uint8, value.Number(200), 200},
		{"Int8", Int8, value.Number(-5), -5},
		{"Uint16", Uint16, value.Number(40000), 40000},
		{"Int16", Int16, value.Number(-1000), -1000},
		{"Uint32", Uint32, value.Number(4000000000), 4000000000},
		{"Int32", Int32, value.Number(-70000), -70000},
		{"Float32", Float32, value.Number(1.5), 1.5},
		{"Float64", Float64, value.Number(1.0 / 3.0), 1.0 / 3.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, le := range []bool{true, false} {
				buf := make([]byte, 8)
				err := SetElement(buf, 0, c.t, c.in, le)
				require.NoError(t, err)
				got := GetElement(h, buf, 0, c.t, le)
				require.InDelta(t, c.want, got.Num(), 1e-6)
			}
		})
	}
}

func TestUint8ClampedSaturatesAndRoundsHalfToEven(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)
	buf := make([]byte, 1)

	require.NoError(t, SetElement(buf, 0, Uint8Clamped, value.Number(300), true))
	require.Equal(t, 255.0, GetElement(h, buf, 0, Uint8Clamped, true).Num())

	require.NoError(t, SetElement(buf, 0, Uint8Clamped, value.Number(-10), true))
	require.Equal(t, 0.0, GetElement(h, buf, 0, Uint8Clamped, true).Num())

	// 2.5 is exactly between 2 and 3; round to even (2).
	require.NoError(t, SetElement(buf, 0, Uint8Clamped, value.Number(2.5), true))
	require.Equal(t, 2.0, GetElement(h, buf, 0, Uint8Clamped, true).Num())

	// 3.5 is exactly between 3 and 4; round to even (4).
	require.NoError(t, SetElement(buf, 0, Uint8Clamped, value.Number(3.5), true))
	require.Equal(t, 4.0, GetElement(h, buf, 0, Uint8Clamped, true).Num())
}

func TestBigIntElementsRoundTripAndRejectNumberSource(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)
	buf := make([]byte, 8)

	big42 := strprim.NewBigInt(h, big.NewInt(42))
	require.NoError(t, SetElement(buf, 0, BigUint64, big42, true))
	got := GetElement(h, buf, 0, BigUint64, true)
	require.True(t, got.IsBigInt())
	require.Equal(t, "42", strprim.BigIntValue(got).String())

	negOne := strprim.NewBigInt(h, big.NewInt(-1))
	require.NoError(t, SetElement(buf, 0, BigInt64, negOne, true))
	got2 := GetElement(h, buf, 0, BigInt64, true)
	require.Equal(t, "-1", strprim.BigIntValue(got2).String())

	err := SetElement(buf, 0, BigUint64, value.Number(1), true)
	require.Error(t, err)
}

func TestNumericElementRejectsBigIntSource(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)
	buf := make([]byte, 8)
	bi := strprim.NewBigInt(h, big.NewInt(1))
	err := SetElement(buf, 0, Uint32, bi, true)
	require.Error(t, err)
}
