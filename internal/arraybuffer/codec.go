package arraybuffer

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// ElementType is one of the 11 typed-array/DataView element kinds.
type ElementType int

const (
	Uint8 ElementType = iota
	Int8
	Uint8Clamped
	Uint16
	Int16
	Uint32
	Int32
	Float32
	Float64
	BigUint64
	BigInt64
)

// Size reports the element's byte width.
func (e ElementType) Size() int {
	switch e {
	case Uint8, Int8, Uint8Clamped:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Float64, BigUint64, BigInt64:
		return 8
	default:
		return 0
	}
}

// IsBigIntKind reports whether the element requires a BigInt source/
// target rather than a Number.
func (e ElementType) IsBigIntKind() bool {
	return e == BigUint64 || e == BigInt64
}

func order(littleEndian bool) binary.ByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// toUint8Clamp implements ECMAScript's ToUint8Clamp: clamp to [0,255]
// and, for a value exactly between two integers, round to the even
// one.
func toUint8Clamp(f float64) uint8 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	lower := math.Floor(f)
	diffLower := f - lower
	diffUpper := (lower + 1) - f
	switch {
	case diffLower < diffUpper:
		return uint8(lower)
	case diffUpper < diffLower:
		return uint8(lower + 1)
	default:
		if int64(lower)%2 == 0 {
			return uint8(lower)
		}
		return uint8(lower + 1)
	}
}

var twoToThe64 = new(big.Int).Lsh(big.NewInt(1), 64)

// GetElement reads one element at byteOffset out of buf and returns it
// as a script value — a Number for every kind but BigUint64/BigInt64,
// which need heap to allocate the BigInt result.
func GetElement(heap *gcheap.Heap, buf []byte, byteOffset int, t ElementType, littleEndian bool) value.Value {
	ord := order(littleEndian)
	switch t {
	case Uint8, Uint8Clamped:
		return value.Number(float64(buf[byteOffset]))
	case Int8:
		return value.Number(float64(int8(buf[byteOffset])))
	case Uint16:
		return value.Number(float64(ord.Uint16(buf[byteOffset:])))
	case Int16:
		return value.Number(float64(int16(ord.Uint16(buf[byteOffset:]))))
	case Uint32:
		return value.Number(float64(ord.Uint32(buf[byteOffset:])))
	case Int32:
		return value.Number(float64(int32(ord.Uint32(buf[byteOffset:]))))
	case Float32:
		return value.Number(float64(math.Float32frombits(ord.Uint32(buf[byteOffset:]))))
	case Float64:
		return value.Number(math.Float64frombits(ord.Uint64(buf[byteOffset:])))
	case BigUint64:
		u := ord.Uint64(buf[byteOffset:])
		return strprim.NewBigInt(heap, new(big.Int).SetUint64(u))
	case BigInt64:
		u := ord.Uint64(buf[byteOffset:])
		return strprim.NewBigInt(heap, big.NewInt(int64(u)))
	default:
		return value.Undefined
	}
}

// SetElement writes v into buf at byteOffset as element kind t. v must
// already be the right flavor of primitive (Number for every kind but
// BigUint64/BigInt64, which require a BigInt) — ToNumber/ToBigInt
// coercion is the caller's job;
// this package only encodes, it does not coerce.
func SetElement(buf []byte, byteOffset int, t ElementType, v value.Value, littleEndian bool) error {
	ord := order(littleEndian)
	if t.IsBigIntKind() {
		if !v.IsBigInt() {
			return rjerrors.TypeError("a BigInt source is required for a %s element", bigIntKindName(t))
		}
		n := strprim.BigIntValue(v)
		masked := new(big.Int).Mod(n, twoToThe64)
		ord.PutUint64(buf[byteOffset:], masked.Uint64())
		return nil
	}
	if !v.IsNumber() {
		return rjerrors.TypeError("a Number source is required for this element kind")
	}
	f := v.Num()
	switch t {
	case Uint8:
		buf[byteOffset] = uint8(int64(f))
	case Int8:
		buf[byteOffset] = byte(int8(int64(f)))
	case Uint8Clamped:
		buf[byteOffset] = toUint8Clamp(f)
	case Uint16:
		ord.PutUint16(buf[byteOffset:], uint16(int64(f)))
	case Int16:
		ord.PutUint16(buf[byteOffset:], uint16(int16(int64(f))))
	case Uint32:
		ord.PutUint32(buf[byteOffset:], uint32(int64(f)))
	case Int32:
		ord.PutUint32(buf[byteOffset:], uint32(int32(int64(f))))
	case Float32:
		ord.PutUint32(buf[byteOffset:], math.Float32bits(float32(f)))
	case Float64:
		ord.PutUint64(buf[byteOffset:], math.Float64bits(f))
	}
	return nil
}

func bigIntKindName(t ElementType) string {
	if t == BigUint64 {
		return "BigUint64"
	}
	return "BigInt64"
}
