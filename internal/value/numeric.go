package value

import "math"

// ToInteger implements the ECMAScript ToIntegerOrInfinity abstract
// operation on a raw double. NaN becomes 0; -0 becomes 0.
func ToInteger(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	if math.IsInf(n, 0) {
		return n
	}
	i := math.Trunc(n)
	if i == 0 {
		return 0 // normalizes -0 to +0
	}
	return i
}

const twoPow32 = 4294967296.0
const twoPow31 = 2147483648.0

// ToUint32 truncates and wraps n modulo 2^32.
func ToUint32(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	i := math.Trunc(n)
	m := math.Mod(i, twoPow32)
	if m < 0 {
		m += twoPow32
	}
	return uint32(m)
}

// ToInt32 truncates modulo 2^32 then reinterprets as signed.
func ToInt32(n float64) int32 {
	u := ToUint32(n)
	if u >= uint32(twoPow31) {
		return int32(int64(u) - int64(twoPow32))
	}
	return int32(u)
}

// ToIndex truncates n with ToInteger (so 1.5 gives 1) and requires the
// result to satisfy 0 <= integer <= 2^53-1; NaN fails. It
// returns an error sentinel via the bool rather than panicking so callers
// can raise a RangeError with their own message. ToIndex(-1) must fail.
func ToIndex(n float64) (uint64, bool) {
	if math.IsNaN(n) {
		return 0, false
	}
	integer := ToInteger(n)
	if integer < 0 {
		return 0, false
	}
	const maxSafeInteger = 9007199254740991 // 2^53 - 1
	if integer > maxSafeInteger {
		return 0, false
	}
	return uint64(integer), true
}

// IsInteger reports whether n is a finite value with no fractional part.
func IsInteger(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0) && math.Trunc(n) == n
}

// SameValueNumber implements the SameValue abstract operation restricted to the
// numeric domain: unlike SameValueZero, it distinguishes +0 and -0 and
// treats two NaNs as the same value.
func SameValueNumber(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if a == 0 && b == 0 {
		return math.Signbit(a) == math.Signbit(b)
	}
	return a == b
}

// SameValueZeroNumber implements SameValueZero restricted to numbers: like
// SameValue but +0 and -0 compare equal.
func SameValueZeroNumber(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
