// Package strprim implements the string, symbol, and bigint primitives:
// interning rules and descriptive conversions. Each primitive is a
// gcheap.Thing whose Data payload is one of the structs below; the
// interned tables (Interner, Registry) are themselves GC root providers
// so an interned string or registered symbol always survives collection.
package strprim

import (
	"strconv"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
)

// StringData is the payload of a heap-allocated JS string. Content is
// stored as UTF-16 code units rather
// than Go's UTF-8 strings, so indexing matches ECMAScript string
// semantics exactly.
type StringData struct {
	Units []uint16
}

var stringOps = &gcheap.Ops{Kind: gcheap.KindString, Name: "string"}

// NewString allocates a heap string from UTF-16 code units.
func NewString(heap *gcheap.Heap, units []uint16) value.Value {
	cp := make([]uint16, len(units))
	copy(cp, units)
	t := heap.Alloc(stringOps, &StringData{Units: cp})
	return value.String(value.Ref{Thing: t})
}

// FromUTF8 encodes a Go string to UTF-16 and allocates a heap string.
func FromUTF8(heap *gcheap.Heap, s string) value.Value {
	return NewString(heap, EncodeUTF16(s))
}

// EncodeUTF16 converts a Go (UTF-8) string to UTF-16 code units,
// surrogate-pairing code points above the BMP.
func EncodeUTF16(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r <= 0xFFFF {
			units = append(units, uint16(r))
			continue
		}
		r -= 0x10000
		hi := uint16(0xD800 + (r >> 10))
		lo := uint16(0xDC00 + (r & 0x3FF))
		units = append(units, hi, lo)
	}
	return units
}

// DecodeUTF16 renders UTF-16 code units back to a Go string, replacing
// unpaired surrogates with U+FFFD (lossy only at the boundary the
// original C engine would also reject).
func DecodeUTF16(units []uint16) string {
	var sb []rune
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			lo := units[i+1]
			r := rune(0x10000 + (int(u)-0xD800)<<10 + (int(lo) - 0xDC00))
			sb = append(sb, r)
			i++
		case u >= 0xD800 && u <= 0xDFFF:
			sb = append(sb, 0xFFFD)
		default:
			sb = append(sb, rune(u))
		}
	}
	return string(sb)
}

// Data extracts the StringData payload of a string Value. Panics (a host
// failure, not a language error) if v is not a live heap string.
func Data(v value.Value) *StringData {
	t := v.Ref().Thing
	return t.Data.(*StringData)
}

// Len returns the UTF-16 code-unit length of v.
func Len(v value.Value) int {
	return len(Data(v).Units)
}

// CharCodeAt returns the raw UTF-16 code unit at index, a lone surrogate
// half if index lands inside a surrogate pair.
func CharCodeAt(v value.Value, index int) (uint16, bool) {
	d := Data(v)
	if index < 0 || index >= len(d.Units) {
		return 0, false
	}
	return d.Units[index], true
}

// CodePointAt returns the full Unicode code point starting at index,
// combining a surrogate pair if present.
func CodePointAt(v value.Value, index int) (rune, bool) {
	d := Data(v)
	if index < 0 || index >= len(d.Units) {
		return 0, false
	}
	u := d.Units[index]
	if u >= 0xD800 && u <= 0xDBFF && index+1 < len(d.Units) {
		lo := d.Units[index+1]
		if lo >= 0xDC00 && lo <= 0xDFFF {
			return rune(0x10000 + (int(u)-0xD800)<<10 + (int(lo) - 0xDC00)), true
		}
	}
	return rune(u), true
}

// ToGoString decodes the UTF-16 storage back to a Go string for display
// or hashing purposes.
func ToGoString(v value.Value) string {
	return DecodeUTF16(Data(v).Units)
}

// Compare implements String.compare: an ordinal code-unit comparison.
func Compare(a, b value.Value) int {
	da, db := Data(a).Units, Data(b).Units
	n := len(da)
	if len(db) < n {
		n = len(db)
	}
	for i := 0; i < n; i++ {
		if da[i] != db[i] {
			if da[i] < db[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(da) < len(db):
		return -1
	case len(da) > len(db):
		return 1
	default:
		return 0
	}
}

// NumberToString renders a double the way ECMAScript's Number::toString
// does for the common (base-10, non-exponential-for-typical-range) case —
// the round-trip property ToString(ToNumber(s)) === s depends
// on strconv's shortest round-trippable formatting.
func NumberToString(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// ByteOrder selects the encoding FromChars decodes raw host bytes
// through; UTF16LE is the engine's native in-memory order.
type ByteOrder int

const (
	UTF16LE ByteOrder = iota
	UTF16BE
	UTF8Bytes
)

// FromChars decodes a byte slice in the given encoding into a heap
// string. UTF8Bytes is a
// thin wrapper over FromUTF8; the two UTF-16 orders go through
// golang.org/x/text's stateful decoder rather than a hand-rolled
// byte-pair loop; FromUChars (below) remains the zero-decoding path for
// callers that already have code units.
func FromChars(heap *gcheap.Heap, b []byte, order ByteOrder) (value.Value, error) {
	if order == UTF8Bytes {
		return FromUTF8(heap, string(b)), nil
	}
	endian := xunicode.LittleEndian
	if order == UTF16BE {
		endian = xunicode.BigEndian
	}
	decoder := xunicode.UTF16(endian, xunicode.IgnoreBOM).NewDecoder()
	decoded, _, err := transform.Bytes(decoder, b)
	if err != nil {
		return value.Undefined, err
	}
	return FromUTF8(heap, string(decoded)), nil
}

// FromUChars builds a string from units that are already UTF-16 code
// units, so no decoding is needed.
func FromUChars(heap *gcheap.Heap, units []uint16) value.Value {
	return NewString(heap, units)
}

// GetUChars returns the raw UTF-16 storage backing v.
// Callers must not mutate the returned slice; it is not a copy.
func GetUChars(v value.Value) []uint16 {
	return Data(v).Units
}

// isLineTerminatorOrSpace reports whether r is ECMAScript WhiteSpace or
// LineTerminator (the class String.prototype.trim strips from both ends),
// a superset of unicode.IsSpace that adds U+FEFF (BOM) and the line/
// paragraph separators.
func isLineTerminatorOrSpace(r rune) bool {
	switch r {
	case '\u00A0', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.IsSpace(r)
}

// Trim implements String.trim: strips ECMAScript whitespace/line
// terminators from both ends.
func Trim(heap *gcheap.Heap, v value.Value) value.Value {
	return FromUTF8(heap, strings.TrimFunc(ToGoString(v), isLineTerminatorOrSpace))
}

// TrimStart implements String.prototype.trimStart.
func TrimStart(heap *gcheap.Heap, v value.Value) value.Value {
	return FromUTF8(heap, strings.TrimLeftFunc(ToGoString(v), isLineTerminatorOrSpace))
}

// TrimEnd implements String.prototype.trimEnd.
func TrimEnd(heap *gcheap.Heap, v value.Value) value.Value {
	return FromUTF8(heap, strings.TrimRightFunc(ToGoString(v), isLineTerminatorOrSpace))
}

// Pad implements String.pad (padStart when atStart is true, else
// padEnd): repeats padUnits to extend v's UTF-16 code-unit length up to
// targetLength, truncating the final repetition. A v already at or past
// targetLength, or an empty padUnits, is returned unchanged.
func Pad(heap *gcheap.Heap, v value.Value, targetLength int, padUnits []uint16, atStart bool) value.Value {
	units := Data(v).Units
	need := targetLength - len(units)
	if need <= 0 || len(padUnits) == 0 {
		return v
	}
	fill := make([]uint16, 0, need)
	for len(fill) < need {
		fill = append(fill, padUnits...)
	}
	fill = fill[:need]

	out := make([]uint16, 0, targetLength)
	if atStart {
		out = append(out, fill...)
		out = append(out, units...)
	} else {
		out = append(out, units...)
		out = append(out, fill...)
	}
	return NewString(heap, out)
}

// IndexOf implements String.index_of: the first code-unit index at or
// after fromIndex where needle occurs in haystack, or -1 if it does not
// occur. An empty needle matches at fromIndex (clamped to haystack's
// length), mirroring ECMAScript's String.prototype.indexOf.
func IndexOf(haystack, needle value.Value, fromIndex int) int {
	h, n := Data(haystack).Units, Data(needle).Units
	if fromIndex < 0 {
		fromIndex = 0
	}
	if len(n) == 0 {
		if fromIndex > len(h) {
			return len(h)
		}
		return fromIndex
	}
	for i := fromIndex; i+len(n) <= len(h); i++ {
		if unitsEqual(h[i:i+len(n)], n) {
			return i
		}
	}
	return -1
}

func unitsEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Substr implements String.substr: a code-unit slice [start, start+length),
// clamped to v's bounds. A negative length means "to the end".
func Substr(heap *gcheap.Heap, v value.Value, start, length int) value.Value {
	units := Data(v).Units
	if start < 0 {
		start = 0
	}
	if start > len(units) {
		start = len(units)
	}
	end := len(units)
	if length >= 0 && start+length < end {
		end = start + length
	}
	return NewString(heap, units[start:end])
}
