package object

import (
	"math"
	"math/big"
	"strconv"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// Hint selects which conversion ToPrimitive prefers.
type Hint int

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// ToPrimitive implements the ToPrimitive abstract operation:
// consult Symbol.toPrimitive if the object exposes one, otherwise try
// valueOf/toString (or the reverse order for HintString) in the
// OrdinaryToPrimitive fallback.
func ToPrimitive(heap *gcheap.Heap, in *strprim.Interner, toPrimitiveSym value.Value, v value.Value, hint Hint) (value.Value, error) {
	if !v.IsObject() {
		return v, nil
	}
	o := FromValue(v)
	if toPrimitiveSym.IsObject() || toPrimitiveSym.IsSymbol() {
		exotic, err := o.Get(toPrimitiveSym, v)
		if err != nil {
			return value.Undefined, err
		}
		if exotic.IsObject() && FromValue(exotic).IsCallable() {
			hintStr := hintName(hint)
			arg := strprim.FromUTF8(heap, hintStr)
			result, err := CallFunction(FromValue(exotic), v, []value.Value{arg})
			if err != nil {
				return value.Undefined, err
			}
			if result.IsObject() {
				return value.Undefined, rjerrors.TypeError("Symbol.toPrimitive returned an object")
			}
			return result, nil
		}
	}
	return OrdinaryToPrimitive(heap, in, o, v, hint)
}

func hintName(h Hint) string {
	switch h {
	case HintNumber:
		return "number"
	case HintString:
		return "string"
	default:
		return "default"
	}
}

// OrdinaryToPrimitive is the valueOf/toString fallback:
// HintString tries toString then valueOf; every other hint tries
// valueOf then toString.
func OrdinaryToPrimitive(heap *gcheap.Heap, in *strprim.Interner, o *Object, v value.Value, hint Hint) (value.Value, error) {
	methods := []string{"valueOf", "toString"}
	if hint == HintString {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		key := in.Intern(name)
		fnVal, err := o.Get(key, v)
		if err != nil {
			return value.Undefined, err
		}
		if !fnVal.IsObject() || !FromValue(fnVal).IsCallable() {
			continue
		}
		result, err := CallFunction(FromValue(fnVal), v, nil)
		if err != nil {
			return value.Undefined, err
		}
		if !result.IsObject() {
			return result, nil
		}
	}
	return value.Undefined, rjerrors.TypeError("cannot convert object to primitive value")
}

// ToNumber implements the ToNumber abstract operation.
func ToNumber(heap *gcheap.Heap, in *strprim.Interner, toPrimitiveSym value.Value, v value.Value) (float64, error) {
	switch v.Kind() {
	case value.KindNumber:
		return v.Num(), nil
	case value.KindUndefined:
		return math.NaN(), nil
	case value.KindNull:
		return 0, nil
	case value.KindBoolean:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case value.KindString, value.KindIndexString:
		return stringToNumber(v), nil
	case value.KindBigInt:
		return 0, rjerrors.TypeError("cannot convert a BigInt to a number")
	case value.KindSymbol:
		return 0, rjerrors.TypeError("cannot convert a Symbol to a number")
	case value.KindObject:
		prim, err := ToPrimitive(heap, in, toPrimitiveSym, v, HintNumber)
		if err != nil {
			return 0, err
		}
		return ToNumber(heap, in, toPrimitiveSym, prim)
	default:
		return 0, rjerrors.TypeError("cannot convert value to a number")
	}
}

func indexStringToGoString(idx uint32) string {
	return strconv.FormatUint(uint64(idx), 10)
}

func stringToNumber(v value.Value) float64 {
	var s string
	if v.Kind() == value.KindIndexString {
		s = indexStringToGoString(v.IndexStringValue())
	} else {
		s = strprim.ToGoString(v)
	}
	return parseNumericLiteral(s)
}

// parseNumericLiteral implements the StringNumericLiteral grammar used by
// ToNumber/ToNumeric on strings: trimmed whitespace, empty string is 0,
// otherwise a standard float parse with NaN on failure.
func parseNumericLiteral(s string) float64 {
	trimmed := trimJSWhitespace(s)
	if trimmed == "" {
		return 0
	}
	n, ok := parseFloatStrict(trimmed)
	if !ok {
		return math.NaN()
	}
	return n
}

func trimJSWhitespace(s string) string {
	start, end := 0, len(s)
	isSpace := func(b byte) bool {
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return true
		default:
			return false
		}
	}
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func parseFloatStrict(s string) (float64, bool) {
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ToString implements the ToString abstract operation,
// returning a heap string Value.
func ToString(heap *gcheap.Heap, in *strprim.Interner, toPrimitiveSym value.Value, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindString:
		return v, nil
	case value.KindIndexString:
		return strprim.FromUTF8(heap, indexStringToGoString(v.IndexStringValue())), nil
	case value.KindUndefined:
		return strprim.FromUTF8(heap, "undefined"), nil
	case value.KindNull:
		return strprim.FromUTF8(heap, "null"), nil
	case value.KindBoolean:
		if v.Bool() {
			return strprim.FromUTF8(heap, "true"), nil
		}
		return strprim.FromUTF8(heap, "false"), nil
	case value.KindNumber:
		return strprim.FromUTF8(heap, strprim.NumberToString(v.Num())), nil
	case value.KindBigInt:
		return strprim.FromUTF8(heap, strprim.BigIntString(v)), nil
	case value.KindSymbol:
		return value.Undefined, rjerrors.TypeError("cannot convert a Symbol to a string")
	case value.KindObject:
		prim, err := ToPrimitive(heap, in, toPrimitiveSym, v, HintString)
		if err != nil {
			return value.Undefined, err
		}
		return ToString(heap, in, toPrimitiveSym, prim)
	default:
		return value.Undefined, rjerrors.TypeError("cannot convert value to a string")
	}
}

// ToPropertyKey implements ToPropertyKey: symbols pass
// through unchanged; everything else becomes a string, normalized to the
// inline index-string variant when it spells a canonical array index so
// the object model can route it to the indexed part.
func ToPropertyKey(heap *gcheap.Heap, in *strprim.Interner, toPrimitiveSym value.Value, v value.Value) (value.Value, error) {
	if v.Kind() == value.KindIndexString {
		return v, nil
	}
	prim, err := ToPrimitive(heap, in, toPrimitiveSym, v, HintString)
	if err != nil {
		return value.Undefined, err
	}
	if prim.IsSymbol() {
		return prim, nil
	}
	s, err := ToString(heap, in, toPrimitiveSym, prim)
	if err != nil {
		return value.Undefined, err
	}
	if idx, ok := canonicalIndex(strprim.ToGoString(s)); ok {
		return value.IndexString(idx), nil
	}
	return in.Intern(strprim.ToGoString(s)), nil
}

// canonicalIndex reports whether s is "0" or a non-zero-leading decimal
// digit string fitting in a uint32 (the CanonicalNumericIndexString test
// restricted to array-index shape).
func canonicalIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
		if n > math.MaxUint32-1 {
			return 0, false
		}
	}
	return uint32(n), true
}

// ToObject implements ToObject for primitive wrapper
// construction. proto is the wrapper prototype to install (caller
// supplies it since built-in realm wiring owns %String.prototype% etc,
// out of this package's scope).
func ToObject(heap *gcheap.Heap, v value.Value, proto value.Value) (*Object, error) {
	if v.IsObject() {
		return FromValue(v), nil
	}
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return nil, rjerrors.TypeError("cannot convert undefined or null to object")
	default:
		o := New(heap, proto)
		o.Kind = KindPrimitiveWrapper
		o.Ext = &PrimitiveWrapperState{Value: v}
		return o, nil
	}
}

// PrimitiveWrapperState is the Ext payload for a String/Number/Boolean/
// Symbol/BigInt primitive wrapper object.
type PrimitiveWrapperState struct {
	Value value.Value
}

func (p *PrimitiveWrapperState) ScanExt(addVal func(value.Value)) { addVal(p.Value) }

// ToBoolean implements the ToBoolean abstract operation. It never
// throws: every value has a truthiness.
func ToBoolean(v value.Value) bool {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return false
	case value.KindBoolean:
		return v.Bool()
	case value.KindNumber:
		n := v.Num()
		return n != 0 && !math.IsNaN(n)
	case value.KindString:
		return strprim.Len(v) > 0
	case value.KindIndexString:
		return true // an index string always has at least one digit
	case value.KindBigInt:
		return strprim.BigIntValue(v).Sign() != 0
	default:
		return true
	}
}

// ToBigInt implements the ToBigInt abstract operation. Numbers do not
// implicitly widen (TypeError, matching BigInt's no-mixing rule); a
// string that does not spell an integer literal is a SyntaxError.
func ToBigInt(heap *gcheap.Heap, in *strprim.Interner, toPrimitiveSym value.Value, v value.Value) (value.Value, error) {
	prim, err := ToPrimitive(heap, in, toPrimitiveSym, v, HintNumber)
	if err != nil {
		return value.Undefined, err
	}
	switch prim.Kind() {
	case value.KindBigInt:
		return prim, nil
	case value.KindBoolean:
		if prim.Bool() {
			return strprim.BigIntFromInt64(heap, 1), nil
		}
		return strprim.BigIntFromInt64(heap, 0), nil
	case value.KindIndexString:
		return strprim.BigIntFromInt64(heap, int64(prim.IndexStringValue())), nil
	case value.KindString:
		text := trimJSWhitespace(strprim.ToGoString(prim))
		if text == "" {
			return strprim.BigIntFromInt64(heap, 0), nil
		}
		n, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return value.Undefined, rjerrors.SyntaxError("cannot convert %q to a BigInt", text)
		}
		return strprim.NewBigInt(heap, n), nil
	case value.KindNumber:
		return value.Undefined, rjerrors.TypeError("cannot convert a Number to a BigInt")
	case value.KindSymbol:
		return value.Undefined, rjerrors.TypeError("cannot convert a Symbol to a BigInt")
	default:
		return value.Undefined, rjerrors.TypeError("cannot convert %s to a BigInt", prim.Kind())
	}
}

// SameValue implements the SameValue algorithm: like
// strict equality except NaN equals NaN and +0 is distinct from -0.
func SameValue(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == value.KindNumber {
		return value.SameValueNumber(a.Num(), b.Num())
	}
	return contentEqual(a, b)
}

// SameValueZero implements SameValueZero: like SameValue but
// +0 and -0 compare equal — the algorithm Map/Set/includes use.
func SameValueZero(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == value.KindNumber {
		return value.SameValueZeroNumber(a.Num(), b.Num())
	}
	return contentEqual(a, b)
}

// StrictEquals implements the === algorithm: SameValueZero
// except two NaNs are not equal and +0 equals -0 (already SameValueZero's
// behavior for zero; the NaN distinction is the only delta).
func StrictEquals(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == value.KindNumber {
		an, bn := a.Num(), b.Num()
		if math.IsNaN(an) || math.IsNaN(bn) {
			return false
		}
		return an == bn
	}
	return contentEqual(a, b)
}

func contentEqual(a, b value.Value) bool {
	switch a.Kind() {
	case value.KindUndefined, value.KindNull:
		return true
	case value.KindBoolean:
		return a.Bool() == b.Bool()
	case value.KindIndexString, value.KindString:
		return stringContentEqual(a, b)
	case value.KindBigInt:
		if value.Equal(a, b) {
			return true
		}
		return strprim.BigIntValue(a).Cmp(strprim.BigIntValue(b)) == 0
	default:
		return value.Equal(a, b)
	}
}

// stringContentEqual compares two string-kind values (KindString or
// KindIndexString, in any combination) by content.
func stringContentEqual(a, b value.Value) bool {
	if value.Equal(a, b) {
		return true
	}
	if a.Kind() == value.KindIndexString && b.Kind() == value.KindIndexString {
		return false // value.Equal already covers the equal case above
	}
	goStr := func(v value.Value) string {
		if v.Kind() == value.KindIndexString {
			return indexStringToGoString(v.IndexStringValue())
		}
		return strprim.ToGoString(v)
	}
	return goStr(a) == goStr(b)
}

// AbstractEquals implements the == algorithm, including the
// cross-type coercions (number/string, boolean, object-to-primitive,
// bigint/number and bigint/string comparisons).
func AbstractEquals(heap *gcheap.Heap, in *strprim.Interner, toPrimitiveSym value.Value, a, b value.Value) (bool, error) {
	if a.IsString() && b.IsString() {
		return stringContentEqual(a, b), nil
	}
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b), nil
	}
	if a.IsNullish() && b.IsNullish() {
		return true, nil
	}
	if a.IsNullish() || b.IsNullish() {
		return false, nil
	}
	if a.IsNumber() && b.IsString() {
		bn := stringToNumber(b)
		return value.SameValueZeroNumber(a.Num(), bn) || a.Num() == bn, nil
	}
	if a.IsString() && b.IsNumber() {
		return AbstractEquals(heap, in, toPrimitiveSym, b, a)
	}
	if a.IsBigInt() && b.IsString() {
		bi, ok := new(big.Int).SetString(trimJSWhitespace(strprim.ToGoString(b)), 10)
		if !ok {
			return false, nil
		}
		return strprim.BigIntValue(a).Cmp(bi) == 0, nil
	}
	if a.IsString() && b.IsBigInt() {
		return AbstractEquals(heap, in, toPrimitiveSym, b, a)
	}
	if a.IsBoolean() {
		n, err := ToNumber(heap, in, toPrimitiveSym, a)
		if err != nil {
			return false, err
		}
		return AbstractEquals(heap, in, toPrimitiveSym, value.Number(n), b)
	}
	if b.IsBoolean() {
		n, err := ToNumber(heap, in, toPrimitiveSym, b)
		if err != nil {
			return false, err
		}
		return AbstractEquals(heap, in, toPrimitiveSym, a, value.Number(n))
	}
	if (a.IsNumber() || a.IsString() || a.IsBigInt()) && b.IsObject() {
		prim, err := ToPrimitive(heap, in, toPrimitiveSym, b, HintDefault)
		if err != nil {
			return false, err
		}
		return AbstractEquals(heap, in, toPrimitiveSym, a, prim)
	}
	if a.IsObject() && (b.IsNumber() || b.IsString() || b.IsBigInt()) {
		return AbstractEquals(heap, in, toPrimitiveSym, b, a)
	}
	if a.IsBigInt() && b.IsNumber() || a.IsNumber() && b.IsBigInt() {
		return bigIntNumberEqual(a, b), nil
	}
	return false, nil
}

func bigIntNumberEqual(a, b value.Value) bool {
	var bi value.Value
	var n float64
	if a.IsBigInt() {
		bi, n = a, b.Num()
	} else {
		bi, n = b, a.Num()
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return false
	}
	asFloat, _ := new(big.Float).SetInt(strprim.BigIntValue(bi)).Float64()
	return asFloat == n
}
