// Package builtin wires the object-model's ten internal operations, the
// promise/job-queue machinery, and the data-block codecs into standard
// objects: JSON, Object statics, and the Map/Set/WeakMap/WeakSet
// collection family. realm.go is the one place that installs them all
// onto a fresh Realm.
package builtin

import (
	"math"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// mapKey canonicalizes a value.Value into a Go-comparable key agreeing
// with object.SameValueZero, the equality algorithm Map/Set/WeakMap/
// WeakSet use for key lookup. value.Value itself cannot
// serve as that key directly: Go's native == on a struct holding a
// float64 NaN field never matches another NaN-holding struct, even with
// an identical bit pattern, while SameValueZero requires every NaN to
// collide with every other NaN. isNaN side-steps this by never storing
// an actual NaN float in the comparable struct; num is separately
// normalized so -0 and +0 produce the same key, matching SameValueZero's
// treatment of zero (the one place it differs from SameValue).
type mapKey struct {
	kind  value.Kind
	b     bool
	num   float64
	isNaN bool
	str   string
	thing *gcheap.Thing
}

// canonicalKey builds v's map key. String content (KindString vs the
// inline KindIndexString form) is decoded to a Go string so keys that
// denote the same characters collide regardless of which representation
// produced them, mirroring object.contentEqual's stringContentEqual.
func canonicalKey(v value.Value) mapKey {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return mapKey{kind: v.Kind()}
	case value.KindBoolean:
		return mapKey{kind: value.KindBoolean, b: v.Bool()}
	case value.KindNumber:
		n := v.Num()
		if math.IsNaN(n) {
			return mapKey{kind: value.KindNumber, isNaN: true}
		}
		if n == 0 {
			n = 0 // normalize -0 to +0
		}
		return mapKey{kind: value.KindNumber, num: n}
	case value.KindIndexString:
		return mapKey{kind: value.KindString, str: indexStringDigits(v.IndexStringValue())}
	case value.KindString:
		return mapKey{kind: value.KindString, str: strprim.ToGoString(v)}
	case value.KindBigInt:
		return mapKey{kind: value.KindBigInt, str: strprim.BigIntValue(v).String()}
	default: // KindSymbol, KindObject, KindGeneric: identity via the heap pointer
		return mapKey{kind: v.Kind(), thing: v.Ref().Thing}
	}
}

func indexStringDigits(index uint32) string {
	if index == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for index > 0 {
		i--
		buf[i] = byte('0' + index%10)
		index /= 10
	}
	return string(buf[i:])
}

var _ = object.SameValueZero // canonicalKey must keep agreeing with this
