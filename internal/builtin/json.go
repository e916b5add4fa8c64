// json.go implements JSON.stringify/JSON.parse's value-tree conversion
// on top of gjson/sjson rather
// than hand-rolling a JSON encoder/decoder: sjson.SetRaw assembles each
// object/array level (handling key escaping and separators itself) from
// already-serialized child fragments, and gjson.Parse/Valid do the
// reverse, walking a parsed document back into value.Value without this
// package ever needing its own tokenizer.
package builtin

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// Stringify implements JSON.stringify's value-tree walk (replacer/space
// formatting live at the runtime-driver layer, which calls this per
// node). ok is false when v serializes to nothing (undefined, a
// function, or a symbol — ECMA-262: "such values are omitted when they are
// object property values, and replaced with null in an array").
func Stringify(v value.Value) (raw string, ok bool, err error) {
	switch {
	case v.IsUndefined() || v.IsSymbol():
		return "", false, nil
	case v.IsNull():
		return "null", true, nil
	case v.IsBoolean():
		if v.Bool() {
			return "true", true, nil
		}
		return "false", true, nil
	case v.IsNumber():
		n := v.Num()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "null", true, nil
		}
		return strconv.FormatFloat(n, 'g', -1, 64), true, nil
	case v.IsString():
		doc, err := sjson.Set("", "v", stringContent(v))
		if err != nil {
			return "", false, err
		}
		return gjson.Get(doc, "v").Raw, true, nil
	case v.IsBigInt():
		return "", false, rjerrors.TypeError("cannot serialize a BigInt value")
	case v.IsObject():
		return stringifyObject(object.FromValue(v))
	default:
		return "", false, nil
	}
}

func stringContent(v value.Value) string {
	if v.IsIndexString() {
		return indexStringDigits(v.IndexStringValue())
	}
	return strprim.ToGoString(v)
}

func stringifyObject(o *object.Object) (string, bool, error) {
	if _, isFunc := o.Ext.(*object.FunctionState); isFunc {
		return "", false, nil
	}
	keys, err := enumerableOwnKeys(o)
	if err != nil {
		return "", false, err
	}
	doc := "{}"
	for _, key := range keys {
		v, err := o.Get(key, o.Value())
		if err != nil {
			return "", false, err
		}
		raw, ok, err := Stringify(v)
		if err != nil {
			return "", false, err
		}
		if !ok {
			continue
		}
		doc, err = sjson.SetRaw(doc, escapePathKey(keyString(key)), raw)
		if err != nil {
			return "", false, err
		}
	}
	return doc, true, nil
}

// escapePathKey escapes the two characters gjson/sjson paths treat
// specially (. and \) so a property name containing either is still
// addressed as one literal path segment rather than being split.
func escapePathKey(k string) string {
	k = strings.ReplaceAll(k, `\`, `\\`)
	k = strings.ReplaceAll(k, `.`, `\.`)
	return k
}

// ParseJSON implements JSON.parse's text-to-value-tree conversion
// (reviver application is the runtime-driver's job, same division as
// Stringify).
func ParseJSON(heap *gcheap.Heap, in *strprim.Interner, objProto, arrayProto value.Value, text string) (value.Value, error) {
	if !gjson.Valid(text) {
		return value.Undefined, rjerrors.SyntaxError("invalid JSON text")
	}
	return fromGJSON(heap, in, objProto, arrayProto, gjson.Parse(text)), nil
}

// fromGJSON builds a value.Value tree from a parsed document. Object
// keys are interned, not just heap-allocated: the object model's
// property table keys on value.Value equality directly (every distinct
// content routed through Interner.Intern addresses the same heap Thing),
// so an un-interned key here would be unreachable by any later Get call
// using the same property name.
func fromGJSON(heap *gcheap.Heap, in *strprim.Interner, objProto, arrayProto value.Value, r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null
	case gjson.False:
		return value.False
	case gjson.True:
		return value.True
	case gjson.Number:
		return value.Number(r.Num)
	case gjson.String:
		return strprim.FromUTF8(heap, r.Str)
	default: // gjson.JSON: object or array
		if r.IsArray() {
			var items []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, fromGJSON(heap, in, objProto, arrayProto, v))
				return true
			})
			return newArrayLike(heap, in, arrayProto, items).Value()
		}
		o := object.New(heap, objProto)
		r.ForEach(func(k, v gjson.Result) bool {
			key := in.Intern(k.String())
			val := fromGJSON(heap, in, objProto, arrayProto, v)
			_, _ = o.DefineOwnProperty(key, object.DataDescriptor(val, true, true, true))
			return true
		})
		return o.Value()
	}
}
