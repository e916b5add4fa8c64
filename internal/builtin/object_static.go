// object_static.go implements Object's static methods as thin
// compositions of the ten internal operations: none
// of assign/entries/values/fromEntries/groupBy touch the heap or the
// object kind tag directly beyond allocating their own result object,
// the way a script-level implementation of the same methods would.
package builtin

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// ObjectAssign implements Object.assign(target, ...sources): copies own
// enumerable properties from each source onto target, left to right,
// and returns target.
func ObjectAssign(target *object.Object, sources []*object.Object) error {
	for _, src := range sources {
		if src == nil {
			continue
		}
		keys, err := src.OwnPropertyKeys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			desc, ok, err := src.GetOwnProperty(key)
			if err != nil {
				return err
			}
			if !ok || desc.Present&object.HasEnumerable == 0 || !desc.Enumerable {
				continue
			}
			v, err := src.Get(key, src.Value())
			if err != nil {
				return err
			}
			if _, err := target.Set(key, v, target.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

func enumerableOwnKeys(o *object.Object) ([]value.Value, error) {
	keys, err := o.OwnPropertyKeys()
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, key := range keys {
		if key.IsSymbol() {
			continue
		}
		desc, ok, err := o.GetOwnProperty(key)
		if err != nil {
			return nil, err
		}
		if ok && desc.Present&object.HasEnumerable != 0 && desc.Enumerable {
			out = append(out, key)
		}
	}
	return out, nil
}

// ObjectEntries implements Object.entries: an ordered list of
// [key, value] pairs for o's own enumerable string-keyed properties.
func ObjectEntries(o *object.Object) ([][2]value.Value, error) {
	keys, err := enumerableOwnKeys(o)
	if err != nil {
		return nil, err
	}
	entries := make([][2]value.Value, 0, len(keys))
	for _, key := range keys {
		v, err := o.Get(key, o.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, [2]value.Value{key, v})
	}
	return entries, nil
}

// ObjectValues implements Object.values.
func ObjectValues(o *object.Object) ([]value.Value, error) {
	keys, err := enumerableOwnKeys(o)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(keys))
	for _, key := range keys {
		v, err := o.Get(key, o.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ObjectFromEntries implements Object.fromEntries: builds a fresh
// ordinary object from an in-memory slice of [key, value] pairs (the
// caller has already drained the iterable the real built-in accepts —
// iterator protocol lives at the runtime-driver layer, not here).
func ObjectFromEntries(heap *gcheap.Heap, proto value.Value, entries [][2]value.Value) *object.Object {
	o := object.New(heap, proto)
	for _, e := range entries {
		_, _ = o.DefineOwnProperty(e[0], object.DataDescriptor(e[1], true, true, true))
	}
	return o
}

// ObjectGroupBy implements Object.groupBy: groups
// items by a caller-supplied classifier rather than property access,
// matching the real built-in's callback-based grouping, and returns a
// null-prototype object mapping each group key to an array-like object
// holding that group's members in encounter order.
func ObjectGroupBy(heap *gcheap.Heap, in *strprim.Interner, arrayProto value.Value, items []value.Value, keyer func(v value.Value, i int) (value.Value, error)) (*object.Object, error) {
	groups := object.New(heap, value.Null)
	buckets := map[string][]value.Value{}
	var orderedKeys []value.Value
	seen := map[string]bool{}
	for i, v := range items {
		k, err := keyer(v, i)
		if err != nil {
			return nil, err
		}
		if !k.IsString() {
			return nil, rjerrors.TypeError("groupBy key must be a property key")
		}
		ks := keyString(k)
		if !seen[ks] {
			seen[ks] = true
			orderedKeys = append(orderedKeys, k)
		}
		buckets[ks] = append(buckets[ks], v)
	}
	for _, k := range orderedKeys {
		bucket := buckets[keyString(k)]
		groupObj := newArrayLike(heap, in, arrayProto, bucket)
		_, _ = groups.DefineOwnProperty(k, object.DataDescriptor(groupObj.Value(), true, true, true))
	}
	return groups, nil
}

func keyString(k value.Value) string {
	if k.IsIndexString() {
		return indexStringDigits(k.IndexStringValue())
	}
	return strprim.ToGoString(k)
}

// newArrayLike builds a plain ordinary object carrying numeric-indexed
// data properties plus a length, standing in for a real Array exotic
// object: internal/builtin doesn't own the Array kind (that belongs to
// whichever future package installs the Array intrinsic), so groupBy's
// bucket values are exposed with the same own-property shape a caller
// iterating OwnPropertyKeys would see from a real array.
func newArrayLike(heap *gcheap.Heap, in *strprim.Interner, proto value.Value, items []value.Value) *object.Object {
	o := object.New(heap, proto)
	for i, v := range items {
		_, _ = o.DefineOwnProperty(value.IndexString(uint32(i)), object.DataDescriptor(v, true, true, true))
	}
	lengthKey := in.Intern("length")
	_, _ = o.DefineOwnProperty(lengthKey, object.DataDescriptor(value.Number(float64(len(items))), true, false, false))
	return o
}
