package builtin

import (
	"github.com/cwbudde/ratjs/internal/coll"
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/value"
)

// MapState is the Ext payload backing Map and WeakMap objects. A plain
// coll.OrderedMap keyed by mapKey gives both Map's
// insertion-ordered iteration and O(1) lookup; WeakMap reuses the exact same
// storage and only differs in two ways: ScanExt skips marking entries
// so a key held only by this map doesn't stay reachable on that account
// alone, and MapSet registers a gcheap weak ref that deletes the entry
// once the key is actually collected.
type MapState struct {
	heap    *gcheap.Heap
	entries *coll.OrderedMap[mapKey, mapEntry]
	weak    bool
}

type mapEntry struct {
	key value.Value
	val value.Value
}

// SetState is the Ext payload backing Set and WeakSet, mirroring
// MapState but with no associated value.
type SetState struct {
	heap    *gcheap.Heap
	entries *coll.OrderedMap[mapKey, value.Value]
	weak    bool
}

// ScanExt keeps every live entry's key and value reachable, unless this
// is a weak collection: WeakMap/WeakSet must not keep their keys (or, in
// WeakMap's case, the values reachable only through such a key) alive on
// their own.
func (m *MapState) ScanExt(addVal func(value.Value)) {
	if m.weak {
		return
	}
	m.entries.Each(func(_ mapKey, e mapEntry) bool {
		addVal(e.key)
		addVal(e.val)
		return true
	})
}

func (s *SetState) ScanExt(addVal func(value.Value)) {
	if s.weak {
		return
	}
	s.entries.Each(func(_ mapKey, v value.Value) bool {
		addVal(v)
		return true
	})
}

// NewMap allocates an empty Map (or, with weak=true, WeakMap) object.
func NewMap(heap *gcheap.Heap, proto value.Value, weak bool) *object.Object {
	o := object.New(heap, proto)
	o.Ext = &MapState{heap: heap, entries: coll.NewOrderedMap[mapKey, mapEntry](0), weak: weak}
	return o
}

// NewSet allocates an empty Set (or, with weak=true, WeakSet) object.
func NewSet(heap *gcheap.Heap, proto value.Value, weak bool) *object.Object {
	o := object.New(heap, proto)
	o.Ext = &SetState{heap: heap, entries: coll.NewOrderedMap[mapKey, value.Value](0), weak: weak}
	return o
}

func mapStateOf(o *object.Object) (*MapState, error) {
	m, ok := o.Ext.(*MapState)
	if !ok {
		return nil, rjerrors.TypeError("not a Map")
	}
	return m, nil
}

func setStateOf(o *object.Object) (*SetState, error) {
	s, ok := o.Ext.(*SetState)
	if !ok {
		return nil, rjerrors.TypeError("not a Set")
	}
	return s, nil
}

func requireObjectKey(weak bool, key value.Value) error {
	if weak && !key.IsObject() {
		return rjerrors.TypeError("weak collection keys must be objects")
	}
	return nil
}

// MapGet implements Map.prototype.get / WeakMap.prototype.get.
func MapGet(o *object.Object, key value.Value) (value.Value, error) {
	m, err := mapStateOf(o)
	if err != nil {
		return value.Undefined, err
	}
	e, ok := m.entries.Get(canonicalKey(key))
	if !ok {
		return value.Undefined, nil
	}
	return e.val, nil
}

// MapSet implements Map.prototype.set / WeakMap.prototype.set.
func MapSet(o *object.Object, key, val value.Value) error {
	m, err := mapStateOf(o)
	if err != nil {
		return err
	}
	if err := requireObjectKey(m.weak, key); err != nil {
		return err
	}
	ck := canonicalKey(key)
	m.entries.Set(ck, mapEntry{key: key, val: val})
	if m.weak {
		m.heap.NewWeakRef(key.Ref().Thing, func() { m.entries.Delete(ck) })
	}
	return nil
}

// MapHas implements Map.prototype.has / WeakMap.prototype.has.
func MapHas(o *object.Object, key value.Value) (bool, error) {
	m, err := mapStateOf(o)
	if err != nil {
		return false, err
	}
	return m.entries.Has(canonicalKey(key)), nil
}

// MapDelete implements Map.prototype.delete / WeakMap.prototype.delete.
func MapDelete(o *object.Object, key value.Value) (bool, error) {
	m, err := mapStateOf(o)
	if err != nil {
		return false, err
	}
	return m.entries.Delete(canonicalKey(key)), nil
}

// MapSize implements Map.prototype.size's getter (WeakMap has no size:
// its membership is intentionally unobservable in aggregate).
func MapSize(o *object.Object) (int, error) {
	m, err := mapStateOf(o)
	if err != nil {
		return 0, err
	}
	return m.entries.Len(), nil
}

// MapForEach implements Map.prototype.forEach, invoking fn(value, key)
// for every live entry in insertion order. It stops early and returns
// the callback's error if fn returns one.
func MapForEach(o *object.Object, fn func(val, key value.Value) error) error {
	m, err := mapStateOf(o)
	if err != nil {
		return err
	}
	var cbErr error
	m.entries.Each(func(_ mapKey, e mapEntry) bool {
		if cbErr = fn(e.val, e.key); cbErr != nil {
			return false
		}
		return true
	})
	return cbErr
}

// SetAdd implements Set.prototype.add / WeakSet.prototype.add.
func SetAdd(o *object.Object, v value.Value) error {
	s, err := setStateOf(o)
	if err != nil {
		return err
	}
	if err := requireObjectKey(s.weak, v); err != nil {
		return err
	}
	ck := canonicalKey(v)
	s.entries.Set(ck, v)
	if s.weak {
		s.heap.NewWeakRef(v.Ref().Thing, func() { s.entries.Delete(ck) })
	}
	return nil
}

// SetHas implements Set.prototype.has / WeakSet.prototype.has.
func SetHas(o *object.Object, v value.Value) (bool, error) {
	s, err := setStateOf(o)
	if err != nil {
		return false, err
	}
	return s.entries.Has(canonicalKey(v)), nil
}

// SetDelete implements Set.prototype.delete / WeakSet.prototype.delete.
func SetDelete(o *object.Object, v value.Value) (bool, error) {
	s, err := setStateOf(o)
	if err != nil {
		return false, err
	}
	return s.entries.Delete(canonicalKey(v)), nil
}

// SetSize implements Set.prototype.size's getter.
func SetSize(o *object.Object) (int, error) {
	s, err := setStateOf(o)
	if err != nil {
		return 0, err
	}
	return s.entries.Len(), nil
}

// SetForEach implements Set.prototype.forEach.
func SetForEach(o *object.Object, fn func(v value.Value) error) error {
	s, err := setStateOf(o)
	if err != nil {
		return err
	}
	var cbErr error
	s.entries.Each(func(_ mapKey, v value.Value) bool {
		if cbErr = fn(v); cbErr != nil {
			return false
		}
		return true
	})
	return cbErr
}

// InstallMapPrototype wires Map.prototype's data methods
// (get/set/has/delete/forEach). No clear method and no size accessor
// are installed.
func InstallMapPrototype(heap *gcheap.Heap, r *context.Realm, funcProto value.Value, proto *object.Object) {
	InstallOn(heap, r, funcProto, proto, []MethodSpec{
		{Name: "get", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			return MapGet(object.FromValue(thisArg), argOrUndefined(args, 0))
		}},
		{Name: "set", Length: 2, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			if err := MapSet(object.FromValue(thisArg), argOrUndefined(args, 0), argOrUndefined(args, 1)); err != nil {
				return value.Undefined, err
			}
			return thisArg, nil
		}},
		{Name: "has", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			ok, err := MapHas(object.FromValue(thisArg), argOrUndefined(args, 0))
			return value.Bool(ok), err
		}},
		{Name: "delete", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			ok, err := MapDelete(object.FromValue(thisArg), argOrUndefined(args, 0))
			return value.Bool(ok), err
		}},
		{Name: "forEach", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			cb := object.FromValue(argOrUndefined(args, 0))
			thisForCb := argOrUndefined(args, 1)
			err := MapForEach(object.FromValue(thisArg), func(val, key value.Value) error {
				_, err := object.CallFunction(cb, thisForCb, []value.Value{val, key, thisArg})
				return err
			})
			return value.Undefined, err
		}},
	})
}

// InstallSetPrototype mirrors InstallMapPrototype for Set/WeakSet.
func InstallSetPrototype(heap *gcheap.Heap, r *context.Realm, funcProto value.Value, proto *object.Object) {
	InstallOn(heap, r, funcProto, proto, []MethodSpec{
		{Name: "add", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			if err := SetAdd(object.FromValue(thisArg), argOrUndefined(args, 0)); err != nil {
				return value.Undefined, err
			}
			return thisArg, nil
		}},
		{Name: "has", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			ok, err := SetHas(object.FromValue(thisArg), argOrUndefined(args, 0))
			return value.Bool(ok), err
		}},
		{Name: "delete", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			ok, err := SetDelete(object.FromValue(thisArg), argOrUndefined(args, 0))
			return value.Bool(ok), err
		}},
		{Name: "forEach", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			cb := object.FromValue(argOrUndefined(args, 0))
			thisForCb := argOrUndefined(args, 1)
			err := SetForEach(object.FromValue(thisArg), func(v value.Value) error {
				_, err := object.CallFunction(cb, thisForCb, []value.Value{v, v, thisArg})
				return err
			})
			return value.Undefined, err
		}},
	})
}

func argOrUndefined(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Undefined
}
