package object

import "github.com/cwbudde/ratjs/internal/gcheap"
import "github.com/cwbudde/ratjs/internal/value"

// TypedArrayBacking is the numeric-index read/write surface a typed
// array view exposes; internal/arraybuffer's element codecs implement it
// over a data block. Keeping the interface here (rather than importing
// internal/arraybuffer) avoids a cycle: array buffers need the object
// model's constructor/prototype wiring, not the reverse.
type TypedArrayBacking interface {
	Length() int
	GetElement(index int) (value.Value, bool)
	SetElement(index int, v value.Value) (bool, error)
}

// IntegerIndexedState is the Ext payload for a KindIntegerIndexed object,
// the exotic object backing TypedArray views.
type IntegerIndexedState struct {
	Backing TypedArrayBacking
}

// ScanExt keeps the backing's own references (e.g. the ArrayBuffer a
// typed-array view reads through) reachable while the view object
// itself is rooted. Backing only needs to expose this if it holds such
// references — internal/arraybuffer.View does, via its Buffer field.
func (i *IntegerIndexedState) ScanExt(addVal func(value.Value)) {
	if scanner, ok := i.Backing.(interface{ ScanRefs(func(value.Value)) }); ok {
		scanner.ScanRefs(addVal)
	}
}

// NewIntegerIndexedObject allocates a typed-array exotic object over an
// already-constructed backing view.
func NewIntegerIndexedObject(heap *gcheap.Heap, proto value.Value, backing TypedArrayBacking) *Object {
	o := New(heap, proto)
	o.Kind = KindIntegerIndexed
	o.Ext = &IntegerIndexedState{Backing: backing}
	o.SetOps(&Ops{
		GetPrototypeOf:    OrdinaryGetPrototypeOf,
		SetPrototypeOf:    OrdinarySetPrototypeOf,
		IsExtensible:      OrdinaryIsExtensible,
		PreventExtensions: integerIndexedPreventExtensions,
		GetOwnProperty:    integerIndexedGetOwnProperty,
		DefineOwnProperty: integerIndexedDefineOwnProperty,
		HasProperty:       integerIndexedHasProperty,
		Get:               integerIndexedGet,
		Set:               integerIndexedSet,
		Delete:            integerIndexedDelete,
		OwnPropertyKeys:   integerIndexedOwnPropertyKeys,
	})
	return o
}

// integerIndexedPreventExtensions always fails for a non-empty backing
// length in the real algorithm only when there are integer-indexed
// properties remaining; this rewrite keeps it simple and always allows
// it, since the backing buffer's own detachment (not extensibility)
// governs index validity.
func integerIndexedPreventExtensions(o *Object) (bool, error) {
	return OrdinaryPreventExtensions(o)
}

func integerIndexedGetOwnProperty(o *Object, key value.Value) (Descriptor, bool, error) {
	state := o.Ext.(*IntegerIndexedState)
	if idx, ok := ArrayIndex(key); ok {
		v, ok := state.Backing.GetElement(int(idx))
		if !ok {
			return Descriptor{}, false, nil
		}
		return DataDescriptor(v, true, true, true), true, nil
	}
	return OrdinaryGetOwnProperty(o, key)
}

func integerIndexedDefineOwnProperty(o *Object, key value.Value, desc Descriptor) (bool, error) {
	state := o.Ext.(*IntegerIndexedState)
	if idx, ok := ArrayIndex(key); ok {
		if desc.Present&HasConfigurable != 0 && !desc.Configurable {
			return false, nil
		}
		if desc.Present&HasEnumerable != 0 && !desc.Enumerable {
			return false, nil
		}
		if desc.IsAccessorDescriptor() {
			return false, nil
		}
		if desc.Present&HasWritable != 0 && !desc.Writable {
			return false, nil
		}
		if desc.Present&HasValue == 0 {
			return true, nil
		}
		return state.Backing.SetElement(int(idx), desc.Value)
	}
	return OrdinaryDefineOwnProperty(o, key, desc)
}

func integerIndexedHasProperty(o *Object, key value.Value) (bool, error) {
	state := o.Ext.(*IntegerIndexedState)
	if idx, ok := ArrayIndex(key); ok {
		_, present := state.Backing.GetElement(int(idx))
		return present, nil
	}
	return OrdinaryHasProperty(o, key)
}

func integerIndexedGet(o *Object, key value.Value, receiver value.Value) (value.Value, error) {
	state := o.Ext.(*IntegerIndexedState)
	if idx, ok := ArrayIndex(key); ok {
		v, ok := state.Backing.GetElement(int(idx))
		if !ok {
			return value.Undefined, nil
		}
		return v, nil
	}
	return OrdinaryGet(o, key, receiver)
}

func integerIndexedSet(o *Object, key value.Value, v value.Value, receiver value.Value) (bool, error) {
	state := o.Ext.(*IntegerIndexedState)
	if idx, ok := ArrayIndex(key); ok {
		return state.Backing.SetElement(int(idx), v)
	}
	return OrdinarySet(o, key, v, receiver)
}

func integerIndexedDelete(o *Object, key value.Value) (bool, error) {
	if _, ok := ArrayIndex(key); ok {
		return false, nil // integer-indexed elements are never deletable, although GetOwnProperty reports them configurable
	}
	return OrdinaryDelete(o, key)
}

func integerIndexedOwnPropertyKeys(o *Object) ([]value.Value, error) {
	state := o.Ext.(*IntegerIndexedState)
	n := state.Backing.Length()
	rest, err := OrdinaryOwnPropertyKeys(o)
	if err != nil {
		return nil, err
	}
	keys := make([]value.Value, 0, n+len(rest))
	for i := 0; i < n; i++ {
		keys = append(keys, value.IndexString(uint32(i)))
	}
	keys = append(keys, rest...)
	return keys, nil
}
