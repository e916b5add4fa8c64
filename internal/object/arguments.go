package object

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
)

// ParameterBinding lets a mapped arguments object read/write a parameter
// binding by position, keeping `arguments[i]` and the named parameter
// aliased the way non-strict sloppy-mode functions require. internal/env
// supplies the concrete binding-cell implementation.
type ParameterBinding interface {
	Get() (value.Value, error)
	Set(value.Value) error
}

// ArgumentsState is the Ext payload for a KindArguments object: the
// indexed argument values plus, for a mapped (non-strict) arguments
// object, the parallel parameter-binding aliases. Mapped is nil for an
// unmapped (strict-mode) arguments object.
type ArgumentsState struct {
	Values []value.Value
	Mapped []ParameterBinding // Mapped[i] non-nil means index i aliases a parameter
}

func (a *ArgumentsState) ScanExt(addVal func(value.Value)) {
	for _, v := range a.Values {
		addVal(v)
	}
}

// NewArgumentsObject allocates an arguments object. mapped is nil for
// strict-mode/unmapped arguments; otherwise mapped[i] aliases the i'th
// parameter binding for as many entries as the function declared simple
// parameters.
func NewArgumentsObject(heap *gcheap.Heap, objectProto value.Value, args []value.Value, mapped []ParameterBinding) *Object {
	o := New(heap, objectProto)
	o.Kind = KindArguments
	state := &ArgumentsState{Values: append([]value.Value{}, args...), Mapped: mapped}
	o.Ext = state
	for i, v := range state.Values {
		o.DefineOwnProperty(value.IndexString(uint32(i)), DataDescriptor(v, true, true, true))
	}
	if mapped != nil {
		o.SetOps(&Ops{
			GetPrototypeOf:    OrdinaryGetPrototypeOf,
			SetPrototypeOf:    OrdinarySetPrototypeOf,
			IsExtensible:      OrdinaryIsExtensible,
			PreventExtensions: OrdinaryPreventExtensions,
			GetOwnProperty:    mappedArgumentsGetOwnProperty,
			DefineOwnProperty: mappedArgumentsDefineOwnProperty,
			HasProperty:       OrdinaryHasProperty,
			Get:               mappedArgumentsGet,
			Set:               mappedArgumentsSet,
			Delete:            OrdinaryDelete,
			OwnPropertyKeys:   OrdinaryOwnPropertyKeys,
		})
	}
	return o
}

func mappedIndex(state *ArgumentsState, key value.Value) (int, bool) {
	idx, ok := ArrayIndex(key)
	if !ok || int(idx) >= len(state.Mapped) || state.Mapped[idx] == nil {
		return 0, false
	}
	return int(idx), true
}

// mappedArgumentsGet reads through to the live parameter binding before
// consulting the stored descriptor, so `arguments[i]` observes later
// assignments to the named parameter (sloppy-mode arguments aliasing).
func mappedArgumentsGet(o *Object, key value.Value, receiver value.Value) (value.Value, error) {
	state := o.Ext.(*ArgumentsState)
	if i, ok := mappedIndex(state, key); ok {
		return state.Mapped[i].Get()
	}
	return OrdinaryGet(o, key, receiver)
}

// mappedArgumentsSet writes through to the live parameter binding as
// well as the stored own property.
func mappedArgumentsSet(o *Object, key value.Value, v value.Value, receiver value.Value) (bool, error) {
	state := o.Ext.(*ArgumentsState)
	ok, err := OrdinarySet(o, key, v, receiver)
	if err != nil || !ok {
		return ok, err
	}
	if i, mapped := mappedIndex(state, key); mapped {
		if err := state.Mapped[i].Set(v); err != nil {
			return false, err
		}
	}
	return true, nil
}

func mappedArgumentsGetOwnProperty(o *Object, key value.Value) (Descriptor, bool, error) {
	state := o.Ext.(*ArgumentsState)
	desc, ok, err := OrdinaryGetOwnProperty(o, key)
	if err != nil || !ok {
		return desc, ok, err
	}
	if i, mapped := mappedIndex(state, key); mapped {
		v, err := state.Mapped[i].Get()
		if err != nil {
			return Descriptor{}, false, err
		}
		desc.Value = v
	}
	return desc, true, nil
}

// mappedArgumentsDefineOwnProperty breaks the alias once a descriptor
// changes the property's shape away from a plain writable data property
// (deleting the mapping entry), following the ECMAScript MapArgumentsObject
// [[DefineOwnProperty]] rule: it unmaps on an accessor conversion or a
// writable-false transition; a configurable-false change alone keeps the
// alias, and a supplied value is written through to the parameter.
func mappedArgumentsDefineOwnProperty(o *Object, key value.Value, desc Descriptor) (bool, error) {
	state := o.Ext.(*ArgumentsState)
	ok, err := OrdinaryDefineOwnProperty(o, key, desc)
	if err != nil || !ok {
		return ok, err
	}
	if i, mapped := mappedIndex(state, key); mapped {
		if desc.IsAccessorDescriptor() || (desc.Present&HasWritable != 0 && !desc.Writable) {
			state.Mapped[i] = nil
		} else if desc.Present&HasValue != 0 {
			if err := state.Mapped[i].Set(desc.Value); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}
