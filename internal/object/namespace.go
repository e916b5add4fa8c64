package object

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// ExportResolver resolves a single exported binding name to its live
// value, following re-export ("star export") chains the way a module
// environment record does. internal/script/internal/env supply the
// concrete implementation once module linking exists; this package only
// needs the read-through shape.
type ExportResolver func(name string) (value.Value, error)

// NamespaceState is the Ext payload for a KindModuleNamespace object:
// null prototype, non-extensible, exposing exactly the exported names as
// non-configurable, writable data properties. Export names are interned
// once at construction so [[OwnPropertyKeys]]/[[GetOwnProperty]] can
// compare keys by interned-string identity instead of decoding UTF-16 on
// every lookup.
type NamespaceState struct {
	names          []string
	keys           []value.Value // keys[i] is the interned key for names[i]
	Resolve        ExportResolver
	ToStringTagKey value.Value // @@toStringTag, interned once at construction
	ToStringTagVal value.Value // the string "Module"
}

func (n *NamespaceState) ScanExt(addVal func(value.Value)) {
	addVal(n.ToStringTagKey)
	addVal(n.ToStringTagVal)
	for _, k := range n.keys {
		addVal(k)
	}
}

func (n *NamespaceState) indexOf(key value.Value) int {
	for i, k := range n.keys {
		if value.Equal(k, key) {
			return i
		}
	}
	return -1
}

// NewModuleNamespace allocates a module namespace object.
// toStringTagSymbol is the realm's well-known @@toStringTag symbol,
// supplied by the caller since this package does not own well-known
// symbol allocation.
func NewModuleNamespace(heap *gcheap.Heap, in *strprim.Interner, exportNames []string, resolve ExportResolver, toStringTagSymbol value.Value) *Object {
	o := New(heap, value.Null)
	o.Kind = KindModuleNamespace
	o.extensible = false
	keys := make([]value.Value, len(exportNames))
	for i, name := range exportNames {
		keys[i] = in.Intern(name)
	}
	o.Ext = &NamespaceState{
		names:          exportNames,
		keys:           keys,
		Resolve:        resolve,
		ToStringTagKey: toStringTagSymbol,
		ToStringTagVal: strprim.FromUTF8(heap, "Module"),
	}
	o.SetOps(&Ops{
		GetPrototypeOf:    namespaceGetPrototypeOf,
		SetPrototypeOf:    namespaceSetPrototypeOf,
		IsExtensible:      OrdinaryIsExtensible,
		PreventExtensions: namespacePreventExtensions,
		GetOwnProperty:    namespaceGetOwnProperty,
		DefineOwnProperty: namespaceDefineOwnProperty,
		HasProperty:       namespaceHasProperty,
		Get:               namespaceGet,
		Set:               namespaceSet,
		Delete:            namespaceDelete,
		OwnPropertyKeys:   namespaceOwnPropertyKeys,
	})
	return o
}

func namespaceGetPrototypeOf(o *Object) (value.Value, error) { return value.Null, nil }

func namespaceSetPrototypeOf(o *Object, proto value.Value) (bool, error) {
	return proto.IsNull(), nil
}

func namespacePreventExtensions(o *Object) (bool, error) { return true, nil }

func namespaceGetOwnProperty(o *Object, key value.Value) (Descriptor, bool, error) {
	n := o.Ext.(*NamespaceState)
	if value.Equal(key, n.ToStringTagKey) {
		return DataDescriptor(n.ToStringTagVal, false, false, false), true, nil
	}
	i := n.indexOf(key)
	if i < 0 {
		return Descriptor{}, false, nil
	}
	v, err := n.Resolve(n.names[i])
	if err != nil {
		return Descriptor{}, false, err
	}
	return DataDescriptor(v, true, true, false), true, nil
}

func namespaceDefineOwnProperty(o *Object, key value.Value, desc Descriptor) (bool, error) {
	current, exists, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	// [[DefineOwnProperty]] succeeds only if desc matches current state
	// exactly.
	return descriptorMatches(current, desc), nil
}

func descriptorMatches(current, desc Descriptor) bool {
	if desc.Present&HasValue != 0 && !SameValue(desc.Value, current.Value) {
		return false
	}
	if desc.Present&HasWritable != 0 && desc.Writable != current.Writable {
		return false
	}
	if desc.Present&HasEnumerable != 0 && desc.Enumerable != current.Enumerable {
		return false
	}
	if desc.Present&HasConfigurable != 0 && desc.Configurable != current.Configurable {
		return false
	}
	if desc.Present&(HasGet|HasSet) != 0 {
		return false // namespace exports are always data properties
	}
	return true
}

func namespaceHasProperty(o *Object, key value.Value) (bool, error) {
	n := o.Ext.(*NamespaceState)
	if value.Equal(key, n.ToStringTagKey) {
		return true, nil
	}
	return n.indexOf(key) >= 0, nil
}

func namespaceGet(o *Object, key value.Value, receiver value.Value) (value.Value, error) {
	desc, ok, err := o.GetOwnProperty(key)
	if err != nil {
		return value.Undefined, err
	}
	if !ok {
		return value.Undefined, nil
	}
	return desc.Value, nil
}

// namespaceSet always fails: an ordinary [[Set]] on a receiver
// with no own writable property and non-extensible target would define a
// new own property, which a non-extensible namespace must reject; a
// write to an existing export is a write to a non-writable-from-the-
// outside live binding, which also fails per the module namespace
// exotic object's [[Set]] (always returns false, bindings are mutated
// only by the module's own code).
func namespaceSet(o *Object, key value.Value, v value.Value, receiver value.Value) (bool, error) {
	return false, nil
}

func namespaceDelete(o *Object, key value.Value) (bool, error) {
	_, ok, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil // deleting a name that was never exported succeeds
	}
	return false, nil // "delete m.a" returns false: every export is non-configurable
}

func namespaceOwnPropertyKeys(o *Object) ([]value.Value, error) {
	n := o.Ext.(*NamespaceState)
	keys := make([]value.Value, 0, len(n.keys)+1)
	keys = append(keys, n.keys...)
	keys = append(keys, n.ToStringTagKey)
	return keys, nil
}
