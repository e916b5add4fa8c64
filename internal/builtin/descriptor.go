package builtin

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// MethodSpec describes one built-in method: a name, its declared
// .length, and the handler backing it.
type MethodSpec struct {
	Name   string
	Length int
	Fn     object.CallHandler
}

// DefineMethods installs each spec as a non-enumerable, writable,
// configurable data property on target — the standard attributes for
// built-in methods per ECMA-262's "Attributes of Function Properties":
// {writable: true, enumerable: false, configurable: true}. funcProto
// is the prototype installed on each method function object; pass
// value.Null before %Function.prototype% exists yet.
func DefineMethods(heap *gcheap.Heap, in *strprim.Interner, funcProto value.Value, target *object.Object, specs []MethodSpec) {
	for _, spec := range specs {
		fn := object.NewFunction(heap, funcProto, spec.Name, spec.Length, spec.Fn, nil)
		key := in.Intern(spec.Name)
		_, _ = target.DefineOwnProperty(key, object.DataDescriptor(fn.Value(), true, false, true))
	}
}

// DefineValue installs a plain data property (used for things like
// Symbol.iterator-keyed values or non-function own properties) with the
// writable/enumerable/configurable attributes the caller passes.
func DefineValue(target *object.Object, key, v value.Value, writable, enumerable, configurable bool) {
	_, _ = target.DefineOwnProperty(key, object.DataDescriptor(v, writable, enumerable, configurable))
}

// InstallOn is a convenience wrapper taking a realm directly, since
// every builtin installer call site already has a *context.Realm in
// hand rather than a bare interner.
func InstallOn(heap *gcheap.Heap, r *context.Realm, funcProto value.Value, target *object.Object, specs []MethodSpec) {
	DefineMethods(heap, r.Interner, funcProto, target, specs)
}
