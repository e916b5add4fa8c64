package runtime

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ratjs/internal/builtin"
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/promise"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// installGlobals wires the global bindings internal/builtin.InstallIntrinsics
// deliberately leaves to this package:
// globalThis, console, and constructor functions for every intrinsic
// prototype builtin installs. Each is declared the way a top-level
// function declaration would be (CreateGlobalFunctionBinding)
// rather than reaching into the global object's property table
// directly, so the bindings participate in the same has-restricted-
// property / can-declare-global checks a script's own top-level
// declarations go through.
func (rt *Runtime) installGlobals(realm *context.Realm) error {
	g := realm.GlobalEnv

	if err := g.CreateGlobalFunctionBinding("globalThis", realm.GlobalObject.Value(), false); err != nil {
		return err
	}

	funcProto := protoOrNull(realm, promise.FunctionProtoKey)
	objectProto := protoOrNull(realm, builtin.ObjectProtoKey)

	if err := rt.installConsole(realm, funcProto, objectProto); err != nil {
		return err
	}
	if err := rt.installConstructors(realm, funcProto, objectProto); err != nil {
		return err
	}
	return nil
}

func protoOrNull(realm *context.Realm, key string) value.Value {
	if v, ok := realm.Intrinsic(key); ok {
		return v
	}
	return value.Null
}

// installConsole wires a console object with log/info/warn/error
// methods, the one piece of host-visible I/O every embedding host
// expects out of the box, wired through the engine's WithOutput
// writer.
func (rt *Runtime) installConsole(realm *context.Realm, funcProto, objectProto value.Value) error {
	console := object.New(rt.Heap, objectProto)
	logFn := func(thisArg value.Value, args []value.Value) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			s, err := rt.ToString(realm, a)
			if err != nil {
				return value.Undefined, err
			}
			parts[i] = strprim.ToGoString(s)
		}
		fmt.Fprintln(rt.Output(), strings.Join(parts, " "))
		return value.Undefined, nil
	}
	builtin.InstallOn(rt.Heap, realm, funcProto, console, []builtin.MethodSpec{
		{Name: "log", Length: 0, Fn: logFn},
		{Name: "info", Length: 0, Fn: logFn},
		{Name: "warn", Length: 0, Fn: logFn},
		{Name: "error", Length: 0, Fn: logFn},
	})
	return realm.GlobalEnv.CreateGlobalFunctionBinding("console", console.Value(), false)
}

// installConstructors wires a constructor function for each intrinsic
// prototype (Object, Array, Map, Set, WeakMap, WeakSet, Promise) plus
// the JSON namespace object, bound as global function declarations.
// These are intentionally minimal — enough to construct and exercise
// each kind's own operations (internal/builtin, internal/promise) from
// an embedding host or a test — not a reimplementation of every static
// method ECMA-262 specifies on each constructor, which belongs to the
// out-of-scope "built-in library surface".
func (rt *Runtime) installConstructors(realm *context.Realm, funcProto, objectProto value.Value) error {
	heap := rt.Heap

	objectCtor := object.NewFunction(heap, funcProto, "Object", 1,
		func(thisArg value.Value, args []value.Value) (value.Value, error) {
			return rt.callObjectCtor(realm, args)
		},
		func(args []value.Value, newTarget *object.Object) (value.Value, error) {
			v, err := rt.callObjectCtor(realm, args)
			return v, err
		})
	if err := realm.GlobalEnv.CreateGlobalFunctionBinding("Object", objectCtor.Value(), false); err != nil {
		return err
	}

	arrayProto := protoOrNull(realm, builtin.ArrayProtoKey)
	arrayCtor := object.NewFunction(heap, funcProto, "Array", 1,
		func(thisArg value.Value, args []value.Value) (value.Value, error) {
			return newArrayLike(heap, realm.Interner, arrayProto, args).Value(), nil
		},
		func(args []value.Value, newTarget *object.Object) (value.Value, error) {
			return newArrayLike(heap, realm.Interner, arrayProto, args).Value(), nil
		})
	if err := realm.GlobalEnv.CreateGlobalFunctionBinding("Array", arrayCtor.Value(), false); err != nil {
		return err
	}

	if err := rt.installCollectionCtor(realm, funcProto, "Map", builtin.MapProtoKey, false); err != nil {
		return err
	}
	if err := rt.installCollectionCtor(realm, funcProto, "Set", builtin.SetProtoKey, false); err != nil {
		return err
	}
	if err := rt.installCollectionCtor(realm, funcProto, "WeakMap", builtin.WeakMapProtoKey, true); err != nil {
		return err
	}
	if err := rt.installCollectionCtor(realm, funcProto, "WeakSet", builtin.WeakSetProtoKey, true); err != nil {
		return err
	}

	if err := rt.installPromiseCtor(realm, funcProto); err != nil {
		return err
	}

	jsonObj := protoOrNull(realm, builtin.JSONObjectKey)
	if err := realm.GlobalEnv.CreateGlobalFunctionBinding("JSON", jsonObj, false); err != nil {
		return err
	}
	return nil
}

func (rt *Runtime) callObjectCtor(realm *context.Realm, args []value.Value) (value.Value, error) {
	objectProto := protoOrNull(realm, builtin.ObjectProtoKey)
	if len(args) == 0 || args[0].IsNullish() {
		return object.New(rt.Heap, objectProto).Value(), nil
	}
	o, err := rt.ToObject(realm, args[0], objectProto)
	if err != nil {
		return value.Undefined, err
	}
	return o.Value(), nil
}

// newArrayLike builds a plain ordinary object carrying numeric-indexed
// data properties plus a length, the same array-exotic-object stand-in
// internal/builtin's own ObjectGroupBy uses (that package's
// object_static.go:newArrayLike) — a real length-invariant-enforcing
// Array kind belongs to internal/object, which doesn't define one yet.
func newArrayLike(heap *gcheap.Heap, in *strprim.Interner, proto value.Value, items []value.Value) *object.Object {
	o := object.New(heap, proto)
	for i, v := range items {
		_, _ = o.DefineOwnProperty(value.IndexString(uint32(i)), object.DataDescriptor(v, true, true, true))
	}
	_, _ = o.DefineOwnProperty(in.Intern("length"), object.DataDescriptor(value.Number(float64(len(items))), true, false, false))
	return o
}

func (rt *Runtime) installCollectionCtor(realm *context.Realm, funcProto value.Value, name, protoKey string, weak bool) error {
	proto := protoOrNull(realm, protoKey)
	ctor := object.NewFunction(rt.Heap, funcProto, name, 0, nil,
		func(args []value.Value, newTarget *object.Object) (value.Value, error) {
			var o *object.Object
			isSet := strings.HasSuffix(name, "Set")
			if isSet {
				o = builtin.NewSet(rt.Heap, proto, weak)
			} else {
				o = builtin.NewMap(rt.Heap, proto, weak)
			}
			if len(args) > 0 && args[0].IsObject() {
				keys, err := object.FromValue(args[0]).OwnPropertyKeys()
				if err != nil {
					return value.Undefined, err
				}
				src := object.FromValue(args[0])
				for _, k := range keys {
					item, err := src.Get(k, args[0])
					if err != nil {
						return value.Undefined, err
					}
					if isSet {
						if err := builtin.SetAdd(o, item); err != nil {
							return value.Undefined, err
						}
						continue
					}
					if !item.IsObject() {
						continue
					}
					entry := object.FromValue(item)
					k0, err := entry.Get(value.IndexString(0), item)
					if err != nil {
						return value.Undefined, err
					}
					v0, err := entry.Get(value.IndexString(1), item)
					if err != nil {
						return value.Undefined, err
					}
					if err := builtin.MapSet(o, k0, v0); err != nil {
						return value.Undefined, err
					}
				}
			}
			return o.Value(), nil
		})
	return realm.GlobalEnv.CreateGlobalFunctionBinding(name, ctor.Value(), false)
}

func (rt *Runtime) installPromiseCtor(realm *context.Realm, funcProto value.Value) error {
	heap := rt.Heap
	ctor := object.NewFunction(heap, funcProto, "Promise", 1, nil,
		func(args []value.Value, newTarget *object.Object) (value.Value, error) {
			if len(args) == 0 || !args[0].IsObject() || !object.FromValue(args[0]).IsCallable() {
				return value.Undefined, rt.ThrowTypeError("Promise resolver is not a function")
			}
			executor := object.FromValue(args[0])
			p := promise.NewPromise(heap, realm)
			resolve, reject := promise.CreateResolvingFunctions(heap, rt.Jobs, realm, p)
			if _, err := object.CallFunction(executor, value.Undefined, []value.Value{resolve.Value(), reject.Value()}); err != nil {
				promise.RejectPromise(heap, rt.Jobs, realm, p, errValueOrUndefined(heap, realm, err))
			}
			return p.Value(), nil
		})

	builtin.InstallOn(heap, realm, funcProto, ctor, []builtin.MethodSpec{
		{Name: "resolve", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			p := promise.NewPromise(heap, realm)
			resolve, _ := promise.CreateResolvingFunctions(heap, rt.Jobs, realm, p)
			var v value.Value
			if len(args) > 0 {
				v = args[0]
			}
			if _, err := object.CallFunction(resolve, value.Undefined, []value.Value{v}); err != nil {
				return value.Undefined, err
			}
			return p.Value(), nil
		}},
		{Name: "reject", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			p := promise.NewPromise(heap, realm)
			var v value.Value
			if len(args) > 0 {
				v = args[0]
			}
			promise.RejectPromise(heap, rt.Jobs, realm, p, v)
			return p.Value(), nil
		}},
	})

	return realm.GlobalEnv.CreateGlobalFunctionBinding("Promise", ctor.Value(), false)
}

func errValueOrUndefined(heap *gcheap.Heap, realm *context.Realm, err error) value.Value {
	if err == nil {
		return value.Undefined
	}
	return strprim.FromUTF8(heap, err.Error())
}
