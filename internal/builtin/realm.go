// realm.go installs this package's standard objects onto a fresh realm:
// one place that wires every built-in onto the host object, organized
// as per-kind install functions rather than a
// single monolithic function body.
package builtin

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/promise"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// Well-known intrinsic keys this package installs, beyond the ones
// internal/promise already reads (promise.PromiseProtoKey,
// promise.FunctionProtoKey).
const (
	ObjectProtoKey  = "%Object.prototype%"
	MapProtoKey     = "%Map.prototype%"
	SetProtoKey     = "%Set.prototype%"
	WeakMapProtoKey = "%WeakMap.prototype%"
	WeakSetProtoKey = "%WeakSet.prototype%"
	ArrayProtoKey   = "%Array.prototype%"
	JSONObjectKey   = "%JSON%"
)

// InstallIntrinsics populates realm.Intrinsics with the prototypes and
// namespace objects this package owns, and installs their methods. It
// does not install constructors (Map, Set, Object, ...) as global
// bindings — that is internal/runtime's job, since it
// owns the global environment wiring; this function only guarantees
// that by the time it returns, every key internal/promise and
// internal/builtin read off realm.Intrinsics resolves to a real object.
// queue is the job queue promise reactions enqueue onto; the runtime
// package owns its lifetime and passes the same one to every realm it
// drives.
func InstallIntrinsics(heap *gcheap.Heap, r *context.Realm, queue *promise.Queue) {
	objectProto := object.New(heap, value.Null)
	r.SetIntrinsic(ObjectProtoKey, objectProto.Value())

	functionProto := object.NewFunction(heap, objectProto.Value(), "", 0,
		func(value.Value, []value.Value) (value.Value, error) { return value.Undefined, nil }, nil)
	r.SetIntrinsic(promise.FunctionProtoKey, functionProto.Value())

	arrayProto := object.New(heap, objectProto.Value())
	r.SetIntrinsic(ArrayProtoKey, arrayProto.Value())

	promiseProto := object.New(heap, objectProto.Value())
	r.SetIntrinsic(promise.PromiseProtoKey, promiseProto.Value())
	installPromisePrototype(heap, r, queue, functionProto.Value(), promiseProto)

	mapProto := object.New(heap, objectProto.Value())
	r.SetIntrinsic(MapProtoKey, mapProto.Value())
	InstallMapPrototype(heap, r, functionProto.Value(), mapProto)

	setProto := object.New(heap, objectProto.Value())
	r.SetIntrinsic(SetProtoKey, setProto.Value())
	InstallSetPrototype(heap, r, functionProto.Value(), setProto)

	weakMapProto := object.New(heap, objectProto.Value())
	r.SetIntrinsic(WeakMapProtoKey, weakMapProto.Value())
	InstallMapPrototype(heap, r, functionProto.Value(), weakMapProto)

	weakSetProto := object.New(heap, objectProto.Value())
	r.SetIntrinsic(WeakSetProtoKey, weakSetProto.Value())
	InstallSetPrototype(heap, r, functionProto.Value(), weakSetProto)

	jsonObj := object.New(heap, objectProto.Value())
	installJSONObject(heap, r, functionProto.Value(), objectProto.Value(), arrayProto.Value(), jsonObj)
	r.SetIntrinsic(JSONObjectKey, jsonObj.Value())
}

// callableOrNil recovers the callable object behind v, or nil if v
// isn't one — Promise.prototype.then's onFulfilled/onRejected are
// optional and commonly passed as undefined.
func callableOrNil(v value.Value) *object.Object {
	if !v.IsObject() {
		return nil
	}
	return object.FromValue(v)
}

// installPromisePrototype wires then/catch onto %Promise.prototype%.
// The reaction-creation and settlement algorithms themselves live in
// internal/promise; this only exposes them as callable methods.
func installPromisePrototype(heap *gcheap.Heap, r *context.Realm, queue *promise.Queue, funcProto value.Value, proto *object.Object) {
	InstallOn(heap, r, funcProto, proto, []MethodSpec{
		{Name: "then", Length: 2, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			onFulfilled := callableOrNil(argOrUndefined(args, 0))
			onRejected := callableOrNil(argOrUndefined(args, 1))
			p := promise.Then(heap, queue, r, object.FromValue(thisArg), onFulfilled, onRejected)
			return p.Value(), nil
		}},
		{Name: "catch", Length: 1, Fn: func(thisArg value.Value, args []value.Value) (value.Value, error) {
			onRejected := callableOrNil(argOrUndefined(args, 0))
			p := promise.Then(heap, queue, r, object.FromValue(thisArg), nil, onRejected)
			return p.Value(), nil
		}},
	})
}

// installJSONObject wires JSON.stringify/JSON.parse. Both take an
// already-evaluated argument and lean on the shared value conversions
// above; reviver/replacer application is left to the (not yet built)
// script execution layer, which is in a position to call user code
// during the walk the way the real algorithms require.
func installJSONObject(heap *gcheap.Heap, r *context.Realm, funcProto, objProto, arrayProto value.Value, jsonObj *object.Object) {
	InstallOn(heap, r, funcProto, jsonObj, []MethodSpec{
		{Name: "stringify", Length: 3, Fn: func(_ value.Value, args []value.Value) (value.Value, error) {
			raw, ok, err := Stringify(argOrUndefined(args, 0))
			if err != nil {
				return value.Undefined, err
			}
			if !ok {
				return value.Undefined, nil
			}
			return strprim.FromUTF8(heap, raw), nil
		}},
		{Name: "parse", Length: 2, Fn: func(_ value.Value, args []value.Value) (value.Value, error) {
			text := stringContent(argOrUndefined(args, 0))
			return ParseJSON(heap, r.Interner, objProto, arrayProto, text)
		}},
	})
}
