package object

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// ProxyState is the Ext payload for a KindProxy object, routing every
// operation to handler[trap] if present,
// else to the target. Target and Handler are zeroed by Revoke, after
// which every trapped operation throws.
type ProxyState struct {
	Target   *Object
	Handler  *Object
	Revoked  bool
	Interner *strprim.Interner
	Heap     *gcheap.Heap
}

func (p *ProxyState) ScanExt(addVal func(value.Value)) {
	if p.Target != nil {
		addVal(p.Target.Value())
	}
	if p.Handler != nil {
		addVal(p.Handler.Value())
	}
}

var errRevokedProxy = rjerrors.TypeError("cannot perform operation on a revoked proxy")

// NewProxy allocates a proxy object. in resolves trap names to property keys on
// the handler.
func NewProxy(heap *gcheap.Heap, target, handler *Object, in *strprim.Interner) *Object {
	o := New(heap, value.Null)
	o.Kind = KindProxy
	o.Ext = &ProxyState{Target: target, Handler: handler, Interner: in, Heap: heap}
	o.SetOps(&Ops{
		GetPrototypeOf:    proxyGetPrototypeOf,
		SetPrototypeOf:    proxySetPrototypeOf,
		IsExtensible:      proxyIsExtensible,
		PreventExtensions: proxyPreventExtensions,
		GetOwnProperty:    proxyGetOwnProperty,
		DefineOwnProperty: proxyDefineOwnProperty,
		HasProperty:       proxyHasProperty,
		Get:               proxyGet,
		Set:               proxySet,
		Delete:            proxyDelete,
		OwnPropertyKeys:   proxyOwnPropertyKeys,
	})
	return o
}

// Revoke implements the revoke() function returned alongside
// Proxy.revocable: target/handler are zeroed and every subsequent
// trapped operation throws.
func Revoke(o *Object) {
	ps := o.Ext.(*ProxyState)
	ps.Target, ps.Handler, ps.Revoked = nil, nil, true
}

func proxyState(o *Object) (*ProxyState, error) {
	ps := o.Ext.(*ProxyState)
	if ps.Revoked {
		return nil, errRevokedProxy
	}
	return ps, nil
}

// trap looks up handler[name], returning (nil, nil) if the trap is
// undefined or null (caller falls back to the target's own operation).
func trap(ps *ProxyState, name string) (*Object, error) {
	key := ps.Interner.Intern(name)
	v, err := ps.Handler.Get(key, ps.Handler.Value())
	if err != nil {
		return nil, err
	}
	if v.IsUndefined() || v.IsNull() {
		return nil, nil
	}
	if !v.IsObject() || !FromValue(v).IsCallable() {
		return nil, rjerrors.TypeError("proxy handler.%s is not a function", name)
	}
	return FromValue(v), nil
}

func proxyGetPrototypeOf(o *Object) (value.Value, error) {
	ps, err := proxyState(o)
	if err != nil {
		return value.Undefined, err
	}
	fn, err := trap(ps, "getPrototypeOf")
	if err != nil {
		return value.Undefined, err
	}
	if fn == nil {
		return ps.Target.GetPrototypeOf()
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value()})
	if err != nil {
		return value.Undefined, err
	}
	targetExtensible, err := ps.Target.IsExtensible()
	if err != nil {
		return value.Undefined, err
	}
	if !targetExtensible {
		targetProto, err := ps.Target.GetPrototypeOf()
		if err != nil {
			return value.Undefined, err
		}
		if !SameValue(result, targetProto) {
			return value.Undefined, rjerrors.TypeError("getPrototypeOf invariant violated: proxy target is non-extensible")
		}
	}
	return result, nil
}

func proxySetPrototypeOf(o *Object, proto value.Value) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	fn, err := trap(ps, "setPrototypeOf")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return ps.Target.SetPrototypeOf(proto)
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), proto})
	if err != nil {
		return false, err
	}
	if !toBool(result) {
		return false, nil
	}
	targetExtensible, err := ps.Target.IsExtensible()
	if err != nil {
		return false, err
	}
	if !targetExtensible {
		targetProto, err := ps.Target.GetPrototypeOf()
		if err != nil {
			return false, err
		}
		if !SameValue(proto, targetProto) {
			return false, rjerrors.TypeError("setPrototypeOf invariant violated: proxy target is non-extensible")
		}
	}
	return true, nil
}

func proxyIsExtensible(o *Object) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	targetResult, terr := ps.Target.IsExtensible()
	fn, err := trap(ps, "isExtensible")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return targetResult, terr
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value()})
	if err != nil {
		return false, err
	}
	if terr != nil {
		return false, terr
	}
	b := toBool(result)
	if b != targetResult {
		return false, rjerrors.TypeError("isExtensible invariant violated: must match target")
	}
	return b, nil
}

func proxyPreventExtensions(o *Object) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	fn, err := trap(ps, "preventExtensions")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return ps.Target.PreventExtensions()
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value()})
	if err != nil {
		return false, err
	}
	b := toBool(result)
	if b {
		targetExtensible, err := ps.Target.IsExtensible()
		if err != nil {
			return false, err
		}
		if targetExtensible {
			return false, rjerrors.TypeError("preventExtensions invariant violated: target remains extensible")
		}
	}
	return b, nil
}

func proxyGetOwnProperty(o *Object, key value.Value) (Descriptor, bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return Descriptor{}, false, err
	}
	targetDesc, targetHas, terr := ps.Target.GetOwnProperty(key)
	if terr != nil {
		return Descriptor{}, false, terr
	}
	fn, err := trap(ps, "getOwnPropertyDescriptor")
	if err != nil {
		return Descriptor{}, false, err
	}
	if fn == nil {
		return targetDesc, targetHas, nil
	}
	targetExtensible, err := ps.Target.IsExtensible()
	if err != nil {
		return Descriptor{}, false, err
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), key})
	if err != nil {
		return Descriptor{}, false, err
	}
	if result.IsUndefined() {
		if !targetHas {
			return Descriptor{}, false, nil
		}
		if !targetDesc.Configurable {
			return Descriptor{}, false, rjerrors.TypeError("getOwnPropertyDescriptor invariant violated: non-configurable own property reported missing")
		}
		if !targetExtensible {
			return Descriptor{}, false, rjerrors.TypeError("getOwnPropertyDescriptor invariant violated: non-extensible target property reported missing")
		}
		return Descriptor{}, false, nil
	}
	if !result.IsObject() {
		return Descriptor{}, false, rjerrors.TypeError("proxy getOwnPropertyDescriptor trap must return an object or undefined")
	}
	desc, err := descriptorFromObject(ps, FromValue(result))
	if err != nil {
		return Descriptor{}, false, err
	}
	if !targetExtensible && !targetHas {
		return Descriptor{}, false, rjerrors.TypeError("getOwnPropertyDescriptor invariant violated: reported property absent from non-extensible target")
	}
	return CompletePropertyDescriptor(desc), true, nil
}

func proxyDefineOwnProperty(o *Object, key value.Value, desc Descriptor) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	fn, err := trap(ps, "defineProperty")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return ps.Target.DefineOwnProperty(key, desc)
	}
	descObj := objectFromDescriptor(ps, desc)
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), key, descObj.Value()})
	if err != nil {
		return false, err
	}
	return toBool(result), nil
}

func proxyHasProperty(o *Object, key value.Value) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	fn, err := trap(ps, "has")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return ps.Target.HasProperty(key)
	}
	resultVal, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), key})
	if err != nil {
		return false, err
	}
	result := toBool(resultVal)
	if !result {
		targetDesc, targetHas, err := ps.Target.GetOwnProperty(key)
		if err != nil {
			return false, err
		}
		if targetHas && !targetDesc.Configurable {
			return false, rjerrors.TypeError("has invariant violated: non-configurable own property reported absent")
		}
		if targetHas {
			targetExtensible, err := ps.Target.IsExtensible()
			if err != nil {
				return false, err
			}
			if !targetExtensible {
				return false, rjerrors.TypeError("has invariant violated: non-extensible target property reported absent")
			}
		}
	}
	return result, nil
}

func proxyGet(o *Object, key value.Value, receiver value.Value) (value.Value, error) {
	ps, err := proxyState(o)
	if err != nil {
		return value.Undefined, err
	}
	fn, err := trap(ps, "get")
	if err != nil {
		return value.Undefined, err
	}
	if fn == nil {
		return ps.Target.Get(key, receiver)
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), key, receiver})
	if err != nil {
		return value.Undefined, err
	}
	targetDesc, targetHas, err := ps.Target.GetOwnProperty(key)
	if err != nil {
		return value.Undefined, err
	}
	if targetHas && !targetDesc.Configurable {
		if targetDesc.IsDataDescriptor() && !targetDesc.Writable && !SameValue(result, targetDesc.Value) {
			return value.Undefined, rjerrors.TypeError("get invariant violated: non-writable non-configurable data property reported wrong value")
		}
		if targetDesc.IsAccessorDescriptor() && targetDesc.Get.IsUndefined() && !result.IsUndefined() {
			return value.Undefined, rjerrors.TypeError("get invariant violated: accessor with no getter reported non-undefined value")
		}
	}
	return result, nil
}

func proxySet(o *Object, key value.Value, v value.Value, receiver value.Value) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	fn, err := trap(ps, "set")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return ps.Target.Set(key, v, receiver)
	}
	resultVal, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), key, v, receiver})
	if err != nil {
		return false, err
	}
	if !toBool(resultVal) {
		return false, nil
	}
	targetDesc, targetHas, err := ps.Target.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if targetHas && !targetDesc.Configurable {
		if targetDesc.IsDataDescriptor() && !targetDesc.Writable && !SameValue(v, targetDesc.Value) {
			return false, rjerrors.TypeError("set invariant violated: non-writable non-configurable data property")
		}
		if targetDesc.IsAccessorDescriptor() && targetDesc.Set.IsUndefined() {
			return false, rjerrors.TypeError("set invariant violated: accessor with no setter")
		}
	}
	return true, nil
}

func proxyDelete(o *Object, key value.Value) (bool, error) {
	ps, err := proxyState(o)
	if err != nil {
		return false, err
	}
	fn, err := trap(ps, "deleteProperty")
	if err != nil {
		return false, err
	}
	if fn == nil {
		return ps.Target.Delete(key)
	}
	resultVal, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value(), key})
	if err != nil {
		return false, err
	}
	if !toBool(resultVal) {
		return false, nil
	}
	targetDesc, targetHas, err := ps.Target.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if targetHas && !targetDesc.Configurable {
		return false, rjerrors.TypeError("deleteProperty invariant violated: non-configurable own property")
	}
	return true, nil
}

func proxyOwnPropertyKeys(o *Object) ([]value.Value, error) {
	ps, err := proxyState(o)
	if err != nil {
		return nil, err
	}
	fn, err := trap(ps, "ownKeys")
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return ps.Target.OwnPropertyKeys()
	}
	result, err := CallFunction(fn, ps.Handler.Value(), []value.Value{ps.Target.Value()})
	if err != nil {
		return nil, err
	}
	if !result.IsObject() {
		return nil, rjerrors.TypeError("proxy ownKeys trap must return an object")
	}
	return arrayLikeToKeys(ps, FromValue(result))
}

func toBool(v value.Value) bool {
	switch v.Kind() {
	case value.KindBoolean:
		return v.Bool()
	case value.KindUndefined, value.KindNull:
		return false
	case value.KindNumber:
		n := v.Num()
		return n != 0 && n == n // excludes 0, -0, NaN
	default:
		return true
	}
}

// descriptorFromObject reads a plain property-descriptor object (as
// returned from a getOwnPropertyDescriptor trap) into a Descriptor.
func descriptorFromObject(ps *ProxyState, o *Object) (Descriptor, error) {
	var d Descriptor
	read := func(name string, present Present, apply func(value.Value)) error {
		key := ps.Interner.Intern(name)
		has, err := o.HasProperty(key)
		if err != nil || !has {
			return err
		}
		v, err := o.Get(key, o.Value())
		if err != nil {
			return err
		}
		d.Present |= present
		apply(v)
		return nil
	}
	if err := read("value", HasValue, func(v value.Value) { d.Value = v }); err != nil {
		return d, err
	}
	if err := read("writable", HasWritable, func(v value.Value) { d.Writable = toBool(v) }); err != nil {
		return d, err
	}
	if err := read("get", HasGet, func(v value.Value) { d.Get = v }); err != nil {
		return d, err
	}
	if err := read("set", HasSet, func(v value.Value) { d.Set = v }); err != nil {
		return d, err
	}
	if err := read("enumerable", HasEnumerable, func(v value.Value) { d.Enumerable = toBool(v) }); err != nil {
		return d, err
	}
	if err := read("configurable", HasConfigurable, func(v value.Value) { d.Configurable = toBool(v) }); err != nil {
		return d, err
	}
	return d, nil
}

// objectFromDescriptor builds the plain descriptor object passed to a
// proxy's defineProperty trap (FromPropertyDescriptor). It is given
// value.Null as its prototype rather than %Object.prototype%, a
// deliberate simplification: the trap only ever reads named data
// properties off it, and internal/builtin's Proxy wiring is free to
// re-parent it once %Object.prototype% exists.
func objectFromDescriptor(ps *ProxyState, d Descriptor) *Object {
	o := New(ps.Heap, value.Null)
	set := func(name string, v value.Value) {
		o.DefineOwnProperty(ps.Interner.Intern(name), DataDescriptor(v, true, true, true))
	}
	if d.Present&HasValue != 0 {
		set("value", d.Value)
	}
	if d.Present&HasWritable != 0 {
		set("writable", value.Bool(d.Writable))
	}
	if d.Present&HasGet != 0 {
		set("get", d.Get)
	}
	if d.Present&HasSet != 0 {
		set("set", d.Set)
	}
	if d.Present&HasEnumerable != 0 {
		set("enumerable", value.Bool(d.Enumerable))
	}
	if d.Present&HasConfigurable != 0 {
		set("configurable", value.Bool(d.Configurable))
	}
	return o
}

func arrayLikeToKeys(ps *ProxyState, o *Object) ([]value.Value, error) {
	lengthKey := ps.Interner.Intern("length")
	lengthVal, err := o.Get(lengthKey, o.Value())
	if err != nil {
		return nil, err
	}
	n := int(lengthVal.Num())
	keys := make([]value.Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := o.Get(value.IndexString(uint32(i)), o.Value())
		if err != nil {
			return nil, err
		}
		keys = append(keys, v)
	}
	return keys, nil
}
