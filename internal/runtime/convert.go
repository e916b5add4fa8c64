package runtime

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
)

// ToString converts v to a string value under realm's conventions,
// threading this Runtime's heap, the realm's property
// key interner, and the shared Symbol.toPrimitive through to
// internal/object's algorithm so call sites outside internal/object
// never have to assemble those three arguments themselves.
func (rt *Runtime) ToString(realm *context.Realm, v value.Value) (value.Value, error) {
	return object.ToString(rt.Heap, realm.Interner, rt.WellKnown.ToPrimitive, v)
}

// ToNumber converts v to a float64 under realm's conventions.
func (rt *Runtime) ToNumber(realm *context.Realm, v value.Value) (float64, error) {
	return object.ToNumber(rt.Heap, realm.Interner, rt.WellKnown.ToPrimitive, v)
}

// ToPrimitive converts v to a primitive value, honoring an own or
// inherited Symbol.toPrimitive method before falling back to the
// ordinary valueOf/toString order.
func (rt *Runtime) ToPrimitive(realm *context.Realm, v value.Value, hint object.Hint) (value.Value, error) {
	return object.ToPrimitive(rt.Heap, realm.Interner, rt.WellKnown.ToPrimitive, v, hint)
}

// ToPropertyKey converts v to a value usable as an object key (a string
// or a symbol).
func (rt *Runtime) ToPropertyKey(realm *context.Realm, v value.Value) (value.Value, error) {
	return object.ToPropertyKey(rt.Heap, realm.Interner, rt.WellKnown.ToPrimitive, v)
}

// ToObject boxes v as an object whose prototype is the caller-supplied
// proto (realm is not consulted); objects pass through unchanged.
func (rt *Runtime) ToObject(realm *context.Realm, v value.Value, proto value.Value) (*object.Object, error) {
	return object.ToObject(rt.Heap, v, proto)
}

// ToBoolean reports v's truthiness. It cannot fail, so unlike the
// other conversions it neither needs the realm nor returns an error.
func (rt *Runtime) ToBoolean(v value.Value) bool {
	return object.ToBoolean(v)
}

// ToBigInt converts v to a bigint value under realm's conventions.
func (rt *Runtime) ToBigInt(realm *context.Realm, v value.Value) (value.Value, error) {
	return object.ToBigInt(rt.Heap, realm.Interner, rt.WellKnown.ToPrimitive, v)
}

// AbstractEquals implements the == algorithm.
func (rt *Runtime) AbstractEquals(realm *context.Realm, a, b value.Value) (bool, error) {
	return object.AbstractEquals(rt.Heap, realm.Interner, rt.WellKnown.ToPrimitive, a, b)
}
