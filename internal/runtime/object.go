package runtime

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
)

// Invoke looks up name on thisArg and calls it as a function with
// args, the common shape of
// calling a method whose object isn't already known to be callable.
func (rt *Runtime) Invoke(realm *context.Realm, thisArg value.Value, name string, args []value.Value) (value.Value, error) {
	if !thisArg.IsObject() {
		o, err := rt.ToObject(realm, thisArg, value.Null)
		if err != nil {
			return value.Undefined, err
		}
		thisArg = o.Value()
	}
	o := object.FromValue(thisArg)
	fnVal, err := o.Get(realm.Interner.Intern(name), thisArg)
	if err != nil {
		return value.Undefined, err
	}
	if !fnVal.IsObject() {
		return value.Undefined, rt.ThrowTypeError("%s is not a function", name)
	}
	fn := object.FromValue(fnVal)
	return object.CallFunction(fn, thisArg, args)
}

// GetV reads a property by string name off an arbitrary value, boxing
// primitives as needed.
func (rt *Runtime) GetV(realm *context.Realm, v value.Value, name string) (value.Value, error) {
	if v.IsObject() {
		return object.FromValue(v).Get(realm.Interner.Intern(name), v)
	}
	o, err := rt.ToObject(realm, v, value.Null)
	if err != nil {
		return value.Undefined, err
	}
	return o.Get(realm.Interner.Intern(name), v)
}

// Set writes a property by string name on an object.
func (rt *Runtime) Set(realm *context.Realm, o *object.Object, name string, v value.Value) (bool, error) {
	return o.Set(realm.Interner.Intern(name), v, o.Value())
}

// HasOwnProperty reports whether o has an own property named name.
func (rt *Runtime) HasOwnProperty(realm *context.Realm, o *object.Object, name string) (bool, error) {
	_, ok, err := o.GetOwnProperty(realm.Interner.Intern(name))
	return ok, err
}
