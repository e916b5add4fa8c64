package env

import (
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
)

// HasVarDeclaration reports whether name was declared with var,
// tracked separately from the object
// record's own properties since a var can shadow a non-configurable
// global property that was never created through CreateGlobalVarBinding.
func (e *Environment) HasVarDeclaration(name string) bool {
	return e.Kind == KindGlobal && e.VarNames[name]
}

// HasLexicalDeclaration reports whether name was declared with
// let/const/class at the top level.
func (e *Environment) HasLexicalDeclaration(name string) bool {
	return e.Kind == KindGlobal && e.DeclarativeRecord.Bindings.Has(e.key(name))
}

// HasRestrictedGlobalProperty reports whether redeclaring name as a
// global var/function would conflict with an existing non-configurable
// global object property.
func (e *Environment) HasRestrictedGlobalProperty(name string) (bool, error) {
	desc, ok, err := e.ObjectRecord.Target.GetOwnProperty(e.key(name))
	if err != nil || !ok {
		return false, err
	}
	return !desc.Configurable, nil
}

// CanDeclareGlobalVar reports whether a var declaration for name is
// permitted.
func (e *Environment) CanDeclareGlobalVar(name string) (bool, error) {
	has, err := e.ObjectRecord.Target.HasProperty(e.key(name))
	if err != nil || has {
		return has, err
	}
	return e.ObjectRecord.Target.IsExtensible()
}

// CanDeclareGlobalFunction reports whether a function declaration for
// name is permitted, per the stricter existing-descriptor check
// function declarations require over plain vars.
func (e *Environment) CanDeclareGlobalFunction(name string) (bool, error) {
	desc, ok, err := e.ObjectRecord.Target.GetOwnProperty(e.key(name))
	if err != nil {
		return false, err
	}
	if !ok {
		return e.ObjectRecord.Target.IsExtensible()
	}
	if desc.Configurable {
		return true, nil
	}
	return desc.IsDataDescriptor() && desc.Writable && desc.Enumerable, nil
}

// CreateGlobalVarBinding declares a var at global scope: a configurable
// own property unless one already exists, registered in VarNames.
func (e *Environment) CreateGlobalVarBinding(name string, deletable bool) error {
	has, err := e.ObjectRecord.Target.HasProperty(e.key(name))
	if err != nil {
		return err
	}
	if !has {
		ext, err := e.ObjectRecord.Target.IsExtensible()
		if err != nil {
			return err
		}
		if ext {
			if _, err := e.ObjectRecord.Target.DefineOwnProperty(e.key(name), object.DataDescriptor(value.Undefined, true, true, deletable)); err != nil {
				return err
			}
		}
	}
	e.VarNames[name] = true
	return nil
}

// CreateGlobalFunctionBinding declares a global function binding,
// installing v immediately (functions are the one declaration kind
// whose initial value is available at hoist time).
func (e *Environment) CreateGlobalFunctionBinding(name string, v value.Value, deletable bool) error {
	desc, ok, err := e.ObjectRecord.Target.GetOwnProperty(e.key(name))
	if err != nil {
		return err
	}
	var newDesc object.Descriptor
	if !ok || desc.Configurable {
		newDesc = object.DataDescriptor(v, true, true, deletable)
	} else {
		newDesc = object.DataDescriptor(v, desc.Writable, desc.Enumerable, desc.Configurable)
	}
	if _, err := e.ObjectRecord.Target.DefineOwnProperty(e.key(name), newDesc); err != nil {
		return err
	}
	_, err = e.ObjectRecord.Target.Set(e.key(name), v, e.ObjectRecord.Target.Value())
	e.VarNames[name] = true
	return err
}
