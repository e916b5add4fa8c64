package env

import (
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/value"
)

// HasBinding reports whether name is bound in this environment record.
func (e *Environment) HasBinding(name string) (bool, error) {
	switch e.Kind {
	case KindObject:
		return e.Target.HasProperty(e.key(name))
	case KindGlobal:
		if has, err := e.DeclarativeRecord.HasBinding(name); err != nil || has {
			return has, err
		}
		return e.ObjectRecord.HasBinding(name)
	default:
		return e.Bindings.Has(e.key(name)), nil
	}
}

// CreateMutableBinding creates a new mutable binding, uninitialized
// until InitializeBinding is called.
func (e *Environment) CreateMutableBinding(name string, deletable bool) error {
	switch e.Kind {
	case KindObject:
		desc := object.DataDescriptor(value.Undefined, true, true, deletable)
		_, err := e.Target.DefineOwnProperty(e.key(name), desc)
		return err
	case KindGlobal:
		return e.DeclarativeRecord.CreateMutableBinding(name, deletable)
	default:
		e.Bindings.Set(e.key(name), &Binding{Deletable: deletable})
		return nil
	}
}

// CreateImmutableBinding creates an uninitialized immutable binding
// (let const/class); strict marks it as created by strict-mode code, so
// a later assignment throws rather than silently no-opping.
func (e *Environment) CreateImmutableBinding(name string, strict bool) error {
	e.Bindings.Set(e.key(name), &Binding{Immutable: true, Strict: strict})
	return nil
}

// InitializeBinding assigns a binding its first value, exactly once.
func (e *Environment) InitializeBinding(name string, v value.Value) error {
	switch e.Kind {
	case KindObject:
		_, err := e.Target.Set(e.key(name), v, e.Target.Value())
		return err
	case KindGlobal:
		if has, err := e.DeclarativeRecord.HasBinding(name); err != nil {
			return err
		} else if has {
			return e.DeclarativeRecord.InitializeBinding(name, v)
		}
		return e.ObjectRecord.InitializeBinding(name, v)
	default:
		b, ok := e.Bindings.Get(e.key(name))
		if !ok {
			return rjerrors.TypeError("cannot initialize unknown binding %q", name)
		}
		b.Value = v
		b.Initialized = true
		return nil
	}
}

// SetMutableBinding writes a binding's value. In non-strict mode an
// unresolved name auto-creates a (deletable) global-object binding
// rather than throwing, matching sloppy-eval assignment semantics.
func (e *Environment) SetMutableBinding(name string, v value.Value, strict bool) error {
	switch e.Kind {
	case KindObject:
		has, err := e.Target.HasProperty(e.key(name))
		if err != nil {
			return err
		}
		if !has && strict {
			return refError(name)
		}
		ok, err := e.Target.Set(e.key(name), v, e.Target.Value())
		if err == nil && !ok && strict {
			return rjerrors.TypeError("cannot assign to read only property %q", name)
		}
		return err
	case KindGlobal:
		if has, err := e.DeclarativeRecord.HasBinding(name); err != nil {
			return err
		} else if has {
			return e.DeclarativeRecord.SetMutableBinding(name, v, strict)
		}
		return e.ObjectRecord.SetMutableBinding(name, v, strict)
	default:
		b, ok := e.Bindings.Get(e.key(name))
		if !ok {
			if strict {
				return refError(name)
			}
			e.Bindings.Set(e.key(name), &Binding{Value: v, Initialized: true, Deletable: true})
			return nil
		}
		if !b.Initialized {
			return refError(name)
		}
		if b.Immutable {
			if b.Strict || strict {
				return rjerrors.TypeError("assignment to constant variable %q", name)
			}
			return nil
		}
		b.Value = v
		return nil
	}
}

// GetBindingValue reads a binding's value. Uninitialized throws
// ReferenceError regardless of strict.
func (e *Environment) GetBindingValue(name string, strict bool) (value.Value, error) {
	switch e.Kind {
	case KindObject:
		has, err := e.Target.HasProperty(e.key(name))
		if err != nil {
			return value.Undefined, err
		}
		if !has {
			if strict {
				return value.Undefined, refError(name)
			}
			return value.Undefined, nil
		}
		return e.Target.Get(e.key(name), e.Target.Value())
	case KindGlobal:
		if has, err := e.DeclarativeRecord.HasBinding(name); err != nil {
			return value.Undefined, err
		} else if has {
			return e.DeclarativeRecord.GetBindingValue(name, strict)
		}
		return e.ObjectRecord.GetBindingValue(name, strict)
	default:
		b, ok := e.Bindings.Get(e.key(name))
		if !ok {
			return value.Undefined, refError(name)
		}
		if !b.Initialized {
			return value.Undefined, refError(name)
		}
		if b.IsImport {
			return b.Resolve()
		}
		return b.Value, nil
	}
}

// DeleteBinding removes a binding, rejecting non-deletable ones. The
// index (and its binding-cache slot) is preserved by OrderedMap's
// tombstone deletion rather than compacted away.
func (e *Environment) DeleteBinding(name string) (bool, error) {
	switch e.Kind {
	case KindObject:
		return e.Target.Delete(e.key(name))
	case KindGlobal:
		return e.DeclarativeRecord.DeleteBinding(name)
	default:
		b, ok := e.Bindings.Get(e.key(name))
		if !ok {
			return true, nil
		}
		if !b.Deletable {
			return false, nil
		}
		return e.Bindings.Delete(e.key(name)), nil
	}
}

// HasThisBinding reports whether this environment itself owns a this
// slot; a lexical function environment reports false without consulting
// its outer chain.
func (e *Environment) HasThisBinding() bool {
	switch e.Kind {
	case KindFunction:
		return e.ThisStatus != ThisLexical
	case KindGlobal:
		return true
	default:
		return false
	}
}

// HasSuperBinding reports whether super is usable here.
func (e *Environment) HasSuperBinding() bool {
	return e.Kind == KindFunction && e.HomeObject != nil
}

// WithBaseObject returns the with-statement base object, or nil if this
// is not a with-environment.
func (e *Environment) WithBaseObject() *object.Object {
	if e.Kind == KindObject && e.WithEnvironment {
		return e.Target
	}
	return nil
}

// GetThisBinding returns the this value, throwing ReferenceError if a
// derived constructor's this is still uninitialized (before its
// super() call completes).
func (e *Environment) GetThisBinding() (value.Value, error) {
	switch e.Kind {
	case KindFunction:
		switch e.ThisStatus {
		case ThisLexical:
			if e.Outer != nil {
				return e.Outer.GetThisBinding()
			}
			return value.Undefined, rjerrors.ReferenceError("no this binding in scope")
		case ThisUninitialized:
			return value.Undefined, rjerrors.ReferenceError("must call super constructor before accessing 'this'")
		default:
			return e.ThisValue, nil
		}
	case KindGlobal:
		return e.ObjectRecord.Target.Value(), nil
	default:
		if e.Outer != nil {
			return e.Outer.GetThisBinding()
		}
		return value.Undefined, rjerrors.ReferenceError("no this binding in scope")
	}
}

// BindThisValue sets the this slot of a derived-constructor's function
// environment exactly once, transitioning uninitialized -> initialized.
func (e *Environment) BindThisValue(v value.Value) error {
	if e.Kind != KindFunction {
		return rjerrors.TypeError("BindThisValue on a non-function environment")
	}
	if e.ThisStatus == ThisInitialized {
		return rjerrors.ReferenceError("super() called twice")
	}
	e.ThisValue = v
	e.ThisStatus = ThisInitialized
	return nil
}
