// Package env implements the lexical-environment hierarchy:
// declarative, function, object, module, and global environment
// records, their shared binding algebra, and the binding cache that lets
// a compiled binding reference skip name hashing on repeated lookups.
//
// A flat, index-addressed slot array is the fast path, with
// a name table only consulted on the first lookup of a given binding
// reference.
package env

import (
	"github.com/cwbudde/ratjs/internal/coll"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// Kind distinguishes the five environment-record specializations.
type Kind uint8

const (
	KindDeclarative Kind = iota
	KindFunction
	KindObject
	KindModule
	KindGlobal
)

// ThisBindingStatus is the function-environment this-slot state
// machine: lexical (arrow functions, no own
// this), uninitialized (derived constructor before super()), or
// initialized.
type ThisBindingStatus uint8

const (
	ThisLexical ThisBindingStatus = iota
	ThisUninitialized
	ThisInitialized
)

// Binding is a single named slot: flags plus either a value
// or, for an import binding, an indirect reference resolved through
// Resolve.
type Binding struct {
	Immutable bool
	Strict    bool // immutable-binding created by a strict-mode let/const/class
	Deletable bool
	Initialized bool
	IsImport  bool
	Value     value.Value
	Resolve   func() (value.Value, error) // import-binding indirection; nil otherwise
}

// Environment is one environment record. Kind selects which operations
// are meaningful; Declarative/Function/Module environments use Bindings,
// Object environments use Target instead.
type Environment struct {
	Kind  Kind
	Thing *gcheap.Thing
	Outer *Environment

	Bindings *coll.OrderedMap[value.Value, *Binding] // declarative/function/module
	interner *strprim.Interner

	// Object-environment fields.
	Target          *object.Object
	WithEnvironment bool // with-statement semantics: unscopables check applies

	// Function-environment fields.
	ThisValue     value.Value
	ThisStatus    ThisBindingStatus
	FunctionObj   *object.Object
	NewTargetObj  value.Value
	HasSuper      bool
	HomeObject    *object.Object

	// Global-environment fields: DeclarativeRecord holds let/const/class
	// bindings, ObjectRecord is the global object's own-property backing
	// for var/function declarations.
	DeclarativeRecord *Environment
	ObjectRecord      *Environment
	VarNames          map[string]bool
}

var envHeapOps = &gcheap.Ops{Kind: gcheap.KindEnvironment, Name: "environment", Scan: scanEnvironment}

// isHeapValue reports whether v's payload is a gcheap.Thing pointer
// (string, symbol, bigint, object, or a generic gc-thing) as opposed to
// an immediate value (undefined, null, boolean, number, index-string).
func isHeapValue(v value.Value) bool {
	switch v.Kind() {
	case value.KindString, value.KindSymbol, value.KindBigInt, value.KindObject, value.KindGeneric:
		return true
	default:
		return false
	}
}

func scanEnvironment(t *gcheap.Thing, out []*gcheap.Thing) []*gcheap.Thing {
	e := t.Data.(*Environment)
	if e.Outer != nil && e.Outer.Thing != nil {
		out = append(out, e.Outer.Thing)
	}
	if e.Target != nil {
		out = append(out, e.Target.Thing)
	}
	if e.FunctionObj != nil {
		out = append(out, e.FunctionObj.Thing)
	}
	if e.HomeObject != nil {
		out = append(out, e.HomeObject.Thing)
	}
	if isHeapValue(e.ThisValue) {
		out = append(out, e.ThisValue.Ref().Thing)
	}
	if isHeapValue(e.NewTargetObj) {
		out = append(out, e.NewTargetObj.Ref().Thing)
	}
	if e.DeclarativeRecord != nil && e.DeclarativeRecord.Thing != nil {
		out = append(out, e.DeclarativeRecord.Thing)
	}
	if e.ObjectRecord != nil && e.ObjectRecord.Thing != nil {
		out = append(out, e.ObjectRecord.Thing)
	}
	if e.Bindings != nil {
		for _, k := range e.Bindings.Keys() {
			b, _ := e.Bindings.Get(k)
			if isHeapValue(k) {
				out = append(out, k.Ref().Thing)
			}
			if isHeapValue(b.Value) {
				out = append(out, b.Value.Ref().Thing)
			}
		}
	}
	return out
}

func newBase(heap *gcheap.Heap, kind Kind, outer *Environment, in *strprim.Interner) *Environment {
	e := &Environment{Kind: kind, Outer: outer, interner: in}
	e.Thing = heap.Alloc(envHeapOps, e)
	return e
}

// NewDeclarative creates a declarative environment record:
// the ordinary case backing block scopes, catch clauses, and let/const
// at function scope.
func NewDeclarative(heap *gcheap.Heap, outer *Environment, in *strprim.Interner) *Environment {
	e := newBase(heap, KindDeclarative, outer, in)
	e.Bindings = coll.NewOrderedMap[value.Value, *Binding](4)
	return e
}

// NewObject creates an object environment record:
// bindings resolve through target's [[HasProperty]] and
// [[Get]], used for `with` statements and (withEnvironment=false) the
// global object record.
func NewObject(heap *gcheap.Heap, outer *Environment, target *object.Object, withEnvironment bool, in *strprim.Interner) *Environment {
	e := newBase(heap, KindObject, outer, in)
	e.Target = target
	e.WithEnvironment = withEnvironment
	return e
}

// NewFunction creates a function environment record,
// wrapping a declarative record with the
// this-binding state machine.
func NewFunction(heap *gcheap.Heap, outer *Environment, fn *object.Object, thisStatus ThisBindingStatus, in *strprim.Interner) *Environment {
	e := newBase(heap, KindFunction, outer, in)
	e.Bindings = coll.NewOrderedMap[value.Value, *Binding](4)
	e.FunctionObj = fn
	e.ThisStatus = thisStatus
	if thisStatus == ThisInitialized {
		e.ThisValue = value.Undefined
	}
	return e
}

// NewModule creates a module environment record:
// declarative bindings plus import bindings that resolve
// indirectly through another module's export.
func NewModule(heap *gcheap.Heap, outer *Environment, in *strprim.Interner) *Environment {
	e := newBase(heap, KindModule, outer, in)
	e.Bindings = coll.NewOrderedMap[value.Value, *Binding](8)
	return e
}

// NewGlobal creates a global environment record: an object record over
// globalObj plus a declarative record for let/const/class at top
// level.
func NewGlobal(heap *gcheap.Heap, globalObj *object.Object, in *strprim.Interner) *Environment {
	e := newBase(heap, KindGlobal, nil, in)
	e.ObjectRecord = NewObject(heap, nil, globalObj, false, in)
	e.DeclarativeRecord = NewDeclarative(heap, nil, in)
	e.VarNames = make(map[string]bool)
	return e
}

func (e *Environment) key(name string) value.Value {
	return e.interner.Intern(name)
}

// refError is the ReferenceError wording for an undeclared identifier.
func refError(name string) error {
	return rjerrors.ReferenceError("%s is not defined", name)
}
