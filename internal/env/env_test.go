package env

import (
	"errors"
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func newTestHeap() (*gcheap.Heap, *strprim.Interner) {
	h := gcheap.New()
	h.Enable(false)
	return h, strprim.NewInterner(h)
}

func TestDeclarativeMutableBindingRoundTrip(t *testing.T) {
	h, in := newTestHeap()
	e := NewDeclarative(h, nil, in)

	require.NoError(t, e.CreateMutableBinding("x", true))
	require.NoError(t, e.InitializeBinding("x", value.Number(1)))

	v, err := e.GetBindingValue("x", false)
	require.NoError(t, err)
	require.Equal(t, 1.0, v.Num())

	require.NoError(t, e.SetMutableBinding("x", value.Number(2), true))
	v, err = e.GetBindingValue("x", false)
	require.NoError(t, err)
	require.Equal(t, 2.0, v.Num())
}

func TestImmutableBindingRejectsReassignment(t *testing.T) {
	h, in := newTestHeap()
	e := NewDeclarative(h, nil, in)

	require.NoError(t, e.CreateImmutableBinding("x", true))
	require.NoError(t, e.InitializeBinding("x", value.Number(1)))

	err := e.SetMutableBinding("x", value.Number(2), true)
	require.Error(t, err)
	require.True(t, errors.Is(err, rjerrors.TypeError("")))
}

func TestUninitializedBindingThrowsReferenceError(t *testing.T) {
	h, in := newTestHeap()
	e := NewDeclarative(h, nil, in)
	require.NoError(t, e.CreateImmutableBinding("x", true))

	_, err := e.GetBindingValue("x", false)
	require.Error(t, err)
	require.True(t, errors.Is(err, rjerrors.ReferenceError("")))
}

func TestUnresolvedBindingSloppySetAutoCreatesGlobal(t *testing.T) {
	h, in := newTestHeap()
	globalObj := object.New(h, value.Null)
	g := NewGlobal(h, globalObj, in)

	require.NoError(t, g.SetMutableBinding("y", value.Number(5), false))
	v, err := g.GetBindingValue("y", false)
	require.NoError(t, err)
	require.Equal(t, 5.0, v.Num())
}

func TestUnresolvedBindingStrictSetThrows(t *testing.T) {
	h, in := newTestHeap()
	globalObj := object.New(h, value.Null)
	g := NewGlobal(h, globalObj, in)

	err := g.SetMutableBinding("y", value.Number(5), true)
	require.Error(t, err)
	require.True(t, errors.Is(err, rjerrors.ReferenceError("")))
}

func TestDeleteBindingPreservesCachedIndex(t *testing.T) {
	h, in := newTestHeap()
	e := NewDeclarative(h, nil, in)

	require.NoError(t, e.CreateMutableBinding("a", true))
	require.NoError(t, e.InitializeBinding("a", value.Number(1)))
	require.NoError(t, e.CreateMutableBinding("b", true))
	require.NoError(t, e.InitializeBinding("b", value.Number(2)))

	ref := NewBindingRef("b")
	target := ref.Resolve(e)
	require.Same(t, e, target)
	cachedIndex := ref.Index

	ok, err := e.DeleteBinding("a")
	require.NoError(t, err)
	require.True(t, ok)

	// "b"'s insertion-order slot must not shift after "a"'s tombstone
	// deletion: delete removes the hash entry but preserves binding
	// index slots.
	target2 := ref.Resolve(e)
	require.Same(t, e, target2)
	require.Equal(t, cachedIndex, ref.Index)

	v, err := e.GetBindingValue("b", false)
	require.NoError(t, err)
	require.Equal(t, 2.0, v.Num())
}

func TestNonDeletableBindingRejectsDelete(t *testing.T) {
	h, in := newTestHeap()
	e := NewDeclarative(h, nil, in)
	require.NoError(t, e.CreateMutableBinding("x", false))
	require.NoError(t, e.InitializeBinding("x", value.Number(1)))

	ok, err := e.DeleteBinding("x")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBindingCacheHopsThroughOuterChain(t *testing.T) {
	h, in := newTestHeap()
	outer := NewDeclarative(h, nil, in)
	require.NoError(t, outer.CreateMutableBinding("shared", true))
	require.NoError(t, outer.InitializeBinding("shared", value.Number(42)))

	inner := NewDeclarative(h, outer, in)
	require.NoError(t, inner.CreateMutableBinding("local", true))
	require.NoError(t, inner.InitializeBinding("local", value.Number(1)))

	ref := NewBindingRef("shared")
	target := ref.Resolve(inner)
	require.Same(t, outer, target)
	require.Equal(t, uint16(1), ref.EnvHops)

	// Second resolution must hit the cached hop count directly.
	target2 := ref.Resolve(inner)
	require.Same(t, outer, target2)
}

func TestObjectEnvironmentDelegatesToTarget(t *testing.T) {
	h, in := newTestHeap()
	target := object.New(h, value.Null)
	key := in.Intern("foo")
	_, err := target.DefineOwnProperty(key, object.DataDescriptor(value.Number(9), true, true, true))
	require.NoError(t, err)

	e := NewObject(h, nil, target, true, in)
	has, err := e.HasBinding("foo")
	require.NoError(t, err)
	require.True(t, has)

	v, err := e.GetBindingValue("foo", false)
	require.NoError(t, err)
	require.Equal(t, 9.0, v.Num())
}

func TestFunctionEnvironmentThisBindingLifecycle(t *testing.T) {
	h, in := newTestHeap()
	fn := object.New(h, value.Null)
	e := NewFunction(h, nil, fn, ThisUninitialized, in)

	require.True(t, e.HasThisBinding())
	_, err := e.GetThisBinding()
	require.Error(t, err)
	require.True(t, errors.Is(err, rjerrors.ReferenceError("")))

	receiver := object.New(h, value.Null).Value()
	require.NoError(t, e.BindThisValue(receiver))

	v, err := e.GetThisBinding()
	require.NoError(t, err)
	require.True(t, value.Equal(receiver, v))

	err = e.BindThisValue(receiver)
	require.Error(t, err)
}

func TestLexicalFunctionEnvironmentDelegatesThisToOuter(t *testing.T) {
	h, in := newTestHeap()
	outerFn := object.New(h, value.Null)
	outer := NewFunction(h, nil, outerFn, ThisUninitialized, in)
	receiver := object.New(h, value.Null).Value()
	require.NoError(t, outer.BindThisValue(receiver))

	arrowFn := object.New(h, value.Null)
	arrow := NewFunction(h, outer, arrowFn, ThisLexical, in)
	require.False(t, arrow.HasThisBinding())

	v, err := arrow.GetThisBinding()
	require.NoError(t, err)
	require.True(t, value.Equal(receiver, v))
}

func TestMappedArgumentsAliasesParameterBinding(t *testing.T) {
	h, in := newTestHeap()
	fn := object.New(h, value.Null)
	fenv := NewFunction(h, nil, fn, ThisLexical, in)
	require.NoError(t, fenv.CreateMutableBinding("a", false))
	require.NoError(t, fenv.InitializeBinding("a", value.Number(1)))

	objProto := object.New(h, value.Null).Value()
	args := object.NewArgumentsObject(h, objProto, []value.Value{value.Number(1)}, []object.ParameterBinding{fenv.ParameterBinding("a")})

	v, err := args.Get(value.IndexString(0), args.Value())
	require.NoError(t, err)
	require.Equal(t, 1.0, v.Num())

	require.NoError(t, fenv.SetMutableBinding("a", value.Number(7), true))
	v, err = args.Get(value.IndexString(0), args.Value())
	require.NoError(t, err)
	require.Equal(t, 7.0, v.Num(), "arguments[0] must observe writes to the aliased parameter")
}

func TestCreateImportBindingResolvesIndirectly(t *testing.T) {
	h, in := newTestHeap()
	e := NewModule(h, nil, in)
	resolved := value.Number(99)
	require.NoError(t, e.CreateImportBinding("dep", func() (value.Value, error) {
		return resolved, nil
	}))

	v, err := e.GetBindingValue("dep", true)
	require.NoError(t, err)
	require.Equal(t, 99.0, v.Num())
}

func TestGlobalVarDeclarationTrackedSeparatelyFromLexical(t *testing.T) {
	h, in := newTestHeap()
	globalObj := object.New(h, value.Null)
	g := NewGlobal(h, globalObj, in)

	require.NoError(t, g.CreateGlobalVarBinding("v", false))
	require.True(t, g.HasVarDeclaration("v"))
	require.False(t, g.HasLexicalDeclaration("v"))

	require.NoError(t, g.DeclarativeRecord.CreateImmutableBinding("c", true))
	require.True(t, g.HasLexicalDeclaration("c"))
}
