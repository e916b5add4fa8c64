package context

import (
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func newTestRealm(t *testing.T) (*gcheap.Heap, *Realm) {
	t.Helper()
	h := gcheap.New()
	h.Enable(false)
	syms := strprim.NewRegistry()
	r := NewRealm(h, value.Null, syms)
	return h, r
}

func TestNewRealmHasDistinctIDs(t *testing.T) {
	h, r1 := newTestRealm(t)
	syms := strprim.NewRegistry()
	r2 := NewRealm(h, value.Null, syms)
	require.NotEqual(t, r1.ID, r2.ID)
	require.NotSame(t, r1.GlobalObject, r2.GlobalObject)
}

func TestContextStackPushPopOrder(t *testing.T) {
	h, r := newTestRealm(t)
	s := NewStack()
	require.Nil(t, s.Current())

	outer := New(h, nil, r, nil, r.GlobalEnv, r.GlobalEnv)
	s.Push(outer)
	require.Same(t, outer, s.Current())

	inner := New(h, outer, r, nil, r.GlobalEnv, r.GlobalEnv)
	s.Push(inner)
	require.Same(t, inner, s.Current())
	require.Equal(t, 2, s.Depth())

	popped := s.Pop()
	require.Same(t, inner, popped)
	require.Same(t, outer, s.Current())
	require.Equal(t, 1, s.Depth())
}

func TestContextStackIsGCRoot(t *testing.T) {
	h, r := newTestRealm(t)
	s := NewStack()
	c := New(h, nil, r, nil, r.GlobalEnv, r.GlobalEnv)
	s.Push(c)
	h.AddRootProvider(s)

	before := h.Count()
	h.Collect()
	require.Equal(t, before, h.Count(), "a pushed context must survive collection")
}

func TestContextPoppedNotGCRoot(t *testing.T) {
	h, r := newTestRealm(t)
	s := NewStack()
	h.AddRootProvider(s)

	c := New(h, nil, r, nil, r.GlobalEnv, r.GlobalEnv)
	s.Push(c)
	s.Pop()

	h.Collect()
	// The context Thing itself was swept; nothing else references it.
	// We only assert the collection ran without the (now-popped)
	// context keeping anything alive that a fresh GCRoots call wouldn't
	// also report.
	require.Equal(t, 0, len(s.GCRoots(nil)))
}

func TestErrorStateThrowCatchRoundTrip(t *testing.T) {
	s := NewErrorState()
	require.False(t, s.Pending())

	h, r := newTestRealm(t)
	c := New(h, nil, r, nil, r.GlobalEnv, r.GlobalEnv)
	err := rjerrors.TypeError("boom")
	s.Throw(err, c, 7)

	require.True(t, s.Pending())
	require.Same(t, err, s.Value())
	require.Same(t, c, s.FaultingContext)
	require.Equal(t, 7, s.FaultingIP)

	caught := s.Catch()
	require.Same(t, err, caught)
	require.False(t, s.Pending())
	require.Nil(t, s.Value())
}

func TestGeneratorContextSuspendResumeLifecycle(t *testing.T) {
	h, r := newTestRealm(t)
	gctx := NewGeneratorContext(h, nil, r, nil, r.GlobalEnv, r.GlobalEnv)
	require.True(t, gctx.Generator.Suspended)
	require.True(t, gctx.Generator.AtStart)

	require.True(t, gctx.Generator.Resume())
	require.False(t, gctx.Generator.Suspended)

	gctx.Generator.Suspend([]value.Value{value.Number(1), value.Number(2)}, 12)
	require.True(t, gctx.Generator.Suspended)
	require.Equal(t, 12, gctx.Generator.SavedIP)
	require.Len(t, gctx.Generator.SavedStack, 2)

	gctx.Generator.Finish()
	require.False(t, gctx.Generator.Resume())
}

func TestGlobalEnvironmentSharesRealmInterner(t *testing.T) {
	_, r := newTestRealm(t)
	require.NoError(t, r.GlobalEnv.CreateGlobalVarBinding("x", false))
	require.NoError(t, r.GlobalEnv.InitializeBinding("x", value.Number(3)))

	v, err := r.GlobalEnv.GetBindingValue("x", false)
	require.NoError(t, err)
	require.Equal(t, 3.0, v.Num())
}
