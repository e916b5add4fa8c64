package builtin

import (
	"math"
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestMapSetGetHasDeleteRoundTrip(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	m := NewMap(h, value.Null, false)
	key := strprim.FromUTF8(h, "a")

	require.NoError(t, MapSet(m, key, value.Number(1)))
	ok, err := MapHas(m, key)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := MapGet(m, key)
	require.NoError(t, err)
	require.Equal(t, 1.0, got.Num())

	deleted, err := MapDelete(m, key)
	require.NoError(t, err)
	require.True(t, deleted)

	ok, err = MapHas(m, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMapTreatsNaNKeysAsIdenticalAndZerosAsIdentical(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	m := NewMap(h, value.Null, false)
	require.NoError(t, MapSet(m, value.Number(math.NaN()), value.Number(1)))
	// A second, independently produced NaN bit pattern must still
	// collide with the first under SameValueZero.
	otherNaN := math.Float64frombits(math.Float64bits(math.NaN()) ^ 0x1)
	ok, err := MapHas(m, value.Number(otherNaN))
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, MapSet(m, value.Number(0), value.Number(2)))
	got, err := MapGet(m, value.Number(math.Copysign(0, -1)))
	require.NoError(t, err)
	require.Equal(t, 2.0, got.Num())
}

func TestMapForEachVisitsInInsertionOrder(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	m := NewMap(h, value.Null, false)
	k1, k2 := strprim.FromUTF8(h, "first"), strprim.FromUTF8(h, "second")
	require.NoError(t, MapSet(m, k1, value.Number(1)))
	require.NoError(t, MapSet(m, k2, value.Number(2)))

	var seen []float64
	require.NoError(t, MapForEach(m, func(val, _ value.Value) error {
		seen = append(seen, val.Num())
		return nil
	}))
	require.Equal(t, []float64{1, 2}, seen)
}

func TestSetAddHasDelete(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	s := NewSet(h, value.Null, false)
	require.NoError(t, SetAdd(s, value.Number(5)))
	ok, err := SetHas(s, value.Number(5))
	require.NoError(t, err)
	require.True(t, ok)

	size, err := SetSize(s)
	require.NoError(t, err)
	require.Equal(t, 1, size)
}

func TestWeakMapRejectsNonObjectKeys(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	wm := NewMap(h, value.Null, true)
	err := MapSet(wm, value.Number(1), value.Number(2))
	require.Error(t, err)
}

func TestWeakMapEntryDroppedWhenKeyIsCollected(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	sched := &collectingScheduler{}
	h.SetFinalizerScheduler(sched)

	wm := NewMap(h, value.Null, true)
	h.AddRootProvider(stubRootBuiltin{wm.Thing})

	keyObj := object.New(h, value.Null)
	require.NoError(t, MapSet(wm, keyObj.Value(), value.Number(42)))

	size, err := MapSize(wm)
	require.NoError(t, err)
	require.Equal(t, 1, size)

	// keyObj is now unreachable (nothing roots it); collecting schedules
	// the registered weak ref's finalizer as a job, and running that job
	// drops the WeakMap's entry for it.
	h.Collect()
	for _, fn := range sched.pending {
		fn()
	}

	size, err = MapSize(wm)
	require.NoError(t, err)
	require.Equal(t, 0, size)
}

// collectingScheduler stands in for the job queue: it holds scheduled
// finalizers until the test runs them.
type collectingScheduler struct{ pending []func() }

func (s *collectingScheduler) ScheduleFinalizer(fn func()) { s.pending = append(s.pending, fn) }

type stubRootBuiltin struct{ t *gcheap.Thing }

func (s stubRootBuiltin) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	return append(out, s.t)
}
