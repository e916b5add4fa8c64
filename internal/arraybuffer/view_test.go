package arraybuffer

import (
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestViewGetSetElementRoundTrip(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 8)
	v := NewView(h, buf, Int32, 0, 2, true)
	require.Equal(t, 2, v.Length())

	ok, err := v.SetElement(0, value.Number(-5))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = v.SetElement(1, value.Number(12345))
	require.NoError(t, err)
	require.True(t, ok)

	got0, ok := v.GetElement(0)
	require.True(t, ok)
	require.Equal(t, -5.0, got0.Num())

	got1, ok := v.GetElement(1)
	require.True(t, ok)
	require.Equal(t, 12345.0, got1.Num())
}

func TestViewOutOfRangeIndexReportsAbsent(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 4)
	v := NewView(h, buf, Uint8, 0, 4, true)

	_, ok := v.GetElement(4)
	require.False(t, ok)

	ok, err := v.SetElement(-1, value.Number(1))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestViewDetachedBufferFailsReadsAndWrites(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 4)
	v := NewView(h, buf, Uint8, 0, 4, true)
	StateOf(buf).Detach()

	_, ok := v.GetElement(0)
	require.False(t, ok)

	_, err := v.SetElement(0, value.Number(1))
	require.Error(t, err)
}

func TestViewWithByteOffsetIntoSharedBuffer(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewSharedArrayBuffer(h, value.Null, 8)
	v := NewView(h, buf, Uint16, 4, 2, true)

	ok, err := v.SetElement(0, value.Number(100))
	require.NoError(t, err)
	require.True(t, ok)

	raw := StateOf(buf).Block.Bytes()
	require.Equal(t, byte(100), raw[4])
}

func TestIntegerIndexedObjectRootsItsBackingBuffer(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 4)
	copy(StateOf(buf).Block.Bytes(), []byte{7, 0, 0, 0})
	v := NewView(h, buf, Uint8, 0, 4, true)
	ta := object.NewIntegerIndexedObject(h, value.Null, v)
	h.AddRootProvider(stubRoot{ta.Thing})

	// Nothing but the typed array itself is rooted; the buffer it reads
	// through must survive collection via ScanExt -> View.ScanRefs.
	h.Collect()

	got, ok := v.GetElement(0)
	require.True(t, ok)
	require.Equal(t, 7.0, got.Num())
}

type stubRoot struct{ t *gcheap.Thing }

func (s stubRoot) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	return append(out, s.t)
}
