package arraybuffer

import (
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestDetachDropsBlockAndZeroesLength(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 16)
	st := StateOf(buf)
	require.False(t, st.IsDetached())
	require.Equal(t, 16, st.ByteLength)

	st.Detach()
	require.True(t, st.IsDetached())
	require.Equal(t, 0, st.ByteLength)
}

func TestCheckNotDetachedErrorsAfterDetach(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 4)
	st := StateOf(buf)
	require.NoError(t, st.CheckNotDetached())

	st.Detach()
	require.Error(t, st.CheckNotDetached())
}

func TestTransferCopiesAndDetachesSource(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	src := NewArrayBuffer(h, value.Null, 4)
	srcSt := StateOf(src)
	copy(srcSt.Block.Bytes(), []byte{1, 2, 3, 4})

	dst, err := Transfer(h, value.Null, src, 6)
	require.NoError(t, err)
	require.True(t, srcSt.IsDetached())

	dstSt := StateOf(dst)
	require.Equal(t, 6, dstSt.ByteLength)
	require.Equal(t, []byte{1, 2, 3, 4, 0, 0}, dstSt.Block.Bytes())
}

func TestTransferTruncatesWhenNewLengthSmaller(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	src := NewArrayBuffer(h, value.Null, 4)
	copy(StateOf(src).Block.Bytes(), []byte{9, 9, 9, 9})

	dst, err := Transfer(h, value.Null, src, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9}, StateOf(dst).Block.Bytes())
}

func TestTransferRejectsSharedArrayBuffer(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	shared := NewSharedArrayBuffer(h, value.Null, 4)
	_, err := Transfer(h, value.Null, shared, 4)
	require.Error(t, err)
}

func TestSharedArrayBufferReportsShared(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	shared := NewSharedArrayBuffer(h, value.Null, 4)
	require.True(t, StateOf(shared).Shared)
	require.True(t, StateOf(shared).Block.Shared())
}

func TestFreeExtReleasesDataBlockOnCollect(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	buf := NewArrayBuffer(h, value.Null, 4)
	block := StateOf(buf).Block

	// Nothing roots buf; a collection sweeps it and must run FreeExt,
	// dropping the data block's last reference.
	h.Collect()
	require.Nil(t, block.Bytes())
}
