package arraybuffer

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/value"
)

// BufferState is the Ext payload of an ArrayBuffer/SharedArrayBuffer
// ordinary object: a data block reference plus
// a byte length. Modeled as an ordinary object's Ext rather than a
// dedicated object.Kind for the same reason internal/promise gave for
// promises: neither overrides any of the ten internal operations.
type BufferState struct {
	Block      *DataBlock
	ByteLength int
	Shared     bool
	detached   bool
}

// ScanExt has nothing to contribute — a data block holds raw bytes, not
// script-visible references.
func (b *BufferState) ScanExt(func(value.Value)) {}

// FreeExt releases the data-block reference once the buffer object
// itself is swept (object.go's generic Ext-finalizer hook).
func (b *BufferState) FreeExt() {
	if b.Block != nil {
		b.Block.Unref()
	}
}

// NewArrayBuffer allocates a private (non-shared) array buffer object
// backed by a fresh zero-filled data block.
func NewArrayBuffer(heap *gcheap.Heap, proto value.Value, byteLength int) *object.Object {
	o := object.New(heap, proto)
	o.Ext = &BufferState{Block: NewDataBlock(byteLength, false), ByteLength: byteLength}
	return o
}

// NewSharedArrayBuffer allocates a shared array buffer object. Unlike
// ArrayBuffer it is never detachable.
func NewSharedArrayBuffer(heap *gcheap.Heap, proto value.Value, byteLength int) *object.Object {
	o := object.New(heap, proto)
	o.Ext = &BufferState{Block: NewDataBlock(byteLength, true), ByteLength: byteLength, Shared: true}
	return o
}

// StateOf recovers the BufferState Ext payload from a buffer object.
func StateOf(o *object.Object) *BufferState {
	return o.Ext.(*BufferState)
}

// IsDetached reports whether the buffer's data block has been dropped.
func (b *BufferState) IsDetached() bool { return b.detached }

// Detach drops the buffer's data-block reference and zeros its
// length. A no-op if already detached; never called on a
// shared buffer's state by this package's own callers.
func (b *BufferState) Detach() {
	if b.detached {
		return
	}
	if b.Block != nil {
		b.Block.Unref()
	}
	b.Block = nil
	b.ByteLength = 0
	b.detached = true
}

// CheckNotDetached is the guard every buffer operation runs first.
func (b *BufferState) CheckNotDetached() error {
	if b.detached {
		return rjerrors.TypeError("cannot perform this operation on a detached ArrayBuffer")
	}
	return nil
}

// Transfer hands the buffer's storage to a freshly created ArrayBuffer
// of newByteLength bytes, detaching src. A newByteLength
// smaller than the source truncates, larger zero-fills the tail (the
// destination's data block already starts zero-filled).
func Transfer(heap *gcheap.Heap, proto value.Value, src *object.Object, newByteLength int) (*object.Object, error) {
	return transfer(heap, proto, src, newByteLength)
}

// TransferToFixedLength is the fixed-length variant of Transfer.
// Resizable array buffers are not modeled, so the two behave
// identically today; kept as a distinct function so a resizable-buffer
// addition later has its seam already in place.
func TransferToFixedLength(heap *gcheap.Heap, proto value.Value, src *object.Object, newByteLength int) (*object.Object, error) {
	return transfer(heap, proto, src, newByteLength)
}

func transfer(heap *gcheap.Heap, proto value.Value, src *object.Object, newByteLength int) (*object.Object, error) {
	st := StateOf(src)
	if st.Shared {
		return nil, rjerrors.TypeError("cannot transfer a SharedArrayBuffer")
	}
	if err := st.CheckNotDetached(); err != nil {
		return nil, err
	}
	dst := NewArrayBuffer(heap, proto, newByteLength)
	copy(StateOf(dst).Block.Bytes(), st.Block.Bytes())
	st.Detach()
	return dst, nil
}
