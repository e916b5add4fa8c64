package arraybuffer

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
)

// View is a typed array's backing store: an element type plus a byte
// range into an ArrayBuffer/SharedArrayBuffer. It implements
// object.TypedArrayBacking so a KindIntegerIndexed exotic object can
// read/write elements without the object package needing to know about
// byte-level codecs — the dependency-inversion seam
// integer_indexed.go's own doc comment calls for.
//
// A view's byte order (LittleEndian) is fixed at construction by
// NewView's littleEndian argument; DataView is the one consumer of
// per-call endianness selection, which is why GetElement/SetElement in
// codec.go take littleEndian as a parameter rather than being pinned to
// the view.
type View struct {
	Heap         *gcheap.Heap
	Buffer       *object.Object
	Type         ElementType
	ByteOffset   int
	Len          int // element count
	LittleEndian bool
}

var _ object.TypedArrayBacking = (*View)(nil)

// NewView builds a typed-array backing over an existing buffer object.
func NewView(heap *gcheap.Heap, buffer *object.Object, t ElementType, byteOffset, length int, littleEndian bool) *View {
	return &View{Heap: heap, Buffer: buffer, Type: t, ByteOffset: byteOffset, Len: length, LittleEndian: littleEndian}
}

// Length implements object.TypedArrayBacking.
func (v *View) Length() int { return v.Len }

// ScanRefs implements the optional GC-scan hook object.IntegerIndexedState
// checks for: the view's backing ArrayBuffer must stay reachable for as
// long as the typed array object that reads through it does, even if
// nothing else in the script still references the buffer directly.
func (v *View) ScanRefs(addVal func(value.Value)) {
	addVal(v.Buffer.Value())
}

func (v *View) bytes() ([]byte, error) {
	st := StateOf(v.Buffer)
	if err := st.CheckNotDetached(); err != nil {
		return nil, err
	}
	return st.Block.Bytes(), nil
}

// GetElement implements object.TypedArrayBacking. A detached buffer or
// an out-of-range index reports "absent" rather than returning a stale
// value.
func (v *View) GetElement(index int) (value.Value, bool) {
	if index < 0 || index >= v.Len {
		return value.Undefined, false
	}
	buf, err := v.bytes()
	if err != nil {
		return value.Undefined, false
	}
	offset := v.ByteOffset + index*v.Type.Size()
	return GetElement(v.Heap, buf, offset, v.Type, v.LittleEndian), true
}

// SetElement implements object.TypedArrayBacking.
func (v *View) SetElement(index int, val value.Value) (bool, error) {
	if index < 0 || index >= v.Len {
		return false, nil
	}
	buf, err := v.bytes()
	if err != nil {
		return false, err
	}
	offset := v.ByteOffset + index*v.Type.Size()
	if err := SetElement(buf, offset, v.Type, val, v.LittleEndian); err != nil {
		return false, err
	}
	return true, nil
}
