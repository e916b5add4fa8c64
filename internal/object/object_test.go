package object

import (
	"os"
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func newTestHeap() *gcheap.Heap {
	h := gcheap.New()
	h.Enable(false)
	return h
}

// TestOwnPropertyKeysOrdering pins the [[OwnPropertyKeys]] order:
// ascending integer-index keys, then
// string keys in insertion order, then symbol keys in insertion order.
// Snapshotted so the ordering regresses loudly if the three-bucket split
// is ever accidentally collapsed into a single sort.
func TestOwnPropertyKeysOrdering(t *testing.T) {
	h := newTestHeap()
	o := New(h, value.Null)

	sym := strprim.NewSymbol(h, "tag", true)
	_, err := o.DefineOwnProperty(sym, DataDescriptor(value.Number(1), true, true, true))
	require.NoError(t, err)
	_, err = o.DefineOwnProperty(strprim.FromUTF8(h, "b"), DataDescriptor(value.Number(2), true, true, true))
	require.NoError(t, err)
	_, err = o.DefineOwnProperty(value.IndexString(10), DataDescriptor(value.Number(3), true, true, true))
	require.NoError(t, err)
	_, err = o.DefineOwnProperty(strprim.FromUTF8(h, "a"), DataDescriptor(value.Number(4), true, true, true))
	require.NoError(t, err)
	_, err = o.DefineOwnProperty(value.IndexString(2), DataDescriptor(value.Number(5), true, true, true))
	require.NoError(t, err)

	keys, err := o.OwnPropertyKeys()
	require.NoError(t, err)

	rendered := make([]string, len(keys))
	for i, k := range keys {
		switch k.Kind() {
		case value.KindIndexString:
			rendered[i] = "index:" + strprim.NumberToString(float64(k.IndexStringValue()))
		case value.KindString:
			rendered[i] = "string:" + strprim.ToGoString(k)
		case value.KindSymbol:
			desc, _ := strprim.SymbolDescription(k)
			rendered[i] = "symbol:" + desc
		}
	}
	snaps.MatchSnapshot(t, rendered)
}

func TestOrdinarySetWritesInheritedDataPropertyOnReceiver(t *testing.T) {
	h := newTestHeap()
	proto := New(h, value.Null)
	key := strprim.FromUTF8(h, "x")
	_, err := proto.DefineOwnProperty(key, DataDescriptor(value.Number(1), true, true, true))
	require.NoError(t, err)

	child := New(h, proto.Value())
	ok, err := child.Set(key, value.Number(2), child.Value())
	require.NoError(t, err)
	require.True(t, ok)

	desc, exists, err := child.GetOwnProperty(key)
	require.NoError(t, err)
	require.True(t, exists, "write to an inherited data property must define an own property on the receiver")
	require.Equal(t, value.Number(2), desc.Value)

	protoDesc, _, err := proto.GetOwnProperty(key)
	require.NoError(t, err)
	require.Equal(t, value.Number(1), protoDesc.Value, "the prototype's own property must be untouched")
}

func TestOrdinarySetCallsInheritedAccessorWithReceiverAsThis(t *testing.T) {
	h := newTestHeap()
	proto := New(h, value.Null)
	key := strprim.FromUTF8(h, "x")

	var sawReceiver value.Value
	setter := NewFunction(h, value.Null, "set x", 1, func(thisArg value.Value, args []value.Value) (value.Value, error) {
		sawReceiver = thisArg
		return value.Undefined, nil
	}, nil)
	_, err := proto.DefineOwnProperty(key, AccessorDescriptor(value.Undefined, setter.Value(), true, true))
	require.NoError(t, err)

	child := New(h, proto.Value())
	ok, err := child.Set(key, value.Number(5), child.Value())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, value.Equal(sawReceiver, child.Value()))

	_, exists, err := child.GetOwnProperty(key)
	require.NoError(t, err)
	require.False(t, exists, "an inherited accessor write must not define an own data property")
}

func TestWriteToNonExtensibleMissingPropertyFails(t *testing.T) {
	h := newTestHeap()
	o := New(h, value.Null)
	_, err := o.PreventExtensions()
	require.NoError(t, err)

	ok, err := o.Set(strprim.FromUTF8(h, "new"), value.Number(1), o.Value())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasOwnPropertyMatchesOwnPropertyKeys(t *testing.T) {
	h := newTestHeap()
	o := New(h, value.Null)
	key := strprim.FromUTF8(h, "k")
	_, err := o.DefineOwnProperty(key, DataDescriptor(value.Number(1), true, true, true))
	require.NoError(t, err)

	keys, err := o.OwnPropertyKeys()
	require.NoError(t, err)
	found := false
	for _, k := range keys {
		if value.Equal(k, key) {
			found = true
		}
	}
	_, exists, err := o.GetOwnProperty(key)
	require.NoError(t, err)
	require.Equal(t, found, exists, "has_own_property(o,k) must agree with k in own_property_keys(o)")
}

func TestFrozenObjectRejectsAllMutation(t *testing.T) {
	h := newTestHeap()
	o := New(h, value.Null)
	key := strprim.FromUTF8(h, "k")
	_, err := o.DefineOwnProperty(key, DataDescriptor(value.Number(1), true, true, true))
	require.NoError(t, err)

	ok, err := SetIntegrityLevel(o, Frozen)
	require.NoError(t, err)
	require.True(t, ok)

	frozen, err := TestIntegrityLevel(o, Frozen)
	require.NoError(t, err)
	require.True(t, frozen)

	setOK, err := o.Set(key, value.Number(2), o.Value())
	require.NoError(t, err)
	require.False(t, setOK, "no operation may mutate a frozen object")

	desc, _, err := o.GetOwnProperty(key)
	require.NoError(t, err)
	require.Equal(t, value.Number(1), desc.Value)

	deleteOK, err := o.Delete(key)
	require.NoError(t, err)
	require.False(t, deleteOK)

	defOK, err := o.DefineOwnProperty(strprim.FromUTF8(h, "new"), DataDescriptor(value.Number(3), true, true, true))
	require.NoError(t, err)
	require.False(t, defOK)
}

func TestDeleteRejectsNonConfigurable(t *testing.T) {
	h := newTestHeap()
	o := New(h, value.Null)
	key := strprim.FromUTF8(h, "k")
	_, err := o.DefineOwnProperty(key, DataDescriptor(value.Number(1), false, true, false))
	require.NoError(t, err)

	ok, err := o.Delete(key)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = o.HasProperty(key)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBoundFunctionCallChainsToTarget(t *testing.T) {
	h := newTestHeap()
	var seenThis value.Value
	var seenArgs []value.Value
	target := NewFunction(h, value.Null, "f", 2, func(thisArg value.Value, args []value.Value) (value.Value, error) {
		seenThis = thisArg
		seenArgs = args
		return value.Number(42), nil
	}, nil)

	boundThis := New(h, value.Null).Value()
	bound := NewFunction(h, value.Null, "bound f", 1, nil, nil)
	bound.Ext = &FunctionState{Target: target, BoundThis: boundThis, BoundArgs: []value.Value{value.Number(1)}}

	result, err := CallFunction(bound, value.Undefined, []value.Value{value.Number(2)})
	require.NoError(t, err)
	require.Equal(t, value.Number(42), result)
	require.True(t, value.Equal(seenThis, boundThis), "bound call must use the bound this, ignoring the caller's")
	require.Len(t, seenArgs, 2)
	require.Equal(t, value.Number(1), seenArgs[0])
	require.Equal(t, value.Number(2), seenArgs[1])
}
