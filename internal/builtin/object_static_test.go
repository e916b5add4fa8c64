package builtin

import (
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestObjectAssignCopiesEnumerableOwnProperties(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	target := object.New(h, value.Null)
	src1 := object.New(h, value.Null)
	src2 := object.New(h, value.Null)

	aKey, bKey := strprim.FromUTF8(h, "a"), strprim.FromUTF8(h, "b")
	_, _ = src1.DefineOwnProperty(aKey, object.DataDescriptor(value.Number(1), true, true, true))
	_, _ = src2.DefineOwnProperty(bKey, object.DataDescriptor(value.Number(2), true, true, true))
	// non-enumerable property must not be copied
	hiddenKey := strprim.FromUTF8(h, "hidden")
	_, _ = src2.DefineOwnProperty(hiddenKey, object.DataDescriptor(value.Number(99), true, false, true))

	require.NoError(t, ObjectAssign(target, []*object.Object{src1, src2}))

	a, err := target.Get(aKey, target.Value())
	require.NoError(t, err)
	require.Equal(t, 1.0, a.Num())

	b, err := target.Get(bKey, target.Value())
	require.NoError(t, err)
	require.Equal(t, 2.0, b.Num())

	hasHidden, err := target.HasProperty(hiddenKey)
	require.NoError(t, err)
	require.False(t, hasHidden)
}

func TestObjectEntriesAndValues(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	o := object.New(h, value.Null)
	_, _ = o.DefineOwnProperty(strprim.FromUTF8(h, "x"), object.DataDescriptor(value.Number(1), true, true, true))
	_, _ = o.DefineOwnProperty(strprim.FromUTF8(h, "y"), object.DataDescriptor(value.Number(2), true, true, true))

	entries, err := ObjectEntries(o)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1.0, entries[0][1].Num())
	require.Equal(t, 2.0, entries[1][1].Num())

	values, err := ObjectValues(o)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, []float64{values[0].Num(), values[1].Num()})
}

func TestObjectFromEntriesBuildsObject(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	key := strprim.FromUTF8(h, "k")
	o := ObjectFromEntries(h, value.Null, [][2]value.Value{{key, value.Number(7)}})

	v, err := o.Get(key, o.Value())
	require.NoError(t, err)
	require.Equal(t, 7.0, v.Num())
}

func TestObjectGroupByGroupsInEncounterOrder(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)
	in := strprim.NewInterner(h)

	items := []value.Value{value.Number(1), value.Number(2), value.Number(3), value.Number(4)}
	evenKey := in.Intern("even")
	oddKey := in.Intern("odd")

	groups, err := ObjectGroupBy(h, in, value.Null, items, func(v value.Value, _ int) (value.Value, error) {
		if int(v.Num())%2 == 0 {
			return evenKey, nil
		}
		return oddKey, nil
	})
	require.NoError(t, err)

	evenGroup, err := groups.Get(evenKey, groups.Value())
	require.NoError(t, err)
	require.True(t, evenGroup.IsObject())

	evenObj := object.FromValue(evenGroup)
	lenVal, err := evenObj.Get(in.Intern("length"), evenGroup)
	require.NoError(t, err)
	require.Equal(t, 2.0, lenVal.Num())

	first, err := evenObj.Get(value.IndexString(0), evenGroup)
	require.NoError(t, err)
	require.Equal(t, 2.0, first.Num())
}
