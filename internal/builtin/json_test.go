package builtin

import (
	"testing"

	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
)

func TestStringifyPrimitives(t *testing.T) {
	raw, ok, err := Stringify(value.Number(3))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", raw)

	raw, ok, err = Stringify(value.Bool(true))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", raw)

	_, ok, err = Stringify(value.Undefined)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStringifyStringEscapesContent(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	raw, ok, err := Stringify(strprim.FromUTF8(h, "a\"b"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `"a\"b"`, raw)
}

func TestStringifyObjectSkipsUndefinedAndFunctionProperties(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	o := object.New(h, value.Null)
	nameKey := strprim.FromUTF8(h, "name")
	hiddenKey := strprim.FromUTF8(h, "hidden")
	fnKey := strprim.FromUTF8(h, "fn")

	_, _ = o.DefineOwnProperty(nameKey, object.DataDescriptor(strprim.FromUTF8(h, "rj"), true, true, true))
	_, _ = o.DefineOwnProperty(hiddenKey, object.DataDescriptor(value.Undefined, true, true, true))
	fn := object.NewFunction(h, value.Null, "fn", 0, func(value.Value, []value.Value) (value.Value, error) {
		return value.Undefined, nil
	}, nil)
	_, _ = o.DefineOwnProperty(fnKey, object.DataDescriptor(fn.Value(), true, true, true))

	raw, ok, err := Stringify(o.Value())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"name":"rj"}`, raw)
}

func TestStringifyEscapesDottedPropertyNames(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)

	o := object.New(h, value.Null)
	key := strprim.FromUTF8(h, "a.b")
	_, _ = o.DefineOwnProperty(key, object.DataDescriptor(value.Number(1), true, true, true))

	raw, ok, err := Stringify(o.Value())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"a.b":1}`, raw)
}

func TestParseJSONRoundTripsObjectsAndArrays(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)
	in := strprim.NewInterner(h)

	v, err := ParseJSON(h, in, value.Null, value.Null, `{"a":1,"b":[true,null,"x"]}`)
	require.NoError(t, err)
	require.True(t, v.IsObject())

	o := object.FromValue(v)
	aVal, err := o.Get(in.Intern("a"), v)
	require.NoError(t, err)
	require.Equal(t, 1.0, aVal.Num())

	bVal, err := o.Get(in.Intern("b"), v)
	require.NoError(t, err)
	require.True(t, bVal.IsObject())

	bObj := object.FromValue(bVal)
	lenVal, err := bObj.Get(in.Intern("length"), bVal)
	require.NoError(t, err)
	require.Equal(t, 3.0, lenVal.Num())

	first, err := bObj.Get(value.IndexString(0), bVal)
	require.NoError(t, err)
	require.Equal(t, value.True, first)
}

func TestParseJSONRejectsInvalidText(t *testing.T) {
	h := gcheap.New()
	h.Enable(false)
	in := strprim.NewInterner(h)

	_, err := ParseJSON(h, in, value.Null, value.Null, `{not json`)
	require.Error(t, err)
}
