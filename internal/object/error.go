package object

import (
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// FromError builds the ordinary object an Error-kind LangError renders as
// once it crosses from the host error channel into a script-visible
// value.
// proto is supplied by the caller — the real %TypeError.prototype% etc.
// once internal/builtin installs the realm's intrinsics, value.Null
// until then — the same out-of-scope-prototype convention ToObject uses.
func FromError(heap *gcheap.Heap, in *strprim.Interner, proto value.Value, err *rjerrors.LangError) *Object {
	o := New(heap, proto)
	_, _ = o.DefineOwnProperty(in.Intern("name"), DataDescriptor(strprim.FromUTF8(heap, err.Kind.String()), true, false, true))
	_, _ = o.DefineOwnProperty(in.Intern("message"), DataDescriptor(strprim.FromUTF8(heap, err.Message), true, false, true))
	if len(err.Stack) > 0 {
		_, _ = o.DefineOwnProperty(in.Intern("stack"), DataDescriptor(strprim.FromUTF8(heap, err.Format(false)), true, false, true))
	}
	return o
}
