package runtime

import (
	"fmt"
	"io"

	"github.com/cwbudde/ratjs/internal/rjerrors"
)

// Throw records err as the pending language error in the runtime's
// fixed error slots, sited at the currently running context.
func (rt *Runtime) Throw(err *rjerrors.LangError) {
	ctx := rt.Contexts.Current()
	ip := 0
	if ctx != nil {
		ip = ctx.IP
	}
	rt.Errors.Throw(err, ctx, ip)
}

// ThrowTypeError mints and throws a TypeError, returning it so call
// sites can both set the pending-error flag and propagate a Go error in
// one expression (the common shape internal/object's own TypeError
// helpers are used from).
func (rt *Runtime) ThrowTypeError(format string, args ...any) error {
	err := rjerrors.TypeError(format, args...)
	rt.Throw(err)
	return err
}

// ThrowRangeError mints and throws a RangeError.
func (rt *Runtime) ThrowRangeError(format string, args ...any) error {
	err := rjerrors.RangeError(format, args...)
	rt.Throw(err)
	return err
}

// ThrowReferenceError mints and throws a ReferenceError.
func (rt *Runtime) ThrowReferenceError(format string, args ...any) error {
	err := rjerrors.ReferenceError(format, args...)
	rt.Throw(err)
	return err
}

// ThrowSyntaxError mints and throws a SyntaxError (the Script producer
// is external, but eval() on bad source reaches this path from
// inside the core).
func (rt *Runtime) ThrowSyntaxError(format string, args ...any) error {
	err := rjerrors.SyntaxError(format, args...)
	rt.Throw(err)
	return err
}

// Pending reports whether a language error is in flight, letting an
// external interpreter check the error flag between operations
// without inspecting the stashed value.
func (rt *Runtime) Pending() bool { return rt.Errors.Pending() }

// Catch clears the pending-error flag and returns the stashed value,
// mirroring bytecode `catch`.
func (rt *Runtime) Catch() *rjerrors.LangError { return rt.Errors.Catch() }

// DumpErrorStack writes the pending error (if any) to w via the host
// error-dump hook, without clearing it.
func (rt *Runtime) DumpErrorStack(w io.Writer, color bool) {
	err := rt.Errors.Value()
	if err == nil {
		return
	}
	fmt.Fprintln(w, err.Format(color))
}
