package promise

import (
	"testing"

	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain guards the job queue's tests with goleak: jobs drain
// synchronously within SolveJobs (the runtime is single-threaded
// cooperative), so nothing in this package should ever leave a
// goroutine or timer running past a test's return.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRealm(t *testing.T) (*gcheap.Heap, *context.Realm) {
	t.Helper()
	h := gcheap.New()
	h.Enable(false)
	r := context.NewRealm(h, value.Null, strprim.NewRegistry())
	return h, r
}

func numberHandler(fn func(float64) float64) object.CallHandler {
	return func(_ value.Value, args []value.Value) (value.Value, error) {
		return value.Number(fn(argOrUndefined(args, 0).Num())), nil
	}
}

func TestFulfillPromiseSettlesPendingReactions(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	capObj := NewCapability(h, q, r)
	require.Equal(t, Pending, StateOf(capObj.Promise).State)

	_, err := object.CallFunction(capObj.Resolve, value.Undefined, []value.Value{value.Number(7)})
	require.NoError(t, err)

	require.Equal(t, Fulfilled, StateOf(capObj.Promise).State)
	require.Equal(t, 7.0, StateOf(capObj.Promise).Result.Num())

	// A second resolve/reject call is a no-op.
	_, err = object.CallFunction(capObj.Reject, value.Undefined, []value.Value{value.Number(99)})
	require.NoError(t, err)
	require.Equal(t, 7.0, StateOf(capObj.Promise).Result.Num())
}

func TestResolveWithSelfRejectsTypeError(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	capObj := NewCapability(h, q, r)
	_, err := object.CallFunction(capObj.Resolve, value.Undefined, []value.Value{capObj.Promise.Value()})
	require.NoError(t, err)

	require.Equal(t, Rejected, StateOf(capObj.Promise).State)
	reasonObj := object.FromValue(StateOf(capObj.Promise).Result)
	name, _ := reasonObj.Get(r.Interner.Intern("name"), reasonObj.Value())
	require.Equal(t, "TypeError", strprim.ToGoString(name))
}

func TestResolveChainPropagatesThroughThen(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	cap1 := NewCapability(h, q, r)
	_, err := object.CallFunction(cap1.Resolve, value.Undefined, []value.Value{value.Number(1)})
	require.NoError(t, err)

	plusOne := object.NewFunction(h, value.Null, "", 1, numberHandler(func(x float64) float64 { return x + 1 }), nil)
	timesTen := object.NewFunction(h, value.Null, "", 1, numberHandler(func(x float64) float64 { return x * 10 }), nil)

	p2 := Then(h, q, r, cap1.Promise, plusOne, nil)
	p3 := Then(h, q, r, p2, timesTen, nil)

	q.Pump(nil)

	require.Equal(t, Fulfilled, StateOf(p3).State)
	require.Equal(t, 20.0, StateOf(p3).Result.Num())
}

func TestThenableResolutionDefersByOneJobTurn(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	thenable := object.New(h, value.Null)
	thenFn := object.NewFunction(h, value.Null, "then", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		resolveArg := argOrUndefined(args, 0)
		_, err := object.CallFunction(object.FromValue(resolveArg), value.Undefined, []value.Value{value.Number(42)})
		return value.Undefined, err
	}, nil)
	_, err := thenable.DefineOwnProperty(r.Interner.Intern("then"), object.DataDescriptor(thenFn.Value(), true, true, true))
	require.NoError(t, err)

	capObj := NewCapability(h, q, r)
	_, err = object.CallFunction(capObj.Resolve, value.Undefined, []value.Value{thenable.Value()})
	require.NoError(t, err)

	var fired bool
	var observed value.Value
	cb := object.NewFunction(h, value.Null, "", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		fired = true
		observed = argOrUndefined(args, 0)
		return value.Undefined, nil
	}, nil)
	Then(h, q, r, capObj.Promise, cb, nil)

	require.True(t, q.Step(nil), "the then job should have run")
	require.False(t, fired, "callback must not fire after only one microtask turn")

	require.True(t, q.Step(nil), "the reaction job should have run")
	require.True(t, fired, "callback should fire after the second microtask turn")
	require.Equal(t, 42.0, observed.Num())
}

func TestHandlerThrowRejectsDownstreamCapability(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	cap1 := NewCapability(h, q, r)
	_, err := object.CallFunction(cap1.Resolve, value.Undefined, []value.Value{value.Number(1)})
	require.NoError(t, err)

	boom := object.NewFunction(h, value.Null, "", 1, func(_ value.Value, _ []value.Value) (value.Value, error) {
		return value.Undefined, rjerrors.RangeError("out of range")
	}, nil)

	p2 := Then(h, q, r, cap1.Promise, boom, nil)
	q.Pump(nil)

	require.Equal(t, Rejected, StateOf(p2).State)
	reasonObj := object.FromValue(StateOf(p2).Result)
	name, _ := reasonObj.Get(r.Interner.Intern("name"), reasonObj.Value())
	require.Equal(t, "RangeError", strprim.ToGoString(name))
}

func TestRejectedPromiseWithNoReactionIsUnhandled(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	capObj := NewCapability(h, q, r)
	_, err := object.CallFunction(capObj.Reject, value.Undefined, []value.Value{value.Number(-1)})
	require.NoError(t, err)

	unhandled := q.UnhandledRejections()
	require.Len(t, unhandled, 1)
	require.Same(t, capObj.Promise, unhandled[0])

	// Draining clears the tracked set.
	require.Empty(t, q.UnhandledRejections())
}

func TestThenAfterRejectionMarksHandled(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()

	capObj := NewCapability(h, q, r)
	_, err := object.CallFunction(capObj.Reject, value.Undefined, []value.Value{value.Number(-1)})
	require.NoError(t, err)

	// A reaction attached after settlement, before anyone asked for the
	// unhandled set, should remove it from that set (the real algorithm
	// flips PromiseIsHandled regardless of which branch PerformPromiseThen
	// takes).
	noop := object.NewFunction(h, value.Null, "", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		return argOrUndefined(args, 0), nil
	}, nil)
	Then(h, q, r, capObj.Promise, nil, noop)

	require.Empty(t, q.UnhandledRejections())
}

func TestQueueIsGCRootForQueuedJob(t *testing.T) {
	h, r := newTestRealm(t)
	q := NewQueue()
	h.AddRootProvider(q)

	capObj := NewCapability(h, q, r)
	thenable := object.New(h, value.Null)
	thenFn := object.NewFunction(h, value.Null, "then", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		resolveArg := argOrUndefined(args, 0)
		_, err := object.CallFunction(object.FromValue(resolveArg), value.Undefined, []value.Value{value.Number(5)})
		return value.Undefined, err
	}, nil)
	_, err := thenable.DefineOwnProperty(r.Interner.Intern("then"), object.DataDescriptor(thenFn.Value(), true, true, true))
	require.NoError(t, err)

	_, err = object.CallFunction(capObj.Resolve, value.Undefined, []value.Value{thenable.Value()})
	require.NoError(t, err)
	require.Equal(t, 1, q.Len())

	// Nothing but the queued then-job now roots promiseObj/thenable/
	// thenFn; a collection here must not sweep what the job still needs.
	h.Collect()

	q.Pump(nil)
	require.Equal(t, Fulfilled, StateOf(capObj.Promise).State)
	require.Equal(t, 5.0, StateOf(capObj.Promise).Result.Num())
}
