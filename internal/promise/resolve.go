package promise

import (
	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/strprim"
	"github.com/cwbudde/ratjs/internal/value"
)

// errorToValue converts a Go error from a native call into the
// script-visible rejection value it becomes. This core's error channel
// only models Error-object throws; arbitrary-value throw
// (`throw 42`) is the interpreter's concern, out of scope here, so a
// non-LangError is wrapped as a generic Error with its Go message.
func errorToValue(heap *gcheap.Heap, in *strprim.Interner, err error) value.Value {
	le, ok := err.(*rjerrors.LangError)
	if !ok {
		le = rjerrors.New(rjerrors.KindError, "%s", err.Error())
	}
	return object.FromError(heap, in, value.Null, le).Value()
}

// resolvingFunctionsRecord is the shared "alreadyResolved" flag two
// paired resolve/reject closures close over. It is distinct from the promise's own
// settlement state: resolving with a thenable defers the actual
// Fulfill/Reject call to a later job, so this flag must gate re-entrant
// calls to resolve/reject in the meantime, not just re-settlement.
type resolvingFunctionsRecord struct {
	resolved bool
}

// CreateResolvingFunctions builds the paired resolve/reject native
// functions for promiseObj, implementing the six-step
// resolve algorithm verbatim.
func CreateResolvingFunctions(heap *gcheap.Heap, queue *Queue, realm *context.Realm, promiseObj *object.Object) (resolve, reject *object.Object) {
	rec := &resolvingFunctionsRecord{}
	funcProto := protoOrNull(realm, FunctionProtoKey)

	resolve = object.NewFunction(heap, funcProto, "", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		x := argOrUndefined(args, 0)
		if rec.resolved {
			return value.Undefined, nil
		}
		rec.resolved = true

		if object.SameValue(x, promiseObj.Value()) {
			RejectPromise(heap, queue, realm, promiseObj, errorToValue(heap, realm.Interner,
				rjerrors.TypeError("chaining cycle detected for promise")))
			return value.Undefined, nil
		}
		if !x.IsObject() {
			FulfillPromise(heap, queue, realm, promiseObj, x)
			return value.Undefined, nil
		}

		thenVal, err := object.FromValue(x).Get(realm.Interner.Intern("then"), x)
		if err != nil {
			RejectPromise(heap, queue, realm, promiseObj, errorToValue(heap, realm.Interner, err))
			return value.Undefined, nil
		}
		if !thenVal.IsObject() || !object.FromValue(thenVal).IsCallable() {
			FulfillPromise(heap, queue, realm, promiseObj, x)
			return value.Undefined, nil
		}

		enqueueResolveThenableJob(heap, queue, realm, promiseObj, x, object.FromValue(thenVal))
		return value.Undefined, nil
	}, nil)

	reject = object.NewFunction(heap, funcProto, "", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
		if rec.resolved {
			return value.Undefined, nil
		}
		rec.resolved = true
		RejectPromise(heap, queue, realm, promiseObj, argOrUndefined(args, 0))
		return value.Undefined, nil
	}, nil)

	return resolve, reject
}

// FulfillPromise transitions promiseObj to fulfilled and triggers its
// pending fulfill reactions. A no-op if already settled — a settled
// promise's state never changes again.
func FulfillPromise(heap *gcheap.Heap, queue *Queue, realm *context.Realm, promiseObj *object.Object, result value.Value) {
	st := StateOf(promiseObj)
	if st.State != Pending {
		return
	}
	reactions := st.FulfillReactions
	st.Result = result
	st.FulfillReactions = nil
	st.RejectReactions = nil
	st.State = Fulfilled
	triggerPromiseReactions(heap, queue, realm, reactions, result)
}

// RejectPromise transitions promiseObj to rejected and triggers its
// pending reject reactions. A promise rejected with no reactions yet
// registered is tracked as potentially unhandled for the host to
// report at its next microtask checkpoint.
func RejectPromise(heap *gcheap.Heap, queue *Queue, realm *context.Realm, promiseObj *object.Object, reason value.Value) {
	st := StateOf(promiseObj)
	if st.State != Pending {
		return
	}
	reactions := st.RejectReactions
	st.Result = reason
	st.FulfillReactions = nil
	st.RejectReactions = nil
	st.State = Rejected
	if len(reactions) == 0 && queue != nil {
		queue.trackUnhandled(promiseObj)
	}
	triggerPromiseReactions(heap, queue, realm, reactions, reason)
}

// enqueueResolveThenableJob is the "then job": it calls then with
// fresh resolve/reject wrappers. If the call to then
// itself throws, the thenable's own promise is rejected with the
// caught error rather than letting it escape the job pump.
func enqueueResolveThenableJob(heap *gcheap.Heap, queue *Queue, realm *context.Realm, promiseObj *object.Object, thenable value.Value, thenFn *object.Object) {
	refs := []*gcheap.Thing{promiseObj.Thing, thenFn.Thing}
	if isHeapValue(thenable) {
		refs = append(refs, thenable.Ref().Thing)
	}
	queue.Enqueue(heap, realm, refs, func() error {
		resolveFn, rejectFn := CreateResolvingFunctions(heap, queue, realm, promiseObj)
		_, err := object.CallFunction(thenFn, thenable, []value.Value{resolveFn.Value(), rejectFn.Value()})
		if err != nil {
			_, cerr := object.CallFunction(rejectFn, value.Undefined, []value.Value{errorToValue(heap, realm.Interner, err)})
			return cerr
		}
		return nil
	})
}
