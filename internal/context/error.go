package context

import "github.com/cwbudde/ratjs/internal/rjerrors"

// ErrorState is the runtime's pending-error flag and stashed error
// value: the fixed slots where a throw records the faulting context,
// ip, and error value, and the flag the interpreter checks between
// operations. One ErrorState is owned per runtime
// instance, not per context — it records where the error happened, the
// context stack itself has already unwound or is mid-unwind by the time
// catch code inspects it.
type ErrorState struct {
	pending bool
	value   *rjerrors.LangError

	// FaultingContext/FaultingIP are recorded at Throw time for
	// stack-trace dumping.
	FaultingContext *Context
	FaultingIP      int
}

// NewErrorState creates a clear (no pending error) state.
func NewErrorState() *ErrorState {
	return &ErrorState{}
}

// Throw sets the pending-error flag and records the site, mirroring
// bytecode `throw`.
func (s *ErrorState) Throw(err *rjerrors.LangError, at *Context, ip int) {
	s.pending = true
	s.value = err
	s.FaultingContext = at
	s.FaultingIP = ip
}

// Pending reports whether an error is currently in flight, letting the
// (external) interpreter check the error flag between operations
// cheaply without inspecting the stashed value.
func (s *ErrorState) Pending() bool { return s.pending }

// Value returns the stashed error, or nil if none is pending.
func (s *ErrorState) Value() *rjerrors.LangError { return s.value }

// Catch clears the flag and returns the stashed value, mirroring
// bytecode `catch`. Returns nil, and leaves the state untouched, if no
// error is pending.
func (s *ErrorState) Catch() *rjerrors.LangError {
	if !s.pending {
		return nil
	}
	v := s.value
	s.pending = false
	s.value = nil
	s.FaultingContext = nil
	s.FaultingIP = 0
	return v
}
