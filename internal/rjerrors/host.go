package rjerrors

import (
	"sort"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// logger is the runtime-wide sink for host/catastrophic failures:
// allocation failure, invariant breach, corrupt bytecode, uncaught job
// errors. Nop by default so embedding the runtime never forces a logging
// dependency on the host; SetLogger overrides it.
var logger *zap.SugaredLogger = zap.NewNop().Sugar()

// SetLogger installs the structured logger used by DumpHostFailure and
// DumpHeapCensus. Passing nil restores the no-op logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l
}

// Logger returns the currently installed logger.
func Logger() *zap.SugaredLogger {
	return logger
}

// HostFailure is a diagnostic asserting a programmer-error precondition
// broke (receiver type, tag validity, corrupt bytecode) rather than a
// catchable language error. It is never wrapped in a LangError and never
// crosses into script-visible state.
type HostFailure struct {
	Component string
	Message   string
	Err       error
}

func (h *HostFailure) Error() string {
	if h.Err != nil {
		return h.Component + ": " + h.Message + ": " + h.Err.Error()
	}
	return h.Component + ": " + h.Message
}

func (h *HostFailure) Unwrap() error { return h.Err }

// DumpHostFailure reports a catastrophic failure through the host log
// channel. Callers that can still make progress (e.g. the job pump
// catching a panic from a finalizer) call this instead of propagating the
// failure synchronously; jobs must not throw out of the pump.
func DumpHostFailure(f *HostFailure) {
	if f == nil {
		return
	}
	logger.Errorw("host failure",
		"component", f.Component,
		"message", f.Message,
		"cause", f.Err,
	)
}

// DumpHeapCensus reports an interned-string-table census through the host
// log channel: a host debugging a
// leak wants to see which property keys survived a collection, and a
// natural sort ("prop2" before "prop10", where a plain byte-wise sort puts
// it after) makes a census of hundreds of generated keys legible at a glance.
func DumpHeapCensus(component string, keys []string) {
	sorted := append([]string(nil), keys...)
	sort.Sort(natural.StringSlice(sorted))
	logger.Infow("heap census", "component", component, "interned_keys", sorted, "count", len(sorted))
}
