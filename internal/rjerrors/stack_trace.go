package rjerrors

import (
	"fmt"
	"strings"
)

// Site identifies a location inside a running Script: a function name plus
// a bytecode instruction pointer, resolved to a source line through the
// script's line table when available. The core treats the interpreter's
// instruction pointer as opaque;
// only the site it points at is meaningful here.
type Site struct {
	Script   string
	Function string
	IP       int
	Line     int
}

// StackFrame is a single frame in a captured call stack, recorded when a
// Context is pushed and retained on the stashed error value.
type StackFrame struct {
	Site Site
}

// String renders a frame as "FunctionName [script:line]", or just the
// function name when no site is available (native frames).
func (sf StackFrame) String() string {
	if sf.Site.Line == 0 && sf.Site.Script == "" {
		if sf.Site.Function == "" {
			return "<anonymous>"
		}
		return sf.Site.Function
	}
	name := sf.Site.Function
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%s [%s:%d]", name, sf.Site.Script, sf.Site.Line)
}

// StackTrace is a captured call stack, ordered oldest (bottom) to newest
// (top), matching the Context stack's own push order.
type StackTrace []StackFrame

// String renders the trace newest-frame-first, one frame per line — the
// conventional stack-dump order.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString("  at ")
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Reverse returns a copy of the trace with frame order reversed.
func (st StackTrace) Reverse() StackTrace {
	reversed := make(StackTrace, len(st))
	for i, frame := range st {
		reversed[len(st)-1-i] = frame
	}
	return reversed
}

// Top returns the most recently pushed frame, or the zero frame if empty.
func (st StackTrace) Top() (StackFrame, bool) {
	if len(st) == 0 {
		return StackFrame{}, false
	}
	return st[len(st)-1], true
}
