package rjerrors

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// TestStackTraceRendering snapshots the newest-frame-first dump format a
// caught LangError's StackTrace.String() produces, so a future reordering
// of the frame-printing loop (or a change to StackFrame.String()'s
// "Function [script:line]" shape) shows up as a diff instead of silently
// changing what hosts print for uncaught errors.
func TestStackTraceRendering(t *testing.T) {
	trace := StackTrace{
		{Site: Site{Script: "main.js", Function: "outer", Line: 3}},
		{Site: Site{Script: "main.js", Function: "inner", Line: 10}},
		{Site: Site{Function: "nativeHelper"}},
	}
	snaps.MatchSnapshot(t, trace.String())
}

func TestStackTraceReverseRoundTrips(t *testing.T) {
	trace := StackTrace{
		{Site: Site{Function: "a"}},
		{Site: Site{Function: "b"}},
		{Site: Site{Function: "c"}},
	}
	reversed := trace.Reverse()
	if len(reversed) != len(trace) {
		t.Fatalf("reverse changed length: %d vs %d", len(reversed), len(trace))
	}
	for i := range trace {
		if reversed[len(trace)-1-i].Site.Function != trace[i].Site.Function {
			t.Fatalf("reverse did not mirror frame order at %d", i)
		}
	}
}

func TestStackTraceTopIsMostRecentlyPushed(t *testing.T) {
	trace := StackTrace{
		{Site: Site{Function: "bottom"}},
		{Site: Site{Function: "top"}},
	}
	top, ok := trace.Top()
	if !ok || top.Site.Function != "top" {
		t.Fatalf("Top() = %+v, %v; want the last-pushed frame", top, ok)
	}

	empty := StackTrace{}
	if _, ok := empty.Top(); ok {
		t.Fatalf("Top() on empty trace must report ok=false")
	}
}
