package context

import "github.com/cwbudde/ratjs/internal/gcheap"

// Stack is the running-function context stack: a call
// pushes a context (saves caller ip), updates realm if needed, and
// installs the callee's environments; return pops.
type Stack struct {
	frames []*Context
}

// NewStack creates an empty context stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push installs c as the running context.
func (s *Stack) Push(c *Context) {
	s.frames = append(s.frames, c)
}

// Pop removes and returns the running context, or nil if the stack is
// empty.
func (s *Stack) Pop() *Context {
	if len(s.frames) == 0 {
		return nil
	}
	n := len(s.frames) - 1
	c := s.frames[n]
	s.frames[n] = nil
	s.frames = s.frames[:n]
	return c
}

// Current returns the running context without popping it, or nil if the
// stack is empty.
func (s *Stack) Current() *Context {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports the number of frames currently on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// GCRoots implements gcheap.RootProvider — the context stack is a
// root set: every frame on the stack, and
// transitively everything scanContext reaches from it, survives
// collection.
func (s *Stack) GCRoots(out []*gcheap.Thing) []*gcheap.Thing {
	for _, c := range s.frames {
		if c != nil && c.Thing != nil {
			out = append(out, c.Thing)
		}
	}
	return out
}
