package context

import (
	"github.com/cwbudde/ratjs/internal/env"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/object"
	"github.com/cwbudde/ratjs/internal/value"
)

// Context is a GC-managed execution-context frame: the
// running function, its realm, its environments, and (for script
// contexts) the bytecode instruction pointer. Scoping threads through a
// chain of environment records (internal/env) rather than a
// single flat locals array.
type Context struct {
	Thing *gcheap.Thing

	Outer *Context // the caller's context; nil for the bottom of the stack
	Realm *Realm

	Function *object.Object // nil for the top-level script context

	VariableEnv *env.Environment
	LexicalEnv  *env.Environment
	PrivateEnv  *env.Environment // class private-field scope; nil outside a class body

	// Script and IP identify the executing code and the resume point;
	// Script is an opaque reference (internal/script.Script once that
	// package exists) so this package does not need to import it.
	Script any
	IP     int

	// Generator holds the suspended-coroutine state for a context that
	// belongs to a generator or async function; nil for an ordinary
	// synchronous context.
	Generator *GeneratorState
}

var contextHeapOps = &gcheap.Ops{Kind: gcheap.KindContext, Name: "context", Scan: scanContext}

func scanContext(t *gcheap.Thing, out []*gcheap.Thing) []*gcheap.Thing {
	c := t.Data.(*Context)
	if c.Outer != nil && c.Outer.Thing != nil {
		out = append(out, c.Outer.Thing)
	}
	if c.Function != nil {
		out = append(out, c.Function.Thing)
	}
	if c.VariableEnv != nil {
		out = append(out, c.VariableEnv.Thing)
	}
	if c.LexicalEnv != nil {
		out = append(out, c.LexicalEnv.Thing)
	}
	if c.PrivateEnv != nil {
		out = append(out, c.PrivateEnv.Thing)
	}
	if c.Generator != nil {
		for _, v := range c.Generator.SavedStack {
			if isHeapValue(v) {
				out = append(out, v.Ref().Thing)
			}
		}
	}
	return out
}

func isHeapValue(v value.Value) bool {
	switch v.Kind() {
	case value.KindString, value.KindSymbol, value.KindBigInt, value.KindObject, value.KindGeneric:
		return true
	default:
		return false
	}
}

// New allocates a fresh synchronous context as a child of outer (nil
// for a realm's top-level script context).
func New(heap *gcheap.Heap, outer *Context, realm *Realm, fn *object.Object, variableEnv, lexicalEnv *env.Environment) *Context {
	c := &Context{
		Outer:       outer,
		Realm:       realm,
		Function:    fn,
		VariableEnv: variableEnv,
		LexicalEnv:  lexicalEnv,
	}
	c.Thing = heap.Alloc(contextHeapOps, c)
	return c
}

// GeneratorState carries the suspended state of a generator or async
// context: the native-coroutine-equivalent snapshot a
// resumption restores. Since the interpreter's opcode dispatch is
// external to this module, this package only owns the slots
// such an interpreter would save and restore, not the coroutine
// mechanism itself.
type GeneratorState struct {
	Suspended  bool
	AtStart    bool // true before the first Next() call
	Done       bool
	SavedStack []value.Value // operand-stack snapshot at the yield point
	SavedIP    int
}

// NewGeneratorContext creates a context for a generator or async
// function body, starting suspended-at-entry.
func NewGeneratorContext(heap *gcheap.Heap, outer *Context, realm *Realm, fn *object.Object, variableEnv, lexicalEnv *env.Environment) *Context {
	c := New(heap, outer, realm, fn, variableEnv, lexicalEnv)
	c.Generator = &GeneratorState{Suspended: true, AtStart: true}
	return c
}

// Suspend records a yield/await point: the operand-stack snapshot and
// resume instruction pointer the (external) interpreter will restore on
// the next Resume.
func (g *GeneratorState) Suspend(stack []value.Value, ip int) {
	g.Suspended = true
	g.AtStart = false
	g.SavedStack = append([]value.Value{}, stack...)
	g.SavedIP = ip
}

// Resume reports whether the generator can resume and clears the
// suspended flag; it returns false if the generator has already run to
// completion.
func (g *GeneratorState) Resume() bool {
	if g.Done {
		return false
	}
	g.Suspended = false
	return true
}

// Finish marks the generator as complete; no further Resume succeeds.
func (g *GeneratorState) Finish() {
	g.Done = true
	g.Suspended = false
	g.SavedStack = nil
}
