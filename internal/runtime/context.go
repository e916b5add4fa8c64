package runtime

import (
	"fmt"

	"github.com/cwbudde/ratjs/internal/context"
	"github.com/cwbudde/ratjs/internal/env"
	"github.com/cwbudde/ratjs/internal/script"
	"github.com/cwbudde/ratjs/internal/strprim"
)

// Dispatch is the signature of the (out-of-scope) bytecode interpreter
// loop: given the context Eval pushed and the Script it was pushed for,
// run bytecode until the script returns, suspends, or errors. Opcode
// dispatch is an external collaborator; this package owns every piece of state such a
// loop reads and mutates — the context stack, the environment chain,
// the error flag, the job queue — without ever decoding an opcode
// itself. A nil Dispatch is valid: Eval then only performs declaration
// instantiation and job draining, useful for tests that exercise the
// environment/realm wiring without a real interpreter attached.
type Dispatch func(rt *Runtime, ctx *context.Context, s *script.Script) error

// PushScriptContext allocates a fresh top-level context for s against
// realm and pushes it onto the context stack, performing the
// declaration-instantiation step a top-level script's bytecode would
// otherwise have to do itself: every lexical declaration gets an
// uninitialized binding in a fresh declarative environment chained off
// realm.GlobalEnv, and every var declaration gets hoisted onto the
// global object via CreateGlobalVarBinding. The caller (Eval, or a test driving the context stack
// directly) pops it with PopContext once done.
func (rt *Runtime) PushScriptContext(realm *context.Realm, s *script.Script) (*context.Context, error) {
	lexEnv := env.NewDeclarative(rt.Heap, realm.GlobalEnv, realm.Interner)
	for i, decl := range s.Decls.Lexical {
		name, err := constantName(s, decl.NameIdx)
		if err != nil {
			return nil, fmt.Errorf("runtime: lexical decl %d: %w", i, err)
		}
		if decl.Flags.Has(script.BindingConst) {
			if err := lexEnv.CreateImmutableBinding(name, decl.Flags.Has(script.BindingStrict)); err != nil {
				return nil, err
			}
		} else if err := lexEnv.CreateMutableBinding(name, false); err != nil {
			return nil, err
		}
	}
	for i, decl := range s.Decls.Var {
		name, err := constantName(s, decl.NameIdx)
		if err != nil {
			return nil, fmt.Errorf("runtime: var decl %d: %w", i, err)
		}
		if err := realm.GlobalEnv.CreateGlobalVarBinding(name, false); err != nil {
			return nil, err
		}
	}

	ctx := context.New(rt.Heap, rt.Contexts.Current(), realm, nil, realm.GlobalEnv, lexEnv)
	ctx.Script = s
	rt.Contexts.Push(ctx)
	return ctx, nil
}

// PopContext pops the running context, returning it (or nil if the
// stack was already empty).
func (rt *Runtime) PopContext() *context.Context {
	return rt.Contexts.Pop()
}

// Eval pushes a top-level context for s on realm, hands it to dispatch,
// drains the job queue, and pops the context (the pop is deferred, so it
// happens on every return path, after the drain). A dispatch error is
// returned at once, without draining the job queue. If a
// language error is still pending after dispatch returns, Eval surfaces
// it as a Go error via its Error() method.
func (rt *Runtime) Eval(realm *context.Realm, s *script.Script, dispatch Dispatch) error {
	if err := s.Validate(); err != nil {
		return err
	}
	ctx, err := rt.PushScriptContext(realm, s)
	if err != nil {
		return err
	}
	defer rt.PopContext()

	if dispatch != nil {
		if err := dispatch(rt, ctx, s); err != nil {
			return err
		}
	}

	rt.SolveJobs()

	if rt.Errors.Pending() {
		return rt.Errors.Value()
	}
	return nil
}

// constantName reads a binding-name constant and NFC-folds it: this is
// the one boundary where an out-of-scope parser's identifier text enters
// the execution core, so the fold real engines apply in the
// lexer happens here instead, once, rather than on every later property
// access through strprim.Interner.Intern.
func constantName(s *script.Script, idx int) (string, error) {
	c, err := s.ConstantAt(idx)
	if err != nil {
		return "", err
	}
	if c.Kind != script.ConstString {
		return "", fmt.Errorf("binding-name constant %d is not a string", idx)
	}
	return strprim.NormalizeIdentifier(c.Str), nil
}
