// Package rjerrors implements the language-error channel described by the
// runtime's two-channel error design: ECMAScript Error objects raised via
// throw (this package), and host/catastrophic failures reported through a
// separate logging hook (see internal/rjerrors/host.go).
package rjerrors

import (
	"fmt"
	"strings"
)

// Kind enumerates the ECMAScript error constructors the runtime recognizes.
type Kind int

const (
	KindError Kind = iota
	KindTypeError
	KindRangeError
	KindReferenceError
	KindSyntaxError
	KindURIError
	KindEvalError
	KindAggregateError
)

// String returns the constructor name used in "<name>: <message>" rendering.
func (k Kind) String() string {
	switch k {
	case KindTypeError:
		return "TypeError"
	case KindRangeError:
		return "RangeError"
	case KindReferenceError:
		return "ReferenceError"
	case KindSyntaxError:
		return "SyntaxError"
	case KindURIError:
		return "URIError"
	case KindEvalError:
		return "EvalError"
	case KindAggregateError:
		return "AggregateError"
	default:
		return "Error"
	}
}

// LangError is a language-level ECMAScript error: the value stashed behind
// the runtime's pending-error flag. It is distinct from a host/catastrophic
// failure (see HostFailure) — a LangError is always catchable from script.
type LangError struct {
	Kind    Kind
	Message string
	Cause   error
	Stack   StackTrace
	Errors  []*LangError // populated for KindAggregateError
}

// New creates a LangError of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *LangError {
	return &LangError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TypeError is the common constructor used by the ten internal operations
// and the value-conversion algorithms.
func TypeError(format string, args ...any) *LangError {
	return New(KindTypeError, format, args...)
}

// RangeError reports an out-of-range conversion, e.g. ToIndex(-1).
func RangeError(format string, args ...any) *LangError {
	return New(KindRangeError, format, args...)
}

// ReferenceError reports an unresolved or uninitialized binding.
func ReferenceError(format string, args ...any) *LangError {
	return New(KindReferenceError, format, args...)
}

// SyntaxError is raised by the (out-of-scope) parser, or by eval() when the
// supplied source fails to parse; the core only needs to carry it.
func SyntaxError(format string, args ...any) *LangError {
	return New(KindSyntaxError, format, args...)
}

// AggregateError wraps several errors behind a single pending-error value,
// as produced by Promise.any() rejection.
func AggregateError(errs []*LangError, message string) *LangError {
	return &LangError{Kind: KindAggregateError, Message: message, Errors: errs}
}

// Error implements the error interface as "<name>: <message>", matching
// Error.prototype.toString.
func (e *LangError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
}

// Unwrap exposes the optional "cause" option (Error(message, {cause})).
func (e *LangError) Unwrap() error {
	return e.Cause
}

// WithCause attaches a cause and returns the receiver for chaining.
func (e *LangError) WithCause(cause error) *LangError {
	e.Cause = cause
	return e
}

// WithStack attaches a captured call-stack snapshot and returns the receiver.
func (e *LangError) WithStack(stack StackTrace) *LangError {
	e.Stack = stack
	return e
}

// Format renders the error the way the host error-dump hook prints it:
// "<name>: <message>" followed by the stack trace, one frame per line,
// newest frame first. If color is true, the name is rendered in bold red
// for terminal output.
func (e *LangError) Format(color bool) string {
	var sb strings.Builder
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(e.Kind.String())
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString("\ncaused by: ")
		sb.WriteString(e.Cause.Error())
	}
	if len(e.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(e.Stack.String())
	}
	for _, sub := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(sub.Error())
	}
	return sb.String()
}

// Is lets errors.Is match on Kind regardless of message, e.g.
// errors.Is(err, rjerrors.TypeError("")) matches any TypeError.
func (e *LangError) Is(target error) bool {
	other, ok := target.(*LangError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
