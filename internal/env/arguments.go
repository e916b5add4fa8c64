package env

import "github.com/cwbudde/ratjs/internal/value"

// parameterCell adapts a single named-parameter binding in a function
// environment to object.ParameterBinding, the seam
// internal/object/arguments.go declares so a mapped (non-strict)
// arguments object can alias arguments[i] to the live parameter
// binding without internal/object importing internal/env.
type parameterCell struct {
	env  *Environment
	name string
}

// ParameterBinding returns the aliasing cell for a simple (non-
// destructured) parameter name in fn's function environment, for use
// as object.NewArgumentsObject's mapped slice.
func (e *Environment) ParameterBinding(name string) *parameterCell {
	return &parameterCell{env: e, name: name}
}

func (c *parameterCell) Get() (value.Value, error) {
	return c.env.GetBindingValue(c.name, false)
}

func (c *parameterCell) Set(v value.Value) error {
	return c.env.SetMutableBinding(c.name, v, false)
}
