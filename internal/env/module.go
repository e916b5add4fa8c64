package env

import "github.com/cwbudde/ratjs/internal/value"

// CreateImportBinding creates an indirect binding resolving through
// resolve, the module environment's only distinct operation.
// The (module, exportedName) pair itself is owned by the caller
// (internal/script's module linker); this package only needs the
// resulting resolve closure, following re-export chains the same way
// object.ExportResolver does for namespace objects.
func (e *Environment) CreateImportBinding(name string, resolve func() (value.Value, error)) error {
	e.Bindings.Set(e.key(name), &Binding{
		Immutable:   true,
		Initialized: true,
		IsImport:    true,
		Resolve:     resolve,
	})
	return nil
}
