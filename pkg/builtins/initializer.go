// Package builtins installs the standard global objects into a runtime:
// the object prototype floor, the Date constructor with its prototype
// methods, the Temporal.Instant bridge and the Intl formatting surface.
package builtins

import "meridiem/pkg/vm"

// BuiltinInitializer installs one builtin into a runtime. Initializers
// run in Priority order so prototypes exist before anything links
// against them.
type BuiltinInitializer interface {
	// Name identifies the builtin for diagnostics.
	Name() string
	// Priority orders initialization; lower runs earlier.
	Priority() int
	// InitRuntime creates the runtime objects and wires globals.
	InitRuntime(ctx *RuntimeContext) error
}

// RuntimeContext is handed to every initializer.
type RuntimeContext struct {
	VM           *vm.VM
	DefineGlobal func(name string, value vm.Value) error
}

const (
	// PriorityObject must be first: everything else hangs off the
	// object prototype.
	PriorityObject = 0
	PriorityDate   = 103
)
