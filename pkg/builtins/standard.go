package builtins

import (
	"fmt"
	"sort"

	"meridiem/pkg/vm"
)

// GetStandardInitializers returns the standard builtins sorted by
// priority.
func GetStandardInitializers() []BuiltinInitializer {
	initializers := []BuiltinInitializer{
		&ObjectInitializer{},
		&DateInitializer{},
		&TemporalInitializer{},
		&IntlInitializer{},
	}
	sort.Slice(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})
	return initializers
}

// InitializeRuntime runs every standard initializer against the VM.
func InitializeRuntime(vmInstance *vm.VM) error {
	ctx := &RuntimeContext{
		VM:           vmInstance,
		DefineGlobal: vmInstance.DefineGlobal,
	}
	for _, initializer := range GetStandardInitializers() {
		if err := initializer.InitRuntime(ctx); err != nil {
			return fmt.Errorf("initializing %s builtin: %w", initializer.Name(), err)
		}
	}
	return nil
}
