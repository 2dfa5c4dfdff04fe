package builtins

import "meridiem/pkg/vm"

// ObjectInitializer populates the object prototype that NewVM created
// empty. It must run before every other initializer.
type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string { return "Object" }

func (o *ObjectInitializer) Priority() int { return PriorityObject }

func (o *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	vmInstance := ctx.VM
	proto := vmInstance.ObjectPrototype.AsPlainObject()

	proto.SetOwnNonEnumerable("hasOwnProperty", vm.NewNativeFunction(1, false, "hasOwnProperty", func(args []vm.Value) (vm.Value, error) {
		thisVal := vmInstance.GetThis()
		if len(args) == 0 {
			return vm.False, nil
		}
		name, err := vmInstance.ToStringValue(args[0])
		if err != nil {
			return vm.Undefined, err
		}
		if thisVal.Type() != vm.TypeObject {
			return vm.False, nil
		}
		return vm.BooleanValue(thisVal.AsPlainObject().HasOwn(name)), nil
	}))

	proto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(args []vm.Value) (vm.Value, error) {
		thisVal := vmInstance.GetThis()
		switch thisVal.Type() {
		case vm.TypeUndefined:
			return vm.NewString("[object Undefined]"), nil
		case vm.TypeNull:
			return vm.NewString("[object Null]"), nil
		case vm.TypeDate:
			return vm.NewString("[object Date]"), nil
		}
		if thisVal.Type() == vm.TypeObject {
			tag, err := vmInstance.GetPropertyByKey(thisVal, vm.NewSymbolKey(vmInstance.SymbolToStringTag))
			if err != nil {
				return vm.Undefined, err
			}
			if tag.IsString() {
				return vm.NewString("[object " + tag.AsString() + "]"), nil
			}
		}
		return vm.NewString("[object Object]"), nil
	}))

	proto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, false, "valueOf", func(args []vm.Value) (vm.Value, error) {
		return vmInstance.GetThis(), nil
	}))

	objectCtor := vm.NewConstructorWithProps(1, false, "Object", func(args []vm.Value) (vm.Value, error) {
		if len(args) > 0 && args[0].IsObject() {
			return args[0], nil
		}
		return vm.NewObject(vmInstance.ObjectPrototype), nil
	})
	objectCtor.AsNativeFunctionWithProps().Properties.SetOwnNonEnumerable("prototype", vmInstance.ObjectPrototype)
	proto.SetOwnNonEnumerable("constructor", objectCtor)

	return ctx.DefineGlobal("Object", objectCtor)
}
