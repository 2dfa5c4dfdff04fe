// Package vm implements the value model and the small runtime core the
// builtins are written against: tagged values, ordinary objects with
// prototype chains, native functions, and the coercion protocol whose
// hook lookups are observable to script-level code.
package vm

import "fmt"

// VM hosts the global environment and the abstract operations shared
// by the builtins: property access, calls, construction, and the
// primitive coercion protocol.
type VM struct {
	globals map[string]Value

	// Well-known prototypes, populated by the builtin initializers.
	ObjectPrototype  Value
	DatePrototype    Value
	InstantPrototype Value

	// Well-known symbols.
	SymbolToPrimitive Value
	SymbolToStringTag Value

	thisStack []Value
	ctorStack []bool
}

func NewVM() *VM {
	vm := &VM{globals: make(map[string]Value)}
	vm.ObjectPrototype = NewObject(Null)
	vm.DatePrototype = Undefined
	vm.InstantPrototype = Undefined
	vm.SymbolToPrimitive = NewSymbol("Symbol.toPrimitive")
	vm.SymbolToStringTag = NewSymbol("Symbol.toStringTag")
	return vm
}

func (vm *VM) DefineGlobal(name string, value Value) error {
	if name == "" {
		return fmt.Errorf("global name must not be empty")
	}
	vm.globals[name] = value
	return nil
}

func (vm *VM) GetGlobal(name string) (Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// GetThis returns the receiver of the innermost active call, or
// Undefined outside any call.
func (vm *VM) GetThis() Value {
	if len(vm.thisStack) == 0 {
		return Undefined
	}
	return vm.thisStack[len(vm.thisStack)-1]
}

// IsConstructorCall reports whether the innermost active call was made
// through Construct.
func (vm *VM) IsConstructorCall() bool {
	if len(vm.ctorStack) == 0 {
		return false
	}
	return vm.ctorStack[len(vm.ctorStack)-1]
}

// Call invokes a function value with an explicit receiver. Arguments
// are passed through exactly as given so callees can distinguish
// missing arguments from explicit undefined.
func (vm *VM) Call(fn Value, this Value, args []Value) (Value, error) {
	var impl NativeFn
	switch fn.Type() {
	case TypeNativeFunction:
		impl = fn.AsNativeFunction().Fn
	case TypeNativeFunctionWithProps:
		impl = fn.AsNativeFunctionWithProps().Fn
	default:
		return Undefined, vm.NewTypeError("Value is not a function")
	}
	return vm.enter(impl, this, false, args)
}

// Construct invokes a constructor function. The callee observes the
// construction through IsConstructorCall.
func (vm *VM) Construct(fn Value, args []Value) (Value, error) {
	if fn.Type() != TypeNativeFunctionWithProps || !fn.AsNativeFunctionWithProps().IsConstructor {
		return Undefined, vm.NewTypeError("Value is not a constructor")
	}
	return vm.enter(fn.AsNativeFunctionWithProps().Fn, Undefined, true, args)
}

func (vm *VM) enter(impl NativeFn, this Value, construct bool, args []Value) (Value, error) {
	vm.thisStack = append(vm.thisStack, this)
	vm.ctorStack = append(vm.ctorStack, construct)
	result, err := impl(args)
	vm.thisStack = vm.thisStack[:len(vm.thisStack)-1]
	vm.ctorStack = vm.ctorStack[:len(vm.ctorStack)-1]
	return result, err
}

// Invoke looks up a property on the receiver and calls it as a method.
func (vm *VM) Invoke(receiver Value, name string, args []Value) (Value, error) {
	method, err := vm.GetProperty(receiver, name)
	if err != nil {
		return Undefined, err
	}
	if !method.IsCallable() {
		return Undefined, vm.NewTypeError(fmt.Sprintf("%s is not a function", name))
	}
	return vm.Call(method, receiver, args)
}

// GetProperty reads a named property, walking the prototype chain.
// Reading a missing property yields Undefined without error; only
// undefined and null receivers throw.
func (vm *VM) GetProperty(v Value, name string) (Value, error) {
	return vm.GetPropertyByKey(v, NewStringKey(name))
}

func (vm *VM) GetPropertyByKey(v Value, key PropertyKey) (Value, error) {
	if v.IsUndefined() || v.IsNull() {
		return Undefined, vm.NewTypeError(fmt.Sprintf("Cannot read properties of %s (reading '%s')", v.ToString(), key.String()))
	}
	cur := v
	for {
		switch cur.Type() {
		case TypeObject:
			o := cur.AsPlainObject()
			if p := o.lookup(key); p != nil {
				return vm.loadProperty(p, v)
			}
			cur = o.prototype
		case TypeDate:
			cur = cur.AsDateObject().prototype
		case TypeNativeFunctionWithProps:
			f := cur.AsNativeFunctionWithProps()
			if p := f.Properties.lookup(key); p != nil {
				return vm.loadProperty(p, v)
			}
			return Undefined, nil
		default:
			return Undefined, nil
		}
	}
}

func (vm *VM) loadProperty(p *property, receiver Value) (Value, error) {
	if !p.isAccessor {
		return p.value, nil
	}
	if !p.getter.IsCallable() {
		return Undefined, nil
	}
	return vm.Call(p.getter, receiver, nil)
}

// ToPrimitive converts a value to a primitive with the given hint
// ("default", "number" or "string"). Objects are converted through
// their Symbol.toPrimitive hook when present, otherwise through
// OrdinaryToPrimitive.
func (vm *VM) ToPrimitive(v Value, hint string) (Value, error) {
	if !v.IsObject() && !v.IsCallable() {
		return v, nil
	}
	exotic, err := vm.GetPropertyByKey(v, NewSymbolKey(vm.SymbolToPrimitive))
	if err != nil {
		return Undefined, err
	}
	if exotic.IsCallable() {
		result, err := vm.Call(exotic, v, []Value{NewString(hint)})
		if err != nil {
			return Undefined, err
		}
		if !result.IsObject() && !result.IsCallable() {
			return result, nil
		}
		return Undefined, vm.NewTypeError("Cannot convert object to primitive value")
	}
	if hint == "default" {
		hint = "number"
	}
	return vm.OrdinaryToPrimitive(v, hint)
}

// OrdinaryToPrimitive tries valueOf then toString for a number hint,
// or toString then valueOf for a string hint. Each lookup and call is
// observable; the first callable returning a primitive wins.
func (vm *VM) OrdinaryToPrimitive(v Value, hint string) (Value, error) {
	methodNames := [2]string{"valueOf", "toString"}
	if hint == "string" {
		methodNames = [2]string{"toString", "valueOf"}
	}
	for _, name := range methodNames {
		method, err := vm.GetProperty(v, name)
		if err != nil {
			return Undefined, err
		}
		if !method.IsCallable() {
			continue
		}
		result, err := vm.Call(method, v, nil)
		if err != nil {
			return Undefined, err
		}
		if !result.IsObject() && !result.IsCallable() {
			return result, nil
		}
	}
	return Undefined, vm.NewTypeError("Cannot convert object to primitive value")
}

// ToNumber applies number coercion. Symbols and BigInts throw; objects
// convert through ToPrimitive first, which may run user hooks.
func (vm *VM) ToNumber(v Value) (float64, error) {
	switch v.Type() {
	case TypeSymbol:
		return 0, vm.NewTypeError("Cannot convert a Symbol to a number")
	case TypeBigInt:
		return 0, vm.NewTypeError("Cannot convert a BigInt to a number")
	case TypeObject, TypeDate, TypeNativeFunction, TypeNativeFunctionWithProps:
		prim, err := vm.ToPrimitive(v, "number")
		if err != nil {
			return 0, err
		}
		return vm.ToNumber(prim)
	default:
		return v.ToFloat(), nil
	}
}

// ToStringValue applies string coercion. Symbols throw; objects convert
// through ToPrimitive with a string hint first.
func (vm *VM) ToStringValue(v Value) (string, error) {
	switch v.Type() {
	case TypeSymbol:
		return "", vm.NewTypeError("Cannot convert a Symbol to a string")
	case TypeObject, TypeDate, TypeNativeFunction, TypeNativeFunctionWithProps:
		prim, err := vm.ToPrimitive(v, "string")
		if err != nil {
			return "", err
		}
		return vm.ToStringValue(prim)
	default:
		return v.ToString(), nil
	}
}
