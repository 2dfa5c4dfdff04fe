package vm

import "unsafe"

// NativeFn is the implementation signature for built-in functions.
// Callers receive exactly the arguments that were supplied; checking
// len(args) is how an implementation distinguishes a missing argument
// from an explicit undefined.
type NativeFn func(args []Value) (Value, error)

// NativeFunctionObject is a host function exposed to the runtime.
type NativeFunctionObject struct {
	Arity    int
	Variadic bool
	Name     string
	Fn       NativeFn
}

// NativeFunctionObjectWithProps additionally carries own properties,
// which is what constructors need for their statics and prototype link.
type NativeFunctionObjectWithProps struct {
	NativeFunctionObject
	IsConstructor bool
	Properties    *PlainObject
}

func NewNativeFunction(arity int, variadic bool, name string, fn NativeFn) Value {
	obj := &NativeFunctionObject{Arity: arity, Variadic: variadic, Name: name, Fn: fn}
	return Value{typ: TypeNativeFunction, obj: unsafe.Pointer(obj)}
}

func NewNativeFunctionWithProps(arity int, variadic bool, name string, fn NativeFn) Value {
	obj := &NativeFunctionObjectWithProps{
		NativeFunctionObject: NativeFunctionObject{Arity: arity, Variadic: variadic, Name: name, Fn: fn},
		Properties:           NewObject(Null).AsPlainObject(),
	}
	return Value{typ: TypeNativeFunctionWithProps, obj: unsafe.Pointer(obj)}
}

// NewConstructorWithProps creates a function that may be the target of
// construction as well as a plain call.
func NewConstructorWithProps(arity int, variadic bool, name string, fn NativeFn) Value {
	v := NewNativeFunctionWithProps(arity, variadic, name, fn)
	v.AsNativeFunctionWithProps().IsConstructor = true
	return v
}

func (f *NativeFunctionObjectWithProps) Value() Value {
	return Value{typ: TypeNativeFunctionWithProps, obj: unsafe.Pointer(f)}
}
