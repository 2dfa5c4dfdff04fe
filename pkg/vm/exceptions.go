package vm

import "fmt"

// exceptionError carries a runtime exception value through Go error
// returns. Builtins surface language-level errors this way instead of
// bare Go errors so hosts can hand the value back to script code.
type exceptionError struct {
	exception Value
}

func (e exceptionError) Error() string {
	name := "Error"
	message := ""
	if e.exception.IsObject() && e.exception.Type() == TypeObject {
		obj := e.exception.AsPlainObject()
		if v, ok := obj.GetOwn("name"); ok && v.IsString() {
			name = v.AsString()
		}
		if v, ok := obj.GetOwn("message"); ok && v.IsString() {
			message = v.AsString()
		}
	}
	if message == "" {
		return name
	}
	return fmt.Sprintf("%s: %s", name, message)
}

// Exception returns the wrapped runtime value.
func (e exceptionError) Exception() Value { return e.exception }

// NewError builds an error object with the given name and message and
// wraps it for propagation through Go error returns.
func (vm *VM) NewError(name, message string) error {
	obj := NewObject(vm.ObjectPrototype).AsPlainObject()
	obj.SetOwn("name", NewString(name))
	obj.SetOwn("message", NewString(message))
	return exceptionError{exception: obj.Value()}
}

func (vm *VM) NewTypeError(message string) error {
	return vm.NewError("TypeError", message)
}

func (vm *VM) NewRangeError(message string) error {
	return vm.NewError("RangeError", message)
}

// ExceptionFromError unwraps the runtime value from an error produced
// by a builtin, if there is one.
func ExceptionFromError(err error) (Value, bool) {
	if ex, ok := err.(exceptionError); ok {
		return ex.exception, true
	}
	return Undefined, false
}

// ErrorName reports the name property of a wrapped exception, or ""
// for plain Go errors.
func ErrorName(err error) string {
	ex, ok := ExceptionFromError(err)
	if !ok || !ex.IsObject() || ex.Type() != TypeObject {
		return ""
	}
	if v, ok := ex.AsPlainObject().GetOwn("name"); ok && v.IsString() {
		return v.AsString()
	}
	return ""
}

func IsTypeError(err error) bool { return ErrorName(err) == "TypeError" }

func IsRangeError(err error) bool { return ErrorName(err) == "RangeError" }
