package builtins

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"meridiem/pkg/vm"
)

const PriorityTemporal = 105

const (
	nsPerMillisecond = 1_000_000
	nsPerMicrosecond = 1_000
)

var nsPerSecond = big.NewInt(1_000_000_000)

// nsMaxInstant bounds instants at 100 million days from the epoch in
// nanoseconds, the same span time values cover in milliseconds.
var nsMaxInstant = new(big.Int).Mul(big.NewInt(864), new(big.Int).Exp(big.NewInt(10), big.NewInt(19), nil))

// TemporalInitializer installs the Temporal namespace with the Instant
// type that Date bridges into.
type TemporalInitializer struct{}

func (t *TemporalInitializer) Name() string { return "Temporal" }

func (t *TemporalInitializer) Priority() int { return PriorityTemporal }

// numberToBigInt converts an integral number to a big integer. NaN,
// infinities and fractional values are out of range.
func numberToBigInt(vmInstance *vm.VM, f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, vmInstance.NewRangeError("Cannot convert non-integral number to BigInt")
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n, nil
}

// newTemporalInstant wraps epoch nanoseconds into an Instant object,
// range-checked.
func newTemporalInstant(vmInstance *vm.VM, nanos *big.Int) (vm.Value, error) {
	if nanos.CmpAbs(nsMaxInstant) > 0 {
		return vm.Undefined, vmInstance.NewRangeError("Invalid epoch nanoseconds value")
	}
	obj := vm.NewObject(vmInstance.InstantPrototype).AsPlainObject()
	obj.SetOwn("[[EpochNanoseconds]]", vm.NewBigInt(nanos))
	return obj.Value(), nil
}

// thisInstantNanos validates the receiver of an Instant method and
// returns its epoch nanoseconds slot.
func thisInstantNanos(vmInstance *vm.VM) (*big.Int, error) {
	thisVal := vmInstance.GetThis()
	if thisVal.Type() == vm.TypeObject {
		if slot, ok := thisVal.AsPlainObject().GetOwn("[[EpochNanoseconds]]"); ok && slot.IsBigInt() {
			return slot.AsBigInt(), nil
		}
	}
	return nil, vmInstance.NewTypeError("Value is not a Temporal.Instant")
}

// toInstantNanos converts an Instant or an instant string to epoch
// nanoseconds.
func toInstantNanos(vmInstance *vm.VM, v vm.Value) (*big.Int, error) {
	if v.Type() == vm.TypeObject {
		if slot, ok := v.AsPlainObject().GetOwn("[[EpochNanoseconds]]"); ok && slot.IsBigInt() {
			return new(big.Int).Set(slot.AsBigInt()), nil
		}
	}
	if v.IsString() {
		t := parseDateTimeString(v.AsString())
		if math.IsNaN(t) {
			return nil, vmInstance.NewRangeError(fmt.Sprintf("Invalid instant string: %s", v.AsString()))
		}
		nanos, err := numberToBigInt(vmInstance, t)
		if err != nil {
			return nil, err
		}
		return nanos.Mul(nanos, big.NewInt(nsPerMillisecond)), nil
	}
	return nil, vmInstance.NewTypeError("Cannot convert value to a Temporal.Instant")
}

// instantToString renders the interchange form, extending the
// millisecond fraction with six more digits when the instant has
// sub-millisecond precision.
func instantToString(nanos *big.Int) string {
	milli := new(big.Int)
	remainder := new(big.Int)
	milli.DivMod(nanos, big.NewInt(nsPerMillisecond), remainder)
	s := isoDateString(float64(milli.Int64()))
	if remainder.Sign() != 0 {
		s = strings.TrimSuffix(s, "Z") + fmt.Sprintf("%06d", remainder.Int64()) + "Z"
	}
	return s
}

func (t *TemporalInitializer) InitRuntime(ctx *RuntimeContext) error {
	vmInstance := ctx.VM
	falseVal, trueVal := false, true

	instantProto := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	instantProtoVal := instantProto.Value()
	vmInstance.InstantPrototype = instantProtoVal

	instantProto.DefineOwnPropertyByKey(vm.NewSymbolKey(vmInstance.SymbolToStringTag), vm.NewString("Temporal.Instant"), &falseVal, &falseVal, &trueVal)

	defineAccessor := func(name string, get func(nanos *big.Int) vm.Value) {
		getter := vm.NewNativeFunction(0, false, "get "+name, func(args []vm.Value) (vm.Value, error) {
			nanos, err := thisInstantNanos(vmInstance)
			if err != nil {
				return vm.Undefined, err
			}
			return get(nanos), nil
		})
		instantProto.DefineAccessorProperty(name, getter, true, vm.Undefined, false, &falseVal, &trueVal)
	}

	defineAccessor("epochSeconds", func(nanos *big.Int) vm.Value {
		return vm.NumberValue(float64(new(big.Int).Div(nanos, nsPerSecond).Int64()))
	})
	defineAccessor("epochMilliseconds", func(nanos *big.Int) vm.Value {
		return vm.NumberValue(float64(new(big.Int).Div(nanos, big.NewInt(nsPerMillisecond)).Int64()))
	})
	defineAccessor("epochMicroseconds", func(nanos *big.Int) vm.Value {
		return vm.NewBigInt(new(big.Int).Div(nanos, big.NewInt(nsPerMicrosecond)))
	})
	defineAccessor("epochNanoseconds", func(nanos *big.Int) vm.Value {
		return vm.NewBigInt(new(big.Int).Set(nanos))
	})

	defineInstantMethod := func(name string, arity int, fn vm.NativeFn) {
		instantProto.SetOwnNonEnumerable(name, vm.NewNativeFunction(arity, false, name, fn))
	}

	defineInstantMethod("toString", 0, func(args []vm.Value) (vm.Value, error) {
		nanos, err := thisInstantNanos(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(instantToString(nanos)), nil
	})

	defineInstantMethod("toJSON", 0, func(args []vm.Value) (vm.Value, error) {
		nanos, err := thisInstantNanos(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(instantToString(nanos)), nil
	})

	defineInstantMethod("valueOf", 0, func(args []vm.Value) (vm.Value, error) {
		return vm.Undefined, vmInstance.NewTypeError("Cannot convert a Temporal.Instant to a primitive value")
	})

	defineInstantMethod("equals", 1, func(args []vm.Value) (vm.Value, error) {
		nanos, err := thisInstantNanos(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		arg := vm.Undefined
		if len(args) > 0 {
			arg = args[0]
		}
		other, err := toInstantNanos(vmInstance, arg)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(nanos.Cmp(other) == 0), nil
	})

	instantCtor := vm.NewConstructorWithProps(1, false, "Instant", func(args []vm.Value) (vm.Value, error) {
		if !vmInstance.IsConstructorCall() {
			return vm.Undefined, vmInstance.NewTypeError("Constructor Temporal.Instant requires 'new'")
		}
		if len(args) == 0 || !args[0].IsBigInt() {
			return vm.Undefined, vmInstance.NewTypeError("Epoch nanoseconds must be a BigInt")
		}
		return newTemporalInstant(vmInstance, new(big.Int).Set(args[0].AsBigInt()))
	})
	instantCtorProps := instantCtor.AsNativeFunctionWithProps().Properties
	instantCtorProps.SetOwnNonEnumerable("prototype", instantProtoVal)

	instantCtorProps.SetOwnNonEnumerable("from", vm.NewNativeFunction(1, false, "from", func(args []vm.Value) (vm.Value, error) {
		arg := vm.Undefined
		if len(args) > 0 {
			arg = args[0]
		}
		nanos, err := toInstantNanos(vmInstance, arg)
		if err != nil {
			return vm.Undefined, err
		}
		return newTemporalInstant(vmInstance, nanos)
	}))

	instantCtorProps.SetOwnNonEnumerable("fromEpochSeconds", vm.NewNativeFunction(1, false, "fromEpochSeconds", func(args []vm.Value) (vm.Value, error) {
		arg := vm.Undefined
		if len(args) > 0 {
			arg = args[0]
		}
		n, err := vmInstance.ToNumber(arg)
		if err != nil {
			return vm.Undefined, err
		}
		seconds, err := numberToBigInt(vmInstance, n)
		if err != nil {
			return vm.Undefined, err
		}
		return newTemporalInstant(vmInstance, seconds.Mul(seconds, nsPerSecond))
	}))

	instantCtorProps.SetOwnNonEnumerable("fromEpochMilliseconds", vm.NewNativeFunction(1, false, "fromEpochMilliseconds", func(args []vm.Value) (vm.Value, error) {
		arg := vm.Undefined
		if len(args) > 0 {
			arg = args[0]
		}
		n, err := vmInstance.ToNumber(arg)
		if err != nil {
			return vm.Undefined, err
		}
		milli, err := numberToBigInt(vmInstance, n)
		if err != nil {
			return vm.Undefined, err
		}
		return newTemporalInstant(vmInstance, milli.Mul(milli, big.NewInt(nsPerMillisecond)))
	}))

	instantCtorProps.SetOwnNonEnumerable("fromEpochMicroseconds", vm.NewNativeFunction(1, false, "fromEpochMicroseconds", func(args []vm.Value) (vm.Value, error) {
		if len(args) == 0 || !args[0].IsBigInt() {
			return vm.Undefined, vmInstance.NewTypeError("Epoch microseconds must be a BigInt")
		}
		micros := new(big.Int).Set(args[0].AsBigInt())
		return newTemporalInstant(vmInstance, micros.Mul(micros, big.NewInt(nsPerMicrosecond)))
	}))

	instantCtorProps.SetOwnNonEnumerable("fromEpochNanoseconds", vm.NewNativeFunction(1, false, "fromEpochNanoseconds", func(args []vm.Value) (vm.Value, error) {
		if len(args) == 0 || !args[0].IsBigInt() {
			return vm.Undefined, vmInstance.NewTypeError("Epoch nanoseconds must be a BigInt")
		}
		return newTemporalInstant(vmInstance, new(big.Int).Set(args[0].AsBigInt()))
	}))

	instantCtorProps.SetOwnNonEnumerable("compare", vm.NewNativeFunction(2, false, "compare", func(args []vm.Value) (vm.Value, error) {
		one, two := vm.Undefined, vm.Undefined
		if len(args) > 0 {
			one = args[0]
		}
		if len(args) > 1 {
			two = args[1]
		}
		left, err := toInstantNanos(vmInstance, one)
		if err != nil {
			return vm.Undefined, err
		}
		right, err := toInstantNanos(vmInstance, two)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.IntegerValue(int32(left.Cmp(right))), nil
	}))

	instantProto.SetOwnNonEnumerable("constructor", instantCtor)

	nowObj := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	nowObj.DefineOwnPropertyByKey(vm.NewSymbolKey(vmInstance.SymbolToStringTag), vm.NewString("Temporal.Now"), &falseVal, &falseVal, &trueVal)
	nowObj.SetOwnNonEnumerable("instant", vm.NewNativeFunction(0, false, "instant", func(args []vm.Value) (vm.Value, error) {
		milli, err := numberToBigInt(vmInstance, nowTimeValue())
		if err != nil {
			return vm.Undefined, err
		}
		return newTemporalInstant(vmInstance, milli.Mul(milli, big.NewInt(nsPerMillisecond)))
	}))

	temporalObj := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	temporalObj.DefineOwnPropertyByKey(vm.NewSymbolKey(vmInstance.SymbolToStringTag), vm.NewString("Temporal"), &falseVal, &falseVal, &trueVal)
	temporalObj.SetOwnNonEnumerable("Instant", instantCtor)
	temporalObj.SetOwnNonEnumerable("Now", nowObj.Value())

	return ctx.DefineGlobal("Temporal", temporalObj.Value())
}
