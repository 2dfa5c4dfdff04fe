package builtins

import (
	"fmt"
	"math"
	"math/big"

	"meridiem/pkg/vm"
)

// DateInitializer installs the Date constructor, its statics and the
// prototype method table.
type DateInitializer struct{}

func (d *DateInitializer) Name() string { return "Date" }

func (d *DateInitializer) Priority() int { return PriorityDate }

func (d *DateInitializer) InitRuntime(ctx *RuntimeContext) error {
	vmInstance := ctx.VM
	falseVal, trueVal := false, true

	proto := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	protoVal := proto.Value()
	vmInstance.DatePrototype = protoVal

	defineMethod := func(name string, arity int, fn vm.NativeFn) {
		proto.SetOwnNonEnumerable(name, vm.NewNativeFunction(arity, false, name, fn))
	}

	// fieldGetter covers the getters that decompose the time value
	// into one calendar field. Invalid dates answer NaN.
	fieldGetter := func(name string, field func(t float64) float64) {
		defineMethod(name, 0, func(args []vm.Value) (vm.Value, error) {
			d, err := thisDateObject(vmInstance)
			if err != nil {
				return vm.Undefined, err
			}
			if d.IsInvalid() {
				return vm.NaN, nil
			}
			return vm.NumberValue(field(d.TimeValue())), nil
		})
	}

	fieldGetter("getFullYear", func(t float64) float64 { return yearFromTime(localTime(t)) })
	fieldGetter("getMonth", func(t float64) float64 { return monthFromTime(localTime(t)) })
	fieldGetter("getDate", func(t float64) float64 { return dateFromTime(localTime(t)) })
	fieldGetter("getDay", func(t float64) float64 { return weekDay(localTime(t)) })
	fieldGetter("getHours", func(t float64) float64 { return hourFromTime(localTime(t)) })
	fieldGetter("getMinutes", func(t float64) float64 { return minFromTime(localTime(t)) })
	fieldGetter("getSeconds", func(t float64) float64 { return secFromTime(localTime(t)) })
	fieldGetter("getMilliseconds", func(t float64) float64 { return msFromTime(localTime(t)) })

	fieldGetter("getUTCFullYear", yearFromTime)
	fieldGetter("getUTCMonth", monthFromTime)
	fieldGetter("getUTCDate", dateFromTime)
	fieldGetter("getUTCDay", weekDay)
	fieldGetter("getUTCHours", hourFromTime)
	fieldGetter("getUTCMinutes", minFromTime)
	fieldGetter("getUTCSeconds", secFromTime)
	fieldGetter("getUTCMilliseconds", msFromTime)

	// getTime and valueOf are the same operation registered twice.
	getTimeImpl := func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NumberValue(d.TimeValue()), nil
	}
	defineMethod("getTime", 0, getTimeImpl)
	defineMethod("valueOf", 0, getTimeImpl)

	defineMethod("getTimezoneOffset", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		if d.IsInvalid() {
			return vm.NaN, nil
		}
		t := d.TimeValue()
		return vm.NumberValue((t - localTime(t)) / msPerMinute), nil
	})

	defineMethod("getYear", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		if d.IsInvalid() {
			return vm.NaN, nil
		}
		return vm.NumberValue(yearFromTime(localTime(d.TimeValue())) - 1900), nil
	})

	defineMethod("setTime", 1, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 1)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		return finishDateMutation(d, timeClip(nums[0])), nil
	})

	defineMethod("setMilliseconds", 1, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 1)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		second, milli := carryMilliseconds(secFromTime(t), math.Trunc(nums[0]))
		newTime := timeClip(utcTime(makeDate(dayFromTimeValue(t), makeTime(hourFromTime(t), minFromTime(t), second, milli))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setSeconds", 2, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 2)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		second := math.Trunc(nums[0])
		milli := argOr(nums, 1, msFromTime(t))
		second, milli = carryMilliseconds(second, milli)
		newTime := timeClip(utcTime(makeDate(dayFromTimeValue(t), makeTime(hourFromTime(t), minFromTime(t), second, milli))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setMinutes", 3, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 3)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		minute := math.Trunc(nums[0])
		second := argOr(nums, 1, secFromTime(t))
		milli := argOr(nums, 2, msFromTime(t))
		second, milli = carryMilliseconds(second, milli)
		newTime := timeClip(utcTime(makeDate(dayFromTimeValue(t), makeTime(hourFromTime(t), minute, second, milli))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setHours", 4, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 4)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		hour := math.Trunc(nums[0])
		minute := argOr(nums, 1, minFromTime(t))
		second := argOr(nums, 2, secFromTime(t))
		milli := argOr(nums, 3, msFromTime(t))
		second, milli = carryMilliseconds(second, milli)
		newTime := timeClip(utcTime(makeDate(dayFromTimeValue(t), makeTime(hour, minute, second, milli))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setDate", 1, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 1)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		day := math.Trunc(nums[0])
		newTime := timeClip(utcTime(makeDate(makeDay(yearFromTime(t), monthFromTime(t), day), timeWithinDay(t))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setMonth", 2, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 2)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		month := math.Trunc(nums[0])
		day := argOr(nums, 1, dateFromTime(t))
		newTime := timeClip(utcTime(makeDate(makeDay(yearFromTime(t), month, day), timeWithinDay(t))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setFullYear", 3, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 3)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		year := math.Trunc(nums[0])
		month := argOr(nums, 1, monthFromTime(t))
		day := argOr(nums, 2, dateFromTime(t))
		newTime := timeClip(utcTime(makeDate(makeDay(year, month, day), timeWithinDay(t))))
		return finishDateMutation(d, newTime), nil
	})

	defineMethod("setYear", 1, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nums, err := coerceNumericArgs(vmInstance, args, 1)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		if !allFinite(nums...) {
			d.SetInvalid(true)
			return vm.NaN, nil
		}
		t := localTime(d.DateValue())
		year := makeFullYear(nums[0])
		newTime := timeClip(utcTime(makeDate(makeDay(year, monthFromTime(t), dateFromTime(t)), timeWithinDay(t))))
		return finishDateMutation(d, newTime), nil
	})

	// With the host zone pinned to UTC the UTC setters are the same
	// operations, so they share the local setters' function objects.
	utcSetterAliases := [...][2]string{
		{"setUTCDate", "setDate"},
		{"setUTCFullYear", "setFullYear"},
		{"setUTCHours", "setHours"},
		{"setUTCMilliseconds", "setMilliseconds"},
		{"setUTCMinutes", "setMinutes"},
		{"setUTCMonth", "setMonth"},
		{"setUTCSeconds", "setSeconds"},
	}
	for _, pair := range utcSetterAliases {
		if fn, ok := proto.GetOwn(pair[1]); ok {
			proto.SetOwnNonEnumerable(pair[0], fn)
		}
	}

	defineMethod("toString", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(toDateString(d.TimeValue())), nil
	})

	defineMethod("toDateString", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		if d.IsInvalid() {
			return vm.NewString("Invalid Date"), nil
		}
		return vm.NewString(dateString(localTime(d.TimeValue()))), nil
	})

	defineMethod("toTimeString", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		if d.IsInvalid() {
			return vm.NewString("Invalid Date"), nil
		}
		t := d.TimeValue()
		return vm.NewString(fmt.Sprintf("%s%s", timeString(localTime(t)), timeZoneString(t))), nil
	})

	defineMethod("toISOString", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		if d.IsInvalid() {
			return vm.Undefined, vmInstance.NewRangeError("Invalid time value")
		}
		return vm.NewString(isoDateString(d.TimeValue())), nil
	})

	// HTTP dates are always GMT, and toGMTString is the very same
	// function object under its legacy name.
	utcStringFn := vm.NewNativeFunction(0, false, "toUTCString", func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		if d.IsInvalid() {
			return vm.NewString("Invalid Date"), nil
		}
		return vm.NewString(utcDateString(d.TimeValue())), nil
	})
	proto.SetOwnNonEnumerable("toUTCString", utcStringFn)
	proto.SetOwnNonEnumerable("toGMTString", utcStringFn)

	defineMethod("toJSON", 1, func(args []vm.Value) (vm.Value, error) {
		thisVal := vmInstance.GetThis()
		prim, err := vmInstance.ToPrimitive(thisVal, "number")
		if err != nil {
			return vm.Undefined, err
		}
		if prim.IsNumber() {
			f := prim.ToFloat()
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return vm.Null, nil
			}
		}
		return vmInstance.Invoke(thisVal, "toISOString", nil)
	})

	defineMethod("toLocaleString", 0, func(args []vm.Value) (vm.Value, error) {
		return dateToLocaleString(vmInstance, args, optAny, optAll)
	})

	defineMethod("toLocaleDateString", 0, func(args []vm.Value) (vm.Value, error) {
		return dateToLocaleString(vmInstance, args, optDate, optDate)
	})

	defineMethod("toLocaleTimeString", 0, func(args []vm.Value) (vm.Value, error) {
		return dateToLocaleString(vmInstance, args, optTime, optTime)
	})

	defineMethod("toTemporalInstant", 0, func(args []vm.Value) (vm.Value, error) {
		d, err := thisDateObject(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		nanos, err := numberToBigInt(vmInstance, d.TimeValue())
		if err != nil {
			return vm.Undefined, err
		}
		nanos.Mul(nanos, big.NewInt(nsPerMillisecond))
		return newTemporalInstant(vmInstance, nanos)
	})

	toPrimitiveFn := vm.NewNativeFunction(1, false, "[Symbol.toPrimitive]", func(args []vm.Value) (vm.Value, error) {
		thisVal := vmInstance.GetThis()
		if !thisVal.IsObject() && !thisVal.IsCallable() {
			return vm.Undefined, vmInstance.NewTypeError("Value is not an object")
		}
		if len(args) == 0 || !args[0].IsString() {
			return vm.Undefined, vmInstance.NewTypeError("Invalid hint: expected \"string\", \"number\" or \"default\"")
		}
		switch hint := args[0].AsString(); hint {
		case "string", "default":
			return vmInstance.OrdinaryToPrimitive(thisVal, "string")
		case "number":
			return vmInstance.OrdinaryToPrimitive(thisVal, "number")
		default:
			return vm.Undefined, vmInstance.NewTypeError(fmt.Sprintf("Invalid hint: %q", hint))
		}
	})
	proto.DefineOwnPropertyByKey(vm.NewSymbolKey(vmInstance.SymbolToPrimitive), toPrimitiveFn, &falseVal, &falseVal, &trueVal)

	dateCtor := vm.NewConstructorWithProps(7, true, "Date", func(args []vm.Value) (vm.Value, error) {
		// Called without new, Date ignores its arguments and renders
		// the current time as a string.
		if !vmInstance.IsConstructorCall() {
			return vm.NewString(toDateString(nowTimeValue())), nil
		}
		var timeValue float64
		switch {
		case len(args) == 0:
			timeValue = nowTimeValue()
		case len(args) == 1:
			value := args[0]
			if value.Type() == vm.TypeDate {
				timeValue = value.AsDateObject().TimeValue()
			} else {
				prim, err := vmInstance.ToPrimitive(value, "default")
				if err != nil {
					return vm.Undefined, err
				}
				if prim.IsString() {
					timeValue = parseDateTimeString(prim.AsString())
				} else {
					n, err := vmInstance.ToNumber(prim)
					if err != nil {
						return vm.Undefined, err
					}
					timeValue = n
				}
			}
			timeValue = timeClip(timeValue)
		default:
			nums, err := coerceNumericArgs(vmInstance, args, 7)
			if err != nil {
				return vm.Undefined, err
			}
			if !allFinite(nums...) {
				timeValue = math.NaN()
			} else {
				year := makeFullYear(nums[0])
				month := argOr(nums, 1, 0)
				day := argOr(nums, 2, 1)
				hour := argOr(nums, 3, 0)
				minute := argOr(nums, 4, 0)
				second := argOr(nums, 5, 0)
				milli := argOr(nums, 6, 0)
				timeValue = timeClip(utcTime(makeDate(makeDay(year, month, day), makeTime(hour, minute, second, milli))))
			}
		}
		return vm.NewDateObject(vmInstance.DatePrototype, timeValue), nil
	})

	ctorProps := dateCtor.AsNativeFunctionWithProps().Properties
	ctorProps.SetOwnNonEnumerable("prototype", protoVal)

	ctorProps.SetOwnNonEnumerable("now", vm.NewNativeFunction(0, false, "now", func(args []vm.Value) (vm.Value, error) {
		return vm.NumberValue(nowTimeValue()), nil
	}))

	ctorProps.SetOwnNonEnumerable("parse", vm.NewNativeFunction(1, false, "parse", func(args []vm.Value) (vm.Value, error) {
		arg := vm.Undefined
		if len(args) > 0 {
			arg = args[0]
		}
		s, err := vmInstance.ToStringValue(arg)
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NumberValue(parseDateTimeString(s)), nil
	}))

	ctorProps.SetOwnNonEnumerable("UTC", vm.NewNativeFunction(7, false, "UTC", func(args []vm.Value) (vm.Value, error) {
		nums, err := coerceNumericArgs(vmInstance, args, 7)
		if err != nil {
			return vm.Undefined, err
		}
		if len(nums) == 0 {
			nums = append(nums, math.NaN())
		}
		year := makeFullYear(nums[0])
		month := argOr(nums, 1, 0)
		day := argOr(nums, 2, 1)
		hour := argOr(nums, 3, 0)
		minute := argOr(nums, 4, 0)
		second := argOr(nums, 5, 0)
		milli := argOr(nums, 6, 0)
		return vm.NumberValue(timeClip(makeDate(makeDay(year, month, day), makeTime(hour, minute, second, milli)))), nil
	}))

	proto.SetOwnNonEnumerable("constructor", dateCtor)

	return ctx.DefineGlobal("Date", dateCtor)
}
