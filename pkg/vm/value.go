package vm

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unsafe"
)

// ValueType discriminates the payload of a Value.
type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeFloatNumber
	TypeIntegerNumber
	TypeString
	TypeSymbol
	TypeBigInt
	TypeNativeFunction
	TypeNativeFunctionWithProps
	TypeObject
	TypeDate
)

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeFloatNumber:
		return "float"
	case TypeIntegerNumber:
		return "integer"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeBigInt:
		return "bigint"
	case TypeNativeFunction, TypeNativeFunctionWithProps:
		return "function"
	case TypeObject:
		return "object"
	case TypeDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a tagged union. Numbers and booleans live in payload,
// everything heap-allocated hangs off obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

// Shared singletons. NaN carries the canonical quiet NaN payload so that
// identity checks against it behave like payload comparisons elsewhere.
var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeFloatNumber, payload: math.Float64bits(math.NaN())}
)

// SymbolObject is the heap form of a symbol. Identity is pointer identity.
type SymbolObject struct {
	Description string
}

// BigIntObject wraps an arbitrary-precision integer.
type BigIntObject struct {
	Value *big.Int
}

func NumberValue(f float64) Value {
	return Value{typ: TypeFloatNumber, payload: math.Float64bits(f)}
}

func IntegerValue(i int32) Value {
	return Value{typ: TypeIntegerNumber, payload: uint64(i)}
}

func BooleanValue(b bool) Value {
	if b {
		return True
	}
	return False
}

func NewString(s string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&s)}
}

func NewSymbol(description string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&SymbolObject{Description: description})}
}

func NewBigInt(i *big.Int) Value {
	return Value{typ: TypeBigInt, obj: unsafe.Pointer(&BigIntObject{Value: i})}
}

func (v Value) Type() ValueType { return v.typ }

// TypeName returns the typeof-style name for the value.
func (v Value) TypeName() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "object"
	case TypeBoolean:
		return "boolean"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeBigInt:
		return "bigint"
	case TypeNativeFunction, TypeNativeFunctionWithProps:
		return "function"
	default:
		return "object"
	}
}

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsSymbol() bool    { return v.typ == TypeSymbol }
func (v Value) IsBigInt() bool    { return v.typ == TypeBigInt }
func (v Value) IsDate() bool      { return v.typ == TypeDate }

func (v Value) IsNumber() bool {
	return v.typ == TypeFloatNumber || v.typ == TypeIntegerNumber
}

// IsObject reports whether the value is object-like, exotic date
// objects included. Functions are tracked separately via IsCallable.
func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeDate
}

func (v Value) IsCallable() bool {
	return v.typ == TypeNativeFunction || v.typ == TypeNativeFunctionWithProps
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeFloatNumber {
		panic(fmt.Sprintf("AsFloat called on %s value", v.typ))
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsInteger() int32 {
	if v.typ != TypeIntegerNumber {
		panic(fmt.Sprintf("AsInteger called on %s value", v.typ))
	}
	return int32(v.payload)
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic(fmt.Sprintf("AsBoolean called on %s value", v.typ))
	}
	return v.payload != 0
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic(fmt.Sprintf("AsString called on %s value", v.typ))
	}
	return *(*string)(v.obj)
}

func (v Value) AsSymbolObject() *SymbolObject {
	if v.typ != TypeSymbol {
		panic(fmt.Sprintf("AsSymbolObject called on %s value", v.typ))
	}
	return (*SymbolObject)(v.obj)
}

func (v Value) AsBigInt() *big.Int {
	if v.typ != TypeBigInt {
		panic(fmt.Sprintf("AsBigInt called on %s value", v.typ))
	}
	return (*BigIntObject)(v.obj).Value
}

func (v Value) AsPlainObject() *PlainObject {
	if v.typ != TypeObject {
		panic(fmt.Sprintf("AsPlainObject called on %s value", v.typ))
	}
	return (*PlainObject)(v.obj)
}

func (v Value) AsDateObject() *DateObject {
	if v.typ != TypeDate {
		panic(fmt.Sprintf("AsDateObject called on %s value", v.typ))
	}
	return (*DateObject)(v.obj)
}

func (v Value) AsNativeFunction() *NativeFunctionObject {
	if v.typ != TypeNativeFunction {
		panic(fmt.Sprintf("AsNativeFunction called on %s value", v.typ))
	}
	return (*NativeFunctionObject)(v.obj)
}

func (v Value) AsNativeFunctionWithProps() *NativeFunctionObjectWithProps {
	if v.typ != TypeNativeFunctionWithProps {
		panic(fmt.Sprintf("AsNativeFunctionWithProps called on %s value", v.typ))
	}
	return (*NativeFunctionObjectWithProps)(v.obj)
}

// Is compares two values: numbers numerically with NaN equal to itself,
// strings by content, everything heap-allocated by identity.
func (v Value) Is(other Value) bool {
	if v.typ != other.typ {
		if v.IsNumber() && other.IsNumber() {
			return v.ToFloat() == other.ToFloat()
		}
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean, TypeFloatNumber, TypeIntegerNumber:
		return v.payload == other.payload
	case TypeString:
		return v.AsString() == other.AsString()
	default:
		return v.obj == other.obj
	}
}

// ToFloat converts a primitive to a number. Object coercion, which can
// run user hooks, lives on the VM; here objects simply yield NaN.
func (v Value) ToFloat() float64 {
	switch v.typ {
	case TypeFloatNumber:
		return v.AsFloat()
	case TypeIntegerNumber:
		return float64(v.AsInteger())
	case TypeBoolean:
		if v.payload != 0 {
			return 1
		}
		return 0
	case TypeNull:
		return 0
	case TypeString:
		return parseStringToNumber(v.AsString())
	default:
		return math.NaN()
	}
}

// ToString renders primitives. Numbers follow the language rules: no
// trailing zeros, exponential form outside [1e-6, 1e21), negative zero
// prints as "0".
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.payload != 0 {
			return "true"
		}
		return "false"
	case TypeIntegerNumber:
		return strconv.Itoa(int(v.AsInteger()))
	case TypeFloatNumber:
		return formatFloat(v.AsFloat())
	case TypeString:
		return v.AsString()
	case TypeSymbol:
		return fmt.Sprintf("Symbol(%s)", v.AsSymbolObject().Description)
	case TypeBigInt:
		return v.AsBigInt().String()
	case TypeNativeFunction:
		return fmt.Sprintf("function %s() { [native code] }", v.AsNativeFunction().Name)
	case TypeNativeFunctionWithProps:
		return fmt.Sprintf("function %s() { [native code] }", v.AsNativeFunctionWithProps().Name)
	case TypeDate:
		return "[object Date]"
	default:
		return "[object Object]"
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cleanExponentialFormat rewrites Go's "1e+07" into the language's
// "1e+7" by stripping leading zeros from the exponent.
func cleanExponentialFormat(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 {
		return s
	}
	mantissa, exponent := s[:idx], s[idx+1:]
	sign := ""
	if len(exponent) > 0 && (exponent[0] == '+' || exponent[0] == '-') {
		sign = string(exponent[0])
		exponent = exponent[1:]
	}
	exponent = strings.TrimLeft(exponent, "0")
	if exponent == "" {
		exponent = "0"
	}
	return mantissa + "e" + sign + exponent
}

// parseStringToNumber implements string-to-number coercion: trimmed
// empty string is 0, radix prefixes are honored, "Infinity" is case
// sensitive, anything else unparseable is NaN.
func parseStringToNumber(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	if len(trimmed) > 2 && trimmed[0] == '0' {
		switch trimmed[1] {
		case 'x', 'X':
			if n, err := strconv.ParseUint(trimmed[2:], 16, 64); err == nil {
				return float64(n)
			}
			return math.NaN()
		case 'b', 'B':
			if n, err := strconv.ParseUint(trimmed[2:], 2, 64); err == nil {
				return float64(n)
			}
			return math.NaN()
		case 'o', 'O':
			if n, err := strconv.ParseUint(trimmed[2:], 8, 64); err == nil {
				return float64(n)
			}
			return math.NaN()
		}
	}
	switch trimmed {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "infinity") || strings.Contains(lower, "inf") {
		// Only the exact spellings above convert; case variants are NaN.
		return math.NaN()
	}
	if strings.ContainsAny(trimmed, "_xX") {
		// Digit separators and signed hex floats are Go literal
		// syntax, not numeric strings.
		return math.NaN()
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
