package vm

import (
	"math"
	"unsafe"
)

// DateObject is the exotic object backing Date instances. It stores the
// time value in milliseconds since the epoch alongside a validity flag.
// The flag, not the stored number, is authoritative: every read through
// TimeValue reports NaN while the object is invalid, and setters flip
// the flag back once a composition produces a clippable value again.
type DateObject struct {
	prototype Value
	dateValue float64
	invalid   bool
}

// NewDateObject wraps a time value. A NaN time value starts invalid.
func NewDateObject(prototype Value, timeValue float64) Value {
	d := &DateObject{
		prototype: prototype,
		dateValue: timeValue,
		invalid:   math.IsNaN(timeValue),
	}
	return Value{typ: TypeDate, obj: unsafe.Pointer(d)}
}

func (d *DateObject) Value() Value {
	return Value{typ: TypeDate, obj: unsafe.Pointer(d)}
}

func (d *DateObject) Prototype() Value { return d.prototype }

// DateValue returns the raw stored milliseconds, ignoring the
// validity flag. Setters default omitted fields from it even while
// the object is invalid.
func (d *DateObject) DateValue() float64 { return d.dateValue }

func (d *DateObject) SetDateValue(t float64) { d.dateValue = t }

func (d *DateObject) IsInvalid() bool { return d.invalid }

func (d *DateObject) SetInvalid(invalid bool) { d.invalid = invalid }

// TimeValue is the observable read: NaN while the object is invalid.
func (d *DateObject) TimeValue() float64 {
	if d.invalid {
		return math.NaN()
	}
	return d.dateValue
}
