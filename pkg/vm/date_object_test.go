package vm

import (
	"math"
	"testing"
)

func TestNewDateObject(t *testing.T) {
	protoVal := NewObject(Null)
	v := NewDateObject(protoVal, 1615804200000)

	if v.Type() != TypeDate || !v.IsDate() {
		t.Fatalf("Expected a date value, got %v", v.Type())
	}
	d := v.AsDateObject()
	if d.IsInvalid() {
		t.Errorf("Expected a finite time value to start valid")
	}
	if got := d.TimeValue(); got != 1615804200000 {
		t.Errorf("TimeValue mismatch. Expected %v, got %v", 1615804200000.0, got)
	}
	if !d.Prototype().Is(protoVal) {
		t.Errorf("Expected the prototype link to be preserved")
	}
}

func TestNewDateObjectStartsInvalidOnNaN(t *testing.T) {
	d := NewDateObject(Undefined, math.NaN()).AsDateObject()

	if !d.IsInvalid() {
		t.Errorf("Expected a NaN time value to start invalid")
	}
	if got := d.TimeValue(); !math.IsNaN(got) {
		t.Errorf("Expected NaN, got %v", got)
	}
}

func TestInvalidFlagMasksStoredValue(t *testing.T) {
	d := NewDateObject(Undefined, 0).AsDateObject()

	// The flag is authoritative: the stored number stays readable
	// through DateValue but TimeValue reports NaN.
	d.SetDateValue(5)
	d.SetInvalid(true)
	if got := d.TimeValue(); !math.IsNaN(got) {
		t.Errorf("Expected NaN while invalid, got %v", got)
	}
	if got := d.DateValue(); got != 5 {
		t.Errorf("Expected the raw value to survive, got %v", got)
	}

	d.SetInvalid(false)
	if got := d.TimeValue(); got != 5 {
		t.Errorf("Expected 5 after revalidation, got %v", got)
	}
}

func TestDateObjectValueRoundTrip(t *testing.T) {
	v := NewDateObject(Undefined, 7)
	d := v.AsDateObject()

	// Value wraps the same object, not a copy.
	d.SetDateValue(8)
	if got := d.Value().AsDateObject().TimeValue(); got != 8 {
		t.Errorf("Expected 8 through the round trip, got %v", got)
	}
	if !d.Value().Is(v) {
		t.Errorf("Expected identity to survive the round trip")
	}
}
