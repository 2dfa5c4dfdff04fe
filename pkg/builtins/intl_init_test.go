package builtins

import (
	"testing"

	"meridiem/pkg/vm"
)

func dateTimeFormatConstructor(t *testing.T, vmInstance *vm.VM) vm.Value {
	t.Helper()
	ctor, err := vmInstance.GetProperty(testGlobal(t, vmInstance, "Intl"), "DateTimeFormat")
	if err != nil {
		t.Fatalf("Intl.DateTimeFormat lookup failed: %v", err)
	}
	return ctor
}

func newDateTimeFormat(t *testing.T, vmInstance *vm.VM, args ...vm.Value) vm.Value {
	t.Helper()
	dtf, err := vmInstance.Construct(dateTimeFormatConstructor(t, vmInstance), args)
	if err != nil {
		t.Fatalf("DateTimeFormat construction failed: %v", err)
	}
	return dtf
}

// styleOptions builds an options object requesting the named
// components.
func styleOptions(vmInstance *vm.VM, pairs ...string) vm.Value {
	obj := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		obj.SetOwn(pairs[i], vm.NewString(pairs[i+1]))
	}
	return obj.Value()
}

func TestResolveLocale(t *testing.T) {
	vmInstance := newTestRuntime(t)

	testCases := []struct {
		name    string
		locales vm.Value
		want    string
	}{
		{"Undefined", vm.Undefined, "en-US"},
		{"ExactMatch", vm.NewString("en-US"), "en-US"},
		{"BaseLanguage", vm.NewString("en"), "en-US"},
		{"British", vm.NewString("en-GB"), "en-GB"},
		{"German", vm.NewString("de"), "de-DE"},
		{"GermanRegionalVariant", vm.NewString("de-AT"), "de-DE"},
		{"UnsupportedFallsBack", vm.NewString("fr"), "en-US"},
		{"CaseInsensitive", vm.NewString("EN-us"), "en-US"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveLocale(vmInstance, tc.locales)
			if err != nil {
				t.Fatalf("resolveLocale failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Locale mismatch. Expected %q, got %q", tc.want, got)
			}
		})
	}

	_, err := resolveLocale(vmInstance, vm.NewString("!invalid!"))
	if err == nil || !vm.IsRangeError(err) {
		t.Fatalf("Expected RangeError for a malformed tag, got %v", err)
	}
	if err.Error() != "RangeError: !invalid! is not a structurally valid language tag" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	_, err = resolveLocale(vmInstance, vm.NumberValue(5))
	if err == nil || !vm.IsTypeError(err) {
		t.Fatalf("Expected TypeError for a number locale, got %v", err)
	}
}

func TestTimeZoneDisplayName(t *testing.T) {
	testCases := []struct {
		locale string
		zone   string
		want   string
		ok     bool
	}{
		{"en-US", "UTC", "Coordinated Universal Time", true},
		{"en-GB", "UTC", "Coordinated Universal Time", true},
		{"de-DE", "UTC", "Koordinierte Weltzeit", true},
		{"en-US", "GMT", "Greenwich Mean Time", true},
		{"fr-FR", "UTC", "", false},
		{"en-US", "Mars/Olympus", "", false},
	}
	for _, tc := range testCases {
		got, ok := timeZoneDisplayName(tc.locale, tc.zone)
		if ok != tc.ok || got != tc.want {
			t.Errorf("timeZoneDisplayName(%q, %q) mismatch. Expected (%q, %v), got (%q, %v)",
				tc.locale, tc.zone, tc.want, tc.ok, got, ok)
		}
	}
}

func TestDateTimeFormatDefaults(t *testing.T) {
	vmInstance := newTestRuntime(t)

	// With no options the formatter shows the date portion only.
	dtf := newDateTimeFormat(t, vmInstance)
	if got := invokeString(t, vmInstance, dtf, "format", vm.NumberValue(tvMar15_2021)); got != "3/15/2021" {
		t.Errorf("format mismatch. Expected %q, got %q", "3/15/2021", got)
	}

	// Calling without an argument formats the current time.
	result := mustInvoke(t, vmInstance, dtf, "format")
	if !result.IsString() || result.AsString() == "" {
		t.Errorf("Expected a non-empty string for the current time, got %v", result)
	}
}

func TestDateTimeFormatLocales(t *testing.T) {
	vmInstance := newTestRuntime(t)

	testCases := []struct {
		locale string
		want   string
	}{
		{"en-US", "3/15/2021"},
		{"en-GB", "15/03/2021"},
		{"de-DE", "15.3.2021"},
	}
	for _, tc := range testCases {
		t.Run(tc.locale, func(t *testing.T) {
			dtf := newDateTimeFormat(t, vmInstance, vm.NewString(tc.locale))
			if got := invokeString(t, vmInstance, dtf, "format", vm.NumberValue(tvMar15_2021)); got != tc.want {
				t.Errorf("format mismatch. Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDateTimeFormatComponents(t *testing.T) {
	vmInstance := newTestRuntime(t)

	// Time components only.
	dtf := newDateTimeFormat(t, vmInstance, vm.NewString("en-US"),
		styleOptions(vmInstance, "hour", "numeric", "minute", "2-digit", "second", "2-digit"))
	if got := invokeString(t, vmInstance, dtf, "format", vm.NumberValue(tvMar15_2021)); got != "10:30:00 AM" {
		t.Errorf("format mismatch. Expected %q, got %q", "10:30:00 AM", got)
	}

	// Date and time render with a comma between them.
	dtf = newDateTimeFormat(t, vmInstance, vm.NewString("en-US"),
		styleOptions(vmInstance,
			"year", "numeric", "month", "numeric", "day", "numeric",
			"hour", "numeric", "minute", "2-digit", "second", "2-digit"))
	want := "3/15/2021, 10:30:00 AM"
	if got := invokeString(t, vmInstance, dtf, "format", vm.NumberValue(tvMar15_2021)); got != want {
		t.Errorf("format mismatch. Expected %q, got %q", want, got)
	}

	// Weekday alone.
	dtf = newDateTimeFormat(t, vmInstance, vm.NewString("en-US"), styleOptions(vmInstance, "weekday", "short"))
	if got := invokeString(t, vmInstance, dtf, "format", vm.NumberValue(tvMar15_2021)); got != "Mon" {
		t.Errorf("format mismatch. Expected %q, got %q", "Mon", got)
	}
}

func TestDateTimeFormatAcceptsDateArgument(t *testing.T) {
	vmInstance := newTestRuntime(t)
	d := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021))

	dtf := newDateTimeFormat(t, vmInstance)
	if got := invokeString(t, vmInstance, dtf, "format", d); got != "3/15/2021" {
		t.Errorf("format mismatch. Expected %q, got %q", "3/15/2021", got)
	}
}

func TestDateTimeFormatRejectsInvalidTime(t *testing.T) {
	vmInstance := newTestRuntime(t)
	dtf := newDateTimeFormat(t, vmInstance)

	_, err := vmInstance.Invoke(dtf, "format", []vm.Value{vm.NaN})
	if err == nil || !vm.IsRangeError(err) {
		t.Fatalf("Expected RangeError, got %v", err)
	}
	if err.Error() != "RangeError: Invalid time value" {
		t.Errorf("Expected %q, got %q", "RangeError: Invalid time value", err.Error())
	}

	// Out-of-range time values clip to NaN first.
	_, err = vmInstance.Invoke(dtf, "format", []vm.Value{vm.NumberValue(8.64e15 + 1)})
	if err == nil || !vm.IsRangeError(err) {
		t.Fatalf("Expected RangeError for an out-of-range value, got %v", err)
	}
}

func TestDateTimeFormatResolvedOptions(t *testing.T) {
	vmInstance := newTestRuntime(t)

	expectOption := func(options vm.Value, name, want string) {
		t.Helper()
		v, err := vmInstance.GetProperty(options, name)
		if err != nil {
			t.Fatalf("GetProperty(%s) failed: %v", name, err)
		}
		if !v.IsString() || v.AsString() != want {
			t.Errorf("%s mismatch. Expected %q, got %v", name, want, v)
		}
	}

	dtf := newDateTimeFormat(t, vmInstance)
	options := mustInvoke(t, vmInstance, dtf, "resolvedOptions")
	expectOption(options, "locale", "en-US")
	expectOption(options, "calendar", "gregory")
	expectOption(options, "numberingSystem", "latn")
	expectOption(options, "timeZone", "UTC")
	expectOption(options, "year", "numeric")
	expectOption(options, "month", "numeric")
	expectOption(options, "day", "numeric")
	if v, _ := vmInstance.GetProperty(options, "weekday"); !v.IsUndefined() {
		t.Errorf("Expected no weekday entry, got %v", v)
	}
	if v, _ := vmInstance.GetProperty(options, "hour12"); !v.IsUndefined() {
		t.Errorf("Expected no hour12 entry without time components, got %v", v)
	}

	dtf = newDateTimeFormat(t, vmInstance, vm.NewString("de-DE"),
		styleOptions(vmInstance, "weekday", "short", "hour", "2-digit", "minute", "2-digit"))
	options = mustInvoke(t, vmInstance, dtf, "resolvedOptions")
	expectOption(options, "locale", "de-DE")
	expectOption(options, "weekday", "short")
	expectOption(options, "hour", "2-digit")
	expectOption(options, "minute", "2-digit")
	hour12, err := vmInstance.GetProperty(options, "hour12")
	if err != nil {
		t.Fatalf("GetProperty(hour12) failed: %v", err)
	}
	if !hour12.IsBoolean() || hour12.AsBoolean() {
		t.Errorf("Expected hour12 false for de-DE, got %v", hour12)
	}
}

func TestDateTimeFormatReceiverValidation(t *testing.T) {
	vmInstance := newTestRuntime(t)
	dtf := newDateTimeFormat(t, vmInstance)

	for _, method := range []string{"format", "resolvedOptions"} {
		fn, err := vmInstance.GetProperty(dtf, method)
		if err != nil {
			t.Fatalf("GetProperty(%s) failed: %v", method, err)
		}
		_, err = vmInstance.Call(fn, vm.NewObject(vmInstance.ObjectPrototype), nil)
		if err == nil || !vm.IsTypeError(err) {
			t.Errorf("%s: Expected TypeError for a plain object receiver, got %v", method, err)
		}
	}
}

func TestDateTimeFormatCallableWithoutNew(t *testing.T) {
	vmInstance := newTestRuntime(t)
	ctor := dateTimeFormatConstructor(t, vmInstance)

	dtf, err := vmInstance.Call(ctor, vm.Undefined, []vm.Value{vm.NewString("de-DE")})
	if err != nil {
		t.Fatalf("DateTimeFormat call failed: %v", err)
	}
	if got := invokeString(t, vmInstance, dtf, "format", vm.NumberValue(tvMar15_2021)); got != "15.3.2021" {
		t.Errorf("format mismatch. Expected %q, got %q", "15.3.2021", got)
	}
}

func TestDateTimeFormatRejectsBadArguments(t *testing.T) {
	vmInstance := newTestRuntime(t)
	ctor := dateTimeFormatConstructor(t, vmInstance)

	_, err := vmInstance.Construct(ctor, []vm.Value{vm.NewString("!invalid!")})
	if err == nil || !vm.IsRangeError(err) {
		t.Fatalf("Expected RangeError for a malformed tag, got %v", err)
	}

	_, err = vmInstance.Construct(ctor, []vm.Value{vm.NumberValue(5)})
	if err == nil || !vm.IsTypeError(err) {
		t.Fatalf("Expected TypeError for a number locale, got %v", err)
	}

	_, err = vmInstance.Construct(ctor, []vm.Value{vm.Undefined, vm.NumberValue(5)})
	if err == nil || !vm.IsTypeError(err) {
		t.Fatalf("Expected TypeError for a number options argument, got %v", err)
	}
}

func TestToLocaleString(t *testing.T) {
	vmInstance := newTestRuntime(t)
	d := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021))

	testCases := []struct {
		name string
		args []vm.Value
		want string
	}{
		{"DefaultLocale", nil, "3/15/2021, 10:30:00 AM"},
		{"German", []vm.Value{vm.NewString("de-DE")}, "15.3.2021, 10:30:00"},
		{"British", []vm.Value{vm.NewString("en-GB")}, "15/03/2021, 10:30:00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := invokeString(t, vmInstance, d, "toLocaleString", tc.args...); got != tc.want {
				t.Errorf("toLocaleString mismatch. Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestToLocaleDateString(t *testing.T) {
	vmInstance := newTestRuntime(t)
	d := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021))

	if got := invokeString(t, vmInstance, d, "toLocaleDateString"); got != "3/15/2021" {
		t.Errorf("Expected %q, got %q", "3/15/2021", got)
	}
	if got := invokeString(t, vmInstance, d, "toLocaleDateString", vm.NewString("de-DE")); got != "15.3.2021" {
		t.Errorf("Expected %q, got %q", "15.3.2021", got)
	}

	// A weekday request joins with the numeric date.
	full := styleOptions(vmInstance, "weekday", "short", "year", "numeric", "month", "numeric", "day", "numeric")
	if got := invokeString(t, vmInstance, d, "toLocaleDateString", vm.NewString("en-US"), full); got != "Mon, 3/15/2021" {
		t.Errorf("Expected %q, got %q", "Mon, 3/15/2021", got)
	}
	full = styleOptions(vmInstance, "weekday", "short", "year", "numeric", "month", "numeric", "day", "numeric")
	if got := invokeString(t, vmInstance, d, "toLocaleDateString", vm.NewString("de-DE"), full); got != "Mo., 15.3.2021" {
		t.Errorf("Expected %q, got %q", "Mo., 15.3.2021", got)
	}
}

func TestToLocaleTimeString(t *testing.T) {
	vmInstance := newTestRuntime(t)

	d := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021))
	if got := invokeString(t, vmInstance, d, "toLocaleTimeString"); got != "10:30:00 AM" {
		t.Errorf("Expected %q, got %q", "10:30:00 AM", got)
	}
	if got := invokeString(t, vmInstance, d, "toLocaleTimeString", vm.NewString("de-DE")); got != "10:30:00" {
		t.Errorf("Expected %q, got %q", "10:30:00", got)
	}

	// Twelve-hour rendering pins midnight and noon to 12.
	midnight := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021Date))
	if got := invokeString(t, vmInstance, midnight, "toLocaleTimeString"); got != "12:00:00 AM" {
		t.Errorf("Expected %q, got %q", "12:00:00 AM", got)
	}
	noon := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021Date+12*msPerHour))
	if got := invokeString(t, vmInstance, noon, "toLocaleTimeString"); got != "12:00:00 PM" {
		t.Errorf("Expected %q, got %q", "12:00:00 PM", got)
	}
}

func TestToLocaleOnInvalidDate(t *testing.T) {
	vmInstance := newTestRuntime(t)
	d := constructDate(t, vmInstance, vm.NaN)

	// Invalid dates render as Invalid Date before the arguments are
	// even looked at.
	for _, method := range []string{"toLocaleString", "toLocaleDateString", "toLocaleTimeString"} {
		if got := invokeString(t, vmInstance, d, method, vm.NumberValue(5)); got != "Invalid Date" {
			t.Errorf("%s mismatch. Expected %q, got %q", method, "Invalid Date", got)
		}
	}
}

func TestToLocaleRejectsBadLocale(t *testing.T) {
	vmInstance := newTestRuntime(t)
	d := constructDate(t, vmInstance, vm.NumberValue(tvMar15_2021))

	_, err := vmInstance.Invoke(d, "toLocaleString", []vm.Value{vm.NewString("!invalid!")})
	if err == nil || !vm.IsRangeError(err) {
		t.Fatalf("Expected RangeError, got %v", err)
	}
	_, err = vmInstance.Invoke(d, "toLocaleString", []vm.Value{vm.NumberValue(5)})
	if err == nil || !vm.IsTypeError(err) {
		t.Fatalf("Expected TypeError, got %v", err)
	}
}
