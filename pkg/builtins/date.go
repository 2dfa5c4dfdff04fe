package builtins

import (
	"fmt"
	"math"
	"time"

	"meridiem/pkg/vm"
)

// thisDateObject validates the receiver of a Date method.
func thisDateObject(vmInstance *vm.VM) (*vm.DateObject, error) {
	thisVal := vmInstance.GetThis()
	if thisVal.Type() != vm.TypeDate {
		return nil, vmInstance.NewTypeError("Value is not a Date")
	}
	return thisVal.AsDateObject(), nil
}

func nowTimeValue() float64 {
	return float64(time.Now().UnixMilli())
}

// calendarFields is a decomposed time value. Month is one-based here;
// the zero-based convention of getMonth and setMonth applies only at
// that boundary. The input must be a non-NaN time value.
type calendarFields struct {
	year    int
	month   int
	day     int
	hour    int
	minute  int
	second  int
	ms      int
	weekday int
}

func decomposeTimeValue(t float64) calendarFields {
	return calendarFields{
		year:    int(yearFromTime(t)),
		month:   int(monthFromTime(t)) + 1,
		day:     int(dateFromTime(t)),
		hour:    int(hourFromTime(t)),
		minute:  int(minFromTime(t)),
		second:  int(secFromTime(t)),
		ms:      int(msFromTime(t)),
		weekday: int(weekDay(t)),
	}
}

// dateString renders the date part, "Wed Mar 15 2021". Negative years
// keep four-digit padding behind the sign.
func dateString(t float64) string {
	f := decomposeTimeValue(t)
	year, sign := f.year, ""
	if year < 0 {
		year, sign = -year, "-"
	}
	return fmt.Sprintf("%s %s %02d %s%04d", dayNames[f.weekday], monthNames[f.month-1], f.day, sign, year)
}

// timeString renders the time part, "10:30:00 GMT".
func timeString(t float64) string {
	f := decomposeTimeValue(t)
	return fmt.Sprintf("%02d:%02d:%02d GMT", f.hour, f.minute, f.second)
}

// timeZoneString renders the offset with its zone annotation,
// "+0000 (Coordinated Universal Time)". The long display name is
// preferred; the raw zone identifier is the fallback.
func timeZoneString(t float64) string {
	offset := localTZA(t, true)
	sign := "+"
	if offset < 0 {
		sign, offset = "-", -offset
	}
	zone := currentTimeZone()
	if long, ok := timeZoneDisplayName(defaultLocale, zone); ok {
		zone = long
	}
	offsetHours := int(offset / msPerHour)
	offsetMinutes := int(math.Mod(offset, msPerHour) / msPerMinute)
	return fmt.Sprintf("%s%02d%02d (%s)", sign, offsetHours, offsetMinutes, zone)
}

// toDateString is the full composition behind toString.
func toDateString(t float64) string {
	if math.IsNaN(t) {
		return "Invalid Date"
	}
	lt := localTime(t)
	return fmt.Sprintf("%s %s%s", dateString(lt), timeString(lt), timeZoneString(t))
}

// isoDateString renders the interchange format with millisecond
// precision. Years outside [0, 9999] use the expanded six-digit form
// with an explicit sign.
func isoDateString(t float64) string {
	f := decomposeTimeValue(t)
	var year string
	if f.year >= 0 && f.year <= 9999 {
		year = fmt.Sprintf("%04d", f.year)
	} else {
		year = fmt.Sprintf("%+07d", f.year)
	}
	return fmt.Sprintf("%s-%02d-%02dT%02d:%02d:%02d.%03dZ", year, f.month, f.day, f.hour, f.minute, f.second, f.ms)
}

// utcDateString renders the HTTP date form, always in GMT.
func utcDateString(t float64) string {
	f := decomposeTimeValue(t)
	year, sign := f.year, ""
	if year < 0 {
		year, sign = -year, "-"
	}
	return fmt.Sprintf("%s, %02d %s %s%04d %02d:%02d:%02d GMT",
		dayNames[f.weekday], f.day, monthNames[f.month-1], sign, year, f.hour, f.minute, f.second)
}

// coerceNumericArgs converts up to max arguments to numbers, strictly
// left to right, before any field defaulting or composition. Coercion
// side effects are observable, so every supplied argument converts
// even when an earlier one already produced NaN. Arguments beyond max
// are ignored without conversion.
func coerceNumericArgs(vmInstance *vm.VM, args []vm.Value, max int) ([]float64, error) {
	n := len(args)
	if n > max {
		n = max
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		f, err := vmInstance.ToNumber(args[i])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// argOr returns the truncated coerced argument at index, or the
// fallback read from the current decomposition when the caller
// supplied fewer arguments.
func argOr(nums []float64, index int, fallback float64) float64 {
	if index < len(nums) {
		return math.Trunc(nums[index])
	}
	return fallback
}

// carryMilliseconds folds whole seconds out of a millisecond count
// before composition. Truncated division keeps the carry symmetric
// for negative counts.
func carryMilliseconds(sec, ms float64) (float64, float64) {
	carry := math.Trunc(ms / msPerSecond)
	return sec + carry, ms - carry*msPerSecond
}

// finishDateMutation synchronizes the validity flag with a composed
// time value and returns the number every setter returns. A NaN
// result flips the object invalid without touching the stored value;
// a finite result stores it and revalidates the object.
func finishDateMutation(d *vm.DateObject, t float64) vm.Value {
	if math.IsNaN(t) {
		d.SetInvalid(true)
		return vm.NaN
	}
	d.SetDateValue(t)
	d.SetInvalid(false)
	return vm.NumberValue(t)
}
