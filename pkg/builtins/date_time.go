package builtins

import "math"

// Calendar arithmetic over time values. A time value is a float64
// counting milliseconds since 1970-01-01T00:00:00Z on the proleptic
// Gregorian calendar; NaN marks an invalid value. Every function here
// is total: NaN in, NaN out, never a panic.

const (
	msPerSecond = 1000.0
	msPerMinute = 60_000.0
	msPerHour   = 3_600_000.0
	msPerDay    = 86_400_000.0

	hoursPerDay      = 24.0
	minutesPerHour   = 60.0
	secondsPerMinute = 60.0

	// maxTimeValue bounds clipped time values at 100 million days on
	// either side of the epoch.
	maxTimeValue = 8.64e15
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// monthOffsets holds the day of year each month starts on in a common
// year.
var monthOffsets = [12]float64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// floorMod is the modulo whose result takes the sign of the divisor,
// which keeps field decomposition total over negative time values.
func floorMod(x, y float64) float64 {
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// dayFromTimeValue counts whole days since the epoch, negative before
// it.
func dayFromTimeValue(t float64) float64 {
	return math.Floor(t / msPerDay)
}

// timeWithinDay is the nonnegative millisecond remainder of the day.
func timeWithinDay(t float64) float64 {
	return floorMod(t, msPerDay)
}

func isLeapYear(y float64) bool {
	if floorMod(y, 4) != 0 {
		return false
	}
	if floorMod(y, 100) != 0 {
		return true
	}
	return floorMod(y, 400) == 0
}

func daysInYear(y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	if isLeapYear(y) {
		return 366
	}
	return 365
}

// dayFromYear is the day number of January 1 of the given year.
func dayFromYear(y float64) float64 {
	return 365*(y-1970) + math.Floor((y-1969)/4) - math.Floor((y-1901)/100) + math.Floor((y-1601)/400)
}

func timeFromYear(y float64) float64 {
	return msPerDay * dayFromYear(y)
}

// yearFromTime finds the year containing a time value. An estimate
// from the mean Gregorian year length is corrected by at most a step
// or two.
func yearFromTime(t float64) float64 {
	if math.IsNaN(t) {
		return math.NaN()
	}
	y := math.Floor(t/(msPerDay*365.2425)) + 1970
	for {
		if timeFromYear(y) > t {
			y--
			continue
		}
		if timeFromYear(y+1) <= t {
			y++
			continue
		}
		return y
	}
}

// inLeapYear is 1 in leap years, 0 otherwise.
func inLeapYear(t float64) float64 {
	switch daysInYear(yearFromTime(t)) {
	case 366:
		return 1
	case 365:
		return 0
	default:
		return math.NaN()
	}
}

// dayWithinYear counts days since January 1, starting at 0.
func dayWithinYear(t float64) float64 {
	return dayFromTimeValue(t) - dayFromYear(yearFromTime(t))
}

// monthFromTime is the zero-based month, 0 for January.
func monthFromTime(t float64) float64 {
	day := dayWithinYear(t)
	leap := inLeapYear(t)
	switch {
	case math.IsNaN(day):
		return math.NaN()
	case day < 31:
		return 0
	case day < 59+leap:
		return 1
	case day < 90+leap:
		return 2
	case day < 120+leap:
		return 3
	case day < 151+leap:
		return 4
	case day < 181+leap:
		return 5
	case day < 212+leap:
		return 6
	case day < 243+leap:
		return 7
	case day < 273+leap:
		return 8
	case day < 304+leap:
		return 9
	case day < 334+leap:
		return 10
	default:
		return 11
	}
}

// dateFromTime is the one-based day of month.
func dateFromTime(t float64) float64 {
	day := dayWithinYear(t)
	leap := inLeapYear(t)
	switch monthFromTime(t) {
	case 0:
		return day + 1
	case 1:
		return day - 30
	case 2:
		return day - 58 - leap
	case 3:
		return day - 89 - leap
	case 4:
		return day - 119 - leap
	case 5:
		return day - 150 - leap
	case 6:
		return day - 180 - leap
	case 7:
		return day - 211 - leap
	case 8:
		return day - 242 - leap
	case 9:
		return day - 272 - leap
	case 10:
		return day - 303 - leap
	case 11:
		return day - 333 - leap
	default:
		return math.NaN()
	}
}

// weekDay is 0 for Sunday through 6 for Saturday. The epoch was a
// Thursday.
func weekDay(t float64) float64 {
	return floorMod(dayFromTimeValue(t)+4, 7)
}

func hourFromTime(t float64) float64 {
	return floorMod(math.Floor(t/msPerHour), hoursPerDay)
}

func minFromTime(t float64) float64 {
	return floorMod(math.Floor(t/msPerMinute), minutesPerHour)
}

func secFromTime(t float64) float64 {
	return floorMod(math.Floor(t/msPerSecond), secondsPerMinute)
}

func msFromTime(t float64) float64 {
	return floorMod(t, msPerSecond)
}

// makeTime folds hour, minute, second and millisecond into a
// millisecond count. Fractions truncate toward zero; any non-finite
// input poisons the result.
func makeTime(hour, min, sec, ms float64) float64 {
	if !allFinite(hour, min, sec, ms) {
		return math.NaN()
	}
	h := math.Trunc(hour)
	m := math.Trunc(min)
	s := math.Trunc(sec)
	milli := math.Trunc(ms)
	return h*msPerHour + m*msPerMinute + s*msPerSecond + milli
}

// makeDay computes the day number for a year, zero-based month and day
// of month. Out-of-range months and days roll over into neighboring
// months and years rather than failing.
func makeDay(year, month, date float64) float64 {
	if !allFinite(year, month, date) {
		return math.NaN()
	}
	y := math.Trunc(year)
	m := math.Trunc(month)
	d := math.Trunc(date)
	ym := y + math.Floor(m/12)
	mn := floorMod(m, 12)
	firstOfMonth := timeFromYear(ym) + monthStart(mn, isLeapYear(ym))*msPerDay
	return dayFromTimeValue(firstOfMonth) + d - 1
}

func monthStart(month float64, leap bool) float64 {
	offset := monthOffsets[int(month)]
	if leap && month >= 2 {
		offset++
	}
	return offset
}

func makeDate(day, time float64) float64 {
	if !allFinite(day, time) {
		return math.NaN()
	}
	return day*msPerDay + time
}

// makeFullYear folds truncated years 0 through 99 into the 1900s.
// Only the legacy entry points fold: the constructor, Date.UTC and
// setYear. The four-digit setters never call this.
func makeFullYear(year float64) float64 {
	if math.IsNaN(year) {
		return math.NaN()
	}
	truncated := math.Trunc(year)
	if truncated >= 0 && truncated <= 99 {
		return 1900 + truncated
	}
	return truncated
}

// localTZA reports the local time zone adjustment in milliseconds at
// the given time. The host zone is pinned to UTC so the adjustment is
// always zero; both parameters stay in the signature so a real host
// zone can slot in without touching callers.
func localTZA(t float64, isUTC bool) float64 {
	return 0
}

func localTime(t float64) float64 {
	return t + localTZA(t, true)
}

func utcTime(t float64) float64 {
	return t - localTZA(t, false)
}

// timeClip validates and canonicalizes a time value: non-finite input
// or more than 100 million days from the epoch becomes NaN, fractional
// milliseconds truncate toward zero and negative zero normalizes.
func timeClip(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return math.NaN()
	}
	if math.Abs(t) > maxTimeValue {
		return math.NaN()
	}
	t = math.Trunc(t)
	if t == 0 {
		return 0
	}
	return t
}
