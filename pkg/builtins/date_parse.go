package builtins

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// isoDatePattern is the interchange grammar: a four-digit or signed
// six-digit year, optional month and day, then an optional time part
// with optional fraction and zone designator.
var isoDatePattern = regexp2.MustCompile(
	`^(?<year>[+-]\d{6}|\d{4})`+
		`(?:-(?<month>\d{2})(?:-(?<day>\d{2}))?)?`+
		`(?:T(?<hour>\d{2}):(?<minute>\d{2})(?::(?<second>\d{2})(?:\.(?<fraction>\d{1,9}))?)?`+
		`(?<zone>[zZ]|[+-]\d{2}:?\d{2})?)?$`,
	regexp2.None)

// fallbackLayouts covers the human-readable forms this runtime itself
// produces plus a few common interchange variants. Layouts without a
// zone resolve as UTC.
var fallbackLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006 15:04:05",
	"Mon Jan 02 2006",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02 15:04:05",
	"January 2, 2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
}

// parseDateTimeString turns a date-time string into a time value, NaN
// when nothing understands it. The interchange format is tried first.
func parseDateTimeString(s string) float64 {
	if t := parseISODateString(s); !math.IsNaN(t) {
		return t
	}
	return parseFallbackDateString(s)
}

// parseISODateString parses the strict interchange format. A date-only
// string is UTC; a date-time without zone designator is local time,
// which this runtime also resolves as UTC.
func parseISODateString(s string) float64 {
	match, err := isoDatePattern.FindStringMatch(s)
	if err != nil || match == nil {
		return math.NaN()
	}

	yearText := matchGroup(match, "year")
	if yearText == "" || yearText == "-000000" {
		return math.NaN()
	}
	year, err := strconv.ParseFloat(yearText, 64)
	if err != nil {
		return math.NaN()
	}

	month, _ := groupNumber(match, "month", 1)
	day, _ := groupNumber(match, "day", 1)
	hour, hasTime := groupNumber(match, "hour", 0)
	minute, _ := groupNumber(match, "minute", 0)
	second, _ := groupNumber(match, "second", 0)

	var milli float64
	if digits := matchGroup(match, "fraction"); digits != "" {
		// The fraction is of a second; the first three digits are the
		// milliseconds, anything finer truncates.
		milli, _ = strconv.ParseFloat((digits + "00")[:3], 64)
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return math.NaN()
	}
	if hour > 24 || minute > 59 || second > 59 {
		return math.NaN()
	}
	if hour == 24 && (minute != 0 || second != 0 || milli != 0) {
		return math.NaN()
	}

	dayNumber := makeDay(year, month-1, day)
	// Reject calendar-impossible dates such as February 30 instead of
	// rolling them over.
	if dateFromTime(dayNumber*msPerDay) != day || monthFromTime(dayNumber*msPerDay) != month-1 {
		return math.NaN()
	}

	t := makeDate(dayNumber, makeTime(hour, minute, second, milli))

	zone := matchGroup(match, "zone")
	switch {
	case zone == "Z" || zone == "z":
	case zone != "":
		sign := 1.0
		if zone[0] == '-' {
			sign = -1
		}
		digits := strings.Replace(zone[1:], ":", "", 1)
		offsetHour, _ := strconv.ParseFloat(digits[:2], 64)
		offsetMinute, _ := strconv.ParseFloat(digits[2:], 64)
		if offsetHour > 23 || offsetMinute > 59 {
			return math.NaN()
		}
		t -= sign * (offsetHour*msPerHour + offsetMinute*msPerMinute)
	case hasTime:
		t = utcTime(t)
	}

	return timeClip(t)
}

// parseFallbackDateString walks the layout list. The parenthesized
// zone annotation at the end of toString output is informational and
// stripped before matching.
func parseFallbackDateString(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if idx := strings.Index(trimmed, " ("); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	for _, layout := range fallbackLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return timeClip(float64(parsed.UnixMilli()))
		}
	}
	return math.NaN()
}

func matchGroup(match *regexp2.Match, name string) string {
	group := match.GroupByName(name)
	if group == nil || len(group.Captures) == 0 {
		return ""
	}
	return group.String()
}

func groupNumber(match *regexp2.Match, name string, fallback float64) (float64, bool) {
	text := matchGroup(match, name)
	if text == "" {
		return fallback, false
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fallback, false
	}
	return n, true
}
