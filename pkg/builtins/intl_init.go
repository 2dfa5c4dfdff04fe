package builtins

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"meridiem/pkg/vm"
)

const PriorityIntl = 110

const defaultLocale = "en-US"

// The locales with formatting tables, in matcher priority order. The
// first entry doubles as the fallback for unsupported requests.
var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
}

var supportedLocaleNames = []string{"en-US", "en-GB", "de-DE"}

var localeMatcher = language.NewMatcher(supportedTags)

var deDayNames = [7]string{"So.", "Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa."}

// timeZoneNames maps a base language to the long zone display names
// used by the zone annotation and the formatter.
var timeZoneNames = map[string]map[string]string{
	"en": {
		"UTC":     "Coordinated Universal Time",
		"Etc/UTC": "Coordinated Universal Time",
		"GMT":     "Greenwich Mean Time",
	},
	"de": {
		"UTC":     "Koordinierte Weltzeit",
		"Etc/UTC": "Koordinierte Weltzeit",
		"GMT":     "Mittlere Greenwich-Zeit",
	},
}

// currentTimeZone names the host zone, which this runtime pins to UTC.
func currentTimeZone() string { return "UTC" }

// timeZoneDisplayName returns a locale's long name for a zone.
func timeZoneDisplayName(locale, zone string) (string, bool) {
	base := locale
	if idx := strings.IndexByte(base, '-'); idx >= 0 {
		base = base[:idx]
	}
	names, ok := timeZoneNames[base]
	if !ok {
		return "", false
	}
	name, ok := names[zone]
	return name, ok
}

// optionGroup selects which formatter options an operation reads and
// which defaults apply when the caller requested nothing.
type optionGroup uint8

const (
	optDate optionGroup = iota
	optTime
	optAny
	optAll
)

// dateTimeComponents records which calendar fields a formatter shows.
type dateTimeComponents struct {
	weekday bool
	year    bool
	month   bool
	day     bool
	hour    bool
	minute  bool
	second  bool
}

func (c dateTimeComponents) hasDate() bool { return c.weekday || c.year || c.month || c.day }

func (c dateTimeComponents) hasTime() bool { return c.hour || c.minute || c.second }

// resolveLocale picks the best supported locale for a locales argument
// of undefined or a language tag string. Malformed tags are a range
// error; well-formed but unsupported tags fall back through the
// matcher.
func resolveLocale(vmInstance *vm.VM, locales vm.Value) (string, error) {
	switch {
	case locales.IsUndefined():
		return defaultLocale, nil
	case locales.IsString():
		tag, err := language.Parse(locales.AsString())
		if err != nil {
			return "", vmInstance.NewRangeError(fmt.Sprintf("%s is not a structurally valid language tag", locales.AsString()))
		}
		_, index, _ := localeMatcher.Match(tag)
		return supportedLocaleNames[index], nil
	default:
		return "", vmInstance.NewTypeError("locales must be a string or undefined")
	}
}

// toDateTimeComponents reads the option properties relevant for the
// required group. When none of them is present, the defaults group
// fills in numeric year, month and day and/or hour, minute and second.
func toDateTimeComponents(vmInstance *vm.VM, options vm.Value, required, defaults optionGroup) (dateTimeComponents, error) {
	var c dateTimeComponents
	if !options.IsUndefined() {
		if !options.IsObject() {
			return c, vmInstance.NewTypeError("options must be an object or undefined")
		}
		// A component is requested when its option reads as anything
		// other than undefined; the style strings all collapse to the
		// table-driven rendering below.
		present := func(name string) (bool, error) {
			v, err := vmInstance.GetProperty(options, name)
			if err != nil {
				return false, err
			}
			return !v.IsUndefined(), nil
		}
		var err error
		if required == optDate || required == optAny || required == optAll {
			if c.weekday, err = present("weekday"); err != nil {
				return c, err
			}
			if c.year, err = present("year"); err != nil {
				return c, err
			}
			if c.month, err = present("month"); err != nil {
				return c, err
			}
			if c.day, err = present("day"); err != nil {
				return c, err
			}
		}
		if required == optTime || required == optAny || required == optAll {
			if c.hour, err = present("hour"); err != nil {
				return c, err
			}
			if c.minute, err = present("minute"); err != nil {
				return c, err
			}
			if c.second, err = present("second"); err != nil {
				return c, err
			}
		}
	}
	if !c.hasDate() && !c.hasTime() {
		if defaults == optDate || defaults == optAll {
			c.year, c.month, c.day = true, true, true
		}
		if defaults == optTime || defaults == optAll {
			c.hour, c.minute, c.second = true, true, true
		}
	}
	return c, nil
}

// dateTimeFormat is the resolved state of a constructed formatter.
type dateTimeFormat struct {
	locale     string
	timeZone   string
	components dateTimeComponents
}

func newDateTimeFormatState(vmInstance *vm.VM, locales, options vm.Value, required, defaults optionGroup) (*dateTimeFormat, error) {
	locale, err := resolveLocale(vmInstance, locales)
	if err != nil {
		return nil, err
	}
	components, err := toDateTimeComponents(vmInstance, options, required, defaults)
	if err != nil {
		return nil, err
	}
	return &dateTimeFormat{
		locale:     locale,
		timeZone:   currentTimeZone(),
		components: components,
	}, nil
}

// format renders a non-NaN time value in the formatter's locale.
func (df *dateTimeFormat) format(t float64) string {
	f := decomposeTimeValue(localTime(t))
	dateStr, timeStr := "", ""
	if df.components.hasDate() {
		dateStr = df.formatDate(f)
	}
	if df.components.hasTime() {
		timeStr = df.formatTime(f)
	}
	switch {
	case dateStr != "" && timeStr != "":
		return dateStr + ", " + timeStr
	case timeStr != "":
		return timeStr
	default:
		return dateStr
	}
}

func (df *dateTimeFormat) formatDate(f calendarFields) string {
	var segments []string
	separator := "/"
	switch df.locale {
	case "de-DE":
		separator = "."
		if df.components.day {
			segments = append(segments, strconv.Itoa(f.day))
		}
		if df.components.month {
			segments = append(segments, strconv.Itoa(f.month))
		}
		if df.components.year {
			segments = append(segments, strconv.Itoa(f.year))
		}
	case "en-GB":
		if df.components.day {
			segments = append(segments, fmt.Sprintf("%02d", f.day))
		}
		if df.components.month {
			segments = append(segments, fmt.Sprintf("%02d", f.month))
		}
		if df.components.year {
			segments = append(segments, strconv.Itoa(f.year))
		}
	default:
		if df.components.month {
			segments = append(segments, strconv.Itoa(f.month))
		}
		if df.components.day {
			segments = append(segments, strconv.Itoa(f.day))
		}
		if df.components.year {
			segments = append(segments, strconv.Itoa(f.year))
		}
	}
	out := strings.Join(segments, separator)
	if df.components.weekday {
		weekday := dayNames[f.weekday]
		if df.locale == "de-DE" {
			weekday = deDayNames[f.weekday]
		}
		if out == "" {
			return weekday
		}
		out = weekday + ", " + out
	}
	return out
}

func (df *dateTimeFormat) formatTime(f calendarFields) string {
	var segments []string
	twelveHour := df.locale == "en-US"
	suffix := ""
	if df.components.hour {
		hour := f.hour
		if twelveHour {
			suffix = " AM"
			if hour >= 12 {
				suffix = " PM"
			}
			hour %= 12
			if hour == 0 {
				hour = 12
			}
			segments = append(segments, strconv.Itoa(hour))
		} else {
			segments = append(segments, fmt.Sprintf("%02d", hour))
		}
	}
	if df.components.minute {
		segments = append(segments, fmt.Sprintf("%02d", f.minute))
	}
	if df.components.second {
		segments = append(segments, fmt.Sprintf("%02d", f.second))
	}
	return strings.Join(segments, ":") + suffix
}

// componentStyle reports the style resolvedOptions exposes for a
// present component, matching what the renderer actually does.
func (df *dateTimeFormat) componentStyle(name string) string {
	switch name {
	case "weekday":
		return "short"
	case "minute", "second":
		return "2-digit"
	case "hour":
		if df.locale == "en-US" {
			return "numeric"
		}
		return "2-digit"
	case "day", "month":
		if df.locale == "en-GB" {
			return "2-digit"
		}
		return "numeric"
	default:
		return "numeric"
	}
}

// dateToLocaleString backs the three Date toLocale operations.
func dateToLocaleString(vmInstance *vm.VM, args []vm.Value, required, defaults optionGroup) (vm.Value, error) {
	d, err := thisDateObject(vmInstance)
	if err != nil {
		return vm.Undefined, err
	}
	if d.IsInvalid() {
		return vm.NewString("Invalid Date"), nil
	}
	locales, options := vm.Undefined, vm.Undefined
	if len(args) > 0 {
		locales = args[0]
	}
	if len(args) > 1 {
		options = args[1]
	}
	df, err := newDateTimeFormatState(vmInstance, locales, options, required, defaults)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.NewString(df.format(d.TimeValue())), nil
}

func writeFormatSlots(obj *vm.PlainObject, df *dateTimeFormat) {
	obj.SetOwn("[[Locale]]", vm.NewString(df.locale))
	obj.SetOwn("[[TimeZone]]", vm.NewString(df.timeZone))
	obj.SetOwn("[[Weekday]]", vm.BooleanValue(df.components.weekday))
	obj.SetOwn("[[Year]]", vm.BooleanValue(df.components.year))
	obj.SetOwn("[[Month]]", vm.BooleanValue(df.components.month))
	obj.SetOwn("[[Day]]", vm.BooleanValue(df.components.day))
	obj.SetOwn("[[Hour]]", vm.BooleanValue(df.components.hour))
	obj.SetOwn("[[Minute]]", vm.BooleanValue(df.components.minute))
	obj.SetOwn("[[Second]]", vm.BooleanValue(df.components.second))
}

// thisDateTimeFormat validates the receiver of a DateTimeFormat method
// and reconstructs its resolved state from the instance slots.
func thisDateTimeFormat(vmInstance *vm.VM) (*dateTimeFormat, error) {
	thisVal := vmInstance.GetThis()
	if thisVal.Type() != vm.TypeObject {
		return nil, vmInstance.NewTypeError("Value is not an Intl.DateTimeFormat")
	}
	obj := thisVal.AsPlainObject()
	localeSlot, ok := obj.GetOwn("[[Locale]]")
	if !ok || !localeSlot.IsString() {
		return nil, vmInstance.NewTypeError("Value is not an Intl.DateTimeFormat")
	}
	zoneSlot, _ := obj.GetOwn("[[TimeZone]]")
	boolSlot := func(name string) bool {
		v, ok := obj.GetOwn(name)
		return ok && v.IsBoolean() && v.AsBoolean()
	}
	df := &dateTimeFormat{
		locale:   localeSlot.AsString(),
		timeZone: currentTimeZone(),
		components: dateTimeComponents{
			weekday: boolSlot("[[Weekday]]"),
			year:    boolSlot("[[Year]]"),
			month:   boolSlot("[[Month]]"),
			day:     boolSlot("[[Day]]"),
			hour:    boolSlot("[[Hour]]"),
			minute:  boolSlot("[[Minute]]"),
			second:  boolSlot("[[Second]]"),
		},
	}
	if zoneSlot.IsString() {
		df.timeZone = zoneSlot.AsString()
	}
	return df, nil
}

// IntlInitializer installs the Intl namespace with its DateTimeFormat
// constructor.
type IntlInitializer struct{}

func (i *IntlInitializer) Name() string { return "Intl" }

func (i *IntlInitializer) Priority() int { return PriorityIntl }

func (i *IntlInitializer) InitRuntime(ctx *RuntimeContext) error {
	vmInstance := ctx.VM
	falseVal, trueVal := false, true

	dtfProto := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	dtfProtoVal := dtfProto.Value()
	dtfProto.DefineOwnPropertyByKey(vm.NewSymbolKey(vmInstance.SymbolToStringTag), vm.NewString("Intl.DateTimeFormat"), &falseVal, &falseVal, &trueVal)

	dtfProto.SetOwnNonEnumerable("format", vm.NewNativeFunction(1, false, "format", func(args []vm.Value) (vm.Value, error) {
		df, err := thisDateTimeFormat(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		var t float64
		if len(args) == 0 || args[0].IsUndefined() {
			t = nowTimeValue()
		} else {
			n, err := vmInstance.ToNumber(args[0])
			if err != nil {
				return vm.Undefined, err
			}
			t = timeClip(n)
		}
		if math.IsNaN(t) {
			return vm.Undefined, vmInstance.NewRangeError("Invalid time value")
		}
		return vm.NewString(df.format(t)), nil
	}))

	dtfProto.SetOwnNonEnumerable("resolvedOptions", vm.NewNativeFunction(0, false, "resolvedOptions", func(args []vm.Value) (vm.Value, error) {
		df, err := thisDateTimeFormat(vmInstance)
		if err != nil {
			return vm.Undefined, err
		}
		options := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
		options.SetOwn("locale", vm.NewString(df.locale))
		options.SetOwn("calendar", vm.NewString("gregory"))
		options.SetOwn("numberingSystem", vm.NewString("latn"))
		options.SetOwn("timeZone", vm.NewString(df.timeZone))
		component := func(name string, on bool) {
			if on {
				options.SetOwn(name, vm.NewString(df.componentStyle(name)))
			}
		}
		component("weekday", df.components.weekday)
		component("year", df.components.year)
		component("month", df.components.month)
		component("day", df.components.day)
		if df.components.hour {
			options.SetOwn("hour12", vm.BooleanValue(df.locale == "en-US"))
		}
		component("hour", df.components.hour)
		component("minute", df.components.minute)
		component("second", df.components.second)
		return options.Value(), nil
	}))

	dtfCtor := vm.NewConstructorWithProps(0, false, "DateTimeFormat", func(args []vm.Value) (vm.Value, error) {
		locales, options := vm.Undefined, vm.Undefined
		if len(args) > 0 {
			locales = args[0]
		}
		if len(args) > 1 {
			options = args[1]
		}
		df, err := newDateTimeFormatState(vmInstance, locales, options, optAny, optDate)
		if err != nil {
			return vm.Undefined, err
		}
		obj := vm.NewObject(dtfProtoVal).AsPlainObject()
		writeFormatSlots(obj, df)
		return obj.Value(), nil
	})
	dtfCtor.AsNativeFunctionWithProps().Properties.SetOwnNonEnumerable("prototype", dtfProtoVal)
	dtfProto.SetOwnNonEnumerable("constructor", dtfCtor)

	intlObj := vm.NewObject(vmInstance.ObjectPrototype).AsPlainObject()
	intlObj.DefineOwnPropertyByKey(vm.NewSymbolKey(vmInstance.SymbolToStringTag), vm.NewString("Intl"), &falseVal, &falseVal, &trueVal)
	intlObj.SetOwnNonEnumerable("DateTimeFormat", dtfCtor)

	return ctx.DefineGlobal("Intl", intlObj.Value())
}
