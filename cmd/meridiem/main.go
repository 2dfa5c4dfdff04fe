package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"meridiem/pkg/builtins"
	"meridiem/pkg/vm"
)

// meridiem constructs a Date through the runtime and prints its
// textual renderings, one operation per line.
func main() {
	// Define flags
	msFlag := flag.String("ms", "", "Milliseconds since the epoch instead of a date string")
	localeFlag := flag.String("locale", "", "Locale for the toLocaleString rendering")
	parseOnlyFlag := flag.Bool("parse", false, "Print only the parsed time value")

	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Usage: meridiem [-ms n] [-locale tag] [-parse] [date-string]\n")
		os.Exit(64) // Exit code 64: command line usage error
	}

	vmInstance := vm.NewVM()
	if err := builtins.InitializeRuntime(vmInstance); err != nil {
		fmt.Fprintf(os.Stderr, "meridiem: %s\n", err)
		os.Exit(70) // Exit code 70: internal software error
	}

	dateCtor, ok := vmInstance.GetGlobal("Date")
	if !ok {
		fmt.Fprintf(os.Stderr, "meridiem: Date global missing\n")
		os.Exit(70)
	}

	var ctorArgs []vm.Value
	switch {
	case *msFlag != "":
		ms, err := strconv.ParseFloat(*msFlag, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "meridiem: invalid -ms value %q\n", *msFlag)
			os.Exit(64)
		}
		ctorArgs = []vm.Value{vm.NumberValue(ms)}
	case flag.NArg() == 1:
		ctorArgs = []vm.Value{vm.NewString(flag.Arg(0))}
	}

	date, err := vmInstance.Construct(dateCtor, ctorArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "meridiem: %s\n", err)
		os.Exit(70)
	}

	timeValue, err := vmInstance.Invoke(date, "getTime", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "meridiem: %s\n", err)
		os.Exit(70)
	}
	if *parseOnlyFlag {
		fmt.Println(timeValue.ToString())
		return
	}

	show := func(label, method string, args []vm.Value) {
		result, err := vmInstance.Invoke(date, method, args)
		if err != nil {
			// Errors such as toISOString on an invalid date are part
			// of the report, not a tool failure.
			fmt.Printf("%-16s %s\n", label, err)
			return
		}
		fmt.Printf("%-16s %s\n", label, result.ToString())
	}

	fmt.Printf("%-16s %s\n", "time value", timeValue.ToString())
	show("toString", "toString", nil)
	show("toDateString", "toDateString", nil)
	show("toTimeString", "toTimeString", nil)
	show("toISOString", "toISOString", nil)
	show("toUTCString", "toUTCString", nil)
	var localeArgs []vm.Value
	if *localeFlag != "" {
		localeArgs = []vm.Value{vm.NewString(*localeFlag)}
	}
	show("toLocaleString", "toLocaleString", localeArgs)
	show("getDay", "getDay", nil)
	show("getFullYear", "getFullYear", nil)
}
