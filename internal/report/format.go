package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Abbreviation thresholds for FormatLarge.
const (
	millionThreshold = 1_000_000
	billionThreshold = 1_000_000_000
)

// tonnesThresholdKg is where emission displays switch from kilograms to
// metric tons.
const tonnesThresholdKg = 1000.0

// printer renders numbers with English thousand separators.
//
//nolint:gochecknoglobals // shared locale printer, standard x/text usage
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand
// separators in the integer part. FormatFloat(1234.567, 2) returns
// "1,234.57".
func FormatFloat(f float64, precision int) string {
	scale := math.Pow(10, float64(precision))
	rounded := math.Round(f*scale) / scale

	if precision == 0 {
		return FormatNumber(int64(rounded))
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, fracPart, found := strings.Cut(formatted, ".")
	if !found {
		return formatted
	}
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	return printer.Sprintf("%d", n) + "." + fracPart
}

// FormatLarge abbreviates values at million scale and above.
// FormatLarge(1500000000) returns "~1.5 billion"; smaller values fall
// back to comma-separated integers.
func FormatLarge(n float64) string {
	if n >= billionThreshold {
		return fmt.Sprintf("~%.1f billion", n/billionThreshold)
	}
	if n >= millionThreshold {
		return fmt.Sprintf("~%.1f million", n/millionThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}

// FormatKg renders an emission quantity, switching to metric tons at
// 1000 kg. FormatKg(1234) returns "1.23 t CO2e"; FormatKg(42.53)
// returns "42.5 kg CO2e".
func FormatKg(kg float64) string {
	if math.Abs(kg) >= tonnesThresholdKg {
		return fmt.Sprintf("%.2f t CO2e", kg/tonnesThresholdKg)
	}
	return fmt.Sprintf("%.1f kg CO2e", kg)
}
