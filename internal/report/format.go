package report

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders whole Australian dollars, e.g. "$1,234" or "-$812".
func FormatCurrency(v float64) string {
	rounded := math.Round(v)
	if rounded == 0 {
		return "$0"
	}
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + "$" + printer.Sprintf("%d", int64(rounded))
}

// FormatPercent renders a value that is already a percentage.
func FormatPercent(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// FormatBreakEven renders a break-even period in years, or "Never" for the
// no-income sentinel.
func FormatBreakEven(years float64) string {
	if years >= 999 {
		return "Never"
	}
	return strconv.FormatFloat(years, 'f', 1, 64) + " years"
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	return strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
