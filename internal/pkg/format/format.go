// Package format renders amounts, counts and dates the way the dashboard
// displays them. Number grouping is always US style regardless of locale.
package format

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

const day = 24 * time.Hour

// Currency formats an amount as "$1,234.50"
func Currency(amount decimal.Decimal) string {
	return CurrencyFloat(amount.Round(2).InexactFloat64())
}

func CurrencyFloat(amount float64) string {
	return "$" + printer.Sprintf("%.2f", amount)
}

// Integer formats a count as "1,234"
func Integer(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent returns round(value/total*100), or 0 when total is 0
func Percent(value, total float64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(value / total * 100))
}

// ElapsedDays is the absolute distance between two instants in whole days, rounded up
func ElapsedDays(then, now time.Time) int {
	diff := now.Sub(then)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// RelativeDate labels an issue date relative to now: "Hoy", "Hace 1 día",
// "Hace N días" below 30 days, otherwise an es-ES short date.
func RelativeDate(issued, now time.Time) string {
	switch days := ElapsedDays(issued, now); {
	case days == 0:
		return "Hoy"
	case days == 1:
		return "Hace 1 día"
	case days < 30:
		return printer.Sprintf("Hace %d días", days)
	default:
		return ShortDate(issued)
	}
}

// ShortDate renders d/m/yyyy without zero padding
func ShortDate(t time.Time) string {
	return t.Format("2/1/2006")
}

// Truncate keeps the first n runes and appends "..."
func Truncate(s string, n int) string {
	if n <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= n {
		return s + "..."
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
