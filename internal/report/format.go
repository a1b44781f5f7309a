package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ChartWidth is the length of the longest bar in the monthly chart.
const ChartWidth = 40

var printer = message.NewPrinter(language.English)

// Currency formats d as $1,234.56.
func Currency(d decimal.Decimal) string {
	f := d.Round(2).Abs().InexactFloat64()
	s := printer.Sprintf("$%.2f", f)
	if d.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

// Count formats n with thousands separators.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

func rating(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.StringFixed(2)
}

func percent(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// barLength scales revenue against max onto ChartWidth columns. Every
// month gets at least one column.
func barLength(revenue, max decimal.Decimal) int {
	if !max.IsPositive() || !revenue.IsPositive() {
		return 1
	}
	n := int(revenue.Mul(decimal.NewFromInt(ChartWidth)).Div(max).IntPart())
	if n < 1 {
		return 1
	}
	if n > ChartWidth {
		return ChartWidth
	}
	return n
}

func bar(n int) string {
	return strings.Repeat("#", n)
}
