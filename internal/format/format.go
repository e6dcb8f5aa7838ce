// Package format renders computed values for display. The engine never
// formats; only the CLI does.
package format

import (
	"fmt"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/cleared-dev/reclass/internal/model"
)

// Formatter renders amounts in one currency and locale.
type Formatter struct {
	money    *money.Formatter
	printer  *message.Printer
	decimals int
}

// New builds a Formatter. currency is an ISO 4217 code, locale a BCP 47 tag.
func New(currency, locale string, decimals int) (*Formatter, error) {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", currency)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must not be negative, got %d", decimals)
	}

	p := message.NewPrinter(tag)
	thousand, dec := separators(p)
	template := cur.Template
	if dec == "," {
		template = "1 $"
	}

	return &Formatter{
		money:    money.NewFormatter(decimals, dec, thousand, cur.Grapheme, template),
		printer:  p,
		decimals: decimals,
	}, nil
}

// separators reads the locale's grouping and decimal marks off a sample.
func separators(p *message.Printer) (thousand, dec string) {
	var marks []string
	for _, r := range p.Sprint(number.Decimal(1000.5, number.Scale(1))) {
		if !unicode.IsDigit(r) {
			marks = append(marks, string(r))
		}
	}
	switch len(marks) {
	case 0:
		return "", "."
	case 1:
		return "", marks[0]
	default:
		return marks[0], marks[len(marks)-1]
	}
}

var defaultFormatter, _ = New("EUR", "it", 2)

// Default returns the euro, Italian-locale formatter with two decimals.
func Default() *Formatter {
	return defaultFormatter
}

// Currency renders d rounded to the formatter's decimals, e.g. "1.234,56 €".
func (f *Formatter) Currency(d decimal.Decimal) string {
	return f.money.Format(d.Round(int32(f.decimals)).Shift(int32(f.decimals)).IntPart())
}

// Number renders d with the locale's separators, e.g. "1.234,50".
func (f *Formatter) Number(d decimal.Decimal) string {
	v := d.Round(int32(f.decimals)).InexactFloat64()
	return f.printer.Sprint(number.Decimal(v, number.Scale(f.decimals)))
}

// Ratio renders a plain ratio.
func (f *Formatter) Ratio(d decimal.Decimal) string {
	return f.Number(d)
}

// Percent renders a fraction as a percentage, e.g. 0.1235 as "12,35%".
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.Number(d.Shift(2)) + "%"
}

// Value renders d according to an indicator's display format.
func (f *Formatter) Value(d decimal.Decimal, df model.DisplayFormat) string {
	switch df {
	case model.FormatPercentage:
		return f.Percent(d)
	case model.FormatCurrency:
		return f.Currency(d)
	default:
		return f.Ratio(d)
	}
}

// Currency formats with the default formatter.
func Currency(d decimal.Decimal) string { return Default().Currency(d) }

// Percent formats with the default formatter.
func Percent(d decimal.Decimal) string { return Default().Percent(d) }

// Ratio formats with the default formatter.
func Ratio(d decimal.Decimal) string { return Default().Ratio(d) }
