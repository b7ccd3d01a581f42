// Package core provides the billing domain types: cycles, entries, genres,
// money parsing and currency presentation.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting them for display in a given currency.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ParseAmount converts a decimal string to an amount rounded to two decimals.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// rejected; zero is a valid amount for an entry.
//
// Examples:
//
//	ParseAmount("9900")    -> 9900, nil
//	ParseAmount("12,34")   -> 12.34, nil
//	ParseAmount("12.345")  -> 12.35, nil (half-up)
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Currency formats amounts for a currency in a locale.
type Currency struct {
	Code    string
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
	known   bool
}

// defaultLocaleForCurrency is the "home" locale used when no locale is given.
var defaultLocaleForCurrency = map[string]language.Tag{
	"KRW": language.Korean,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"JPY": language.Japanese,
	"SEK": language.Swedish,
	"CHF": language.German,
	"CAD": language.CanadianFrench,
}

// prefixSymbol lists currencies whose symbol goes before the amount.
// x/text does not expose CLDR symbol placement.
var prefixSymbol = map[string]bool{
	"USD": true, "GBP": true, "JPY": true, "CAD": true, "AUD": true,
	"HKD": true, "SGD": true, "NZD": true,
}

// NewCurrency returns a Currency for an ISO code. An empty locale picks the
// currency's home locale; an unknown code is rendered with the code as symbol.
func NewCurrency(code, locale string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	known := err == nil
	if !known {
		unit = currency.USD
	}

	tag := language.English
	if locale != "" {
		if t, err := language.Parse(strings.Replace(locale, "_", "-", 1)); err == nil {
			tag = t
		}
	} else if t, ok := defaultLocaleForCurrency[code]; ok {
		tag = t
	}

	return Currency{
		Code:    code,
		unit:    unit,
		tag:     tag,
		printer: message.NewPrinter(tag),
		known:   known,
	}
}

func (c Currency) symbol() string {
	if !c.known {
		return c.Code
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// Format renders an amount. Whole amounts have no fraction digits, others
// exactly two. KRW drops the symbol and appends "원".
func (c Currency) Format(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	var formatted string
	if amount.Equal(amount.Truncate(0)) {
		formatted = c.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(0)))
	} else {
		formatted = c.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}

	if c.Code == "KRW" {
		return formatted + "원"
	}
	if prefixSymbol[c.Code] {
		return c.symbol() + formatted
	}
	return formatted + " " + c.symbol()
}
