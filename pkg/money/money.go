package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// Exponent returns the number of minor-unit digits for the currency.
func (c Currency) Exponent() int32 {
	switch c.code {
	case "JPY", "KRW", "VND":
		return 0
	case "BHD", "KWD", "OMR":
		return 3
	default:
		return 2
	}
}

// Common currencies.
var (
	USD = MustCurrency("USD")
	EUR = MustCurrency("EUR")
	GBP = MustCurrency("GBP")
)

// Money is an immutable monetary amount held as integer minor units
// (cents for USD). Amounts never cross a boundary as floating point or
// decimal fractions, so there is no rounding drift between services.
type Money struct {
	minorUnits int64
	currency   Currency
}

// New creates a Money value from integer minor units and a currency.
func New(minorUnits int64, currency Currency) Money {
	return Money{minorUnits: minorUnits, currency: currency}
}

// FromDecimal converts a decimal major-unit amount (e.g. a project budget of
// "500.00") into Money. It returns an error if the amount carries precision
// below the currency's minor unit, rather than rounding silently.
func FromDecimal(amount decimal.Decimal, currency Currency) (Money, error) {
	scaled := amount.Shift(currency.Exponent())
	if !scaled.IsInteger() {
		return Money{}, fmt.Errorf("amount %s has sub-minor-unit precision for %s", amount, currency)
	}
	if !scaled.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("amount %s overflows int64 minor units", amount)
	}
	return Money{minorUnits: scaled.IntPart(), currency: currency}, nil
}

// FromDecimalString parses a major-unit amount string and currency code.
func FromDecimalString(amount, currency string) (Money, error) {
	cur, err := NewCurrency(currency)
	if err != nil {
		return Money{}, fmt.Errorf("invalid currency: %w", err)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return FromDecimal(d, cur)
}

// Zero returns a Money value of zero in the given currency.
func Zero(currency Currency) Money {
	return Money{currency: currency}
}

// MinorUnits returns the amount in integer minor units.
func (m Money) MinorUnits() int64 {
	return m.minorUnits
}

// Decimal returns the amount in major units as a decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minorUnits, -m.currency.Exponent())
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.minorUnits == 0
}

// IsPositive returns true if the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.minorUnits > 0
}

// IsNegative returns true if the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.minorUnits < 0
}

// Add returns the sum of m and other. Returns an error if the currencies do not match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot add %s to %s", other.currency, m.currency)
	}
	return Money{minorUnits: m.minorUnits + other.minorUnits, currency: m.currency}, nil
}

// Subtract returns the difference of m minus other. Returns an error if the currencies do not match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: cannot subtract %s from %s", other.currency, m.currency)
	}
	return Money{minorUnits: m.minorUnits - other.minorUnits, currency: m.currency}, nil
}

// LessThanOrEqual reports whether m <= other. Returns an error if the currencies do not match.
func (m Money) LessThanOrEqual(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("currency mismatch: cannot compare %s with %s", m.currency, other.currency)
	}
	return m.minorUnits <= other.minorUnits, nil
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.minorUnits == other.minorUnits
}

// String formats the Money value as "<major-units> <currency>", for example "500.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(m.currency.Exponent()), m.currency.Code())
}
