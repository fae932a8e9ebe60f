package types

import (
	"github.com/shopspring/decimal"
)

// Decimal wraps decimal.Decimal and encodes as a bare JSON number instead of
// the library's default quoted string.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal wraps d.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// DecimalFromFloat rounds f half away from zero to the given number of places.
func DecimalFromFloat(f float64, places int32) Decimal {
	return Decimal{Decimal: decimal.NewFromFloat(f).Round(places)}
}

// MarshalJSON emits the value as a JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal.String()), nil
}

// UnmarshalJSON accepts both bare and quoted numbers.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	return d.Decimal.UnmarshalJSON(data)
}
