package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Amount is a monetary value in cents. It serializes as a decimal number
// with two fractional digits (500.00) so snapshots stay human readable.
type Amount int64

// AmountFromFloat rounds a decimal value to the nearest cent.
func AmountFromFloat(v float64) Amount {
	return Amount(math.Round(v * 100))
}

// Float returns the amount as a decimal value.
func (a Amount) Float() float64 { return float64(a) / 100 }

// String formats the amount with two decimals.
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}
	*a = AmountFromFloat(f)
	return nil
}
