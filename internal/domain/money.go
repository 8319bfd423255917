package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Prices are carried as integer fils (1/100 AED).
const (
	Currency = "AED"

	ShippingFee int64 = 1299
)

var taxRate = decimal.RequireFromString("0.08")

// ParsePrice converts a decimal string such as "159.99" into fils.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("parse price %q: negative", s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// FormatPrice renders fils as "159.99 AED".
func FormatPrice(fils int64) string {
	return decimal.New(fils, -2).StringFixed(2) + " " + Currency
}

// TaxOn returns 8% of subtotal, rounded half-up to the fil.
func TaxOn(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
}
