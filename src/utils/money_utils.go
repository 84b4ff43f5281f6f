package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a decimal amount with the symbol and separators of the
// given ISO 4217 currency code, e.g. FormatAmount(d, "BRL") -> "R$1.234,50".
// Unknown currency codes fall back to the plain decimal string.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currencyCode).Display()
}
