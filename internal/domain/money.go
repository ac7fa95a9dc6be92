package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an amount in a single currency. The storefront sells in Naira,
// so NGN is the default everywhere an amount enters the system.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

var minorUnitFactor = decimal.NewFromInt(100)

// Naira is the store's currency. x/text/currency only predeclares the
// CLDR-common units, so NGN has to be parsed.
var Naira = currency.MustParseISO("NGN")

// NGN builds a Money in Nigerian Naira from a major-unit amount.
func NGN(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: Naira}
}

// MinorUnits converts the amount to the gateway's minor currency unit
// (kobo for NGN). Fails on negative amounts and on amounts with
// sub-kobo precision, which the gateway cannot represent.
func (m Money) MinorUnits() (int64, error) {
	if m.Amount.IsNegative() {
		return 0, fmt.Errorf("amount is negative: %s", m.Amount)
	}

	minor := m.Amount.Mul(minorUnitFactor)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-minor-unit precision", m.Amount)
	}

	return minor.IntPart(), nil
}

// FromMinorUnits builds a Money from a minor-unit amount reported by the
// gateway, e.g. 4500000 kobo -> NGN 45000.
func FromMinorUnits(minor int64, unit currency.Unit) Money {
	return Money{
		Amount:   decimal.NewFromInt(minor).Div(minorUnitFactor),
		Currency: unit,
	}
}
