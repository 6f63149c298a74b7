package services

import (
	"github.com/shopspring/decimal"

	"github.com/inkwell-studio/atelier/config"
)

// Pricing holds the cart total rules.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShipping          decimal.Decimal
}

// PricingFromConfig reads TAX_RATE, FREE_SHIPPING_THRESHOLD and FLAT_SHIPPING.
func PricingFromConfig() Pricing {
	return Pricing{
		TaxRate:               decimal.NewFromFloat(config.TaxRate()),
		FreeShippingThreshold: decimal.NewFromFloat(config.FreeShippingThreshold()),
		FlatShipping:          decimal.NewFromFloat(config.FlatShipping()),
	}
}

// Line is one priced cart row.
type Line struct {
	Price    float64
	Quantity int
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Compute prices lines. Shipping is free only strictly above the threshold
// and an empty cart costs nothing. Amounts are rounded half-up to cents.
func (p Pricing) Compute(lines []Line) Totals {
	if len(lines) == 0 {
		return Totals{}
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(p.TaxRate).Round(2)

	shipping := p.FlatShipping
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Total:    subtotal.Add(tax).Add(shipping).InexactFloat64(),
	}
}
