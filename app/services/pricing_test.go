package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/inkwell-studio/atelier/app/services"
)

func defaultPricing() services.Pricing {
	return services.Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(500),
		FlatShipping:          decimal.NewFromInt(50),
	}
}

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name  string
		lines []services.Line
		want  services.Totals
	}{
		{"empty", nil, services.Totals{}},
		{"single item pays shipping", []services.Line{{Price: 100, Quantity: 1}},
			services.Totals{Subtotal: 100, Tax: 8, Shipping: 50, Total: 158}},
		{"over threshold ships free", []services.Line{{Price: 300, Quantity: 1}, {Price: 250, Quantity: 1}},
			services.Totals{Subtotal: 550, Tax: 44, Shipping: 0, Total: 594}},
		{"threshold is exclusive", []services.Line{{Price: 500, Quantity: 1}},
			services.Totals{Subtotal: 500, Tax: 40, Shipping: 50, Total: 590}},
		{"quantity multiplies", []services.Line{{Price: 19.99, Quantity: 3}},
			services.Totals{Subtotal: 59.97, Tax: 4.8, Shipping: 50, Total: 114.77}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, defaultPricing().Compute(tc.lines))
		})
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	got := defaultPricing().Compute([]services.Line{{Price: 10.005, Quantity: 1}})
	assert.Equal(t, 10.01, got.Subtotal)
	assert.Equal(t, 0.8, got.Tax)
	assert.Equal(t, 60.81, got.Total)
}
