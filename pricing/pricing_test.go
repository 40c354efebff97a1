package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name   string
		list   int
		onSale bool
		pct    int
		want   int
	}{
		{"not on sale keeps list price", 2000, false, 25, 2000},
		{"on sale applies percentage", 2000, true, 25, 1500},
		{"on sale with zero percentage", 2000, true, 0, 2000},
		{"rounds half up", 999, true, 50, 500},
		{"rounds down below half", 1001, true, 10, 901},
		{"clamps above hundred", 1500, true, 150, 0},
		{"negative percentage ignored", 1500, true, -5, 1500},
		{"free book stays free", 0, true, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedPrice(tt.list, tt.onSale, tt.pct))
		})
	}
}

func TestCompute_TotalEqualsSumOfDiscountedLines(t *testing.T) {
	lines := []Line{
		{ListPrice: 1999, OnSale: true, DiscountPercentage: 20, Quantity: 3},
		{ListPrice: 1250, Quantity: 2},
		{ListPrice: 4500, OnSale: false, DiscountPercentage: 40, Quantity: 1},
	}

	totals := Compute(lines, 0)

	want := 0
	for _, l := range lines {
		want += DiscountedPrice(l.ListPrice, l.OnSale, l.DiscountPercentage) * l.Quantity
	}
	assert.Equal(t, want, totals.Total)
	assert.Equal(t, 1999*3+1250*2+4500, totals.Subtotal)
	assert.Equal(t, totals.Subtotal-totals.Total, totals.DiscountTotal)
	assert.Equal(t, 6, totals.ItemCount)
}

func TestCompute_ShippingOnlyForNonEmptyCarts(t *testing.T) {
	assert.Equal(t, Totals{}, Compute(nil, 499))

	totals := Compute([]Line{{ListPrice: 1000, Quantity: 1}}, 499)
	assert.Equal(t, 499, totals.ShippingFee)
	assert.Equal(t, 1499, totals.Total)
}

func TestCompute_SkipsNonPositiveQuantities(t *testing.T) {
	totals := Compute([]Line{{ListPrice: 1000, Quantity: 0}, {ListPrice: 700, Quantity: -2}}, 0)
	assert.Equal(t, 0, totals.Total)
	assert.Equal(t, 0, totals.ItemCount)
}

func TestShippingFee(t *testing.T) {
	assert.Equal(t, 0, ShippingFee(0, 499, 5000))
	assert.Equal(t, 499, ShippingFee(4999, 499, 5000))
	assert.Equal(t, 0, ShippingFee(5000, 499, 5000))
	assert.Equal(t, 499, ShippingFee(100000, 499, 0))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "USD 12.05", Format(1205, "usd"))
	assert.Equal(t, "USD 0.99", Format(99, "USD"))
	assert.Equal(t, "EUR 1,234.56", Format(123456, "eur"))
	assert.Equal(t, "USD -3.50", Format(-350, "usd"))
}
