// Package pricing holds the discount and total arithmetic shared by carts,
// checkout and the point-of-sale register. All amounts are in cents.
package pricing

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Line struct {
	ListPrice          int
	OnSale             bool
	DiscountPercentage int
	Quantity           int
}

type Totals struct {
	Subtotal      int `json:"subtotal"`
	DiscountTotal int `json:"discount_total"`
	ShippingFee   int `json:"shipping_fee"`
	Total         int `json:"total"`
	ItemCount     int `json:"item_count"`
}

// DiscountedPrice reduces listPrice by pct percent when the promotion flag is set,
// rounding half up to the cent. Out of range percentages are clamped to 0..100.
func DiscountedPrice(listPrice int, onSale bool, pct int) int {
	if !onSale || pct <= 0 || listPrice <= 0 {
		return listPrice
	}
	if pct > 100 {
		pct = 100
	}
	return (listPrice*(100-pct) + 50) / 100
}

func UnitPrice(l Line) int {
	return DiscountedPrice(l.ListPrice, l.OnSale, l.DiscountPercentage)
}

func LineTotal(l Line) int {
	return UnitPrice(l) * l.Quantity
}

// Compute sums the lines and adds shippingFee. Total always equals the sum of
// discounted unit price times quantity plus shipping.
func Compute(lines []Line, shippingFee int) Totals {
	var t Totals
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		t.Subtotal += l.ListPrice * l.Quantity
		t.DiscountTotal += (l.ListPrice - UnitPrice(l)) * l.Quantity
		t.ItemCount += l.Quantity
	}
	if t.ItemCount > 0 {
		t.ShippingFee = shippingFee
	}
	t.Total = t.Subtotal - t.DiscountTotal + t.ShippingFee
	return t
}

// ShippingFee returns fee unless the cart is empty or merchandise reaches freeMin.
func ShippingFee(merchandise, fee, freeMin int) int {
	if merchandise <= 0 {
		return 0
	}
	if freeMin > 0 && merchandise >= freeMin {
		return 0
	}
	return fee
}

var printer = message.NewPrinter(language.English)

// Format renders cents as "USD 1,234.56". Unknown currency codes are printed as given.
func Format(cents int, code string) string {
	code = strings.ToUpper(code)
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%s.%02d", code, sign, printer.Sprintf("%d", cents/100), cents%100)
}
