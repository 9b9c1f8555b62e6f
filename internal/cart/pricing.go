package cart

import (
	"fmt"
	"strconv"
	"strings"

	"wardrobewizard/backend/internal/domain"
)

// Totals is the derived monetary state of a cart, kept as float64 until
// formatting so rounding happens once per figure rather than per line.
type Totals struct {
	Subtotal  float64
	Discount  float64
	Total     float64
	ItemCount int
}

// ParsePrice extracts the numeric amount from a formatted price string such
// as "123.45 AED" by dropping every rune except digits and the decimal
// point. An unparsable price counts as zero.
func ParsePrice(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// Compute derives totals from the lines and the applied coupon. The coupon's
// minimum-purchase threshold is re-checked against the current subtotal on
// every call: a coupon that was valid when applied contributes no discount
// while the subtotal sits below its threshold.
func Compute(lines []domain.CartLine, coupon *domain.Coupon) Totals {
	t := Totals{}
	for _, line := range lines {
		t.Subtotal += ParsePrice(line.Price) * float64(line.Quantity)
		t.ItemCount += line.Quantity
	}

	if coupon != nil && t.Subtotal >= coupon.MinAmount {
		t.Discount = t.Subtotal * coupon.Percentage / 100
	}

	t.Total = t.Subtotal - t.Discount
	if t.Total < 0 {
		t.Total = 0
	}
	return t
}

// FormatAmount renders a monetary value for display.
func FormatAmount(value float64) string {
	return fmt.Sprintf("%.2f AED", value)
}
