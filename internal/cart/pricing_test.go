package cart

import (
	"testing"

	"wardrobewizard/backend/internal/domain"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"123.45 AED", 123.45},
		{"AED 99", 99},
		{"1,250.00 AED", 1250},
		{"0.99", 0.99},
		{"free", 0},
		{"", 0},
		{"..", 0},
	}
	for _, tc := range cases {
		if got := ParsePrice(tc.raw); got != tc.want {
			t.Fatalf("ParsePrice(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(237.5); got != "237.50 AED" {
		t.Fatalf("FormatAmount(237.5) = %q", got)
	}
	if got := FormatAmount(0); got != "0.00 AED" {
		t.Fatalf("FormatAmount(0) = %q", got)
	}
	if got := FormatAmount(12.005); got != "12.01 AED" {
		t.Fatalf("FormatAmount(12.005) = %q", got)
	}
}

func line(id int, price string, qty int) domain.CartLine {
	return domain.CartLine{
		Product:  domain.Product{ID: id, Name: "item", Price: price},
		Quantity: qty,
	}
}

func TestComputeSubtotalAndItemCount(t *testing.T) {
	totals := Compute([]domain.CartLine{
		line(1, "100.00 AED", 2),
		line(2, "50.00 AED", 1),
	}, nil)

	if totals.Subtotal != 250 {
		t.Fatalf("subtotal = %v, want 250", totals.Subtotal)
	}
	if totals.ItemCount != 3 {
		t.Fatalf("item count = %d, want 3", totals.ItemCount)
	}
	if totals.Discount != 0 {
		t.Fatalf("discount = %v, want 0 without a coupon", totals.Discount)
	}
	if totals.Total != 250 {
		t.Fatalf("total = %v, want 250", totals.Total)
	}
}

func TestComputeCouponEligibility(t *testing.T) {
	coupon := &domain.Coupon{Code: "15WW", Percentage: 15, MinAmount: 450}

	eligible := Compute([]domain.CartLine{line(1, "500.00 AED", 1)}, coupon)
	if eligible.Discount != 75 {
		t.Fatalf("discount = %v, want 75", eligible.Discount)
	}
	if eligible.Total != 425 {
		t.Fatalf("total = %v, want 425", eligible.Total)
	}

	// Below the threshold the coupon stays applied but contributes nothing.
	ineligible := Compute([]domain.CartLine{line(1, "100.00 AED", 1)}, coupon)
	if ineligible.Discount != 0 {
		t.Fatalf("discount = %v, want 0 below the threshold", ineligible.Discount)
	}
	if ineligible.Total != 100 {
		t.Fatalf("total = %v, want 100", ineligible.Total)
	}
}

func TestComputeEmptyCart(t *testing.T) {
	totals := Compute(nil, &domain.Coupon{Code: "5WW", Percentage: 5, MinAmount: 150})
	if totals.Subtotal != 0 || totals.Discount != 0 || totals.Total != 0 || totals.ItemCount != 0 {
		t.Fatalf("empty cart totals = %+v, want all zero", totals)
	}
}

func TestComputeUnparsablePriceCountsAsZero(t *testing.T) {
	totals := Compute([]domain.CartLine{
		line(1, "not a price", 3),
		line(2, "50.00 AED", 1),
	}, nil)
	if totals.Subtotal != 50 {
		t.Fatalf("subtotal = %v, want 50", totals.Subtotal)
	}
	if totals.ItemCount != 4 {
		t.Fatalf("item count = %d, want 4", totals.ItemCount)
	}
}

func TestResolveCoupon(t *testing.T) {
	coupon, ok := ResolveCoupon("12WW")
	if !ok {
		t.Fatalf("expected 12WW to resolve")
	}
	if coupon.Percentage != 12 || coupon.MinAmount != 300 {
		t.Fatalf("unexpected coupon: %+v", coupon)
	}

	// Codes are case-sensitive.
	if _, ok := ResolveCoupon("12ww"); ok {
		t.Fatalf("lowercase code must not resolve")
	}
	if _, ok := ResolveCoupon("NOPE"); ok {
		t.Fatalf("unknown code must not resolve")
	}
}

func TestCouponsReturnsCopy(t *testing.T) {
	coupons := Coupons()
	if len(coupons) != 3 {
		t.Fatalf("catalog size = %d, want 3", len(coupons))
	}
	coupons[0].Percentage = 99
	if couponCatalog[0].Percentage == 99 {
		t.Fatalf("mutating the returned slice must not touch the catalog")
	}
}
