package cart

import "wardrobewizard/backend/internal/domain"

// The coupon catalog is fixed: these are the codes printed on the
// storefront's offer cards. Codes are case-sensitive.
var couponCatalog = []domain.Coupon{
	{Code: "15WW", Percentage: 15, MinAmount: 450},
	{Code: "12WW", Percentage: 12, MinAmount: 300},
	{Code: "5WW", Percentage: 5, MinAmount: 150},
}

// Coupons returns a copy of the catalog in display order.
func Coupons() []domain.Coupon {
	out := make([]domain.Coupon, len(couponCatalog))
	copy(out, couponCatalog)
	return out
}

// ResolveCoupon looks up a code by exact match.
func ResolveCoupon(code string) (domain.Coupon, bool) {
	for _, c := range couponCatalog {
		if c.Code == code {
			return c, true
		}
	}
	return domain.Coupon{}, false
}
