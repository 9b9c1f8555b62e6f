package domain

// Product is the catalog snapshot handed to the cart by the storefront.
// Field names and json tags mirror the storefront payload; the engine never
// fetches or refreshes products itself.
type Product struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Price      string   `json:"price"`
	Image      string   `json:"image"`
	Tags       []string `json:"tags"`
	Category   string   `json:"category"`
	DateAdded  string   `json:"dateAdded,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	NumReviews int      `json:"numReviews,omitempty"`
	Why        string   `json:"why,omitempty"`
	Reviews    []Review `json:"reviews,omitempty"`
}

type Review struct {
	ID         int     `json:"id"`
	UserID     string  `json:"userId"`
	UserName   string  `json:"userName"`
	UserAvatar string  `json:"userAvatar,omitempty"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment"`
	Date       string  `json:"date"`
	Helpful    int     `json:"helpful"`
}

// CartLine is a product snapshot plus a quantity. Quantity is always >= 1
// while the line exists; a line whose quantity would drop to zero is removed
// instead. The embedded Product keeps the serialized form flat, which is also
// the persisted layout.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

type Coupon struct {
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
	MinAmount  float64 `json:"minAmount"`
}

// CartView is the derived read model exposed to UI collaborators. Monetary
// fields are pre-formatted display strings.
type CartView struct {
	Lines         []CartLine `json:"lines"`
	ItemCount     int        `json:"item_count"`
	Subtotal      string     `json:"subtotal"`
	Discount      string     `json:"discount"`
	Total         string     `json:"total"`
	AppliedCoupon *Coupon    `json:"applied_coupon,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

type SessionResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

type CouponListResponse struct {
	Coupons []Coupon `json:"coupons"`
}
