package voucher

import "time"

// DiscountType enumerates the supported voucher kinds.
type DiscountType string

const (
	// DiscountPercentage reduces the cart subtotal by a percentage, optionally capped.
	DiscountPercentage DiscountType = "PERCENTAGE"
	// DiscountFixed reduces the cart subtotal by a fixed currency amount.
	DiscountFixed DiscountType = "FIXED"
	// DiscountFreeShip waives the entire base delivery fee when applied.
	DiscountFreeShip DiscountType = "FREESHIP"
)

// Valid reports whether the discount type is one of the known kinds.
func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercentage, DiscountFixed, DiscountFreeShip:
		return true
	}
	return false
}

// Voucher is an immutable snapshot of a promotional rule. Optional
// constraints are pointers: nil means the constraint does not apply.
type Voucher struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Type        DiscountType `json:"discountType"`
	Value       int64        `json:"discountValue"`
	MaxDiscount *int64       `json:"maxDiscountAmount,omitempty"`
	MinOrder    *int64       `json:"minOrderValue,omitempty"`
	StartDate   *time.Time   `json:"startDate,omitempty"`
	EndDate     *time.Time   `json:"endDate,omitempty"`
}

// Best carries the recommended voucher per category. Nil means no
// eligible voucher exists in that category.
type Best struct {
	Discount *string `json:"discount"`
	Shipping *string `json:"shipping"`
}
