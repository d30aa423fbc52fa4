package voucher

import (
	"sort"
	"time"
)

// Partition splits a catalog into discount vouchers and shipping
// vouchers. FREESHIP goes to shipping, everything else to discount.
// Relative order within each slice matches the input order.
func Partition(vouchers []Voucher) (discount, shipping []Voucher) {
	for _, v := range vouchers {
		if v.Type == DiscountFreeShip {
			shipping = append(shipping, v)
		} else {
			discount = append(discount, v)
		}
	}
	return discount, shipping
}

// Eligible reports whether the voucher can be applied against the
// subtotal at the given instant. Checks short-circuit in order: not yet
// active, expired, minimum order unmet. Absent constraints pass.
func Eligible(v Voucher, subtotal int64, now time.Time) bool {
	if v.StartDate != nil && v.StartDate.After(now) {
		return false
	}
	if v.EndDate != nil && v.EndDate.Before(now) {
		return false
	}
	if v.MinOrder != nil && subtotal < *v.MinOrder {
		return false
	}
	return true
}

// Rank returns a copy of the catalog stably sorted so that eligible
// vouchers precede ineligible ones. Catalog order is preserved among
// vouchers with equal eligibility. This is display ordering only and is
// independent of SelectBest.
func Rank(vouchers []Voucher, subtotal int64, now time.Time) []Voucher {
	idx := make([]int, len(vouchers))
	eligible := make([]bool, len(vouchers))
	for i, v := range vouchers {
		idx[i] = i
		eligible[i] = Eligible(v, subtotal, now)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return eligible[idx[a]] && !eligible[idx[b]]
	})
	out := make([]Voucher, len(vouchers))
	for i, j := range idx {
		out[i] = vouchers[j]
	}
	return out
}

// Discount computes the currency amount the voucher takes off the
// subtotal. Integer division floors percentage results toward zero.
// FREESHIP and unknown kinds contribute nothing here; shipping value is
// settled against the base fee by the aggregator. No eligibility check
// is performed; callers gate with Eligible.
func Discount(v Voucher, subtotal int64) int64 {
	var amount int64
	switch v.Type {
	case DiscountPercentage:
		amount = subtotal * v.Value / 100
		if v.MaxDiscount != nil && amount > *v.MaxDiscount {
			amount = *v.MaxDiscount
		}
	case DiscountFixed:
		amount = v.Value
	default:
		return 0
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// SelectBest scans both partitions and returns the highest-value
// eligible voucher per category. Shipping vouchers rank by MaxDiscount
// (nil counts as zero), discount vouchers by their computed amount.
// Ties keep the first voucher encountered.
func SelectBest(discount, shipping []Voucher, subtotal int64, now time.Time) Best {
	var best Best
	var bestShipValue int64
	for i, v := range shipping {
		if !Eligible(v, subtotal, now) {
			continue
		}
		value := int64(0)
		if v.MaxDiscount != nil {
			value = *v.MaxDiscount
		}
		if best.Shipping == nil || value > bestShipValue {
			id := shipping[i].ID
			best.Shipping = &id
			bestShipValue = value
		}
	}
	var bestDiscountValue int64
	for i, v := range discount {
		if !Eligible(v, subtotal, now) {
			continue
		}
		value := Discount(v, subtotal)
		if best.Discount == nil || value > bestDiscountValue {
			id := discount[i].ID
			best.Discount = &id
			bestDiscountValue = value
		}
	}
	return best
}

// FindByID resolves a voucher by ID within a partition. The second
// return is false when the ID is absent, which callers treat as "no
// voucher selected" rather than an error.
func FindByID(vouchers []Voucher, id *string) (Voucher, bool) {
	if id == nil || *id == "" {
		return Voucher{}, false
	}
	for _, v := range vouchers {
		if v.ID == *id {
			return v, true
		}
	}
	return Voucher{}, false
}
