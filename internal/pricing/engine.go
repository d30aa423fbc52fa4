package pricing

import (
	"time"

	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

// Money represents a monetary value in whole currency units.
type Money = int64

// Input is a single pricing request. Now is explicit so the computation
// stays deterministic; callers sample the wall clock at the boundary.
type Input struct {
	Subtotal           Money
	BaseFee            Money
	Vouchers           []voucher.Voucher
	SelectedDiscountID *string
	SelectedShippingID *string
	Now                time.Time
}

// Result aggregates the computed pricing components.
type Result struct {
	Fee              Money        `json:"fee"`
	ShippingDiscount Money        `json:"shippingDiscount"`
	Discount         Money        `json:"discount"`
	TotalPayable     Money        `json:"totalPayable"`
	Best             voucher.Best `json:"bestVoucherIds"`
}

// Quote computes the payable total for a cart. Selected vouchers drive
// the amounts; the best-voucher hints are advisory only. A selection
// pointing at an ID absent from the catalog, or at a voucher that is no
// longer eligible, degrades to zero discount rather than failing.
func Quote(in Input) Result {
	discountVouchers, shippingVouchers := voucher.Partition(in.Vouchers)

	var shippingDiscount Money
	if selected, ok := voucher.FindByID(shippingVouchers, in.SelectedShippingID); ok {
		if voucher.Eligible(selected, in.Subtotal, in.Now) {
			// free shipping is binary: the whole base fee or nothing
			shippingDiscount = in.BaseFee
		}
	}
	fee := in.BaseFee - shippingDiscount

	var discount Money
	if selected, ok := voucher.FindByID(discountVouchers, in.SelectedDiscountID); ok {
		if voucher.Eligible(selected, in.Subtotal, in.Now) {
			discount = voucher.Discount(selected, in.Subtotal)
		}
	}

	total := in.Subtotal + fee - discount
	if total < 0 {
		total = 0
	}

	return Result{
		Fee:              fee,
		ShippingDiscount: shippingDiscount,
		Discount:         discount,
		TotalPayable:     total,
		Best:             voucher.SelectBest(discountVouchers, shippingVouchers, in.Subtotal, in.Now),
	}
}
