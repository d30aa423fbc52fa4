package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tuanngo-dev/backend-delivery/internal/pricing"
	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func i64(v int64) *int64 { return &v }

func str(s string) *string { return &s }

func ts(t time.Time) *time.Time { return &t }

func testCatalog() []voucher.Voucher {
	return []voucher.Voucher{
		{ID: "pct10", Type: voucher.DiscountPercentage, Value: 10, MinOrder: i64(100_000)},
		{ID: "fix30", Type: voucher.DiscountFixed, Value: 30_000, MinOrder: i64(300_000)},
		{ID: "ship", Type: voucher.DiscountFreeShip, MaxDiscount: i64(23_000), MinOrder: i64(50_000)},
	}
}

func TestQuoteSelectedPercentage(t *testing.T) {
	res := pricing.Quote(pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           testCatalog(),
		SelectedDiscountID: str("pct10"),
		Now:                now,
	})
	require.EqualValues(t, 15_000, res.Discount)
	require.EqualValues(t, 23_000, res.Fee)
	require.EqualValues(t, 0, res.ShippingDiscount)
	require.EqualValues(t, 158_000, res.TotalPayable)
}

func TestQuoteWithFreeShipping(t *testing.T) {
	res := pricing.Quote(pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           testCatalog(),
		SelectedDiscountID: str("pct10"),
		SelectedShippingID: str("ship"),
		Now:                now,
	})
	require.EqualValues(t, 0, res.Fee)
	require.EqualValues(t, 23_000, res.ShippingDiscount)
	require.EqualValues(t, 135_000, res.TotalPayable)
}

func TestQuoteNoSelection(t *testing.T) {
	res := pricing.Quote(pricing.Input{
		Subtotal: 150_000,
		BaseFee:  23_000,
		Vouchers: testCatalog(),
		Now:      now,
	})
	require.EqualValues(t, 0, res.Discount)
	require.EqualValues(t, 23_000, res.Fee)
	require.EqualValues(t, 173_000, res.TotalPayable)
}

func TestQuoteStaleSelectionIgnored(t *testing.T) {
	res := pricing.Quote(pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           testCatalog(),
		SelectedDiscountID: str("removed-voucher"),
		SelectedShippingID: str("also-gone"),
		Now:                now,
	})
	require.EqualValues(t, 0, res.Discount)
	require.EqualValues(t, 0, res.ShippingDiscount)
	require.EqualValues(t, 173_000, res.TotalPayable)
}

func TestQuoteSelectionDoesNotOverrideEligibility(t *testing.T) {
	expired := []voucher.Voucher{
		{ID: "old", Type: voucher.DiscountFixed, Value: 50_000, EndDate: ts(now.Add(-24 * time.Hour))},
	}
	res := pricing.Quote(pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           expired,
		SelectedDiscountID: str("old"),
		Now:                now,
	})
	require.EqualValues(t, 0, res.Discount)
	require.EqualValues(t, 173_000, res.TotalPayable)
}

func TestQuoteDiscountTypeCannotCrossCategory(t *testing.T) {
	// a FREESHIP id selected in the discount slot finds nothing, and a
	// discount id selected in the shipping slot finds nothing either
	res := pricing.Quote(pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           testCatalog(),
		SelectedDiscountID: str("ship"),
		SelectedShippingID: str("pct10"),
		Now:                now,
	})
	require.EqualValues(t, 0, res.Discount)
	require.EqualValues(t, 0, res.ShippingDiscount)
}

func TestQuoteTotalFloorsAtZero(t *testing.T) {
	big := []voucher.Voucher{
		{ID: "huge", Type: voucher.DiscountFixed, Value: 500_000},
	}
	res := pricing.Quote(pricing.Input{
		Subtotal:           100_000,
		BaseFee:            10_000,
		Vouchers:           big,
		SelectedDiscountID: str("huge"),
		Now:                now,
	})
	require.EqualValues(t, 0, res.TotalPayable)
	require.EqualValues(t, 500_000, res.Discount)
}

func TestQuoteBestHintsDoNotAffectTotal(t *testing.T) {
	res := pricing.Quote(pricing.Input{
		Subtotal: 150_000,
		BaseFee:  23_000,
		Vouchers: testCatalog(),
		Now:      now,
	})
	require.NotNil(t, res.Best.Discount)
	require.Equal(t, "pct10", *res.Best.Discount)
	require.NotNil(t, res.Best.Shipping)
	require.Equal(t, "ship", *res.Best.Shipping)
	// hints alone never change the payable amount
	require.EqualValues(t, 173_000, res.TotalPayable)
}

func TestQuoteIdempotent(t *testing.T) {
	in := pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           testCatalog(),
		SelectedDiscountID: str("pct10"),
		SelectedShippingID: str("ship"),
		Now:                now,
	}
	first := pricing.Quote(in)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, pricing.Quote(in))
	}
}

func TestQuoteMatchesBestPathComputation(t *testing.T) {
	// the selected-voucher path and the best-voucher path share one
	// discount formula; selecting the recommended voucher must price
	// exactly what the recommendation was based on
	catalog := testCatalog()
	res := pricing.Quote(pricing.Input{Subtotal: 150_000, BaseFee: 23_000, Vouchers: catalog, Now: now})
	require.NotNil(t, res.Best.Discount)

	applied := pricing.Quote(pricing.Input{
		Subtotal:           150_000,
		BaseFee:            23_000,
		Vouchers:           catalog,
		SelectedDiscountID: res.Best.Discount,
		Now:                now,
	})
	best, ok := voucher.FindByID(catalog, res.Best.Discount)
	require.True(t, ok)
	require.Equal(t, voucher.Discount(best, 150_000), applied.Discount)
}

func TestQuoteNonNegativity(t *testing.T) {
	inputs := []pricing.Input{
		{Subtotal: 0, BaseFee: 0, Now: now},
		{Subtotal: 0, BaseFee: 23_000, Vouchers: testCatalog(), SelectedShippingID: str("ship"), Now: now},
		{Subtotal: 1, BaseFee: 1, Vouchers: testCatalog(), SelectedDiscountID: str("pct10"), Now: now},
	}
	for _, in := range inputs {
		res := pricing.Quote(in)
		require.GreaterOrEqual(t, res.Fee, int64(0))
		require.GreaterOrEqual(t, res.Discount, int64(0))
		require.GreaterOrEqual(t, res.ShippingDiscount, int64(0))
		require.GreaterOrEqual(t, res.TotalPayable, int64(0))
	}
}
