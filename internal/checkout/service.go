package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/tuanngo-dev/backend-delivery/internal/catalog"
	"github.com/tuanngo-dev/backend-delivery/internal/obs"
	"github.com/tuanngo-dev/backend-delivery/internal/pricing"
)

// Input is a quote request for one restaurant cart.
type Input struct {
	RestaurantID       string  `json:"restaurantId" validate:"required,uuid4"`
	Subtotal           int64   `json:"subtotal" validate:"gte=0"`
	BaseFee            *int64  `json:"baseFee" validate:"omitempty,gte=0"`
	SelectedDiscountID *string `json:"selectedDiscountVoucherId"`
	SelectedShippingID *string `json:"selectedShippingVoucherId"`
}

// Service computes checkout quotes from the voucher catalog.
type Service struct {
	Catalog        *catalog.Service
	DefaultBaseFee int64
	Currency       string
	Now            func() time.Time
}

// Output is the quote response payload.
type Output struct {
	pricing.Result
	Subtotal int64  `json:"subtotal"`
	Currency string `json:"currency"`
}

// Quote loads the restaurant's voucher catalog and runs the pricing
// aggregation against it. The wall clock is sampled here, once, so the
// underlying computation stays deterministic.
func (s *Service) Quote(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Catalog == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	vouchers, err := s.Catalog.Vouchers(ctx, in.RestaurantID)
	if err != nil {
		if obs.QuoteTotal != nil {
			obs.QuoteTotal.WithLabelValues("catalog_error").Inc()
		}
		return Output{}, err
	}

	baseFee := s.DefaultBaseFee
	if in.BaseFee != nil {
		baseFee = *in.BaseFee
	}

	start := time.Now()
	result := pricing.Quote(pricing.Input{
		Subtotal:           in.Subtotal,
		BaseFee:            baseFee,
		Vouchers:           vouchers,
		SelectedDiscountID: in.SelectedDiscountID,
		SelectedShippingID: in.SelectedShippingID,
		Now:                s.now(),
	})
	if obs.QuoteDuration != nil {
		obs.QuoteDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues("ok").Inc()
	}
	if obs.VoucherSelectedTotal != nil {
		if result.Discount > 0 {
			obs.VoucherSelectedTotal.WithLabelValues("discount").Inc()
		}
		if result.ShippingDiscount > 0 {
			obs.VoucherSelectedTotal.WithLabelValues("freeship").Inc()
		}
	}

	return Output{Result: result, Subtotal: in.Subtotal, Currency: s.Currency}, nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
