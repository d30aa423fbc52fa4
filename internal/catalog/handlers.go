package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tuanngo-dev/backend-delivery/internal/common"
	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

// Handler exposes the public voucher catalog endpoints.
type Handler struct {
	Svc *Service
	Now func() time.Time
}

// voucherView decorates a voucher with display-time evaluation results.
type voucherView struct {
	voucher.Voucher
	Eligible       bool  `json:"eligible"`
	DiscountAmount int64 `json:"discountAmount"`
}

type voucherListResponse struct {
	DiscountVouchers []voucherView `json:"discountVouchers"`
	ShippingVouchers []voucherView `json:"shippingVouchers"`
	BestVoucherIDs   voucher.Best  `json:"bestVoucherIds"`
}

// ListVouchers returns the ranked voucher catalog for a restaurant.
// The optional subtotal query parameter drives eligibility, ranking and
// the computed discount amounts shown next to each voucher.
func (h *Handler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	restaurantID := chi.URLParam(r, "restaurantID")
	subtotal := common.ParseMoney(r.URL.Query().Get("subtotal"), 0)
	now := h.now()

	discount, shipping, best, err := h.Svc.Ranked(r.Context(), restaurantID, subtotal, now)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, voucherListResponse{
		DiscountVouchers: toViews(discount, subtotal, now),
		ShippingVouchers: toViews(shipping, subtotal, now),
		BestVoucherIDs:   best,
	})
}

func toViews(vouchers []voucher.Voucher, subtotal int64, now time.Time) []voucherView {
	out := make([]voucherView, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, voucherView{
			Voucher:        v,
			Eligible:       voucher.Eligible(v, subtotal, now),
			DiscountAmount: voucher.Discount(v, subtotal),
		})
	}
	return out
}

func (h *Handler) now() time.Time {
	if h != nil && h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func writeStoreError(w http.ResponseWriter, err error) {
	if appErr, ok := common.AsAppError(err); ok {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog lookup failed", nil)
}
