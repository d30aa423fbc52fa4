package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tuanngo-dev/backend-delivery/internal/common"
	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

// Invalidator schedules cache invalidation after catalog mutations.
type Invalidator interface {
	EnqueueInvalidate(ctx context.Context, restaurantID string) error
}

// AdminHandler exposes voucher catalog management endpoints.
type AdminHandler struct {
	Store    Store
	Tasks    Invalidator
	Validate *validator.Validate
	Logger   zerolog.Logger
}

type voucherPayload struct {
	RestaurantID string     `json:"restaurantId" validate:"required,uuid4"`
	Code         string     `json:"code" validate:"required"`
	DiscountType string     `json:"discountType" validate:"required,oneof=PERCENTAGE FIXED FREESHIP"`
	Value        int64      `json:"discountValue" validate:"gte=0"`
	MaxDiscount  *int64     `json:"maxDiscountAmount"`
	MinOrder     *int64     `json:"minOrderValue"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

// Create inserts a new voucher into the catalog.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.Store.Create(r.Context(), payload.toInput())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.invalidate(r.Context(), payload.RestaurantID)
	common.JSONData(w, http.StatusCreated, created)
}

// Update mutates an existing voucher identified by code.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.Store.UpdateByCode(r.Context(), code, payload.toInput())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.invalidate(r.Context(), payload.RestaurantID)
	common.JSONData(w, http.StatusOK, updated)
}

func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request) (voucherPayload, bool) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog store not configured", nil)
		return voucherPayload{}, false
	}
	var payload voucherPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return voucherPayload{}, false
	}
	payload.Code = strings.TrimSpace(payload.Code)
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return voucherPayload{}, false
		}
	}
	return payload, true
}

func (p voucherPayload) toInput() VoucherInput {
	return VoucherInput{
		RestaurantID: p.RestaurantID,
		Code:         p.Code,
		Type:         voucher.DiscountType(p.DiscountType),
		Value:        p.Value,
		MaxDiscount:  p.MaxDiscount,
		MinOrder:     p.MinOrder,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
	}
}

func (h *AdminHandler) invalidate(ctx context.Context, restaurantID string) {
	if h.Tasks == nil {
		return
	}
	if err := h.Tasks.EnqueueInvalidate(ctx, restaurantID); err != nil {
		h.Logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("enqueue catalog invalidation")
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrDuplicateCode) {
		common.JSONError(w, http.StatusConflict, "CONFLICT", "voucher code already exists", nil)
		return
	}
	if appErr, ok := common.AsAppError(err); ok {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "voucher mutation failed", nil)
}
