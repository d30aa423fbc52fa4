package checkout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func newQuoteRouter(t *testing.T, store fakeStore) http.Handler {
	t.Helper()
	h := &Handler{Svc: newTestService(t, store), Validate: validator.New()}
	r := chi.NewRouter()
	r.Post("/api/v1/checkout/quote", h.Quote)
	return r
}

func postQuote(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQuoteEndpoint(t *testing.T) {
	router := newQuoteRouter(t, fakeStore{vouchers: testCatalog()})

	rec := postQuote(router, `{
		"restaurantId": "`+testRestaurantID+`",
		"subtotal": 150000,
		"selectedDiscountVoucherId": "pct10",
		"selectedShippingVoucherId": "ship"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Fee              int64  `json:"fee"`
			ShippingDiscount int64  `json:"shippingDiscount"`
			Discount         int64  `json:"discount"`
			TotalPayable     int64  `json:"totalPayable"`
			Subtotal         int64  `json:"subtotal"`
			Currency         string `json:"currency"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(0), body.Data.Fee)
	require.Equal(t, int64(23000), body.Data.ShippingDiscount)
	require.Equal(t, int64(15000), body.Data.Discount)
	require.Equal(t, int64(135000), body.Data.TotalPayable)
	require.Equal(t, "VND", body.Data.Currency)
}

func TestQuoteEndpointIncludesBestHints(t *testing.T) {
	router := newQuoteRouter(t, fakeStore{vouchers: testCatalog()})

	rec := postQuote(router, `{"restaurantId": "`+testRestaurantID+`", "subtotal": 150000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Best struct {
				Discount *string `json:"discount"`
				Shipping *string `json:"shipping"`
			} `json:"bestVoucherIds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Data.Best.Discount)
	require.Equal(t, "pct10", *body.Data.Best.Discount)
	require.NotNil(t, body.Data.Best.Shipping)
	require.Equal(t, "ship", *body.Data.Best.Shipping)
}

func TestQuoteEndpointValidation(t *testing.T) {
	router := newQuoteRouter(t, fakeStore{})

	cases := map[string]string{
		"malformed json":    `{`,
		"missing id":        `{"subtotal": 1000}`,
		"bad uuid":          `{"restaurantId": "nope", "subtotal": 1000}`,
		"negative subtotal": `{"restaurantId": "` + testRestaurantID + `", "subtotal": -1}`,
		"negative base fee": `{"restaurantId": "` + testRestaurantID + `", "subtotal": 1000, "baseFee": -5}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postQuote(router, body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "BAD_REQUEST")
		})
	}
}

func TestQuoteEndpointCatalogFailure(t *testing.T) {
	router := newQuoteRouter(t, fakeStore{err: errTest})

	rec := postQuote(router, `{"restaurantId": "`+testRestaurantID+`", "subtotal": 1000}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL")
}
