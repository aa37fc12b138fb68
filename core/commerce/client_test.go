package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"order-sync/core/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	search   string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer secret", r.Header.Get("Authentication"))
		assert.Equal(t, "order-sync (ops@example.com)", r.Header.Get("User-Agent"))

		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"description":"nope"}`))
			return
		}
		if r.Method == http.MethodGet {
			assert.Equal(t, f.search, r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`[
				{"id":1234567890,"number":2001,"shipping_status":"unpacked","payment_status":"pending","total":"100.50","next_action":"waiting_packing"},
				{"id":2,"number":2002,"shipping_status":"shipped","payment_status":"paid","total":"1.00"}
			]`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:           srv.URL + "/v1",
		StoreID:           "1705915",
		Token:             "bearer secret",
		UserAgent:         "order-sync (ops@example.com)",
		Currency:          "ARS",
		PaymentProviderID: "provider-1",
		TrackingNumber:    "NO_TRACK_NUMBER",
		TrackingURL:       "https://example.com/",
	}, srv.Client())
}

func TestClient_FindOrderTakesFirstMatch(t *testing.T) {
	api := &fakeAPI{search: "X1"}
	c := newTestClient(t, api)

	order, err := c.FindOrder(context.Background(), "X1")
	require.NoError(t, err)

	assert.Equal(t, "1234567890", order.ID)
	assert.Equal(t, "2001", order.Number)
	assert.Equal(t, reconcile.ShippingUnpacked, order.ShippingStatus)
	assert.Equal(t, reconcile.PaymentPending, order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("100.50").Equal(order.Total))
	assert.Equal(t, "waiting_packing", order.NextAction)
	assert.Equal(t, "/v1/1705915/orders", api.requests[0].Path)
}

func TestClient_FindOrderNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"EmptyList", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[]`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(Config{BaseURL: srv.URL, StoreID: "1"}, srv.Client()).FindOrder(context.Background(), "X")
			assert.ErrorIs(t, err, reconcile.ErrOrderNotFound)
		})
	}
}

func TestClient_Actions(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)
	ctx := context.Background()
	happened := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Pack(ctx, "77"))
	require.NoError(t, c.Fulfill(ctx, "77"))
	require.NoError(t, c.MarkPaid(ctx, "77", decimal.NewFromInt(100), happened))

	require.Len(t, api.requests, 3)
	assert.Equal(t, "/v1/1705915/orders/77/pack", api.requests[0].Path)

	assert.Equal(t, "/v1/1705915/orders/77/fulfill", api.requests[1].Path)
	assert.Equal(t, map[string]any{
		"shipping_tracking_number": "NO_TRACK_NUMBER",
		"shipping_tracking_url":    "https://example.com/",
		"notify_customer":          false,
	}, api.requests[1].Body)

	assert.Equal(t, "/v1/1705915/orders/77/transactions", api.requests[2].Path)
	paid := api.requests[2].Body
	assert.Equal(t, "provider-1", paid["payment_provider_id"])
	assert.Equal(t, map[string]any{"type": "cash"}, paid["payment_method"])
	assert.Equal(t, map[string]any{
		"amount":      map[string]any{"value": "100", "currency": "ARS"},
		"type":        "sale",
		"status":      "success",
		"happened_at": "2024-06-15T00:00:00Z",
	}, paid["first_event"])
}

func TestClient_ActionRejected(t *testing.T) {
	api := &fakeAPI{status: http.StatusUnprocessableEntity}
	c := newTestClient(t, api)

	err := c.Pack(context.Background(), "77")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "pack", statusErr.Op)
	assert.Contains(t, statusErr.Body, "nope")
}

func TestClient_RateLimiter(t *testing.T) {
	c := NewClient(Config{RequestsPerSecond: 5, Burst: 2}, nil)
	require.NotNil(t, c.limiter)
	assert.Equal(t, 2, c.limiter.Burst())

	assert.Nil(t, NewClient(Config{}, nil).limiter)
}
