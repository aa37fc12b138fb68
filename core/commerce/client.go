package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"order-sync/core/reconcile"
	"order-sync/core/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var _ reconcile.Platform = (*Client)(nil)

// StatusError reports a non-2xx response from the platform.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: unexpected status %s: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: unexpected status %s", e.Op, e.Status)
}

// Client talks to the commerce platform API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a platform client. A nil httpClient gets a default one.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = utils.NewHTTPClient(cfg.TimeoutSeconds)
	}
	c := &Client{cfg: cfg, http: httpClient}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

type orderPayload struct {
	ID             any             `json:"id"`
	Number         any             `json:"number"`
	ShippingStatus string          `json:"shipping_status"`
	PaymentStatus  string          `json:"payment_status"`
	Total          decimal.Decimal `json:"total"`
	NextAction     string          `json:"next_action"`
}

type fulfillRequest struct {
	TrackingNumber string `json:"shipping_tracking_number"`
	TrackingURL    string `json:"shipping_tracking_url,omitempty"`
	NotifyCustomer bool   `json:"notify_customer"`
}

type transactionRequest struct {
	PaymentProviderID string        `json:"payment_provider_id,omitempty"`
	PaymentMethod     paymentMethod `json:"payment_method"`
	FirstEvent        paymentEvent  `json:"first_event"`
}

type paymentMethod struct {
	Type string `json:"type"`
}

type paymentEvent struct {
	Amount     paymentAmount `json:"amount"`
	Type       string        `json:"type"`
	Status     string        `json:"status"`
	HappenedAt string        `json:"happened_at"`
}

type paymentAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// FindOrder returns the first order matching externalCode.
func (c *Client) FindOrder(ctx context.Context, externalCode string) (*reconcile.TargetOrder, error) {
	u, err := url.Parse(c.storeURL("orders"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("q", externalCode)
	u.RawQuery = q.Encode()

	resp, err := c.send(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, reconcile.ErrOrderNotFound
	}
	if err := checkStatus(resp, "find order"); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var orders []orderPayload
	if err := dec.Decode(&orders); err != nil {
		return nil, fmt.Errorf("find order: failed to decode response: %w", err)
	}
	if len(orders) == 0 {
		return nil, reconcile.ErrOrderNotFound
	}

	o := orders[0]
	return &reconcile.TargetOrder{
		ID:             utils.ToString(o.ID),
		Number:         utils.ToString(o.Number),
		ShippingStatus: reconcile.ShippingStatus(o.ShippingStatus),
		PaymentStatus:  reconcile.PaymentStatus(o.PaymentStatus),
		Total:          o.Total,
		NextAction:     o.NextAction,
	}, nil
}

// Pack marks the order as packed.
func (c *Client) Pack(ctx context.Context, orderID string) error {
	return c.post(ctx, "pack", c.storeURL("orders", orderID, "pack"), nil)
}

// Fulfill marks the order as shipped without notifying the customer.
func (c *Client) Fulfill(ctx context.Context, orderID string) error {
	return c.post(ctx, "fulfill", c.storeURL("orders", orderID, "fulfill"), fulfillRequest{
		TrackingNumber: c.cfg.TrackingNumber,
		TrackingURL:    c.cfg.TrackingURL,
		NotifyCustomer: false,
	})
}

// MarkPaid records a successful cash sale of amount.
func (c *Client) MarkPaid(ctx context.Context, orderID string, amount decimal.Decimal, happenedAt time.Time) error {
	return c.post(ctx, "mark paid", c.storeURL("orders", orderID, "transactions"), transactionRequest{
		PaymentProviderID: c.cfg.PaymentProviderID,
		PaymentMethod:     paymentMethod{Type: "cash"},
		FirstEvent: paymentEvent{
			Amount: paymentAmount{
				Value:    amount.String(),
				Currency: c.cfg.Currency,
			},
			Type:       "sale",
			Status:     "success",
			HappenedAt: happenedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (c *Client) post(ctx context.Context, op, endpoint string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, op); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authentication", c.cfg.Token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	return c.http.Do(req)
}

func (c *Client) storeURL(parts ...string) string {
	segments := append([]string{strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.StoreID)}, parts...)
	for i := 2; i < len(segments); i++ {
		segments[i] = url.PathEscape(segments[i])
	}
	return strings.Join(segments, "/")
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(snippet)),
	}
}
