package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"order-sync/core/reconcile"
	"order-sync/core/utils"
)

// StatusError reports a non-2xx response from the POS.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.Op, e.Status)
}

var _ reconcile.Source = (*Client)(nil)

// Client talks to the POS API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a POS client. A nil httpClient gets a default one.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = utils.NewHTTPClient(cfg.TimeoutSeconds)
	}
	return &Client{cfg: cfg, http: httpClient}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type listingResponse struct {
	ExternalOrder []reconcile.SourceOrder `json:"externalOrder"`
}

// Login exchanges the configured credentials for a session token.
func (c *Client) Login(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{Email: c.cfg.Email, Password: c.cfg.Password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LoginURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out loginResponse
	if err := c.do(req, "login", &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}
	return out.Token, nil
}

// ListOrders fetches the orders created within window.
func (c *Client) ListOrders(ctx context.Context, token string, window reconcile.Window) ([]reconcile.SourceOrder, error) {
	u, err := url.Parse(c.cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url: %w", err)
	}
	q := u.Query()
	q.Set("from", utils.FormatPOSDate(window.From))
	q.Set("to", utils.FormatPOSDate(window.To))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	var out listingResponse
	if err := c.do(req, "list orders", &out); err != nil {
		return nil, err
	}
	if out.ExternalOrder == nil {
		return []reconcile.SourceOrder{}, nil
	}
	return out.ExternalOrder, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
