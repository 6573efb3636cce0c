package connectors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

// BridgeClient drives the external browser-automation bridge over its
// small HTTP surface (/bridge/health, /bridge/login, /bridge/quick-order).
// The bridge keeps its own browser session; this client only forwards
// requests and re-logs-in once when the session has expired.
type BridgeClient struct {
	baseURL string
	http    *resty.Client
}

// BridgeOrderRequest is the bridge's quick-order body. The asset travels
// in raw form; the bridge types the slash display form into the UI itself.
type BridgeOrderRequest struct {
	Asset       string  `json:"asset"`
	Direction   string  `json:"direction"`
	Amount      float64 `json:"amount"`
	Expiration  int     `json:"expiration"`
	AccountType string  `json:"account_type"`
	OptionType  string  `json:"option_type"`
}

type bridgeResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	OrderID      string `json:"order_id"`
	AssetDisplay string `json:"asset_display"`
	Detail       string `json:"detail"`
}

// NewBridgeClient returns a client for the configured bridge endpoint, or
// nil when no endpoint is configured.
func NewBridgeClient(config Config) *BridgeClient {
	baseURL := strings.TrimRight(config.BridgeURL, "/")
	if baseURL == "" {
		return nil
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(20 * time.Second).
		SetRetryCount(1).
		AddRetryCondition(isRetryableResp)

	return &BridgeClient{baseURL: baseURL, http: httpClient}
}

// Health checks /bridge/health with a short budget.
func (c *BridgeClient) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/bridge/health")
	if err != nil {
		return fmt.Errorf("%w: bridge health: %v", ErrConnect, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: bridge health status %d", ErrBadResponse, resp.StatusCode())
	}
	return nil
}

// Login asks the bridge to (re)establish its browser session.
func (c *BridgeClient) Login(ctx context.Context, email, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&bridgeResponse{}).
		Post("/bridge/login")
	if err != nil {
		return fmt.Errorf("%w: bridge login: %v", ErrConnect, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: bridge login status %d: %s", ErrUnauthorized, resp.StatusCode(), resp.String())
	}
	return nil
}

// QuickOrder forwards one order to the bridge. An unauthorized status maps
// to ErrUnauthorized so the caller can run the login-once-then-retry step.
func (c *BridgeClient) QuickOrder(ctx context.Context, order BridgeOrderRequest) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(order).
		SetResult(&bridgeResponse{}).
		Post("/bridge/quick-order")
	if err != nil {
		return "", fmt.Errorf("%w: bridge quick-order: %v", ErrConnect, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: bridge session expired", ErrUnauthorized)
	case resp.StatusCode() == http.StatusServiceUnavailable:
		detail := resp.String()
		if body, ok := resp.Result().(*bridgeResponse); ok && body.Detail != "" {
			detail = body.Detail
		}
		return "", fmt.Errorf("%w: %s", ErrRejected, detail)
	case resp.StatusCode() != http.StatusOK:
		return "", fmt.Errorf("%w: bridge status %d: %s", ErrBadResponse, resp.StatusCode(), resp.String())
	}

	body, ok := resp.Result().(*bridgeResponse)
	if !ok || body.Status != "ok" {
		return "", fmt.Errorf("%w: bridge body %s", ErrBadResponse, resp.String())
	}

	logger.WithFields(map[string]interface{}{
		"asset":   order.Asset,
		"display": body.AssetDisplay,
	}).Info("bridge - order forwarded")

	// The bridge clicks the UI and has no exchange order id of its own.
	if body.OrderID != "" {
		return body.OrderID, nil
	}
	return "bridge-accepted", nil
}

// QuickOrderWithReauth submits the order and, on an expired session,
// performs exactly one login followed by one retry. A failed login aborts
// immediately so the sequence can never loop.
func (c *BridgeClient) QuickOrderWithReauth(ctx context.Context, order BridgeOrderRequest, email, password string) (string, error) {
	orderID, err := c.QuickOrder(ctx, order)
	if err == nil {
		return orderID, nil
	}
	if !isUnauthorized(err) {
		return "", err
	}

	logger.Warn("bridge - session expired, attempting one re-login")
	if loginErr := c.Login(ctx, email, password); loginErr != nil {
		return "", fmt.Errorf("%w: re-login failed: %v", ErrBadResponse, loginErr)
	}
	return c.QuickOrder(ctx, order)
}
