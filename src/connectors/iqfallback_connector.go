package connectors

// FALLBACK CLIENT STACK FOR THE LEGACY BROKER
// RESTY ONLY + INTERNAL RETRY

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultFallbackRetryAttempts   = 2
	defaultFallbackRetryBaseDelay  = 500 * time.Millisecond
	defaultFallbackRetryMaxBackoff = 4 * time.Second
)

// IQFallbackClient is the second legacy client stack, used only after a
// connection-level failure of the primary. It speaks the unofficial token
// API instead of the cookie-session surface.
type IQFallbackClient struct {
	baseURL string
	http    *resty.Client

	token string
}

func NewIQFallbackClient(host string) *IQFallbackClient {
	baseURL := "https://" + strings.TrimRight(host, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(defaultFallbackRetryAttempts - 1).
		SetRetryWaitTime(defaultFallbackRetryBaseDelay).
		SetRetryMaxWaitTime(defaultFallbackRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &IQFallbackClient{baseURL: baseURL, http: httpClient}
}

type fallbackLoginResponse struct {
	SSID   string `json:"ssid"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// Login exchanges credentials for a bearer token.
func (c *IQFallbackClient) Login(ctx context.Context, email, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&fallbackLoginResponse{}).
		Post("/v2/login")
	if err != nil {
		return fmt.Errorf("%w: iq-fallback login: %v", ErrConnect, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return fmt.Errorf("%w: iq-fallback login status %d", ErrUnauthorized, resp.StatusCode())
	}
	if resp.StatusCode()/100 != 2 {
		return fmt.Errorf("%w: iq-fallback login status %d", ErrBadResponse, resp.StatusCode())
	}

	body, ok := resp.Result().(*fallbackLoginResponse)
	if !ok {
		return fmt.Errorf("%w: iq-fallback login body", ErrBadResponse)
	}
	switch {
	case body.Token != "":
		c.token = body.Token
	case body.SSID != "":
		c.token = body.SSID
	default:
		return fmt.Errorf("%w: iq-fallback login without token (%s)", ErrBadResponse, body.Reason)
	}
	return nil
}

type fallbackBuyResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Buy submits one order through the unofficial surface. Login must have
// succeeded on this client first.
func (c *IQFallbackClient) Buy(ctx context.Context, order IQOrderRequest, accountType string) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("%w: iq-fallback token missing", ErrUnauthorized)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(map[string]interface{}{
			"active":       order.Asset,
			"direction":    order.Direction,
			"price":        order.Amount,
			"exp":          order.Expiration,
			"type":         order.OptionType,
			"balance_type": accountType,
			"request_id":   order.RequestID,
		}).
		SetResult(&fallbackBuyResponse{}).
		Post("/v2/buy")
	if err != nil {
		return "", fmt.Errorf("%w: iq-fallback buy: %v", ErrConnect, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: iq-fallback buy", ErrUnauthorized)
	}
	if resp.StatusCode()/100 != 2 {
		return "", fmt.Errorf("%w: iq-fallback buy status %d", ErrBadResponse, resp.StatusCode())
	}

	body, ok := resp.Result().(*fallbackBuyResponse)
	if !ok {
		return "", fmt.Errorf("%w: iq-fallback buy body", ErrBadResponse)
	}
	if !body.Success {
		return "", fmt.Errorf("%w: %s", ErrRejected, body.Message)
	}
	if body.ID == 0 {
		return "", fmt.Errorf("%w: iq-fallback buy without order id", ErrBadResponse)
	}

	logger.WithField("order_id", body.ID).Info("iq-fallback - order placed")
	return fmt.Sprintf("%d", body.ID), nil
}
