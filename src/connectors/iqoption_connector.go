package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
)

const iqUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

// IQOptionClient is the primary legacy broker stack: cookie-session REST
// against the official host. The login session (SSID cookie) is a single
// shared resource per process; EnsureLoggedIn serializes session
// acquisition while order submission itself runs concurrently.
type IQOptionClient struct {
	BaseURL       *url.URL
	HTTP          *http.Client
	UserAgent     string
	SessionCookie *http.Cookie // SSID

	sessionMu sync.Mutex
	email     string
	password  string
}

// NewIQOptionClient builds the primary legacy client for the given host.
func NewIQOptionClient(host string) (*IQOptionClient, error) {
	base, err := url.Parse("https://" + host)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &IQOptionClient{
		BaseURL: base,
		HTTP: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		UserAgent: iqUserAgent,
	}, nil
}

// SetCredentials installs the login used by EnsureLoggedIn and drops any
// session established with the previous pair.
func (c *IQOptionClient) SetCredentials(email, password string) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.email = email
	c.password = password
	c.SessionCookie = nil
}

// UpdateCredentials installs the pair only when it differs from the one
// already held, so an unchanged login keeps its session.
func (c *IQOptionClient) UpdateCredentials(email, password string) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if c.email == email && c.password == password {
		return
	}
	c.email = email
	c.password = password
	c.SessionCookie = nil
}

// EnsureLoggedIn logs in once if no session cookie is held yet. Concurrent
// orders block here instead of racing multiple logins.
func (c *IQOptionClient) EnsureLoggedIn(ctx context.Context) error {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.SessionCookie != nil {
		return nil
	}
	if c.email == "" || c.password == "" {
		return fmt.Errorf("%w: legacy credentials not set", ErrUnauthorized)
	}
	return c.login(ctx)
}

// login posts credentials and stores the session cookie that comes back.
// Caller must hold sessionMu.
func (c *IQOptionClient) login(ctx context.Context) error {
	loginURL := c.BaseURL.ResolveReference(&url.URL{Path: "/api/v2/login"}).String()

	payload := map[string]string{
		"identifier": c.email,
		"password":   c.password,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.BaseURL.String())
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: iq login: %v", ErrConnect, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: iq login status %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: iq login status %d", ErrBadResponse, resp.StatusCode)
	}

	c.syncSessionFromJar()
	if c.SessionCookie == nil {
		return fmt.Errorf("%w: SSID not set after login", ErrBadResponse)
	}
	logger.Info("iq - session established")
	return nil
}

func (c *IQOptionClient) syncSessionFromJar() {
	if c.HTTP == nil || c.HTTP.Jar == nil || c.BaseURL == nil {
		return
	}
	for _, cookie := range c.HTTP.Jar.Cookies(c.BaseURL) {
		if cookie.Name == "ssid" || cookie.Name == "SSID" {
			c.SessionCookie = cookie
		}
	}
}

// SwitchAccount selects the demo or real balance before an order.
func (c *IQOptionClient) SwitchAccount(ctx context.Context, accountType string) error {
	switchURL := c.BaseURL.ResolveReference(&url.URL{Path: "/api/v1/profile/change-balance"}).String()

	body, _ := json.Marshal(map[string]string{"balance_type": accountType})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, switchURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: iq change-balance: %v", ErrConnect, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: iq change-balance", ErrUnauthorized)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: iq change-balance status %d", ErrBadResponse, resp.StatusCode)
	}
	return nil
}

// IQOrderRequest is the legacy buy payload.
type IQOrderRequest struct {
	Asset      string  `json:"active"`
	Direction  string  `json:"direction"`
	Amount     float64 `json:"price"`
	Expiration int     `json:"exp"`
	OptionType string  `json:"type"`
	RequestID  string  `json:"request_id,omitempty"`
}

type iqBuyResponse struct {
	IsSuccessful bool   `json:"isSuccessful"`
	Message      string `json:"message"`
	Result       struct {
		ID int64 `json:"id"`
	} `json:"result"`
}

// Buy submits one binary/digital option order. RequestID rides along so a
// dedup-capable backend can drop duplicates from retried sequences.
func (c *IQOptionClient) Buy(ctx context.Context, order IQOrderRequest) (string, error) {
	buyURL := c.BaseURL.ResolveReference(&url.URL{Path: "/api/v1/buy"}).String()

	body, _ := json.Marshal(order)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, buyURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: iq buy: %v", ErrConnect, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: iq buy", ErrUnauthorized)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: iq buy status %d: %s", ErrBadResponse, resp.StatusCode, truncate(raw, 200))
	}

	var parsed iqBuyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: iq buy body: %v", ErrBadResponse, err)
	}
	if !parsed.IsSuccessful {
		message := parsed.Message
		if message == "" {
			message = truncate(raw, 200)
		}
		return "", fmt.Errorf("%w: %s", ErrRejected, message)
	}
	if parsed.Result.ID == 0 {
		return "", fmt.Errorf("%w: iq buy without order id", ErrBadResponse)
	}
	return fmt.Sprintf("%d", parsed.Result.ID), nil
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit])
}
