package connectors

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"
)

// DerivClient talks to the Deriv websocket API with one short-lived
// connection per call. Orders and diagnostics are one-shot request
// sequences, so no persistent session state is kept in the process.
type DerivClient struct {
	AppID       int
	APIToken    string
	Host        string
	UseDemo     bool
	CallTimeout time.Duration
}

// NewDerivClient builds a client from the connectors configuration.
func NewDerivClient(config Config) *DerivClient {
	return &DerivClient{
		AppID:       config.DerivAppID,
		APIToken:    config.DerivAPIToken,
		Host:        config.DerivWSHost,
		UseDemo:     config.DerivUseDemo,
		CallTimeout: 12 * time.Second,
	}
}

// Configured reports whether both app id and API token are present.
func (c *DerivClient) Configured() bool {
	return c.AppID > 0 && c.APIToken != ""
}

// DerivOrder is the tolerant extraction of a successful buy response.
type DerivOrder struct {
	ContractID    string
	ProposalID    string
	PurchasePrice float64
	Payout        float64
	DurationValue int
	DurationUnit  string
}

// DerivDiagnostics mirrors the payload of GET /api/deriv/diagnostics.
type DerivDiagnostics struct {
	Status             string    `json:"status"`
	Summary            string    `json:"summary"`
	DerivConnected     bool      `json:"deriv_connected"`
	DerivAuthenticated bool      `json:"deriv_authenticated"`
	AvailableSymbols   int       `json:"available_symbols"`
	UseDemo            bool      `json:"use_demo"`
	Errors             []string  `json:"errors,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// wsCall opens a websocket, sends the requests in order and reads one
// response per request. Suitable for diagnostics and one-shot orders.
func (c *DerivClient) wsCall(ctx context.Context, requests []map[string]interface{}) ([]map[string]interface{}, error) {
	endpoint := url.URL{
		Scheme:   "wss",
		Host:     c.Host,
		Path:     "/websockets/v3",
		RawQuery: "app_id=" + strconv.Itoa(c.AppID),
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
		Proxy:            http.ProxyFromEnvironment,
	}

	conn, _, err := dialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: deriv dial: %v", ErrConnect, err)
	}
	defer conn.Close()

	responses := make([]map[string]interface{}, 0, len(requests))
	for _, request := range requests {
		if err := conn.WriteJSON(request); err != nil {
			return responses, fmt.Errorf("%w: deriv write: %v", ErrConnect, err)
		}

		_ = conn.SetReadDeadline(time.Now().Add(c.CallTimeout))
		var response map[string]interface{}
		if err := conn.ReadJSON(&response); err != nil {
			return responses, fmt.Errorf("%w: deriv read: %v", ErrConnect, err)
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// Diagnostics pings the API and counts active symbols. No token required;
// an unset app id short-circuits to not_configured.
func (c *DerivClient) Diagnostics(ctx context.Context) *DerivDiagnostics {
	diag := &DerivDiagnostics{UseDemo: c.UseDemo, Timestamp: time.Now().UTC()}

	if c.AppID <= 0 {
		diag.Status = "not_configured"
		diag.Summary = "DERIV_APP_ID ausente. Configure DERIV_APP_ID e DERIV_API_TOKEN (demo)"
		return diag
	}

	responses, err := c.wsCall(ctx, []map[string]interface{}{
		{"ping": 1},
		{"active_symbols": "brief"},
	})
	if err != nil {
		diag.Status = "error"
		diag.Summary = err.Error()
		diag.Errors = append(diag.Errors, err.Error())
		return diag
	}

	for _, response := range responses {
		if _, ok := response["pong"]; ok {
			diag.DerivConnected = true
		}
		if msgType, _ := response["msg_type"].(string); msgType == "active_symbols" {
			if symbols, ok := response["active_symbols"].([]interface{}); ok {
				diag.AvailableSymbols = len(symbols)
			}
		}
		if msg := errorMessage(response); msg != "" {
			diag.Errors = append(diag.Errors, msg)
		}
	}

	if diag.DerivConnected {
		diag.Status = "success"
		diag.Summary = "OK"
	} else {
		diag.Status = "partial"
		diag.Summary = "unknown"
		if len(diag.Errors) > 0 {
			diag.Summary = diag.Errors[0]
		}
	}
	return diag
}

// AuthCheck verifies the configured token by running a single authorize
// call and reporting the login id it resolves to.
func (c *DerivClient) AuthCheck(ctx context.Context) (map[string]interface{}, error) {
	if !c.Configured() {
		return map[string]interface{}{
			"status":  "not_configured",
			"summary": "Deriv não configurado (defina DERIV_APP_ID e DERIV_API_TOKEN)",
		}, nil
	}

	responses, err := c.wsCall(ctx, []map[string]interface{}{{"authorize": c.APIToken}})
	if err != nil {
		return nil, err
	}

	for _, response := range responses {
		if msgType, _ := response["msg_type"].(string); msgType == "authorize" {
			result := map[string]interface{}{"status": "success", "authenticated": true}
			if auth, ok := response["authorize"].(map[string]interface{}); ok {
				result["loginid"] = auth["loginid"]
				result["currency"] = auth["currency"]
				result["is_virtual"] = auth["is_virtual"]
			}
			return result, nil
		}
		if msg := errorMessage(response); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
	}
	return nil, fmt.Errorf("%w: authorize response missing", ErrBadResponse)
}

// QuickOrder runs the minimal proposal -> buy flow. The buy sequence
// re-authorizes so the buy response is deterministically the second
// message on the fresh connection.
func (c *DerivClient) QuickOrder(ctx context.Context, symbol, contractType string, amount float64, duration int, durationUnit string) (*DerivOrder, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: deriv app id/token missing", ErrUnauthorized)
	}

	proposalRequest := map[string]interface{}{
		"proposal":      1,
		"amount":        amount,
		"basis":         "stake",
		"contract_type": contractType,
		"currency":      "USD",
		"duration":      duration,
		"duration_unit": durationUnit,
		"symbol":        symbol,
	}

	responses, err := c.wsCall(ctx, []map[string]interface{}{
		{"authorize": c.APIToken},
		proposalRequest,
	})
	if err != nil {
		return nil, err
	}

	if !hasMsgType(responses, "authorize") {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, firstError(responses, "falha ao autorizar"))
	}

	proposal := findPayload(responses, "proposal")
	if proposal == nil {
		return nil, fmt.Errorf("%w: %s", ErrBadResponse, firstError(responses, "falha ao obter proposta"))
	}

	proposalID, _ := proposal["id"].(string)
	if proposalID == "" {
		return nil, fmt.Errorf("%w: proposal id missing", ErrBadResponse)
	}
	askPrice := amount
	if price, ok := proposal["ask_price"].(float64); ok {
		askPrice = price
	}

	buyResponses, err := c.wsCall(ctx, []map[string]interface{}{
		{"authorize": c.APIToken},
		{"buy": proposalID, "price": askPrice},
	})
	if err != nil {
		return nil, err
	}

	if msg := firstError(buyResponses, ""); msg != "" {
		return nil, fmt.Errorf("%w: falha na compra: %s", ErrRejected, msg)
	}

	buyMessage := findMessage(buyResponses, "buy")
	if buyMessage == nil {
		return nil, fmt.Errorf("%w: buy message missing", ErrBadResponse)
	}

	// Payload shape varies between "buy" and "purchase" envelopes.
	payload, _ := buyMessage["buy"].(map[string]interface{})
	if payload == nil {
		payload, _ = buyMessage["purchase"].(map[string]interface{})
	}
	contractID := pickID(payload, buyMessage, "contract_id", "transaction_id")
	if contractID == "" {
		return nil, fmt.Errorf("%w: buy response without contract_id", ErrBadResponse)
	}

	order := &DerivOrder{
		ContractID:    contractID,
		ProposalID:    proposalID,
		DurationValue: duration,
		DurationUnit:  durationUnit,
	}
	if payload != nil {
		order.PurchasePrice, _ = payload["buy_price"].(float64)
		order.Payout, _ = payload["payout"].(float64)
	}

	logger.WithFields(map[string]interface{}{
		"symbol":      symbol,
		"contract_id": contractID,
		"duration":    duration,
		"unit":        durationUnit,
	}).Info("deriv - order placed")

	return order, nil
}

func errorMessage(response map[string]interface{}) string {
	apiError, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	message, _ := apiError["message"].(string)
	if code, _ := apiError["code"].(string); code != "" && message != "" {
		return code + ": " + message
	}
	return message
}

func firstError(responses []map[string]interface{}, fallback string) string {
	for _, response := range responses {
		if msg := errorMessage(response); msg != "" {
			return msg
		}
	}
	return fallback
}

func hasMsgType(responses []map[string]interface{}, msgType string) bool {
	return findMessage(responses, msgType) != nil
}

func findMessage(responses []map[string]interface{}, msgType string) map[string]interface{} {
	for _, response := range responses {
		if got, _ := response["msg_type"].(string); got == msgType {
			return response
		}
	}
	return nil
}

func findPayload(responses []map[string]interface{}, msgType string) map[string]interface{} {
	message := findMessage(responses, msgType)
	if message == nil {
		return nil
	}
	payload, _ := message[msgType].(map[string]interface{})
	return payload
}

func pickID(payload, envelope map[string]interface{}, keys ...string) string {
	for _, source := range []map[string]interface{}{payload, envelope} {
		if source == nil {
			continue
		}
		for _, key := range keys {
			switch value := source[key].(type) {
			case string:
				if value != "" {
					return value
				}
			case float64:
				return strconv.FormatFloat(value, 'f', -1, 64)
			}
		}
	}
	return ""
}
