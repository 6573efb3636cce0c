package model

// Option contract flavors accepted on the quick-order endpoint.
const (
	OptionTypeBinary  = "binary"
	OptionTypeDigital = "digital"
)

// Account types a quick order may target.
const (
	AccountTypeDemo = "demo"
	AccountTypeReal = "real"
)

// QuickOrderRequest is the inbound payload of POST /api/trading/quick-order.
// It is created per request and never persisted.
type QuickOrderRequest struct {
	Asset       string  `json:"asset"`
	Direction   string  `json:"direction"` // call | put
	Amount      float64 `json:"amount"`
	Expiration  int     `json:"expiration"` // minutes, or ticks for synthetics
	AccountType string  `json:"account_type"`
	OptionType  string  `json:"option_type"`
}

// OutcomeStatus classifies how an order attempt ended.
type OutcomeStatus string

const (
	OutcomeSuccess             OutcomeStatus = "success"
	OutcomeValidationError     OutcomeStatus = "validation_error"
	OutcomePolicyError         OutcomeStatus = "policy_error"
	OutcomeProviderUnavailable OutcomeStatus = "provider_unavailable"
	OutcomeProviderError       OutcomeStatus = "provider_error"
	OutcomeTimeout             OutcomeStatus = "timeout"
)

// OrderEcho mirrors the normalized request that was actually sent to the
// provider, so the caller can see what the routing core did with its input.
type OrderEcho struct {
	Asset        string  `json:"asset"`
	Symbol       string  `json:"symbol"`
	Direction    string  `json:"direction"`
	Amount       float64 `json:"amount"`
	Expiration   int     `json:"expiration"`
	DurationUnit string  `json:"duration_unit"`
	AccountType  string  `json:"account_type"`
	OptionType   string  `json:"option_type"`
	Provider     string  `json:"provider"`
}

// OrderOutcome is the uniform result of one quick-order request. Every
// execution path, including failures, produces one; nothing propagates to
// the HTTP layer as an unhandled fault.
type OrderOutcome struct {
	Status     OutcomeStatus `json:"status"`
	HTTPStatus int           `json:"-"`
	Message    string        `json:"message"`
	OrderID    string        `json:"order_id,omitempty"`
	Provider   string        `json:"provider,omitempty"`
	Echo       *OrderEcho    `json:"echo,omitempty"`
}

// Succeeded reports whether the remote call returned an order identifier.
func (o OrderOutcome) Succeeded() bool {
	return o.Status == OutcomeSuccess
}

// GenuineAttempt reports whether a provider was actually contacted. Only
// genuine attempts (and successes) generate a trading alert; validation
// and policy failures stay silent to the alert subsystem.
func (o OrderOutcome) GenuineAttempt() bool {
	switch o.Status {
	case OutcomeSuccess, OutcomeProviderError, OutcomeTimeout:
		return true
	}
	return false
}

// QuickOrderResponse is the success body of POST /api/trading/quick-order.
type QuickOrderResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	OrderID string     `json:"order_id,omitempty"`
	Echo    *OrderEcho `json:"echo,omitempty"`
}
