package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/connectors"
	"signalrouter/src/model"
	"signalrouter/src/symbols"
)

// AlertSink receives the execution alert published after an order reaches
// a terminal state. The websocket fan-out and the alert store sit behind
// this interface.
type AlertSink interface {
	Publish(ctx context.Context, alert *model.Alert)
}

type providerSelector interface {
	Select() (*Choice, error)
}

// Executor orchestrates one quick order: normalize, validate, policy
// check, provider selection, remote call with bounded retry, outcome
// classification and the alert side effect.
type Executor struct {
	selector providerSelector
	alerts   AlertSink
	now      func() time.Time

	// Total request budget including the one legacy retry.
	totalBudget time.Duration
	// Per-submit budget covering login, account switch and order call.
	submitBudget time.Duration
}

// NewExecutor wires the production executor.
func NewExecutor(selector providerSelector, alerts AlertSink) *Executor {
	return &Executor{
		selector:     selector,
		alerts:       alerts,
		now:          time.Now,
		totalBudget:  45 * time.Second,
		submitBudget: 20 * time.Second,
	}
}

// Execute runs the full order state machine and always returns a
// structured outcome; no error escapes to the HTTP layer.
//
// Ordering is load-bearing: structural validation, then the policy
// direction check, and only then any provider contact. Malformed or
// policy-violating requests must produce zero remote calls.
func (e *Executor) Execute(ctx context.Context, req model.QuickOrderRequest) model.OrderOutcome {
	if outcome := validateStructure(req); outcome != nil {
		return *outcome
	}

	asset := symbols.Normalize(req.Asset, e.now())
	policy := symbols.PolicyFor(asset)

	if !policy.ExpirationValid(req.Expiration) {
		message := "expiration deve estar entre 1 e 60 minutos"
		if policy.ExpirationUnit == symbols.ExpirationUnitTicks {
			message = "expiration deve estar entre 1 e 10 ticks para mercados sintéticos (Deriv)"
		}
		return validationError(message)
	}

	if !policy.Allows(symbols.Direction(strings.ToLower(req.Direction))) {
		return model.OrderOutcome{
			Status:     model.OutcomePolicyError,
			HTTPStatus: http.StatusBadRequest,
			Message:    "Este mercado aceita apenas compra (CALL).",
		}
	}

	choice, err := e.selector.Select()
	if err != nil {
		var configErr *ConfigError
		if errors.As(err, &configErr) {
			return model.OrderOutcome{
				Status:     model.OutcomeProviderUnavailable,
				HTTPStatus: http.StatusServiceUnavailable,
				Message:    configErr.Message,
			}
		}
		return model.OrderOutcome{
			Status:     model.OutcomeProviderUnavailable,
			HTTPStatus: http.StatusServiceUnavailable,
			Message:    err.Error(),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.totalBudget)
	defer cancel()

	result, providerName, err := e.attempt(ctx, choice, asset, req)
	outcome := e.classify(asset, req, result, providerName, err)

	// Side effect last: only terminal states that involved a genuine
	// provider attempt reach the alert subsystem.
	if outcome.GenuineAttempt() {
		e.publishAlert(ctx, asset, req, outcome)
	}
	return outcome
}

// attempt walks the provider chain. Within one pass, the next chain entry
// is tried only after a connection-level failure; a definitive answer
// (success, rejection, bad payload) stops the walk. The whole pass repeats
// up to choice.Attempts times, which is how the legacy login->switch->buy
// sequence gets its single retry on timeout.
func (e *Executor) attempt(ctx context.Context, choice *Choice, asset symbols.NormalizedAsset, req model.QuickOrderRequest) (*ProviderResult, string, error) {
	var lastErr error
	lastName := choice.Providers[0].Name()

	for attempt := 1; attempt <= choice.Attempts; attempt++ {
		for _, provider := range choice.Providers {
			if ctx.Err() != nil {
				return nil, lastName, fmt.Errorf("%w: request budget exhausted: %v", connectors.ErrConnect, ctx.Err())
			}

			submitCtx, cancel := context.WithTimeout(ctx, e.submitBudget)
			result, err := provider.Submit(submitCtx, asset, req)
			cancel()

			lastName = provider.Name()
			if err == nil {
				return result, provider.Name(), nil
			}
			lastErr = err

			if !connectors.IsConnectFailure(err) {
				// Definitive trading-level answer. Trying another stack or
				// another attempt could double real exposure.
				return nil, provider.Name(), err
			}

			logger.WithError(err).WithFields(map[string]interface{}{
				"provider": provider.Name(),
				"attempt":  attempt,
			}).Warn("router - connection-level failure, trying next option")
		}
	}
	return nil, lastName, lastErr
}

func (e *Executor) classify(asset symbols.NormalizedAsset, req model.QuickOrderRequest, result *ProviderResult, providerName string, err error) model.OrderOutcome {
	policy := symbols.PolicyFor(asset)

	echo := &model.OrderEcho{
		Asset:        req.Asset,
		Symbol:       asset.Canonical,
		Direction:    strings.ToLower(req.Direction),
		Amount:       req.Amount,
		Expiration:   req.Expiration,
		DurationUnit: policy.ExpirationUnit,
		AccountType:  req.AccountType,
		OptionType:   req.OptionType,
		Provider:     providerName,
	}

	if err == nil {
		if result != nil && result.DurationUnit != "" {
			echo.DurationUnit = result.DurationUnit
			echo.Expiration = result.DurationValue
		}
		return model.OrderOutcome{
			Status:     model.OutcomeSuccess,
			HTTPStatus: http.StatusOK,
			Message:    fmt.Sprintf("Ordem enviada via %s", providerName),
			OrderID:    result.OrderID,
			Provider:   providerName,
			Echo:       echo,
		}
	}

	switch {
	case connectors.IsConnectFailure(err):
		return model.OrderOutcome{
			Status:     model.OutcomeTimeout,
			HTTPStatus: http.StatusGatewayTimeout,
			Message:    "Tempo esgotado ao contatar o provedor",
			Provider:   providerName,
			Echo:       echo,
		}
	case errors.Is(err, connectors.ErrRejected):
		return model.OrderOutcome{
			Status:     model.OutcomeProviderError,
			HTTPStatus: http.StatusBadGateway,
			Message:    strings.TrimPrefix(err.Error(), connectors.ErrRejected.Error()+": "),
			Provider:   providerName,
			Echo:       echo,
		}
	default:
		// ErrBadResponse, exhausted re-auth and anything unexpected: the
		// remote answered, but not with anything usable.
		return model.OrderOutcome{
			Status:     model.OutcomeProviderError,
			HTTPStatus: http.StatusBadGateway,
			Message:    "Resposta de compra inválida",
			Provider:   providerName,
			Echo:       echo,
		}
	}
}

func (e *Executor) publishAlert(ctx context.Context, asset symbols.NormalizedAsset, req model.QuickOrderRequest, outcome model.OrderOutcome) {
	if e.alerts == nil {
		return
	}

	direction := strings.ToUpper(req.Direction)
	signalType := "buy"
	if symbols.Direction(strings.ToLower(req.Direction)) == symbols.DirectionPut {
		signalType = "sell"
	}

	title := fmt.Sprintf("✅ Ordem via %s - %s", outcome.Provider, asset.Canonical)
	if !outcome.Succeeded() {
		title = fmt.Sprintf("❌ Falha de ordem via %s - %s", outcome.Provider, asset.Canonical)
	}

	expiration := req.Expiration
	unit := symbols.PolicyFor(asset).ExpirationUnit
	if outcome.Echo != nil {
		expiration = outcome.Echo.Expiration
		unit = outcome.Echo.DurationUnit
	}

	e.alerts.Publish(ctx, &model.Alert{
		ID:         uuid.NewString(),
		SignalID:   uuid.NewString(),
		AlertType:  model.AlertTypeOrderExecution,
		Title:      title,
		Message:    fmt.Sprintf("%s • $%.2f • exp %d%s • via %s", direction, req.Amount, expiration, unit, outcome.Provider),
		Priority:   model.AlertPriorityHigh,
		Symbol:     asset.Canonical,
		SignalType: signalType,
		Timestamp:  e.now(),
	})
}

func validateStructure(req model.QuickOrderRequest) *model.OrderOutcome {
	if req.Amount <= 0 {
		outcome := validationError("amount deve ser maior que zero")
		return &outcome
	}

	direction := symbols.Direction(strings.ToLower(req.Direction))
	if direction != symbols.DirectionCall && direction != symbols.DirectionPut {
		outcome := validationError(fmt.Sprintf("Direção inválida: %s", req.Direction))
		return &outcome
	}

	switch strings.ToLower(req.OptionType) {
	case model.OptionTypeBinary, model.OptionTypeDigital:
	default:
		outcome := validationError(fmt.Sprintf("option_type inválido: %s", req.OptionType))
		return &outcome
	}

	switch strings.ToLower(req.AccountType) {
	case model.AccountTypeDemo, model.AccountTypeReal:
	default:
		outcome := validationError(fmt.Sprintf("account_type inválido: %s", req.AccountType))
		return &outcome
	}
	return nil
}

func validationError(message string) model.OrderOutcome {
	return model.OrderOutcome{
		Status:     model.OutcomeValidationError,
		HTTPStatus: http.StatusBadRequest,
		Message:    message,
	}
}
