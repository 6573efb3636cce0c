package routing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"signalrouter/src/connectors"
	"signalrouter/src/model"
	"signalrouter/src/symbols"
)

// Provider names used in responses and alerts.
const (
	ProviderBridge         = "bridge"
	ProviderDeriv          = "deriv"
	ProviderLegacyPrimary  = "iq_option"
	ProviderLegacyFallback = "iq_option_fallback"
)

// ProviderResult is what a backend reports after accepting an order.
type ProviderResult struct {
	OrderID       string
	DurationValue int
	DurationUnit  string
}

// OrderProvider submits one normalized order to a concrete backend. The
// executor only ever depends on this interface; picking a concrete
// implementation is the selector's job.
type OrderProvider interface {
	Name() string
	Submit(ctx context.Context, asset symbols.NormalizedAsset, req model.QuickOrderRequest) (*ProviderResult, error)
}

// ---- Deriv ----

type derivProvider struct {
	client *connectors.DerivClient
}

// NewDerivProvider wraps the Deriv websocket client.
func NewDerivProvider(client *connectors.DerivClient) OrderProvider {
	return &derivProvider{client: client}
}

func (p *derivProvider) Name() string { return ProviderDeriv }

func (p *derivProvider) Submit(ctx context.Context, asset symbols.NormalizedAsset, req model.QuickOrderRequest) (*ProviderResult, error) {
	policy := symbols.PolicyFor(asset)

	order, err := p.client.QuickOrder(ctx, asset.DerivCode(), derivContractType(req.Direction), req.Amount, req.Expiration, policy.ExpirationUnit)
	if err != nil {
		return nil, err
	}
	return &ProviderResult{
		OrderID:       order.ContractID,
		DurationValue: order.DurationValue,
		DurationUnit:  order.DurationUnit,
	}, nil
}

// derivContractType maps the request direction onto Deriv's contract type.
// Validation accepts the direction case-insensitively, so the comparison
// here must lowercase too or an uppercase PUT would be sent as a CALL.
func derivContractType(direction string) string {
	if symbols.Direction(strings.ToLower(direction)) == symbols.DirectionPut {
		return "PUT"
	}
	return "CALL"
}

// ---- Bridge ----

type bridgeProvider struct {
	client      *connectors.BridgeClient
	credentials *connectors.CredentialStore
}

// NewBridgeProvider wraps the browser-automation bridge client.
func NewBridgeProvider(client *connectors.BridgeClient, credentials *connectors.CredentialStore) OrderProvider {
	return &bridgeProvider{client: client, credentials: credentials}
}

func (p *bridgeProvider) Name() string { return ProviderBridge }

func (p *bridgeProvider) Submit(ctx context.Context, asset symbols.NormalizedAsset, req model.QuickOrderRequest) (*ProviderResult, error) {
	email, password, _ := p.credentials.Get()

	orderID, err := p.client.QuickOrderWithReauth(ctx, connectors.BridgeOrderRequest{
		Asset:       asset.LegacyCode(),
		Direction:   strings.ToLower(req.Direction),
		Amount:      req.Amount,
		Expiration:  req.Expiration,
		AccountType: req.AccountType,
		OptionType:  req.OptionType,
	}, email, password)
	if err != nil {
		return nil, err
	}

	policy := symbols.PolicyFor(asset)
	return &ProviderResult{
		OrderID:       orderID,
		DurationValue: req.Expiration,
		DurationUnit:  policy.ExpirationUnit,
	}, nil
}

// ---- Legacy primary (cookie-session stack) ----

type legacyPrimaryProvider struct {
	client      *connectors.IQOptionClient
	credentials *connectors.CredentialStore
}

// NewLegacyPrimaryProvider wraps the official-host legacy client.
func NewLegacyPrimaryProvider(client *connectors.IQOptionClient, credentials *connectors.CredentialStore) OrderProvider {
	return &legacyPrimaryProvider{client: client, credentials: credentials}
}

func (p *legacyPrimaryProvider) Name() string { return ProviderLegacyPrimary }

func (p *legacyPrimaryProvider) Submit(ctx context.Context, asset symbols.NormalizedAsset, req model.QuickOrderRequest) (*ProviderResult, error) {
	if email, password, ok := p.credentials.Get(); ok {
		p.client.UpdateCredentials(email, password)
	}
	if err := p.client.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}
	if err := p.client.SwitchAccount(ctx, req.AccountType); err != nil {
		return nil, err
	}

	orderID, err := p.client.Buy(ctx, legacyOrder(asset, req))
	if err != nil {
		return nil, err
	}

	policy := symbols.PolicyFor(asset)
	return &ProviderResult{
		OrderID:       orderID,
		DurationValue: req.Expiration,
		DurationUnit:  policy.ExpirationUnit,
	}, nil
}

// ---- Legacy fallback (unofficial token stack) ----

type legacyFallbackProvider struct {
	client      *connectors.IQFallbackClient
	credentials *connectors.CredentialStore
}

// NewLegacyFallbackProvider wraps the unofficial-API legacy client.
func NewLegacyFallbackProvider(client *connectors.IQFallbackClient, credentials *connectors.CredentialStore) OrderProvider {
	return &legacyFallbackProvider{client: client, credentials: credentials}
}

func (p *legacyFallbackProvider) Name() string { return ProviderLegacyFallback }

func (p *legacyFallbackProvider) Submit(ctx context.Context, asset symbols.NormalizedAsset, req model.QuickOrderRequest) (*ProviderResult, error) {
	email, password, ok := p.credentials.Get()
	if !ok {
		return nil, fmt.Errorf("%w: legacy credentials not set", connectors.ErrUnauthorized)
	}
	if err := p.client.Login(ctx, email, password); err != nil {
		return nil, err
	}

	orderID, err := p.client.Buy(ctx, legacyOrder(asset, req), req.AccountType)
	if err != nil {
		return nil, err
	}

	policy := symbols.PolicyFor(asset)
	return &ProviderResult{
		OrderID:       orderID,
		DurationValue: req.Expiration,
		DurationUnit:  policy.ExpirationUnit,
	}, nil
}

func legacyOrder(asset symbols.NormalizedAsset, req model.QuickOrderRequest) connectors.IQOrderRequest {
	return connectors.IQOrderRequest{
		Asset:      asset.LegacyCode(),
		Direction:  strings.ToLower(req.Direction),
		Amount:     req.Amount,
		Expiration: req.Expiration,
		OptionType: req.OptionType,
		// Idempotency key so a dedup-capable backend can drop duplicates
		// when the whole login->switch->buy sequence is retried.
		RequestID: uuid.NewString(),
	}
}
