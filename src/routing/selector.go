package routing

import (
	"signalrouter/src/connectors"
)

// ConfigError means the selected provider is not configured. It fails the
// request fast with 503 before any network traffic.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Choice is the routing decision for one order: an ordered provider chain
// plus how many times the whole submit sequence may run. The chain is
// sequential fallback, not redundancy: a later entry is only tried after a
// connection-level failure of the one before it.
type Choice struct {
	Providers []OrderProvider
	Attempts  int
}

// Selector decides which backend handles an order, purely from feature
// flags and in-process credential state. It never touches the network.
type Selector struct {
	config      connectors.Config
	credentials *connectors.CredentialStore

	bridge         OrderProvider
	deriv          OrderProvider
	legacyPrimary  OrderProvider
	legacyFallback OrderProvider
}

// NewSelector builds the production selector. bridge may be nil when no
// bridge endpoint is configured.
func NewSelector(
	config connectors.Config,
	credentials *connectors.CredentialStore,
	bridge OrderProvider,
	deriv OrderProvider,
	legacyPrimary OrderProvider,
	legacyFallback OrderProvider,
) *Selector {
	return &Selector{
		config:         config,
		credentials:    credentials,
		bridge:         bridge,
		deriv:          deriv,
		legacyPrimary:  legacyPrimary,
		legacyFallback: legacyFallback,
	}
}

// Select resolves the provider chain for the current configuration.
//
// Precedence: bridge-only mode first, then the new broker (on by default),
// then the legacy stack. Each mode fails fast when its configuration or
// credentials are missing rather than silently falling through to another
// mode.
func (s *Selector) Select() (*Choice, error) {
	if s.config.BridgeOnly {
		if s.bridge == nil {
			return nil, &ConfigError{Message: "Bridge não configurado"}
		}
		return &Choice{Providers: []OrderProvider{s.bridge}, Attempts: 1}, nil
	}

	if s.config.UseDeriv {
		if s.config.DerivAppID <= 0 || s.config.DerivAPIToken == "" {
			return nil, &ConfigError{Message: "Deriv não configurado (defina DERIV_APP_ID e DERIV_API_TOKEN)"}
		}
		return &Choice{Providers: []OrderProvider{s.deriv}, Attempts: 1}, nil
	}

	if !s.credentials.Present() {
		return nil, &ConfigError{Message: "Credenciais ausentes no backend"}
	}
	return &Choice{
		Providers: []OrderProvider{s.legacyPrimary, s.legacyFallback},
		Attempts:  2,
	}, nil
}
