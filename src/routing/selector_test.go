package routing

import (
	"context"
	"testing"

	"signalrouter/src/connectors"
	"signalrouter/src/model"
	"signalrouter/src/symbols"
)

type stubProvider struct {
	name    string
	calls   int
	result  *ProviderResult
	err     error
	perCall []error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Submit(_ context.Context, _ symbols.NormalizedAsset, _ model.QuickOrderRequest) (*ProviderResult, error) {
	s.calls++
	if len(s.perCall) > 0 {
		err := s.perCall[0]
		s.perCall = s.perCall[1:]
		if err != nil {
			return nil, err
		}
		return s.result, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func emptyCredentialStore() *connectors.CredentialStore {
	return connectors.NewCredentialStore(nil)
}

func TestSelectBridgeOnlyWithoutBridge(t *testing.T) {
	selector := NewSelector(connectors.Config{BridgeOnly: true}, emptyCredentialStore(), nil, nil, nil, nil)

	_, err := selector.Select()
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	configErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if configErr.Message != "Bridge não configurado" {
		t.Fatalf("unexpected message: %q", configErr.Message)
	}
}

func TestSelectBridgeOnlyIgnoresDeriv(t *testing.T) {
	bridge := &stubProvider{name: ProviderBridge}
	deriv := &stubProvider{name: ProviderDeriv}
	config := connectors.Config{BridgeOnly: true, UseDeriv: true, DerivAppID: 1089, DerivAPIToken: "tok"}

	selector := NewSelector(config, emptyCredentialStore(), bridge, deriv, nil, nil)

	choice, err := selector.Select()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(choice.Providers) != 1 || choice.Providers[0].Name() != ProviderBridge {
		t.Fatalf("expected bridge-only chain, got %+v", choice.Providers)
	}
	if choice.Attempts != 1 {
		t.Fatalf("bridge chain should not retry, got %d attempts", choice.Attempts)
	}
}

func TestSelectDerivMissingConfig(t *testing.T) {
	selector := NewSelector(connectors.Config{UseDeriv: true}, emptyCredentialStore(), nil, &stubProvider{name: ProviderDeriv}, nil, nil)

	_, err := selector.Select()
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if err.Error() != "Deriv não configurado (defina DERIV_APP_ID e DERIV_API_TOKEN)" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestSelectDerivConfigured(t *testing.T) {
	deriv := &stubProvider{name: ProviderDeriv}
	config := connectors.Config{UseDeriv: true, DerivAppID: 1089, DerivAPIToken: "tok"}

	choice, err := NewSelector(config, emptyCredentialStore(), nil, deriv, nil, nil).Select()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if choice.Providers[0].Name() != ProviderDeriv {
		t.Fatalf("expected deriv, got %s", choice.Providers[0].Name())
	}
}

func TestSelectLegacyWithoutCredentials(t *testing.T) {
	primary := &stubProvider{name: ProviderLegacyPrimary}
	fallback := &stubProvider{name: ProviderLegacyFallback}

	_, err := NewSelector(connectors.Config{}, emptyCredentialStore(), nil, nil, primary, fallback).Select()
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if err.Error() != "Credenciais ausentes no backend" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestSelectLegacyChain(t *testing.T) {
	store := emptyCredentialStore()
	if err := store.Set(context.Background(), "user@example.com", "secret"); err != nil {
		t.Fatalf("seeding credentials: %v", err)
	}
	primary := &stubProvider{name: ProviderLegacyPrimary}
	fallback := &stubProvider{name: ProviderLegacyFallback}

	choice, err := NewSelector(connectors.Config{}, store, nil, nil, primary, fallback).Select()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(choice.Providers) != 2 {
		t.Fatalf("expected two-provider chain, got %d", len(choice.Providers))
	}
	if choice.Attempts != 2 {
		t.Fatalf("legacy chain should allow one retry, got %d attempts", choice.Attempts)
	}
	if choice.Providers[0].Name() != ProviderLegacyPrimary || choice.Providers[1].Name() != ProviderLegacyFallback {
		t.Fatalf("unexpected chain order: %s, %s", choice.Providers[0].Name(), choice.Providers[1].Name())
	}
}
