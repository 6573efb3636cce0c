package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"signalrouter/src/connectors"
	"signalrouter/src/model"
	"signalrouter/src/routing"
)

type mockExecutor struct {
	outcome     model.OrderOutcome
	calledCount int
	lastRequest model.QuickOrderRequest
}

func (m *mockExecutor) Execute(_ context.Context, req model.QuickOrderRequest) model.OrderOutcome {
	m.calledCount++
	m.lastRequest = req
	return m.outcome
}

func postQuickOrder(t *testing.T, h http.HandlerFunc, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/trading/quick-order", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestQuickOrderHandler_InvalidBody(t *testing.T) {
	executor := &mockExecutor{}
	handler := QuickOrderHandler(executor)

	req := httptest.NewRequest(http.MethodPost, "/api/trading/quick-order", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if executor.calledCount != 0 {
		t.Fatalf("executor must not run on a malformed body, got %d calls", executor.calledCount)
	}
}

func TestQuickOrderHandler_Success(t *testing.T) {
	executor := &mockExecutor{outcome: model.OrderOutcome{
		Status:     model.OutcomeSuccess,
		HTTPStatus: http.StatusOK,
		Message:    "Ordem enviada via deriv",
		OrderID:    "c-1",
		Provider:   "deriv",
	}}
	handler := QuickOrderHandler(executor)

	rr := postQuickOrder(t, handler, model.QuickOrderRequest{
		Asset: "EURUSD", Direction: "call", Amount: 10, Expiration: 5,
		AccountType: "demo", OptionType: "binary",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp model.QuickOrderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.OrderID != "c-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if executor.lastRequest.Asset != "EURUSD" {
		t.Fatalf("request not forwarded: %+v", executor.lastRequest)
	}
}

// Full-stack scenario: a PUT on a barrier index must come back 400 with the
// policy message and no provider traffic. The routing layer is real; only
// providers are stubbed, and they stay untouched.
func TestQuickOrderHandler_BarrierPutRejectedEndToEnd(t *testing.T) {
	config := connectors.Config{UseDeriv: true, DerivAppID: 1089, DerivAPIToken: "tok"}
	selector := routing.NewSelector(config, connectors.NewCredentialStore(nil), nil, nil, nil, nil)
	handler := QuickOrderHandler(routing.NewExecutor(selector, nil))

	rr := postQuickOrder(t, handler, model.QuickOrderRequest{
		Asset: "BOOM_500", Direction: "put", Amount: 10, Expiration: 5,
		AccountType: "demo", OptionType: "binary",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d (%s)", rr.Code, rr.Body.String())
	}

	var errBody map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errBody["detail"] != "Este mercado aceita apenas compra (CALL)." {
		t.Fatalf("unexpected detail: %q", errBody["detail"])
	}
}

// Full-stack scenario: legacy mode without stored credentials fails fast
// with 503 and the exact configuration message.
func TestQuickOrderHandler_MissingCredentialsEndToEnd(t *testing.T) {
	config := connectors.Config{UseDeriv: false}
	selector := routing.NewSelector(config, connectors.NewCredentialStore(nil), nil, nil, nil, nil)
	handler := QuickOrderHandler(routing.NewExecutor(selector, nil))

	rr := postQuickOrder(t, handler, model.QuickOrderRequest{
		Asset: "EURUSD", Direction: "call", Amount: 10, Expiration: 5,
		AccountType: "demo", OptionType: "binary",
	})

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d (%s)", rr.Code, rr.Body.String())
	}

	var errBody map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errBody["detail"] != "Credenciais ausentes no backend" {
		t.Fatalf("unexpected detail: %q", errBody["detail"])
	}
}

func TestQuickOrderHandler_DerivNotConfiguredEndToEnd(t *testing.T) {
	config := connectors.Config{UseDeriv: true}
	selector := routing.NewSelector(config, connectors.NewCredentialStore(nil), nil, nil, nil, nil)
	handler := QuickOrderHandler(routing.NewExecutor(selector, nil))

	rr := postQuickOrder(t, handler, model.QuickOrderRequest{
		Asset: "EURUSD", Direction: "call", Amount: 10, Expiration: 5,
		AccountType: "demo", OptionType: "binary",
	})

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Deriv não configurado (defina DERIV_APP_ID e DERIV_API_TOKEN)") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}
