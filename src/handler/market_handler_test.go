package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"signalrouter/src/model"
)

type mockQuoteRepo struct {
	quotes []model.MarketData
	err    error
}

func (m *mockQuoteRepo) FindAll(_ context.Context) ([]model.MarketData, error) {
	return m.quotes, m.err
}

func (m *mockQuoteRepo) FindBySymbol(_ context.Context, symbol string) (*model.MarketData, error) {
	for i := range m.quotes {
		if m.quotes[i].Symbol == symbol {
			return &m.quotes[i], nil
		}
	}
	return nil, m.err
}

func TestMarketDataHandler_RewritesSymbols(t *testing.T) {
	repo := &mockQuoteRepo{quotes: []model.MarketData{
		{Symbol: "BTCUSDT", Price: decimal.NewFromInt(67500), TradingActive: true, UpdatedAt: time.Now()},
		{Symbol: "R_100", Price: decimal.NewFromInt(1650), TradingActive: true, UpdatedAt: time.Now()},
	}}
	handler := MarketDataHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/market-data", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var quotes []publicMarketData
	if err := json.Unmarshal(rr.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "cryBTCUSD" {
		t.Fatalf("crypto symbol not rewritten: %q", quotes[0].Symbol)
	}
	if quotes[1].Symbol != "R_100" {
		t.Fatalf("synthetic symbol must pass through: %q", quotes[1].Symbol)
	}
}

func TestMarketDataBySymbolHandler_NotFound(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/market-data/{symbol}", MarketDataBySymbolHandler(&mockQuoteRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/api/market-data/UNKNOWN", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

type mockInstrumentRepo struct {
	rows []model.Instrument
	err  error
}

func (m *mockInstrumentRepo) FindActive(_ context.Context) ([]model.Instrument, error) {
	return m.rows, m.err
}

func TestInstrumentsHandler(t *testing.T) {
	repo := &mockInstrumentRepo{rows: []model.Instrument{
		{Symbol: "EURUSD", DisplayName: "EUR/USD", AssetClass: "forex", Active: true},
		{Symbol: "BOOM_500", DisplayName: "Boom 500 Index", AssetClass: "synthetic_barrier", Active: true},
	}}
	handler := InstrumentsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/symbols", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var rows []struct {
		Symbol     string `json:"symbol"`
		AssetClass string `json:"asset_class"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(rows) != 2 || rows[1].Symbol != "BOOM_500" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Symbol != "frxEURUSD" && rows[0].Symbol != "frxEURUSD-OTC" {
		t.Fatalf("forex symbol not rewritten: %q", rows[0].Symbol)
	}
}
