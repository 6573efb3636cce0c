package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"signalrouter/src/model"
)

type memoryQuoteStore struct {
	quotes map[string]*model.MarketData
}

func (m *memoryQuoteStore) Upsert(_ context.Context, quote *model.MarketData) error {
	if m.quotes == nil {
		m.quotes = make(map[string]*model.MarketData)
	}
	m.quotes[quote.Symbol] = quote
	return nil
}

type memoryBroadcaster struct {
	events []map[string]interface{}
	types  []string
}

func (m *memoryBroadcaster) Broadcast(eventType string, data interface{}) {
	m.types = append(m.types, eventType)
	if payload, ok := data.(map[string]interface{}); ok {
		m.events = append(m.events, payload)
	}
}

func nyTime(t *testing.T, weekday time.Weekday, hour int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	// 2025-03-03 is a Monday.
	base := time.Date(2025, time.March, 3, hour, 0, 0, 0, loc)
	return base.AddDate(0, 0, int(weekday-time.Monday))
}

func TestDetectSession(t *testing.T) {
	cases := []struct {
		weekday time.Weekday
		hour    int
		want    Session
	}{
		{time.Monday, 18, SessionDeadZone},
		{time.Monday, 21, SessionAsia},
		{time.Tuesday, 1, SessionAsia},
		{time.Tuesday, 5, SessionLondon},
		{time.Wednesday, 12, SessionUS},
		{time.Saturday, 12, SessionWeekend},
		{time.Sunday, 5, SessionWeekend},
	}

	for _, tc := range cases {
		got := DetectSession(nyTime(t, tc.weekday, tc.hour))
		if got != tc.want {
			t.Fatalf("%s %02d:00 NY: expected %s, got %s", tc.weekday, tc.hour, tc.want, got)
		}
	}
}

func TestSessionMultipliers(t *testing.T) {
	vol := DefaultSessionVolatility()
	if !vol.Multiplier(SessionUS).GreaterThan(vol.Multiplier(SessionAsia)) {
		t.Fatal("US session should move more than Asia")
	}
	if !vol.Multiplier(SessionWeekend).LessThan(vol.Multiplier(SessionLondon)) {
		t.Fatal("weekend should move less than London")
	}
}

func TestTickCoversCatalogAndStaysPositive(t *testing.T) {
	store := &memoryQuoteStore{}
	hub := &memoryBroadcaster{}
	sim := NewSimulator(Config{SimulatorOn: true, TickInterval: time.Second, VolatilityBase: 0.002}, store, hub)
	sim.now = func() time.Time { return nyTime(t, time.Wednesday, 12) }

	for i := 0; i < 50; i++ {
		sim.Tick(context.Background())
	}

	if len(store.quotes) != len(catalog()) {
		t.Fatalf("expected %d instruments, got %d", len(catalog()), len(store.quotes))
	}
	for symbol, quote := range store.quotes {
		if quote.Price.LessThanOrEqual(decimal.Zero) {
			t.Fatalf("%s: price must stay positive, got %s", symbol, quote.Price)
		}
		if quote.High24h.LessThan(quote.Low24h) {
			t.Fatalf("%s: high %s below low %s", symbol, quote.High24h, quote.Low24h)
		}
		if !quote.TradingActive {
			t.Fatalf("%s: expected trading_active", symbol)
		}
	}
}

func TestTickBroadcastsVendorSymbols(t *testing.T) {
	hub := &memoryBroadcaster{}
	sim := NewSimulator(Config{SimulatorOn: true, TickInterval: time.Second, VolatilityBase: 0.002}, nil, hub)
	sim.now = func() time.Time { return nyTime(t, time.Wednesday, 12) }

	sim.Tick(context.Background())

	if len(hub.events) != len(catalog()) {
		t.Fatalf("expected %d events, got %d", len(catalog()), len(hub.events))
	}
	for _, eventType := range hub.types {
		if eventType != "market_update" {
			t.Fatalf("unexpected event type %q", eventType)
		}
	}

	seen := make(map[string]bool)
	for _, event := range hub.events {
		symbol, _ := event["symbol"].(string)
		seen[symbol] = true
	}
	for _, want := range []string{"frxEURUSD", "cryBTCUSD", "R_10", "BOOM_500"} {
		if !seen[want] {
			t.Fatalf("expected a market_update for %s, saw %v", want, seen)
		}
	}
}

func TestInstrumentsCatalog(t *testing.T) {
	rows := Instruments()
	if len(rows) != len(catalog()) {
		t.Fatalf("expected %d rows, got %d", len(catalog()), len(rows))
	}
	for _, row := range rows {
		if row.Symbol == "" || row.DisplayName == "" || row.AssetClass == "" {
			t.Fatalf("incomplete catalog row: %+v", row)
		}
		if !row.Active {
			t.Fatalf("catalog rows start active: %+v", row)
		}
	}
}
