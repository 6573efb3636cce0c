package signalscan

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
)

type stubCandles struct {
	rows []model.OHLCVCrypto1m
	err  error
}

func (s *stubCandles) FetchRecentOHLCVAgg(_ context.Context, _ string, _ time.Time, _ time.Duration, _ int) ([]model.OHLCVCrypto1m, error) {
	return s.rows, s.err
}

type stubSink struct {
	created []*model.TradingSignal
}

func (s *stubSink) Create(_ context.Context, signal *model.TradingSignal) error {
	s.created = append(s.created, signal)
	return nil
}

func flatThenMove(symbol string, n int, base, lastClose float64) []model.OHLCVCrypto1m {
	rows := make([]model.OHLCVCrypto1m, 0, n)
	start := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		closePx := decimal.NewFromFloat(base)
		if i == n-1 {
			closePx = decimal.NewFromFloat(lastClose)
		}
		rows = append(rows, model.OHLCVCrypto1m{
			Symbol:   symbol,
			Datetime: start.Add(time.Duration(i) * 5 * time.Minute),
			Open:     decimal.NewFromFloat(base),
			High:     closePx,
			Low:      decimal.NewFromFloat(base),
			Close:    closePx,
			Volume:   decimal.NewFromInt(10),
		})
	}
	return rows
}

func newTestScanner(candles candleSource, sink signalSink) *Scanner {
	return &Scanner{
		Log:     logger.WithField("cmd", "signal_scan_test"),
		Config:  &Config{Interval: 5 * time.Minute, Lookback: 20, MinScore: 0.15, SignalExpiry: 5},
		candles: candles,
		signals: sink,
		now:     func() time.Time { return time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC) },
	}
}

func TestScanSymbol_BuySignalOnUpMove(t *testing.T) {
	sink := &stubSink{}
	s := newTestScanner(&stubCandles{rows: flatThenMove("BTC_USDT", 21, 100, 102)}, sink)

	if err := s.scanSymbol(context.Background(), "BTC_USDT"); err != nil {
		t.Fatalf("scanSymbol returned error: %v", err)
	}
	if len(sink.created) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sink.created))
	}

	got := sink.created[0]
	if got.SignalType != "buy" {
		t.Fatalf("expected buy signal, got %q", got.SignalType)
	}
	if got.Symbol != "BTCUSDT" {
		t.Fatalf("pair notation must be rewritten, got %q", got.Symbol)
	}
	if got.Score < 0.15 {
		t.Fatalf("score below threshold should not have been stored: %f", got.Score)
	}
	if got.Price == nil || *got.Price != 102 {
		t.Fatalf("unexpected price: %v", got.Price)
	}
}

func TestScanSymbol_SellSignalOnDownMove(t *testing.T) {
	sink := &stubSink{}
	s := newTestScanner(&stubCandles{rows: flatThenMove("ETH_USDT", 21, 100, 98)}, sink)

	if err := s.scanSymbol(context.Background(), "ETH_USDT"); err != nil {
		t.Fatalf("scanSymbol returned error: %v", err)
	}
	if len(sink.created) != 1 || sink.created[0].SignalType != "sell" {
		t.Fatalf("expected one sell signal, got %+v", sink.created)
	}
}

func TestScanSymbol_FlatMarketProducesNothing(t *testing.T) {
	sink := &stubSink{}
	s := newTestScanner(&stubCandles{rows: flatThenMove("BTC_USDT", 21, 100, 100)}, sink)

	if err := s.scanSymbol(context.Background(), "BTC_USDT"); err != nil {
		t.Fatalf("scanSymbol returned error: %v", err)
	}
	if len(sink.created) != 0 {
		t.Fatalf("flat market must not produce signals, got %d", len(sink.created))
	}
}

func TestScanSymbol_TooFewCandles(t *testing.T) {
	sink := &stubSink{}
	s := newTestScanner(&stubCandles{rows: flatThenMove("BTC_USDT", 5, 100, 110)}, sink)

	if err := s.scanSymbol(context.Background(), "BTC_USDT"); err != nil {
		t.Fatalf("scanSymbol returned error: %v", err)
	}
	if len(sink.created) != 0 {
		t.Fatalf("short history must not produce signals, got %d", len(sink.created))
	}
}
