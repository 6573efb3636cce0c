package signalscan

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/marketdata"
	"signalrouter/src/model"
	"signalrouter/src/repository"
)

// Scanner runs a periodic momentum scan over the stored crypto candles
// and records buy/sell opportunities as trading signals.
type Scanner struct {
	Log    *logger.Entry
	Config *Config

	candles candleSource
	signals signalSink
	now     func() time.Time
}

type candleSource interface {
	FetchRecentOHLCVAgg(ctx context.Context, symbol string, to time.Time, interval time.Duration, limitAgg int) ([]model.OHLCVCrypto1m, error)
}

type signalSink interface {
	Create(ctx context.Context, signal *model.TradingSignal) error
}

func (s *Scanner) Start() error {
	s.Config = GetConfig()
	s.candles = repository.NewOHLCVRepository()
	s.signals = repository.NewTradingSignalRepository()
	s.now = time.Now

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	return s.loop(ctx)
}

func (s *Scanner) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.Config.LoopPeriod)
	defer ticker.Stop()

	symbols := strings.Split(s.Config.Symbols, ",")

	for {
		select {
		case <-ctx.Done():
			s.Log.Info("scan loop stopped")
			return nil

		case <-ticker.C:
			s.Log.Info("scan loop tick")

			session := marketdata.DetectSession(s.now())
			if session == marketdata.SessionDeadZone {
				s.Log.WithField("session", session).Warn("dead zone session, skipping scan")
				continue
			}

			for _, symbol := range symbols {
				symbol = strings.TrimSpace(symbol)
				if symbol == "" {
					continue
				}
				if err := s.scanSymbol(ctx, symbol); err != nil {
					s.Log.
						WithField("symbol", symbol).
						WithError(err).
						Error("Failed to scan symbol")
				}
			}
		}
	}
}

// scanSymbol scores the latest aggregated candle against the lookback SMA
// and stores a signal when the move is strong enough.
func (s *Scanner) scanSymbol(ctx context.Context, symbol string) error {
	now := s.now()

	candles, err := s.candles.FetchRecentOHLCVAgg(ctx, symbol, now, s.Config.Interval, s.Config.Lookback+1)
	if err != nil {
		return err
	}
	if len(candles) < s.Config.Lookback {
		s.Log.WithFields(logger.Fields{
			"symbol":  symbol,
			"candles": len(candles),
		}).Warn("not enough candles, skipping")
		return nil
	}

	last := candles[len(candles)-1]
	momentum := momentumPercent(candles)

	score, _ := momentum.Abs().Round(4).Float64()
	if score < s.Config.MinScore {
		s.Log.WithFields(logger.Fields{
			"symbol": symbol,
			"score":  score,
		}).Debug("momentum below threshold, no signal")
		return nil
	}

	signalType := "buy"
	if momentum.IsNegative() {
		signalType = "sell"
	}

	price, _ := last.Close.Float64()
	expiresAt := now.Add(time.Duration(s.Config.SignalExpiry) * 2 * time.Minute)

	entry := &model.TradingSignal{
		ID:         uuid.NewString(),
		Symbol:     dashboardSymbol(symbol),
		SignalType: signalType,
		Score:      score,
		Price:      &price,
		Expiration: s.Config.SignalExpiry,
		Comment:    "momentum scan, " + s.Config.Interval.String() + " candles",
		CreatedAt:  now,
		ExpiresAt:  &expiresAt,
	}

	if err := s.signals.Create(ctx, entry); err != nil {
		return err
	}

	s.Log.WithFields(logger.Fields{
		"symbol":      entry.Symbol,
		"signal_type": entry.SignalType,
		"score":       entry.Score,
	}).Info("trading signal recorded")

	return nil
}

// momentumPercent is the percentage distance of the latest close from the
// simple moving average of all closes in the window.
func momentumPercent(candles []model.OHLCVCrypto1m) decimal.Decimal {
	sum := decimal.Zero
	for i := range candles {
		sum = sum.Add(candles[i].Close)
	}
	sma := sum.Div(decimal.NewFromInt(int64(len(candles))))
	if sma.IsZero() {
		return decimal.Zero
	}

	last := candles[len(candles)-1].Close
	return last.Sub(sma).Div(sma).Mul(decimal.NewFromInt(100))
}

// dashboardSymbol turns the exchange pair notation into the internal
// dashboard symbol, BTC_USDT becomes BTCUSDT.
func dashboardSymbol(pair string) string {
	return strings.ReplaceAll(pair, "_", "")
}
