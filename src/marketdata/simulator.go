package marketdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
	"signalrouter/src/symbols"
)

// seedInstrument is one catalog entry with its simulation parameters.
type seedInstrument struct {
	symbol      string
	displayName string
	class       symbols.AssetClass
	basePrice   decimal.Decimal
	// volScale stretches the base volatility; synthetics are noisier than
	// majors by construction.
	volScale decimal.Decimal
}

func catalog() []seedInstrument {
	return []seedInstrument{
		{"EURUSD", "EUR/USD", symbols.AssetClassForex, decimal.NewFromFloat(1.0850), decimal.NewFromInt(1)},
		{"GBPUSD", "GBP/USD", symbols.AssetClassForex, decimal.NewFromFloat(1.2650), decimal.NewFromInt(1)},
		{"USDJPY", "USD/JPY", symbols.AssetClassForex, decimal.NewFromFloat(149.50), decimal.NewFromInt(1)},
		{"AUDUSD", "AUD/USD", symbols.AssetClassForex, decimal.NewFromFloat(0.6550), decimal.NewFromInt(1)},
		{"BTCUSDT", "BTC/USD", symbols.AssetClassCrypto, decimal.NewFromInt(67500), decimal.NewFromInt(4)},
		{"ETHUSDT", "ETH/USD", symbols.AssetClassCrypto, decimal.NewFromInt(3250), decimal.NewFromInt(4)},
		{"R_10", "Volatility 10 Index", symbols.AssetClassSyntheticIndex, decimal.NewFromInt(6300), decimal.NewFromInt(2)},
		{"R_100", "Volatility 100 Index", symbols.AssetClassSyntheticIndex, decimal.NewFromInt(1650), decimal.NewFromInt(8)},
		{"BOOM_500", "Boom 500 Index", symbols.AssetClassSyntheticBarrier, decimal.NewFromInt(8900), decimal.NewFromInt(3)},
		{"CRASH_500", "Crash 500 Index", symbols.AssetClassSyntheticBarrier, decimal.NewFromInt(5600), decimal.NewFromInt(3)},
	}
}

type quoteStore interface {
	Upsert(ctx context.Context, quote *model.MarketData) error
}

type broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// Simulator produces a random walk for the fixed instrument catalog,
// persists each tick and pushes it to connected dashboards. Forex ticks
// scale with the current trading session; crypto and synthetics run flat
// around the clock.
type Simulator struct {
	config     Config
	store      quoteStore
	hub        broadcaster
	volatility SessionVolatility
	rng        *rand.Rand
	now        func() time.Time

	state map[string]*instrumentState
}

type instrumentState struct {
	seed     seedInstrument
	price    decimal.Decimal
	dayOpen  decimal.Decimal
	high     decimal.Decimal
	low      decimal.Decimal
	volume   decimal.Decimal
	openedAt time.Time
}

// NewSimulator builds a simulator over the fixed catalog. hub may be nil
// when no stream is attached (CLI contexts).
func NewSimulator(config Config, store quoteStore, hub broadcaster) *Simulator {
	s := &Simulator{
		config:     config,
		store:      store,
		hub:        hub,
		volatility: DefaultSessionVolatility(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		state:      make(map[string]*instrumentState),
	}
	for _, seed := range catalog() {
		s.state[seed.symbol] = &instrumentState{
			seed:     seed,
			price:    seed.basePrice,
			dayOpen:  seed.basePrice,
			high:     seed.basePrice,
			low:      seed.basePrice,
			openedAt: s.now(),
		}
	}
	return s
}

// Instruments returns the catalog rows for seeding the instruments table.
func Instruments() []model.Instrument {
	rows := make([]model.Instrument, 0, len(catalog()))
	for _, seed := range catalog() {
		rows = append(rows, model.Instrument{
			Symbol:      seed.symbol,
			DisplayName: seed.displayName,
			AssetClass:  string(seed.class),
			Active:      true,
		})
	}
	return rows
}

// Run ticks until the context is cancelled. It is meant to live in its own
// goroutine next to the HTTP server.
func (s *Simulator) Run(ctx context.Context) {
	if !s.config.SimulatorOn {
		logger.Info("simulator - disabled, market data will stay static")
		return
	}

	logger.WithField("interval", s.config.TickInterval.String()).Info("simulator - started")
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("simulator - stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick advances every instrument one step and publishes the results.
func (s *Simulator) Tick(ctx context.Context) {
	now := s.now()
	session := DetectSession(now)
	sessionMult := s.volatility.Multiplier(session)

	for _, st := range s.state {
		quote := s.step(st, now, sessionMult)

		if s.store != nil {
			if err := s.store.Upsert(ctx, quote); err != nil {
				logger.WithError(err).WithField("symbol", quote.Symbol).Error("simulator - failed to persist quote")
			}
		}
		if s.hub != nil {
			s.hub.Broadcast("market_update", publicQuote(quote, now))
		}
	}
}

func (s *Simulator) step(st *instrumentState, now time.Time, sessionMult decimal.Decimal) *model.MarketData {
	// Roll the 24h window once a day.
	if now.Sub(st.openedAt) >= 24*time.Hour {
		st.dayOpen = st.price
		st.high = st.price
		st.low = st.price
		st.volume = decimal.Zero
		st.openedAt = now
	}

	vol := decimal.NewFromFloat(s.config.VolatilityBase).Mul(st.seed.volScale)
	if st.seed.class == symbols.AssetClassForex {
		vol = vol.Mul(sessionMult)
	}

	// Random walk step in [-vol, +vol] of the current price.
	shift := decimal.NewFromFloat(s.rng.Float64()*2 - 1).Mul(vol)
	st.price = st.price.Add(st.price.Mul(shift))
	if st.price.LessThanOrEqual(decimal.Zero) {
		st.price = st.seed.basePrice
	}

	if st.price.GreaterThan(st.high) {
		st.high = st.price
	}
	if st.price.LessThan(st.low) || st.low.IsZero() {
		st.low = st.price
	}
	st.volume = st.volume.Add(decimal.NewFromFloat(s.rng.Float64() * 1000))

	change := decimal.Zero
	if !st.dayOpen.IsZero() {
		change = st.price.Sub(st.dayOpen).Div(st.dayOpen).Mul(decimal.NewFromInt(100))
	}

	return &model.MarketData{
		Symbol:        st.seed.symbol,
		Price:         st.price.Round(5),
		Change24h:     change.Round(3),
		High24h:       st.high.Round(5),
		Low24h:        st.low.Round(5),
		Volume:        st.volume.Round(2),
		TradingActive: tradingActive(st.seed.class, now),
		UpdatedAt:     now,
	}
}

// tradingActive mirrors the order-side rules: crypto and synthetics trade
// around the clock, weekday forex trades on weekdays and falls back to the
// OTC variant on weekends (still active, just a different instrument).
func tradingActive(class symbols.AssetClass, _ time.Time) bool {
	switch class {
	case symbols.AssetClassForex, symbols.AssetClassCrypto,
		symbols.AssetClassSyntheticIndex, symbols.AssetClassSyntheticBarrier:
		return true
	}
	return false
}

// publicQuote rewrites the stored symbol to its vendor code for the wire.
func publicQuote(quote *model.MarketData, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"symbol":         symbols.Canonical(quote.Symbol, now),
		"price":          quote.Price,
		"change_24h":     quote.Change24h,
		"high_24h":       quote.High24h,
		"low_24h":        quote.Low24h,
		"volume":         quote.Volume,
		"trading_active": quote.TradingActive,
		"timestamp":      quote.UpdatedAt,
	}
}
