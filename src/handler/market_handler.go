package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
	"signalrouter/src/repository"
	"signalrouter/src/symbols"
)

type quoteLister interface {
	FindAll(ctx context.Context) ([]model.MarketData, error)
	FindBySymbol(ctx context.Context, symbol string) (*model.MarketData, error)
}

type instrumentLister interface {
	FindActive(ctx context.Context) ([]model.Instrument, error)
}

// publicMarketData is the wire shape of one quote: the stored symbol is
// rewritten to its vendor code at this boundary.
type publicMarketData struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change24h     decimal.Decimal `json:"change_24h"`
	High24h       decimal.Decimal `json:"high_24h"`
	Low24h        decimal.Decimal `json:"low_24h"`
	Volume        decimal.Decimal `json:"volume"`
	TradingActive bool            `json:"trading_active"`
	Timestamp     time.Time       `json:"timestamp"`
}

func toPublicQuote(quote model.MarketData, now time.Time) publicMarketData {
	return publicMarketData{
		Symbol:        symbols.Canonical(quote.Symbol, now),
		Price:         quote.Price,
		Change24h:     quote.Change24h,
		High24h:       quote.High24h,
		Low24h:        quote.Low24h,
		Volume:        quote.Volume,
		TradingActive: quote.TradingActive,
		Timestamp:     quote.UpdatedAt,
	}
}

// MarketDataHandler returns the handler for GET /api/market-data.
func MarketDataHandler(repo quoteLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quotes, err := repo.FindAll(r.Context())
		if err != nil {
			logger.WithError(err).Error("market - failed to list quotes")
			writeDetail(w, http.StatusInternalServerError, "falha ao consultar cotações")
			return
		}

		now := time.Now()
		out := make([]publicMarketData, 0, len(quotes))
		for _, quote := range quotes {
			out = append(out, toPublicQuote(quote, now))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// MarketDataBySymbolHandler returns the handler for GET /api/market-data/{symbol}.
// The path parameter accepts any user-facing spelling; lookup happens on
// the stored form and the response carries the vendor code.
func MarketDataBySymbolHandler(repo quoteLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requested := chi.URLParam(r, "symbol")

		quote, err := repo.FindBySymbol(r.Context(), requested)
		if err != nil {
			logger.WithError(err).WithField("symbol", requested).Error("market - failed to fetch quote")
			writeDetail(w, http.StatusInternalServerError, "falha ao consultar cotação")
			return
		}
		if quote == nil {
			writeDetail(w, http.StatusNotFound, "símbolo não encontrado")
			return
		}

		writeJSON(w, http.StatusOK, toPublicQuote(*quote, time.Now()))
	}
}

// InstrumentsHandler returns the handler for GET /api/symbols: the fixed
// instrument catalog with vendor symbols.
func InstrumentsHandler(repo instrumentLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.FindActive(r.Context())
		if err != nil {
			logger.WithError(err).Error("market - failed to list instruments")
			writeDetail(w, http.StatusInternalServerError, "falha ao consultar instrumentos")
			return
		}

		now := time.Now()
		type publicInstrument struct {
			Symbol      string `json:"symbol"`
			DisplayName string `json:"display_name"`
			AssetClass  string `json:"asset_class"`
			Active      bool   `json:"active"`
		}

		out := make([]publicInstrument, 0, len(rows))
		for _, row := range rows {
			out = append(out, publicInstrument{
				Symbol:      symbols.Canonical(row.Symbol, now),
				DisplayName: row.DisplayName,
				AssetClass:  row.AssetClass,
				Active:      row.Active,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DefaultMarketDataHandler wires the handler to the production repository implementation.
func DefaultMarketDataHandler() http.HandlerFunc {
	return MarketDataHandler(repository.NewMarketDataRepository())
}

// DefaultInstrumentsHandler wires the handler to the production repository implementation.
func DefaultInstrumentsHandler() http.HandlerFunc {
	return InstrumentsHandler(repository.NewInstrumentRepository())
}
