package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
	"signalrouter/src/repository"
	"signalrouter/src/symbols"
)

type signalLister interface {
	FindLatest(ctx context.Context, limit int) ([]model.TradingSignal, error)
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]model.TradingSignal, error)
}

// SignalsHandler returns the handler for GET /api/signals. Optional query
// params: symbol (stored form) and limit.
func SignalsHandler(repo signalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			parsed, err := strconv.Atoi(limitParam)
			if err != nil || parsed <= 0 {
				writeDetail(w, http.StatusBadRequest, "limit inválido")
				return
			}
			limit = parsed
		}

		var (
			signals []model.TradingSignal
			err     error
		)
		if symbol := r.URL.Query().Get("symbol"); symbol != "" {
			signals, err = repo.FindBySymbol(r.Context(), symbol, limit)
		} else {
			signals, err = repo.FindLatest(r.Context(), limit)
		}
		if err != nil {
			logger.WithError(err).Error("signals - failed to list signals")
			writeDetail(w, http.StatusInternalServerError, "falha ao consultar sinais")
			return
		}

		now := time.Now()
		for i := range signals {
			signals[i].Symbol = symbols.Canonical(signals[i].Symbol, now)
		}
		writeJSON(w, http.StatusOK, signals)
	}
}

// DefaultSignalsHandler wires the handler to the production repository implementation.
func DefaultSignalsHandler() http.HandlerFunc {
	return SignalsHandler(repository.NewTradingSignalRepository())
}
