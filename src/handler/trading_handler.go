package handler

import (
	"context"
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
)

type orderExecutor interface {
	Execute(ctx context.Context, req model.QuickOrderRequest) model.OrderOutcome
}

// QuickOrderHandler returns the handler for POST /api/trading/quick-order.
// All business decisions live in the executor; this layer only translates
// between HTTP and the outcome structure.
func QuickOrderHandler(executor orderExecutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.QuickOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}

		outcome := executor.Execute(r.Context(), req)

		logger.WithFields(map[string]interface{}{
			"asset":    req.Asset,
			"status":   outcome.Status,
			"provider": outcome.Provider,
			"http":     outcome.HTTPStatus,
		}).Info("trading - quick order processed")

		if !outcome.Succeeded() {
			writeDetail(w, outcome.HTTPStatus, outcome.Message)
			return
		}

		writeJSON(w, http.StatusOK, model.QuickOrderResponse{
			Success: true,
			Message: outcome.Message,
			OrderID: outcome.OrderID,
			Echo:    outcome.Echo,
		})
	}
}
