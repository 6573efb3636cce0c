package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
	"signalrouter/src/repository"
	"signalrouter/src/symbols"
)

type alertLister interface {
	FindLatest(ctx context.Context, limit int) ([]model.Alert, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	CountUnread(ctx context.Context) (int64, error)
}

// AlertsHandler returns the handler for GET /api/alerts.
func AlertsHandler(repo alertLister) http.HandlerFunc {
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

		alerts, err := repo.FindLatest(r.Context(), limit)
		if err != nil {
			logger.WithError(err).Error("alerts - failed to list alerts")
			writeDetail(w, http.StatusInternalServerError, "falha ao consultar alertas")
			return
		}

		now := time.Now()
		for i := range alerts {
			alerts[i].Symbol = symbols.Canonical(alerts[i].Symbol, now)
		}
		writeJSON(w, http.StatusOK, alerts)
	}
}

// MarkAlertReadHandler returns the handler for POST /api/alerts/{id}/read.
func MarkAlertReadHandler(repo alertLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		updated, err := repo.MarkRead(r.Context(), id)
		if err != nil {
			logger.WithError(err).WithField("alert_id", id).Error("alerts - failed to mark alert read")
			writeDetail(w, http.StatusInternalServerError, "falha ao atualizar alerta")
			return
		}
		if !updated {
			writeDetail(w, http.StatusNotFound, "alerta não encontrado")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// UnreadAlertCountHandler returns the handler for GET /api/alerts/unread-count.
func UnreadAlertCountHandler(repo alertLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := repo.CountUnread(r.Context())
		if err != nil {
			logger.WithError(err).Error("alerts - failed to count unread alerts")
			writeDetail(w, http.StatusInternalServerError, "falha ao consultar alertas")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
	}
}

// DefaultAlertsHandler wires the handler to the production repository implementation.
func DefaultAlertsHandler() http.HandlerFunc {
	return AlertsHandler(repository.NewAlertRepository())
}
