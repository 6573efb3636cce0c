package handler

import (
	"context"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"signalrouter/src/connectors"
)

type derivDiagnoser interface {
	Diagnostics(ctx context.Context) *connectors.DerivDiagnostics
	AuthCheck(ctx context.Context) (map[string]interface{}, error)
}

type networkProber interface {
	Probe(ctx context.Context, host string) *connectors.DiagnosticsReport
}

type credentialReader interface {
	Present() bool
}

// DerivDiagnosticsHandler returns the handler for GET /api/deriv/diagnostics.
// Diagnostics never fail the request: whatever could be determined is
// reported with status 200.
func DerivDiagnosticsHandler(client derivDiagnoser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		writeJSON(w, http.StatusOK, client.Diagnostics(ctx))
	}
}

// DerivStatusHandler returns the handler for GET /api/deriv/status: a
// one-shot authorize round trip reporting the resolved account.
func DerivStatusHandler(client derivDiagnoser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		status, err := client.AuthCheck(ctx)
		if err != nil {
			logger.WithError(err).Warn("deriv - auth check failed")
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"status": "error",
				"detail": err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

// LegacyDiagnosticsHandler returns the handler for GET /api/iq-option/diagnostics:
// best-effort DNS/TCP/HTTPS reachability of the legacy broker host plus
// whether a credential pair is configured.
func LegacyDiagnosticsHandler(probe networkProber, credentials credentialReader, host string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		report := probe.Probe(ctx, host)
		report.CredentialsPresent = credentials.Present()
		writeJSON(w, http.StatusOK, report)
	}
}
