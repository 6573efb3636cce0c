package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"signalrouter/src/security"
)

type credentialWriter interface {
	Set(ctx context.Context, email, password string) error
	Present() bool
}

type credentialsRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Passphrase string `json:"passphrase"`
}

// SetCredentialsHandler returns the handler for POST /api/iq-option/credentials.
// The operator passphrase gates writes; the pair is encrypted before it
// reaches storage and plaintext is never echoed back.
func SetCredentialsHandler(store credentialWriter, passphraseHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}

		if passphraseHash != "" && !security.CheckPassphrase(passphraseHash, req.Passphrase) {
			writeDetail(w, http.StatusUnauthorized, "passphrase inválida")
			return
		}

		email := strings.TrimSpace(req.Email)
		if email == "" || req.Password == "" {
			writeDetail(w, http.StatusBadRequest, "email e password são obrigatórios")
			return
		}

		if err := store.Set(r.Context(), email, req.Password); err != nil {
			logger.WithError(err).Error("credentials - failed to store legacy login")
			writeDetail(w, http.StatusInternalServerError, "falha ao salvar credenciais")
			return
		}

		logger.Info("credentials - legacy login updated")
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// CredentialsStatusHandler returns the handler for GET /api/iq-option/credentials:
// presence only, never the stored values.
func CredentialsStatusHandler(store credentialWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"configured": store.Present()})
	}
}
