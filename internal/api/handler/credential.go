package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
	"github.com/vfg2006/meta-ads-gateway/internal/usecases/tokening"
	"github.com/vfg2006/meta-ads-gateway/pkg/apiErrors"
	"github.com/vfg2006/meta-ads-gateway/pkg/log"
	"github.com/vfg2006/meta-ads-gateway/pkg/middleware"
)

// storeCredentialRequest é o corpo aceito ao registrar um token de
// acesso para a sessão. O token nunca aparece em nenhuma resposta.
type storeCredentialRequest struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Scopes      []string   `json:"scopes,omitempty"`
	AccountIDs  []string   `json:"account_ids,omitempty"`
	FBUserID    string     `json:"fb_user_id,omitempty"`
}

// StoreCredential registra (ou substitui) a credencial da sessão
func StoreCredential(service tokening.TokenService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sessionID, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrCredentialNotFound,
				"Sessão não identificada", nil)
			return
		}

		var req storeCredentialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("credentials: invalid request body")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Corpo da requisição inválido", nil)
			return
		}

		cred := &domain.Credential{
			AccessToken: req.AccessToken,
			ExpiresAt:   req.ExpiresAt,
			Scopes:      req.Scopes,
			AccountIDs:  req.AccountIDs,
			FBUserID:    req.FBUserID,
			Source:      domain.CredentialSourceManual,
		}

		if err := service.StoreCredential(r.Context(), sessionID, cred); err != nil {
			logger.WithFields(log.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("credentials: failed to store credential")

			apiErrors.WriteGatewayError(w, err)
			return
		}

		logger.WithField("session_id", sessionID).Info("credentials: credential stored")

		w.WriteHeader(http.StatusNoContent)
	})
}

// DescribeCredential devolve os metadados da credencial da sessão,
// sem nunca incluir o token
func DescribeCredential(service tokening.TokenService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sessionID, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrCredentialNotFound,
				"Sessão não identificada", nil)
			return
		}

		info, err := service.Describe(r.Context(), sessionID)
		if err != nil {
			logger.WithFields(log.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Error("credentials: failed to describe credential")

			apiErrors.WriteGatewayError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(info); err != nil {
			logger.WithError(err).Error("credentials: failed to encode response")

			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// DeleteCredential remove a credencial da sessão
func DeleteCredential(service tokening.TokenService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sessionID, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrCredentialNotFound,
				"Sessão não identificada", nil)
			return
		}

		if err := service.Invalidate(r.Context(), sessionID); err != nil {
			logger.WithFields(log.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Error("credentials: failed to invalidate credential")

			apiErrors.WriteGatewayError(w, err)
			return
		}

		logger.WithField("session_id", sessionID).Info("credentials: credential invalidated")

		w.WriteHeader(http.StatusNoContent)
	})
}

// RefreshCredential troca o token da sessão por um de longa duração
func RefreshCredential(service tokening.TokenService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sessionID, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrCredentialNotFound,
				"Sessão não identificada", nil)
			return
		}

		info, err := service.RefreshSession(r.Context(), sessionID)
		if err != nil {
			logger.WithFields(log.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("credentials: failed to refresh credential")

			apiErrors.WriteGatewayError(w, err)
			return
		}

		logger.WithField("session_id", sessionID).Info("credentials: credential refreshed")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(info); err != nil {
			logger.WithError(err).Error("credentials: failed to encode response")

			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
