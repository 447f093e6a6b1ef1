package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
	"github.com/vfg2006/meta-ads-gateway/internal/gateway"
	"github.com/vfg2006/meta-ads-gateway/pkg/apiErrors"
	"github.com/vfg2006/meta-ads-gateway/pkg/log"
	"github.com/vfg2006/meta-ads-gateway/pkg/middleware"
)

// InvokeCall executa uma chamada ao remoto em nome da sessão
// autenticada. Toda chamada de ferramenta do agente entra por aqui.
func InvokeCall(service gateway.Gateway) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sessionID, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrCredentialNotFound,
				"Sessão não identificada", nil)
			return
		}

		var req domain.CallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("invoke: invalid request body")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Corpo da requisição inválido", nil)
			return
		}

		logger.WithFields(log.Fields{
			"session_id": sessionID,
			"endpoint":   req.Endpoint,
		}).Info("invoke: executing remote call")

		result, err := service.Invoke(r.Context(), sessionID, &req)
		if err != nil {
			logger.WithFields(log.Fields{
				"session_id": sessionID,
				"endpoint":   req.Endpoint,
				"error":      err.Error(),
			}).Warn("invoke: remote call failed")

			apiErrors.WriteGatewayError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("invoke: failed to encode response")

			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
