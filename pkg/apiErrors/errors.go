package apiErrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// Códigos de erro expostos aos clientes da API
const (
	// Erros de credencial (1000-1999)
	ErrCredentialNotFound = "AUTH_001" // Nenhuma credencial para a sessão
	ErrCredentialExpired  = "AUTH_002" // Credencial expirada
	ErrInsufficientScope  = "AUTH_003" // Credencial sem os escopos exigidos
	ErrCredentialInvalid  = "AUTH_004" // Credencial rejeitada pelo remoto

	// Erros de limite de taxa (3000-3999)
	ErrRateLimitExceeded = "RATE_001" // Cota local esgotada para a credencial

	// Erros do serviço remoto (4000-4999)
	ErrRemoteTransient = "EXT_001" // Remoto indisponível após retries
	ErrRemotePermanent = "EXT_002" // Remoto recusou a chamada
	ErrRemoteMalformed = "EXT_003" // Resposta do remoto fora do formato esperado

	// Erros de validação (2000-2999)
	ErrInvalidRequest = "VAL_001" // Requisição inválida

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Armazenamento de credenciais indisponível
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrCredentialNotFound: http.StatusUnauthorized,
	ErrCredentialExpired:  http.StatusUnauthorized,
	ErrInsufficientScope:  http.StatusForbidden,
	ErrCredentialInvalid:  http.StatusUnauthorized,
	ErrRateLimitExceeded:  http.StatusTooManyRequests,
	ErrRemoteTransient:    http.StatusBadGateway,
	ErrRemotePermanent:    http.StatusBadGateway,
	ErrRemoteMalformed:    http.StatusBadGateway,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrInternalServer:     http.StatusInternalServerError,
	ErrDatabaseOperation:  http.StatusServiceUnavailable,
}

// kindCodeMap traduz a taxonomia interna para os códigos da API
var kindCodeMap = map[domain.ErrorKind]string{
	domain.KindCredentialNotFound: ErrCredentialNotFound,
	domain.KindCredentialExpired:  ErrCredentialExpired,
	domain.KindInsufficientScope:  ErrInsufficientScope,
	domain.KindCredentialInvalid:  ErrCredentialInvalid,
	domain.KindRateLimitExceeded:  ErrRateLimitExceeded,
	domain.KindTransient:          ErrRemoteTransient,
	domain.KindPermanentFailure:   ErrRemotePermanent,
	domain.KindMalformedResponse:  ErrRemoteMalformed,
	domain.KindStorageUnavailable: ErrDatabaseOperation,
	domain.KindInvalidRequest:     ErrInvalidRequest,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// WriteGatewayError traduz um erro do gateway para a resposta HTTP.
// A mensagem nunca ecoa o token; detalhes só carregam o que o cliente
// pode agir em cima (escopos faltantes, espera sugerida).
func WriteGatewayError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	code, ok := kindCodeMap[kind]
	if !ok {
		code = ErrInternalServer
	}

	var details any

	var gErr *domain.GatewayError
	if errors.As(err, &gErr) {
		switch {
		case len(gErr.MissingScopes) > 0:
			details = map[string]any{"missing_scopes": gErr.MissingScopes}
		case gErr.RetryAfter > 0:
			seconds := int(gErr.RetryAfter.Seconds() + 0.5)
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			details = map[string]any{"retry_after_seconds": seconds}
		}
	}

	WriteError(w, code, publicMessage(kind), details)
}

// publicMessage é a mensagem estável exposta por kind. Nunca inclui o
// token nem detalhes internos do remoto.
func publicMessage(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindCredentialNotFound:
		return "Nenhuma credencial armazenada para esta sessão"
	case domain.KindCredentialExpired:
		return "A credencial desta sessão expirou"
	case domain.KindInsufficientScope:
		return "A credencial não concede os escopos exigidos pela operação"
	case domain.KindCredentialInvalid:
		return "A credencial foi rejeitada pelo serviço remoto"
	case domain.KindRateLimitExceeded:
		return "Limite de chamadas atingido para esta credencial"
	case domain.KindTransient:
		return "O serviço remoto está temporariamente indisponível"
	case domain.KindPermanentFailure:
		return "O serviço remoto recusou a chamada"
	case domain.KindMalformedResponse:
		return "O serviço remoto devolveu uma resposta fora do formato esperado"
	case domain.KindStorageUnavailable:
		return "O armazenamento de credenciais está indisponível"
	case domain.KindInvalidRequest:
		return "Requisição inválida"
	default:
		return "Erro interno do servidor"
	}
}
