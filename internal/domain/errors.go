package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind classifica as falhas do gateway. Toda falha devolvida ao
// chamador carrega exatamente um kind.
type ErrorKind string

const (
	KindCredentialNotFound ErrorKind = "CREDENTIAL_NOT_FOUND"
	KindCredentialExpired  ErrorKind = "CREDENTIAL_EXPIRED"
	KindInsufficientScope  ErrorKind = "INSUFFICIENT_SCOPE"
	KindCredentialInvalid  ErrorKind = "CREDENTIAL_INVALID"
	KindRateLimitExceeded  ErrorKind = "RATE_LIMIT_EXCEEDED"
	KindTransient          ErrorKind = "TRANSIENT"
	KindPermanentFailure   ErrorKind = "PERMANENT_FAILURE"
	KindMalformedResponse  ErrorKind = "MALFORMED_RESPONSE"
	KindStorageUnavailable ErrorKind = "STORAGE_UNAVAILABLE"
	KindInvalidRequest     ErrorKind = "INVALID_REQUEST"
)

// GatewayError é o erro estruturado que atravessa todas as camadas do
// gateway até o chamador.
type GatewayError struct {
	Kind          ErrorKind
	Message       string
	MissingScopes []string
	RetryAfter    time.Duration
	Err           error
}

func (e *GatewayError) Error() string {
	if len(e.MissingScopes) > 0 {
		return fmt.Sprintf("%s: %s (missing=%s)", e.Kind, e.Message, strings.Join(e.MissingScopes, ","))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewError cria um GatewayError simples
func NewError(kind ErrorKind, message string) *GatewayError {
	return &GatewayError{Kind: kind, Message: message}
}

// WrapError envolve um erro de camada inferior preservando o kind
func WrapError(kind ErrorKind, message string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Message: message, Err: err}
}

// NewRateLimitError cria o erro de limite local com a espera sugerida
func NewRateLimitError(retryAfter time.Duration) *GatewayError {
	return &GatewayError{
		Kind:       KindRateLimitExceeded,
		Message:    "local rate limit exceeded for this credential",
		RetryAfter: retryAfter,
	}
}

// NewInsufficientScopeError cria o erro de escopo com a lista do que falta
func NewInsufficientScopeError(missing []string) *GatewayError {
	return &GatewayError{
		Kind:          KindInsufficientScope,
		Message:       "credential does not grant the required scopes",
		MissingScopes: missing,
	}
}

// KindOf extrai o ErrorKind de qualquer erro da cadeia. Erros fora da
// taxonomia são tratados como falha permanente.
func KindOf(err error) ErrorKind {
	var gErr *GatewayError
	if errors.As(err, &gErr) {
		return gErr.Kind
	}
	return KindPermanentFailure
}

// IsKind verifica se o erro carrega o kind informado
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
