package domain

import "fmt"

// RemoteError representa uma falha declarada pela API do Meta, já
// desembrulhada do envelope de erro do Graph. O executor de retry usa
// os campos para classificar o resultado da tentativa.
type RemoteError struct {
	StatusCode int
	Code       int
	Subcode    int
	Type       string
	Message    string
	FBTraceID  string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("meta api error: status=%d code=%d subcode=%d type=%s message=%s",
		e.StatusCode, e.Code, e.Subcode, e.Type, e.Message)
}

// IsTokenExpired verifica se o erro é de token expirado ou revogado.
// O código 190 representa "token expirado" nas respostas da API do Meta.
// Subcódigos relacionados a problemas de token: 460, 463, 467
func (e *RemoteError) IsTokenExpired() bool {
	if e.StatusCode == 401 {
		return true
	}
	return e.Code == 190 ||
		(e.Type == "OAuthException" && (e.Subcode == 460 || e.Subcode == 463 || e.Subcode == 467))
}

// IsRateLimited verifica se o remoto declarou throttling. Códigos de
// limite do Graph: 4 (app), 17 (usuário), 32 (página), 613 (custom) e
// 80004 (ads management). HTTP 429 também conta.
func (e *RemoteError) IsRateLimited() bool {
	if e.StatusCode == 429 {
		return true
	}
	switch e.Code {
	case 4, 17, 32, 613, 80004:
		return true
	}
	return false
}

// IsTransient verifica se a falha tende a desaparecer com retry
// (5xx ou os códigos "temporarily unavailable" do Graph: 1, 2).
func (e *RemoteError) IsTransient() bool {
	if e.StatusCode >= 500 {
		return true
	}
	return e.Code == 1 || e.Code == 2
}
