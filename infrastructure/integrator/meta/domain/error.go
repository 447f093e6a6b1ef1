package metadomain

import (
	"encoding/json"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string      `json:"message"`
	Type         string      `json:"type"`
	Code         int         `json:"code"`
	ErrorSubcode int         `json:"error_subcode,omitempty"`
	FBTraceID    string      `json:"fbtrace_id"`
	ErrorData    interface{} `json:"error_data,omitempty"`
}

// ParseErrorResponse tenta parsear o envelope de erro do Graph
func ParseErrorResponse(body []byte) (*ErrorResponse, error) {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// ToRemoteError converte o envelope em um erro classificável pelo
// executor de retry
func (e *ErrorResponse) ToRemoteError(statusCode int) *domain.RemoteError {
	return &domain.RemoteError{
		StatusCode: statusCode,
		Code:       e.Error.Code,
		Subcode:    e.Error.ErrorSubcode,
		Type:       e.Error.Type,
		Message:    e.Error.Message,
		FBTraceID:  e.Error.FBTraceID,
	}
}
