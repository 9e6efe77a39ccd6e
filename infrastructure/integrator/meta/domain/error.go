package metadomain

import (
	"fmt"
	"time"
)

// Códigos de erro relevantes da API do Meta
const (
	// ErrCodeTooManyCalls é o código específico de "too many calls"; quando o
	// provedor informa uma estimativa de espera, ela é honrada literalmente
	ErrCodeTooManyCalls = 17

	// Códigos genéricos de rate limit, tratados com backoff exponencial
	ErrCodeAppRateLimit    = 4
	ErrCodePageRateLimit   = 32
	ErrCodeCustomRateLimit = 613

	// Códigos de permissão que alimentam o circuit breaker por conta
	ErrCodePermissionDenied  = 10
	ErrCodePermissionMissing = 200

	// ErrCodeInvalidToken indica token expirado ou revogado
	ErrCodeInvalidToken = 190
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

// APIError é o erro que o client devolve para chamadas rejeitadas pelo
// provedor, carregando o código original e o status HTTP para classificação
type APIError struct {
	StatusCode int
	Code       int
	Subcode    int
	Type       string
	Message    string
	FBTraceID  string
	// EstimatedWait é a estimativa de espera extraída da telemetria de uso da
	// resposta de erro; zero quando o provedor não informou
	EstimatedWait time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meta api: código %d (subcódigo %d, http %d): %s", e.Code, e.Subcode, e.StatusCode, e.Message)
}

// IsRateLimit indica erro de limitação de taxa genérico, retentável com backoff
func (e *APIError) IsRateLimit() bool {
	return e.Code == ErrCodeAppRateLimit ||
		e.Code == ErrCodePageRateLimit ||
		e.Code == ErrCodeCustomRateLimit ||
		e.StatusCode == 429
}

// IsTooManyCalls indica o erro específico que carrega estimativa de espera
func (e *APIError) IsTooManyCalls() bool {
	return e.Code == ErrCodeTooManyCalls
}

// IsServerError indica falha 5xx do provedor, retentável
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsPermissionDenied indica falha de permissão; alimenta o contador de falhas
// consecutivas da conta
func (e *APIError) IsPermissionDenied() bool {
	return e.Code == ErrCodePermissionDenied || e.Code == ErrCodePermissionMissing
}

// IsTokenInvalid indica token expirado ou revogado
func (e *APIError) IsTokenInvalid() bool {
	return e.Code == ErrCodeInvalidToken ||
		(e.Type == "OAuthException" && (e.Subcode == 460 || e.Subcode == 463 || e.Subcode == 467))
}
