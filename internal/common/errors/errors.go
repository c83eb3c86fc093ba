// Package errors provides the standardized error taxonomy for the record
// service: validation errors (field-level, non-retryable), transport and
// infrastructure errors (retryable), and business-rule errors. No error in
// this package ever escalates to a crash; every failure degrades to a JSON
// envelope and a stable state.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDocument  ErrorCode = "INVALID_DOCUMENT"
	ErrCodeInvalidCaseNum   ErrorCode = "INVALID_CASE_NUMBER"
	ErrCodeInvalidFileType  ErrorCode = "INVALID_FILE_TYPE"

	// Business rules
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeDuplicateDocumentID  ErrorCode = "DUPLICATE_DOCUMENT_ID"
	ErrCodeDuplicateCaseNumber  ErrorCode = "DUPLICATE_CASE_NUMBER"
	ErrCodeClientHasActiveCases ErrorCode = "CLIENT_HAS_ACTIVE_CASES"
	ErrCodeScheduleConflict     ErrorCode = "SCHEDULE_CONFLICT"

	// Auth
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeSessionExpired       ErrorCode = "SESSION_EXPIRED"
	ErrCodeCSRFTokenInvalid     ErrorCode = "CSRF_TOKEN_INVALID"
	ErrCodeAJAXRequired         ErrorCode = "AJAX_REQUIRED"

	// Infrastructure / transport
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeSearchUnavailable        ErrorCode = "SEARCH_UNAVAILABLE"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeCEPLookupFailed          ErrorCode = "CEP_LOOKUP_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldError is one field-level validation failure, shown inline by the
// client and cleared on correction.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Fields    []FieldError           `json:"fields,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// Constructors
// ==========================

// NewValidationError creates a non-retryable field-level validation error.
func NewValidationError(fields []FieldError) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Dados inválidos. Verifique os campos informados.",
		Retryable: false,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidDocumentError creates a non-retryable CPF/CNPJ format error.
func NewInvalidDocumentError(document, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidDocument,
		Message:   "CPF/CNPJ inválido",
		Details:   fmt.Sprintf("document: %s, reason: %s", document, reason),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCaseNumberError creates a non-retryable case number format error.
func NewInvalidCaseNumberError(number string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCaseNum,
		Message:   "Número de processo inválido",
		Details:   fmt.Sprintf("number: %s", number),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFileTypeError creates a non-retryable file extension error.
func NewInvalidFileTypeError(extension string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFileType,
		Message:   "Tipo de arquivo não permitido",
		Details:   fmt.Sprintf("extension: %s", extension),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable not-found error.
func NewRecordNotFoundError(entity, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Registro não encontrado",
		Details:   fmt.Sprintf("%s: %s", entity, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateDocumentIDError creates a non-retryable duplicate CPF/CNPJ error.
func NewDuplicateDocumentIDError(document string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateDocumentID,
		Message:   "CPF/CNPJ já cadastrado",
		Details:   fmt.Sprintf("document: %s", document),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateCaseNumberError creates a non-retryable duplicate case number error.
func NewDuplicateCaseNumberError(number string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateCaseNumber,
		Message:   "Número de processo já cadastrado",
		Details:   fmt.Sprintf("number: %s", number),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClientHasActiveCasesError blocks deactivation of a client that still
// holds active cases.
func NewClientHasActiveCasesError(clientID string, count int) *StandardError {
	return &StandardError{
		Code:      ErrCodeClientHasActiveCases,
		Message:   "Cliente possui processos ativos",
		Details:   fmt.Sprintf("clientId: %s, activeCases: %d", clientID, count),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScheduleConflictError creates a non-retryable appointment overlap error.
func NewScheduleConflictError(responsible string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScheduleConflict,
		Message:   "Conflito de agenda para o responsável",
		Details:   fmt.Sprintf("responsible: %s", responsible),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Usuário ou senha inválidos",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionExpiredError creates a non-retryable expired session error.
func NewSessionExpiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionExpired,
		Message:   "Sessão expirada. Faça login novamente.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCSRFTokenInvalidError creates a non-retryable CSRF rejection.
func NewCSRFTokenInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeCSRFTokenInvalid,
		Message:   "Token de segurança inválido",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAJAXRequiredError rejects fetch-only endpoints hit without the
// XMLHttpRequest marker.
func NewAJAXRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAJAXRequired,
		Message:   "Requisição inválida",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Erro de conexão com o banco de dados",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Erro ao executar operação no banco de dados",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search backend error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Erro ao consultar o índice de busca",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchUnavailableError creates a retryable search connection error.
func NewSearchUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUnavailable,
		Message:   "Serviço de busca indisponível",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Cache indisponível",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Falha no envio de notificação",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCEPLookupFailedError creates a retryable address lookup error.
func NewCEPLookupFailedError(cep string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCEPLookupFailed,
		Message:   "Falha na consulta de CEP",
		Details:   fmt.Sprintf("cep: %s, error: %s", cep, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Erro interno do servidor",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBusinessRuleError creates a generic non-retryable business error.
func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsNotFound reports whether err is a record-not-found StandardError.
func IsNotFound(err error) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == ErrCodeRecordNotFound
}
