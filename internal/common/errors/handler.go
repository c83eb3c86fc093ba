package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// Responder writes errors as the JSON envelope the browser toolkit
// expects: {success:false, message, errors?}. Status codes follow the
// taxonomy: 422 for validation, 5xx for infrastructure, 4xx for business.
type Responder struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewResponder(logger Logger) *Responder {
	return &Responder{logger: logger}
}

// envelope is the wire shape of every non-success response.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidDocument, ErrCodeInvalidCaseNum, ErrCodeInvalidFileType:
		return http.StatusUnprocessableEntity
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateDocumentID, ErrCodeDuplicateCaseNumber, ErrCodeClientHasActiveCases, ErrCodeScheduleConflict:
		return http.StatusConflict
	case ErrCodeAuthenticationFailed, ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case ErrCodeCSRFTokenInvalid, ErrCodeAJAXRequired:
		return http.StatusForbidden
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDatabaseConnectionFailed, ErrCodeSearchUnavailable, ErrCodeCacheUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err to w. Unknown error types are normalized to an
// internal StandardError so the client always receives the envelope.
func (r *Responder) Respond(w http.ResponseWriter, req *http.Request, err error) {
	stdErr := r.normalize(err)
	status := HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"path":      req.URL.Path,
		"method":    req.Method,
		"errorCode": string(stdErr.Code),
		"status":    status,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	}
	if status >= 500 {
		r.logger.Error("request failed", fields)
	} else {
		r.logger.Warn("request rejected", fields)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Message: stdErr.Message,
		Code:    string(stdErr.Code),
		Errors:  stdErr.Fields,
	})
}

func (r *Responder) normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Erro interno do servidor",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
