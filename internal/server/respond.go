// internal/server/respond.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"lawdesk-api/internal/common/errors"
)

// successEnvelope mirrors the error envelope: success responses carry
// {success:true, message?, ...payload}.
type successEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ok(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: data})
}

func (s *Server) created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, successEnvelope{Success: true, Message: message, Data: data})
}

func (s *Server) okMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Message: message})
}

// readBody reads and returns the request body, capped at 1 MiB.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return body, nil
}

// decodeValidated validates the raw payload against the resource
// schema and then unmarshals it into dst.
func (s *Server) decodeValidated(r *http.Request, resource string, update bool, dst interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}

	if update {
		err = s.validator.ValidateUpdate(resource, body)
	} else {
		err = s.validator.ValidateCreate(resource, body)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errors.NewValidationError([]errors.FieldError{{
			Field:   "_payload",
			Message: "JSON inválido",
			Code:    "MALFORMED_PAYLOAD",
		}})
	}
	return nil
}
