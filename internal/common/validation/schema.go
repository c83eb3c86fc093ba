// Package validation checks request payloads against the JSON-schema
// registry and applies the domain format rules (CPF/CNPJ, case number,
// phone, CEP) that the schemas cannot express.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/pkg/registry"
)

// Validator validates payloads against the loaded schema registry.
type Validator struct {
	registry *registry.SchemaRegistry
}

func New(reg *registry.SchemaRegistry) *Validator {
	return &Validator{registry: reg}
}

// ValidateCreate checks a create payload for the named resource.
func (v *Validator) ValidateCreate(resource string, payload []byte) error {
	res, err := v.registry.Resource(resource)
	if err != nil {
		return errors.NewInternalError(err)
	}
	return validateAgainst(res.CreateSchema, payload)
}

// ValidateUpdate checks an update payload for the named resource.
func (v *Validator) ValidateUpdate(resource string, payload []byte) error {
	res, err := v.registry.Resource(resource)
	if err != nil {
		return errors.NewInternalError(err)
	}
	schema := res.UpdateSchema
	if schema == nil {
		schema = res.CreateSchema
	}
	return validateAgainst(schema, payload)
}

func validateAgainst(schema map[string]interface{}, payload []byte) error {
	if schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	docLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return errors.NewValidationError([]errors.FieldError{{
			Field:   "_payload",
			Message: fmt.Sprintf("payload inválido: %v", err),
			Code:    "MALFORMED_PAYLOAD",
		}})
	}

	if result.Valid() {
		return nil
	}

	fields := make([]errors.FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, errors.FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return errors.NewValidationError(fields)
}
