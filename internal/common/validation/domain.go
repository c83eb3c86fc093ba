// internal/common/validation/domain.go
package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/pkg/format"
)

var caseNumberPattern = regexp.MustCompile(`^\d{7}-\d{2}\.\d{4}\.\d{1}\.\d{2}\.\d{4}$`)

// allowedDocumentExtensions lists the file types accepted for uploads.
var allowedDocumentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".txt":  true,
}

// ValidateDocumentNumber checks the CPF/CNPJ digit count for the given
// person type ("PF" expects 11 digits, "PJ" expects 14).
func ValidateDocumentNumber(docNumber, personType string) error {
	digits := format.Digits(docNumber)
	switch personType {
	case "PF":
		if len(digits) != 11 {
			return errors.NewInvalidDocumentError(docNumber, "CPF deve conter 11 dígitos")
		}
	case "PJ":
		if len(digits) != 14 {
			return errors.NewInvalidDocumentError(docNumber, "CNPJ deve conter 14 dígitos")
		}
	default:
		if len(digits) != 11 && len(digits) != 14 {
			return errors.NewInvalidDocumentError(docNumber, "documento deve conter 11 ou 14 dígitos")
		}
	}
	return nil
}

// ValidateCaseNumber checks the standard judiciary numbering format
// NNNNNNN-DD.AAAA.J.TR.OOOO.
func ValidateCaseNumber(number string) error {
	if !caseNumberPattern.MatchString(number) {
		return errors.NewInvalidCaseNumberError(number)
	}
	return nil
}

// ValidatePhone accepts 10 or 11 digit Brazilian phone numbers.
func ValidatePhone(phone string) error {
	digits := format.Digits(phone)
	if len(digits) != 10 && len(digits) != 11 {
		return errors.NewValidationError([]errors.FieldError{{
			Field:   "telefone",
			Message: "telefone deve conter 10 ou 11 dígitos",
			Code:    "INVALID_PHONE",
		}})
	}
	return nil
}

// ValidateCEP accepts 8 digit postal codes.
func ValidateCEP(cep string) error {
	if len(format.Digits(cep)) != 8 {
		return errors.NewValidationError([]errors.FieldError{{
			Field:   "cep",
			Message: "CEP deve conter 8 dígitos",
			Code:    "INVALID_CEP",
		}})
	}
	return nil
}

// ValidateDocumentFile checks the upload file name against the allowed
// extension list.
func ValidateDocumentFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedDocumentExtensions[ext] {
		return errors.NewInvalidFileTypeError(ext)
	}
	return nil
}

// ValidateEmail applies the permissive address check used on forms.
func ValidateEmail(email string) error {
	if !format.ValidEmail(email) {
		return errors.NewValidationError([]errors.FieldError{{
			Field:   "email",
			Message: "e-mail inválido",
			Code:    "INVALID_EMAIL",
		}})
	}
	return nil
}
