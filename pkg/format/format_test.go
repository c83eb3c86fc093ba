package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"cpf plain digits", "12345678901", "123.456.789-01"},
		{"cpf already masked", "123.456.789-01", "123.456.789-01"},
		{"cnpj plain digits", "12345678000195", "12.345.678/0001-95"},
		{"cnpj already masked", "12.345.678/0001-95", "12.345.678/0001-95"},
		{"too short unchanged", "1234567", "1234567"},
		{"too long unchanged", "123456789012345", "123456789012345"},
		{"empty unchanged", "", ""},
		{"letters only unchanged", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Document(tt.input))
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"landline 10 digits", "1133334444", "(11) 3333-4444"},
		{"mobile 11 digits", "11987654321", "(11) 98765-4321"},
		{"mobile with mask", "(11) 98765-4321", "(11) 98765-4321"},
		{"nine digits unchanged", "987654321", "987654321"},
		{"twelve digits unchanged", "119876543210", "119876543210"},
		{"empty unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phone(tt.input))
		})
	}
}

func TestCEP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain digits", "01310100", "01310-100"},
		{"already masked", "01310-100", "01310-100"},
		{"seven digits unchanged", "0131010", "0131010"},
		{"nine digits unchanged", "013101000", "013101000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CEP(tt.input))
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		cents    int64
		expected string
	}{
		{"zero", 0, "R$ 0,00"},
		{"under one real", 99, "R$ 0,99"},
		{"simple", 150000, "R$ 1.500,00"},
		{"thousands grouping", 123456789, "R$ 1.234.567,89"},
		{"negative", -123456, "R$ -1.234,56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Currency(tt.cents))
		})
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2024, time.March, 7, 15, 42, 0, 0, time.UTC)
	assert.Equal(t, "07/03/2024", Date(d))
	assert.Equal(t, "07/03/2024 15:42", DateTime(d))
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"a.b@law.office.br",
		"x@y.co",
	}
	invalid := []string{
		"",
		"no-at-sign.com",
		"two@@example.com",
		"two@at@example.com",
		"spaces in@example.com",
		"nodot@example",
		"trailing@example.",
		"@example.com",
	}

	for _, email := range valid {
		assert.True(t, ValidEmail(email), "expected valid: %q", email)
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), "expected invalid: %q", email)
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678901", Digits("123.456.789-01"))
	assert.Equal(t, "", Digits("abc-/."))
}

func TestFileSize(t *testing.T) {
	tests := []struct {
		name     string
		n        int64
		expected string
	}{
		{"zero", 0, "0 bytes"},
		{"bytes", 512, "512.0 bytes"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileSize(tt.n))
		})
	}
}
