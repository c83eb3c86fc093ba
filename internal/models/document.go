// internal/models/document.go
package models

import (
	"time"

	"lawdesk-api/pkg/format"
)

// Document is the metadata of a file attached to a case or client.
// Binary content lives in external storage keyed by StorageKey.
type Document struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"titulo" db:"titulo"`
	FileName     string     `json:"nomeArquivo" db:"nome_arquivo"`
	Extension    string     `json:"extensao" db:"extensao"`
	SizeBytes    int64      `json:"tamanho" db:"tamanho"`
	Version      int        `json:"versao" db:"versao"`
	StorageKey   string     `json:"-" db:"storage_key"`
	CaseID       string     `json:"processoId,omitempty" db:"processo_id"`
	ClientID     string     `json:"clienteId,omitempty" db:"cliente_id"`
	UploadedBy   string     `json:"enviadoPor" db:"enviado_por"`
	ExpiresAt    *time.Time `json:"dataValidade,omitempty" db:"data_validade"`
	Confidential bool       `json:"confidencial" db:"confidencial"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// FormattedSize renders SizeBytes for listings ("1,5 MB").
func (d *Document) FormattedSize() string {
	return format.FileSize(d.SizeBytes)
}

// Expired reports whether the document's validity date has passed.
// Documents without one never expire.
func (d *Document) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && now.After(*d.ExpiresAt)
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Query    string
	CaseID   string
	ClientID string
	Limit    int
	Offset   int
}
