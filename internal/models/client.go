// internal/models/client.go
package models

import "time"

// PersonType distinguishes individual (PF) from company (PJ) clients.
type PersonType string

const (
	PersonTypePF PersonType = "PF"
	PersonTypePJ PersonType = "PJ"
)

// Client is a person or company the office represents. CPF/CNPJ is
// stored as bare digits and formatted on output.
type Client struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"nome" db:"nome"`
	Document      string     `json:"cpf_cnpj" db:"cpf_cnpj"`
	Type          PersonType `json:"tipo" db:"tipo"`
	Email         string     `json:"email,omitempty" db:"email"`
	Phone         string     `json:"telefone,omitempty" db:"telefone"`
	Address       string     `json:"endereco,omitempty" db:"endereco"`
	City          string     `json:"cidade,omitempty" db:"cidade"`
	State         string     `json:"estado,omitempty" db:"estado"`
	CEP           string     `json:"cep,omitempty" db:"cep"`
	Notes         string     `json:"observacoes,omitempty" db:"observacoes"`
	Active        bool       `json:"ativo" db:"ativo"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty" db:"deactivated_at"`
}

// ClientFilter narrows client listings.
type ClientFilter struct {
	Query      string
	Type       PersonType
	ActiveOnly bool
	Limit      int
	Offset     int
}
