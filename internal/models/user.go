// internal/models/user.go
package models

import "time"

// User is an office staff account.
type User struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"nomeCompleto" db:"nome_completo"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Active       bool       `json:"ativo" db:"ativo"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
