// internal/models/case.go
package models

import "time"

// CaseStatus tracks a lawsuit through its lifecycle.
type CaseStatus string

const (
	CaseStatusActive    CaseStatus = "ativo"
	CaseStatusSuspended CaseStatus = "suspenso"
	CaseStatusArchived  CaseStatus = "arquivado"
	CaseStatusClosed    CaseStatus = "encerrado"
)

// LawCase is one lawsuit. Number follows the standard judiciary format
// NNNNNNN-DD.AAAA.J.TR.OOOO and is unique across the office.
type LawCase struct {
	ID            string     `json:"id" db:"id"`
	Number        string     `json:"numero" db:"numero"`
	Type          string     `json:"tipo" db:"tipo"`
	Status        CaseStatus `json:"status" db:"status"`
	ClientID      string     `json:"clienteId" db:"cliente_id"`
	ClientName    string     `json:"clienteNome,omitempty" db:"-"`
	OpposingParty string     `json:"parteContraria,omitempty" db:"parte_contraria"`
	Court         string     `json:"tribunal,omitempty" db:"tribunal"`
	CourtBranch   string     `json:"vara,omitempty" db:"vara"`
	Judge         string     `json:"juiz,omitempty" db:"juiz"`
	Responsible   string     `json:"advogadoResponsavel" db:"advogado_responsavel"`
	ClaimAmount   int64      `json:"valorCausa" db:"valor_causa"` // centavos
	Description   string     `json:"descricao,omitempty" db:"descricao"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// CaseFilter narrows case listings.
type CaseFilter struct {
	Query       string
	Status      CaseStatus
	ClientID    string
	Responsible string
	Limit       int
	Offset      int
}

// DeadlinePriority orders deadlines on the dashboard.
type DeadlinePriority string

const (
	PriorityLow    DeadlinePriority = "baixa"
	PriorityMedium DeadlinePriority = "media"
	PriorityHigh   DeadlinePriority = "alta"
	PriorityUrgent DeadlinePriority = "urgente"
)

// Deadline is a procedural due date attached to a case.
type Deadline struct {
	ID          string           `json:"id" db:"id"`
	CaseID      string           `json:"processoId" db:"processo_id"`
	CaseNumber  string           `json:"processoNumero,omitempty" db:"-"`
	Description string           `json:"descricao" db:"descricao"`
	DueDate     time.Time        `json:"dataVencimento" db:"data_vencimento"`
	Priority    DeadlinePriority `json:"prioridade" db:"prioridade"`
	Done        bool             `json:"cumprido" db:"cumprido"`
	Notified    bool             `json:"notificado" db:"notificado"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
}

// DeadlineStatus is derived from Done and DueDate, never stored.
type DeadlineStatus string

const (
	DeadlineStatusPending DeadlineStatus = "pendente"
	DeadlineStatusDone    DeadlineStatus = "cumprido"
	DeadlineStatusOverdue DeadlineStatus = "vencido"
)

// Status derives the display status at the given instant.
func (d *Deadline) Status(now time.Time) DeadlineStatus {
	if d.Done {
		return DeadlineStatusDone
	}
	if now.After(d.DueDate) {
		return DeadlineStatusOverdue
	}
	return DeadlineStatusPending
}

// DaysRemaining counts whole days until the due date; negative when
// the deadline has passed.
func (d *Deadline) DaysRemaining(now time.Time) int {
	return int(d.DueDate.Sub(now).Hours() / 24)
}

func (d *Deadline) IsOverdue(now time.Time) bool {
	return d.Status(now) == DeadlineStatusOverdue
}

// CaseEvent is one entry in a case's movement history.
type CaseEvent struct {
	ID          string    `json:"id" db:"id"`
	CaseID      string    `json:"processoId" db:"processo_id"`
	Date        time.Time `json:"data" db:"data"`
	Description string    `json:"descricao" db:"descricao"`
	RecordedBy  string    `json:"registradoPor" db:"registrado_por"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
