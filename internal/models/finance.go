// internal/models/finance.go
package models

import "time"

// EntryKind splits finance entries into income and expense.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "receita"
	EntryKindExpense EntryKind = "despesa"
)

// FinancialEntry is one income or expense record. Amounts are stored
// as integer centavos to keep sums exact.
type FinancialEntry struct {
	ID            string     `json:"id" db:"id"`
	Kind          EntryKind  `json:"tipo" db:"tipo"`
	Description   string     `json:"descricao" db:"descricao"`
	Amount        int64      `json:"valor" db:"valor"` // centavos
	DueDate       time.Time  `json:"dataVencimento" db:"data_vencimento"`
	PaidAt        *time.Time `json:"dataPagamento,omitempty" db:"data_pagamento"`
	PaymentMethod string     `json:"formaPagamento,omitempty" db:"forma_pagamento"`
	CaseID        string     `json:"processoId,omitempty" db:"processo_id"`
	ClientID      string     `json:"clienteId,omitempty" db:"cliente_id"`
	Category      string     `json:"categoria,omitempty" db:"categoria"`
	Installment   int        `json:"parcela" db:"parcela"`
	Installments  int        `json:"totalParcelas" db:"total_parcelas"`
	GroupID       string     `json:"grupoId,omitempty" db:"grupo_id"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// Paid reports whether the entry has a recorded payment.
func (e *FinancialEntry) Paid() bool {
	return e.PaidAt != nil
}

// IsOverdue reports an unpaid entry past its due date.
func (e *FinancialEntry) IsOverdue(now time.Time) bool {
	return e.PaidAt == nil && now.After(e.DueDate)
}

// PendingAmount sums the unpaid portion of a set of entries, typically
// one installment group.
func PendingAmount(entries []*FinancialEntry) int64 {
	var pending int64
	for _, e := range entries {
		if e.PaidAt == nil {
			pending += e.Amount
		}
	}
	return pending
}

// PercentPaid is the paid fraction of a set of entries, 0..100.
func PercentPaid(entries []*FinancialEntry) float64 {
	var total, paid int64
	for _, e := range entries {
		total += e.Amount
		if e.PaidAt != nil {
			paid += e.Amount
		}
	}
	if total == 0 {
		return 0
	}
	return float64(paid) / float64(total) * 100
}

// FinanceFilter narrows finance listings.
type FinanceFilter struct {
	Kind     EntryKind
	CaseID   string
	ClientID string
	From     time.Time
	To       time.Time
	PaidOnly bool
	OpenOnly bool
	Limit    int
	Offset   int
}

// MonthlySummary aggregates one month of entries for the dashboard.
type MonthlySummary struct {
	Year     int   `json:"ano"`
	Month    int   `json:"mes"`
	Income   int64 `json:"receitas"` // centavos
	Expenses int64 `json:"despesas"` // centavos
	Balance  int64 `json:"saldo"`    // centavos
}
