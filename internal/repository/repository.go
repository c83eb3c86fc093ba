// Package repository is the PostgreSQL persistence layer. Each record
// module has its own repository over a shared *sql.DB; all queries take
// a context and map driver errors to the standard error taxonomy.
package repository

import (
	"database/sql"

	"github.com/lib/pq"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// clampLimit keeps listing page sizes inside sane bounds.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// uniqueViolation reports whether err is a violation of the named
// unique constraint. An empty name matches any unique violation.
func uniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// Repositories bundles all record repositories for wiring.
type Repositories struct {
	Clients       *ClientRepository
	Cases         *CaseRepository
	Documents     *DocumentRepository
	Appointments  *AppointmentRepository
	Finance       *FinanceRepository
	Users         *UserRepository
	Notifications *NotificationRepository
	Dashboard     *DashboardRepository
}

func New(db *sql.DB) *Repositories {
	return &Repositories{
		Clients:       NewClientRepository(db),
		Cases:         NewCaseRepository(db),
		Documents:     NewDocumentRepository(db),
		Appointments:  NewAppointmentRepository(db),
		Finance:       NewFinanceRepository(db),
		Users:         NewUserRepository(db),
		Notifications: NewNotificationRepository(db),
		Dashboard:     NewDashboardRepository(db),
	}
}
