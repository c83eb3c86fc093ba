package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-api/internal/models"
)

func TestFinanceCreateSingleEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO financeiro").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFinanceRepository(db)
	entries, err := repo.Create(context.Background(), &models.FinancialEntry{
		Kind:        models.EntryKindIncome,
		Description: "Honorários",
		Amount:      150000,
		DueDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Installment)
	assert.Equal(t, "Honorários", entries[0].Description)
	assert.Empty(t, entries[0].GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceCreateInstallmentSeries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO financeiro").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	repo := NewFinanceRepository(db)
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	entries, err := repo.Create(context.Background(), &models.FinancialEntry{
		Kind:         models.EntryKindIncome,
		Description:  "Honorários contratuais",
		Amount:       100000,
		DueDate:      due,
		Installments: 3,
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Honorários contratuais (1/3)", entries[0].Description)
	assert.Equal(t, "Honorários contratuais (3/3)", entries[2].Description)
	assert.Equal(t, due, entries[0].DueDate)
	assert.Equal(t, due.AddDate(0, 2, 0), entries[2].DueDate)

	// All installments share a group id.
	assert.NotEmpty(t, entries[0].GroupID)
	assert.Equal(t, entries[0].GroupID, entries[1].GroupID)
	assert.Equal(t, entries[1].GroupID, entries[2].GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceMonthlySummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"income", "expenses"}).AddRow(500000, 120000))

	repo := NewFinanceRepository(db)
	summary, err := repo.MonthlySummary(context.Background(), 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), summary.Income)
	assert.Equal(t, int64(120000), summary.Expenses)
	assert.Equal(t, int64(380000), summary.Balance)
}

func TestFinanceMarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	paidAt := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE financeiro SET data_pagamento").
		WithArgs("entry-1", paidAt, "pix").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewFinanceRepository(db)
	require.NoError(t, repo.MarkPaid(context.Background(), "entry-1", paidAt, "pix"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
