// internal/search/postgres_test.go
package search

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchRows = []string{"id", "kind", "title", "subtitle"}

// An alphabetic query must not bind a document pattern at all: the
// digit-stripped leftover would be a bare "%" and LIKE '%' is true for
// every stored document, turning the name filter into a no-op.
func TestPGSearcherAlphabeticQueryFiltersByNameOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE ativo = TRUE AND \(nome ILIKE \$1\)`).
		WithArgs("%joao%", 10).
		WillReturnRows(sqlmock.NewRows(searchRows).
			AddRow("client-1", "cliente", "João Souza", "52998224725"))

	s := NewPGSearcher(db)
	results, err := s.Search(context.Background(), "joao", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "João Souza", results[0].Title)
	assert.Equal(t, "529.982.247-25", results[0].Subtitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSearcherNumericQueryMatchesDocumentPrefix(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE ativo = TRUE AND \(nome ILIKE \$1 OR cpf_cnpj LIKE \$2\)`).
		WithArgs("%529.982%", "529982%", 10).
		WillReturnRows(sqlmock.NewRows(searchRows).
			AddRow("client-1", "cliente", "João Souza", "52998224725"))

	s := NewPGSearcher(db)
	results, err := s.Search(context.Background(), "529.982", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSearcherResultURLs(t *testing.T) {
	assert.Equal(t, "/clientes/1", resultURL("cliente", "1"))
	assert.Equal(t, "/processos/2", resultURL("processo", "2"))
	assert.Equal(t, "/documentos/3", resultURL("documento", "3"))
}
