package db

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDBName(t *testing.T) {
	name, err := extractDBName("postgres://u:p@localhost:5432/campaigns?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "campaigns", name)

	name, err = extractDBName("host=localhost user=u dbname=reports sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "reports", name)

	_, err = extractDBName("host=localhost user=u")
	assert.Error(t, err)

	_, err = extractDBName("postgres://u:p@localhost:5432")
	assert.Error(t, err)
}

func TestReplaceDBName(t *testing.T) {
	out, err := replaceDBName("postgres://u:p@localhost:5432/campaigns?sslmode=disable", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/postgres?sslmode=disable", out)

	out, err = replaceDBName("host=localhost dbname=reports sslmode=disable", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "host=localhost dbname=postgres sslmode=disable", out)
}

func TestDatabaseExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT 1 FROM pg_database WHERE datname = \$1`).
		WithArgs("campaigns").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM pg_database WHERE datname = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := databaseExists(context.Background(), db, "campaigns")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = databaseExists(context.Background(), db, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}
