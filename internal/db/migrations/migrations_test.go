package migrations

import (
	"context"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrationFilename(t *testing.T) {
	version, name, err := parseMigrationFilename("0002_dashboards.up.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, "dashboards", name)

	_, _, err = parseMigrationFilename("dashboards.sql")
	assert.Error(t, err)

	_, _, err = parseMigrationFilename("abc_dashboards.up.sql")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	files, err := getMigrationFiles(migrationFiles)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "projects", files[0].Name)
	assert.Equal(t, "dashboards", files[1].Name)
	assert.Contains(t, files[1].Up, "CREATE TABLE IF NOT EXISTS dashboards")
	assert.Contains(t, files[1].Down, "DROP TABLE")
}

func TestRunMigrationsSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"sql/0001_first.up.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"sql/0002_second.up.sql": {Data: []byte("CREATE TABLE second (id INT)")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE second").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(2, "second").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = runMigrations(context.Background(), db, fsys, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
