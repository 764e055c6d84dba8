package result_test

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/aqlgraph/aql/result"
)

func openMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRowsIteratesAndReportsNull(t *testing.T) {
	db, mock := openMock(t)
	rows := sqlmock.NewRows([]string{"col0", "col1"}).
		AddRow("alice", nil).
		AddRow("bob", "x")
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	r, err := result.New([]string{"col0", "col1"}, func() (*sql.Rows, error) {
		return db.Query("SELECT col0, col1 FROM t")
	})
	require.NoError(t, err)
	require.Equal(t, []string{"col0", "col1"}, r.Header())

	require.True(t, r.HasNextRow())
	row, err := r.NextRow()
	require.NoError(t, err)
	require.Equal(t, "alice", *row[0])
	require.Nil(t, row[1])

	require.True(t, r.HasNextRow())
	row, err = r.NextRow()
	require.NoError(t, err)
	require.Equal(t, "bob", *row[0])
	require.Equal(t, "x", *row[1])

	require.False(t, r.HasNextRow())
}

func TestRowsEmptyResultSet(t *testing.T) {
	db, mock := openMock(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"col0"}))

	r, err := result.New([]string{"col0"}, func() (*sql.Rows, error) {
		return db.Query("SELECT col0 FROM t")
	})
	require.NoError(t, err)
	require.False(t, r.HasNextRow())
}

func TestRowsReset(t *testing.T) {
	db, mock := openMock(t)
	query := func() (*sql.Rows, error) { return db.Query("SELECT col0 FROM t") }

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"col0"}).AddRow("first"))
	r, err := result.New([]string{"col0"}, query)
	require.NoError(t, err)

	row, err := r.NextRow()
	require.NoError(t, err)
	require.Equal(t, "first", *row[0])
	require.False(t, r.HasNextRow())

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"col0"}).AddRow("second"))
	require.NoError(t, r.Reset())
	require.True(t, r.HasNextRow())
	row, err = r.NextRow()
	require.NoError(t, err)
	require.Equal(t, "second", *row[0])
}
