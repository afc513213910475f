package mysqladapter_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takapi327/ldbc-go"
	"github.com/takapi327/ldbc-go/mysqladapter"
)

// openTestDB opens a connection against a real MySQL instance, the way
// lib-pq's own openTestConn dials a real Postgres instance for its
// integration-style tests. Skip rather than fail when no server is
// reachable from this environment: there is no local fake to fall back to
// here, since this package's entire job is to talk to database/sql.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("LDBC_MYSQL_DSN")
	if dsn == "" {
		t.Skip("LDBC_MYSQL_DSN not set, skipping mysqladapter integration test")
	}
	db, err := mysqladapter.Open(context.Background(), dsn, ldbc.NoopLogHandler{})
	if err != nil {
		t.Skipf("cannot reach MySQL at LDBC_MYSQL_DSN: %v", err)
	}
	return db
}

func TestOpenAndQueryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	conn, err := mysqladapter.NewConn(context.Background(), db, ldbc.NoopLogHandler{})
	require.NoError(t, err)
	defer conn.Close(context.Background())

	stmt, err := conn.PrepareStatement(context.Background(), "SELECT 1")
	require.NoError(t, err)
	defer stmt.Close(context.Background())

	rs, err := stmt.ExecuteQuery(context.Background())
	require.NoError(t, err)
	defer rs.Close(context.Background())

	ok, err := rs.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	v, err := rs.GetInt32(1)
	require.NoError(t, err)
	require.Equal(t, int32(1), v)
}

func TestExecuteBatchRunsEachStatement(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	conn, err := mysqladapter.NewConn(context.Background(), db, ldbc.NoopLogHandler{})
	require.NoError(t, err)
	defer conn.Close(context.Background())

	counts, err := conn.ExecuteBatch(context.Background(), []string{
		"DROP TABLE IF EXISTS ldbc_adapter_smoke",
		"CREATE TABLE ldbc_adapter_smoke(id INT PRIMARY KEY)",
		"INSERT INTO ldbc_adapter_smoke VALUES (1)",
	})
	require.NoError(t, err)
	require.Len(t, counts, 3)
}
