package ldbc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takapi327/ldbc-go"
	"github.com/takapi327/ldbc-go/internal/ldbctest"
)

func TestStreamRejectsNonPositiveFetchSize(t *testing.T) {
	conn := ldbctest.NewConn()
	sql := ldbc.Raw("SELECT id FROM user")

	_, err := ldbc.NewStream(context.Background(), conn, sql, ldbc.Int32Decoder, 0)
	require.Error(t, err)
	var inv *ldbc.InvariantViolation
	assert.ErrorAs(t, err, &inv)
	assert.Empty(t, conn.FetchSizes, "fetch-size precondition must reject before touching the connection")
}

// TestStreamProducesRowsAndClosesAfterEarlyTermination is end-to-end
// scenario S4: fetch size 1, consumer takes only the first two rows, and
// the statement/result set close exactly once afterward.
func TestStreamProducesRowsAndClosesAfterEarlyTermination(t *testing.T) {
	conn := ldbctest.NewConn()
	sql := ldbc.Raw("SELECT id FROM user ORDER BY id")
	conn.Queries[sql.Text()] = ldbctest.Script{
		Rows: []ldbctest.Row{{ldbc.Int32(1)}, {ldbc.Int32(2)}, {ldbc.Int32(3)}},
	}

	s, err := ldbc.NewStream(context.Background(), conn, sql, ldbc.Int32Decoder, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, conn.FetchSizes[sql.Text()])

	var got []int32
	for len(got) < 2 {
		v, ok, err := s.Next()
		require.NoError(t, err)
		require.True(t, ok)
		got = append(got, v)
	}
	require.NoError(t, s.Close())

	assert.Equal(t, []int32{1, 2}, got)
	// Closing twice must stay a no-op rather than double-release.
	require.NoError(t, s.Close())
}

func TestCollectDrainsEntireStream(t *testing.T) {
	conn := ldbctest.NewConn()
	sql := ldbc.Raw("SELECT id FROM user")
	conn.Queries[sql.Text()] = ldbctest.Script{
		Rows: []ldbctest.Row{{ldbc.Int32(1)}, {ldbc.Int32(2)}},
	}

	s, err := ldbc.NewStream(context.Background(), conn, sql, ldbc.Int32Decoder, 10)
	require.NoError(t, err)

	all, err := ldbc.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, all)
}
