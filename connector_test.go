package ldbc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takapi327/ldbc-go"
	"github.com/takapi327/ldbc-go/internal/ldbctest"
)

func TestTransactionCommitsOnSuccess(t *testing.T) {
	conn := ldbctest.NewConn()
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn})

	_, err := ldbc.Transaction(context.Background(), connector, ldbc.Pure(1))
	require.NoError(t, err)

	assert.Equal(t, 1, conn.Committed)
	assert.Equal(t, 0, conn.RolledBack)
	assert.True(t, conn.AutoCommit)
}

// TestTransactionRollsBackOnFailure is end-to-end scenario S3.
func TestTransactionRollsBackOnFailure(t *testing.T) {
	conn := ldbctest.NewConn()
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn})

	boom := errors.New("division by zero")
	body := ldbc.RaiseError[int](boom)

	_, err := ldbc.Transaction(context.Background(), connector, body)
	require.Error(t, err)

	assert.Equal(t, 0, conn.Committed)
	assert.Equal(t, 1, conn.RolledBack)
	assert.True(t, conn.AutoCommit)
}

func TestReadOnlyRestoresFalseAfterward(t *testing.T) {
	conn := ldbctest.NewConn()
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn})

	_, err := ldbc.ReadOnly(context.Background(), connector, ldbc.Pure(struct{}{}))
	require.NoError(t, err)
	assert.False(t, conn.ReadOnly)
}

func TestRollbackModeAlwaysRollsBackEvenOnSuccess(t *testing.T) {
	conn := ldbctest.NewConn()
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn})

	_, err := ldbc.Rollback(context.Background(), connector, ldbc.Pure(42))
	require.NoError(t, err)

	assert.Equal(t, 1, conn.RolledBack)
	assert.Equal(t, 0, conn.Committed)
	assert.True(t, conn.AutoCommit)
}

func TestCommitModeUsesAutoCommit(t *testing.T) {
	conn := ldbctest.NewConn()
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn})

	_, err := ldbc.Commit(context.Background(), connector, ldbc.Pure(0))
	require.NoError(t, err)

	assert.True(t, conn.AutoCommit)
	assert.False(t, conn.ReadOnly)
}

// TestReleaseFailureIsLoggedAlongsideBodyFailure covers the case where both
// the body and the connection's release fail: the body's error must still
// be the one returned, but the release failure must not vanish — it is
// reported through the connection's LogHandler instead.
func TestReleaseFailureIsLoggedAlongsideBodyFailure(t *testing.T) {
	conn := ldbctest.NewConn()
	recorder := &ldbctest.RecordingHandler{}
	conn.Handler = recorder

	releaseErr := errors.New("release: connection reset")
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn, ReleaseErr: releaseErr})

	bodyErr := errors.New("division by zero")
	_, err := ldbc.Transaction(context.Background(), connector, ldbc.RaiseError[int](bodyErr))

	require.Error(t, err)
	assert.ErrorIs(t, err, bodyErr, "the body's failure must win as the returned error")

	var logged *ldbc.LogEvent
	for i := range recorder.Events {
		if errors.Is(recorder.Events[i].Cause, releaseErr) {
			logged = &recorder.Events[i]
		}
	}
	require.NotNil(t, logged, "release failure must be reported via the connection's LogHandler")
	assert.Equal(t, ldbc.LogExecFailure, logged.Kind)
}

// TestReleaseFailureSurfacesAsErrorWhenBodySucceeds covers the simpler case
// where only release fails: that failure must become the returned error.
func TestReleaseFailureSurfacesAsErrorWhenBodySucceeds(t *testing.T) {
	conn := ldbctest.NewConn()
	releaseErr := errors.New("release: connection reset")
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn, ReleaseErr: releaseErr})

	_, err := ldbc.Transaction(context.Background(), connector, ldbc.Pure(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, releaseErr)
}

func TestTransactionRollsBackOnCancellation(t *testing.T) {
	conn := ldbctest.NewConn()
	connector := ldbc.NewConnector(ldbctest.SingleProvider{Conn: conn})

	ctx, cancel := context.WithCancel(context.Background())
	body := ldbc.FlatMap(ldbc.Pure(struct{}{}), func(struct{}) ldbc.DBIO[struct{}] {
		cancel()
		return ldbc.Pure(struct{}{})
	})

	_, err := ldbc.Transaction(ctx, connector, body)
	require.Error(t, err)
	var cancelled *ldbc.CancellationObserved
	assert.ErrorAs(t, err, &cancelled)
	assert.Equal(t, 1, conn.RolledBack)
	assert.Equal(t, 0, conn.Committed)
}
