// Package mysqladapter is a reference ldbc.Connection implementation over
// database/sql driven by github.com/go-sql-driver/mysql. It is grounded on
// internal/util/stdpool.OpenMySQLAsTarget's DSN assembly, ping-with-retry,
// and version probe, and on block-finch/client.Client's per-statement
// *sql.Stmt caching and typed Scan destinations.
package mysqladapter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	myerr "github.com/go-mysql/errors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/takapi327/ldbc-go"
)

// Conn wraps a single *sql.Conn checked out from a *sql.DB as an
// ldbc.Connection. A fresh Conn should be obtained per Connector.Acquire
// call the way stdpool checks out one *sql.Conn per logical session.
type Conn struct {
	db      *sql.DB
	conn    *sql.Conn
	tx      *sql.Tx
	handler ldbc.LogHandler
}

// Open opens a *sql.DB from dsn as given, retrying Ping up to 10 times at a
// fixed 250ms interval since a freshly-started MySQL container (the common
// case in tests) may not accept connections yet.
func Open(ctx context.Context, dsn string, handler ldbc.LogHandler) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "mysqladapter: sql.Open")
	}

	var pingErr error
	for attempt := 0; attempt < 10; attempt++ {
		pingErr = db.PingContext(ctx)
		if pingErr == nil {
			break
		}
		if !isStartupError(pingErr) {
			return nil, errors.Wrap(pingErr, "mysqladapter: ping")
		}
		log.WithError(pingErr).Warn("mysqladapter: waiting for MySQL to accept connections")
		select {
		case <-time.After(250 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if pingErr != nil {
		return nil, errors.Wrap(pingErr, "mysqladapter: ping after retries")
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return nil, errors.Wrap(err, "mysqladapter: version probe")
	}
	log.Infof("mysqladapter: connected to MySQL %s", version)

	if handler == nil {
		handler = ldbc.NoopLogHandler{}
	}
	return db, nil
}

// NewConn checks out a single *sql.Conn from db, the unit of exclusivity a
// Connector hands to one interpreter run at a time.
func NewConn(ctx context.Context, db *sql.DB, handler ldbc.LogHandler) (*Conn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "mysqladapter: checkout connection")
	}
	if handler == nil {
		handler = ldbc.NoopLogHandler{}
	}
	return &Conn{conn: conn, handler: handler}, nil
}

func (c *Conn) querier() interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
} {
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

func (c *Conn) PrepareStatement(ctx context.Context, sqlText string) (ldbc.PreparedStatement, error) {
	s, err := c.querier().PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, classify(err)
	}
	return &Stmt{stmt: s}, nil
}

func (c *Conn) PrepareStatementReturningKeys(ctx context.Context, sqlText string) (ldbc.PreparedStatement, error) {
	s, err := c.querier().PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, classify(err)
	}
	return &Stmt{stmt: s, returningKeys: true}, nil
}

func (c *Conn) SetReadOnly(ctx context.Context, readOnly bool) error {
	mode := "READ WRITE"
	if readOnly {
		mode = "READ ONLY"
	}
	_, err := c.conn.ExecContext(ctx, "SET TRANSACTION "+mode)
	return classify(err)
}

func (c *Conn) SetAutoCommit(ctx context.Context, autoCommit bool) error {
	if autoCommit {
		c.tx = nil
		return nil
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	c.tx = tx
	return nil
}

func (c *Conn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	return classify(err)
}

func (c *Conn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	return classify(err)
}

func (c *Conn) Close(ctx context.Context) error {
	return classify(c.conn.Close())
}

func (c *Conn) ExecuteBatch(ctx context.Context, statements []string) ([]int64, error) {
	counts := make([]int64, 0, len(statements))
	for _, s := range statements {
		res, err := c.querier0().ExecContext(ctx, s)
		if err != nil {
			return counts, classify(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return counts, classify(err)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func (c *Conn) querier0() interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

func (c *Conn) Log() ldbc.LogHandler { return c.handler }

// isStartupError reports whether err looks like the transient
// connection-refused/reset window before a freshly-started MySQL server is
// accepting connections yet, as opposed to a permanent failure (bad
// credentials, unknown database) that the server itself reported. A
// nonzero MySQL error code means the server answered and rejected the
// connection for a reason retrying won't fix.
func isStartupError(err error) bool {
	if err == nil {
		return false
	}
	return myerr.MySQLErrorCode(err) == 0
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if code := myerr.MySQLErrorCode(err); code != 0 {
		return fmt.Errorf("mysqladapter: mysql error %d: %w", code, err)
	}
	return err
}

var _ ldbc.Connection = (*Conn)(nil)
