package mysqladapter

import (
	"context"
	"database/sql"

	"github.com/takapi327/ldbc-go"
)

// Provider is an ldbc.ConnectionProvider backed by a *sql.DB: each Acquire
// checks out one *sql.Conn (mirroring stdpool's one-session-per-target
// model), Release returns it to the pool.
type Provider struct {
	DB      *sql.DB
	Handler ldbc.LogHandler
}

func (p Provider) Acquire(ctx context.Context) (ldbc.Connection, error) {
	return NewConn(ctx, p.DB, p.Handler)
}

func (p Provider) Release(ctx context.Context, conn ldbc.Connection, _ error) error {
	c, ok := conn.(*Conn)
	if !ok {
		return nil
	}
	return c.Close(ctx)
}

var _ ldbc.ConnectionProvider = Provider{}
