package ldbc

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ConnectionProvider acquires and releases a Connection for one Connector
// call. Implementations range from a single persistent Connection (tests,
// a one-shot CLI) to a pool that checks one out per call — the Connector
// itself is agnostic, the same way lib-pq's Connector is agnostic to how
// its Dialer reaches the server.
type ConnectionProvider interface {
	Acquire(ctx context.Context) (Connection, error)
	Release(ctx context.Context, conn Connection, err error) error
}

// Connector owns the policy of obtaining a Connection and applying a
// transaction-mode bracket around a DBIO program. It is the entry point
// user code calls; DBIO values built in dbio.go/interpreter.go are inert
// until handed to one of its methods.
type Connector struct {
	provider ConnectionProvider
}

// NewConnector builds a Connector from a ConnectionProvider.
func NewConnector(provider ConnectionProvider) *Connector {
	return &Connector{provider: provider}
}

// Run acquires a connection and runs fa with no transaction-mode bracket at
// all — the connection's existing auto-commit/read-only state is used as-is.
func (c *Connector) Run(ctx context.Context, fa DBIO[struct{}]) error {
	_, err := runWithConn(ctx, c, func(ctx context.Context, conn Connection) (struct{}, error) {
		return fa.Run(ctx, conn)
	})
	return err
}

// ReadOnly brackets fa with SetReadOnly(true) before and SetReadOnly(false)
// after, regardless of outcome.
func ReadOnly[A any](ctx context.Context, c *Connector, fa DBIO[A]) (A, error) {
	return runWithConn(ctx, c, func(ctx context.Context, conn Connection) (A, error) {
		var zero A
		if err := conn.SetReadOnly(ctx, true); err != nil {
			return zero, errors.Wrap(err, "ldbc: setReadOnly(true)")
		}
		a, err := fa.Run(ctx, conn)
		if rerr := conn.SetReadOnly(ctx, false); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "ldbc: setReadOnly(false)")
		}
		return a, err
	})
}

// Commit brackets fa in auto-commit mode: SetReadOnly(false) and
// SetAutoCommit(true) before, nothing after — every statement inside fa
// commits itself as it runs.
func Commit[A any](ctx context.Context, c *Connector, fa DBIO[A]) (A, error) {
	return runWithConn(ctx, c, func(ctx context.Context, conn Connection) (A, error) {
		var zero A
		if err := conn.SetReadOnly(ctx, false); err != nil {
			return zero, errors.Wrap(err, "ldbc: setReadOnly(false)")
		}
		if err := conn.SetAutoCommit(ctx, true); err != nil {
			return zero, errors.Wrap(err, "ldbc: setAutoCommit(true)")
		}
		return fa.Run(ctx, conn)
	})
}

// Rollback brackets fa so that its effects are always rolled back: entering
// SetAutoCommit(false), and rolling back with SetAutoCommit(true) restored
// on both the success and error paths.
func Rollback[A any](ctx context.Context, c *Connector, fa DBIO[A]) (A, error) {
	return runWithConn(ctx, c, func(ctx context.Context, conn Connection) (A, error) {
		var zero A
		if err := conn.SetReadOnly(ctx, false); err != nil {
			return zero, errors.Wrap(err, "ldbc: setReadOnly(false)")
		}
		if err := conn.SetAutoCommit(ctx, false); err != nil {
			return zero, errors.Wrap(err, "ldbc: setAutoCommit(false)")
		}
		a, err := fa.Run(ctx, conn)
		// Cancellation-masked region: rollback and restoring autocommit must
		// both happen even if ctx was cancelled mid-body.
		cleanupCtx := uncancelable(ctx)
		if rerr := conn.Rollback(cleanupCtx); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "ldbc: rollback")
		}
		if aerr := conn.SetAutoCommit(cleanupCtx, true); aerr != nil && err == nil {
			err = errors.Wrap(aerr, "ldbc: setAutoCommit(true)")
		}
		return a, err
	})
}

// Transaction brackets fa so that it commits on success (and no
// cancellation) or rolls back on failure or cancellation, always restoring
// auto-commit to true afterward.
func Transaction[A any](ctx context.Context, c *Connector, fa DBIO[A]) (A, error) {
	return runWithConn(ctx, c, func(ctx context.Context, conn Connection) (A, error) {
		var zero A
		if err := conn.SetReadOnly(ctx, false); err != nil {
			return zero, errors.Wrap(err, "ldbc: setReadOnly(false)")
		}
		if err := conn.SetAutoCommit(ctx, false); err != nil {
			return zero, errors.Wrap(err, "ldbc: setAutoCommit(false)")
		}

		a, err := fa.Run(ctx, conn)

		cleanupCtx := uncancelable(ctx)
		cancelled := ctx.Err() != nil
		if err == nil && !cancelled {
			if cerr := conn.Commit(cleanupCtx); cerr != nil {
				err = errors.Wrap(cerr, "ldbc: commit")
			}
		} else {
			if rerr := conn.Rollback(cleanupCtx); rerr != nil && err == nil {
				err = errors.Wrap(rerr, "ldbc: rollback")
			}
			if cancelled && err == nil {
				err = &CancellationObserved{cause: ctx.Err()}
			}
		}
		if aerr := conn.SetAutoCommit(cleanupCtx, true); aerr != nil && err == nil {
			err = errors.Wrap(aerr, "ldbc: setAutoCommit(true)")
		}
		return a, err
	})
}

func runWithConn[A any](ctx context.Context, c *Connector, f func(ctx context.Context, conn Connection) (A, error)) (A, error) {
	var zero A
	conn, err := c.provider.Acquire(ctx)
	if err != nil {
		return zero, errors.Wrap(err, "ldbc: acquire connection")
	}
	a, runErr := f(ctx, conn)
	if relErr := c.provider.Release(ctx, conn, runErr); relErr != nil {
		// The body's failure wins; a release failure is reported alongside
		// it, never in place of it. When runErr already holds the body's
		// failure, relErr would otherwise vanish, so it is always logged
		// through the connection's handler even on that path.
		wrapped := errors.Wrap(relErr, "ldbc: release connection")
		if runErr == nil {
			runErr = wrapped
		} else if h := conn.Log(); h != nil {
			h.Log(LogEvent{Kind: LogExecFailure, Cause: wrapped})
		}
	}
	return a, runErr
}

// uncancelableContext detaches a context's cancellation while preserving
// its values, for the cleanup regions that must run even after the parent
// context was cancelled — the same acquire/release masking lib-pq's
// watchCancel goroutine achieves by racing a dedicated cancel connection
// instead of sharing the caller's context.
type uncancelableContext struct {
	context.Context
}

func (uncancelableContext) Deadline() (deadline time.Time, ok bool) { return time.Time{}, false }
func (uncancelableContext) Done() <-chan struct{}                  { return nil }
func (uncancelableContext) Err() error                             { return nil }

func uncancelable(ctx context.Context) context.Context {
	return uncancelableContext{ctx}
}
