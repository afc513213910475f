package ldbctest

import (
	"context"

	"github.com/takapi327/ldbc-go"
)

// SingleProvider hands out the same fake Connection every time — enough for
// tests that don't need real pooling. ReleaseErr, when set, is returned
// from every Release call, for exercising the release-failure-alongside-
// body-failure path.
type SingleProvider struct {
	Conn       ldbc.Connection
	ReleaseErr error
}

func (p SingleProvider) Acquire(ctx context.Context) (ldbc.Connection, error) {
	return p.Conn, nil
}

func (p SingleProvider) Release(ctx context.Context, conn ldbc.Connection, err error) error {
	return p.ReleaseErr
}

var _ ldbc.ConnectionProvider = SingleProvider{}
