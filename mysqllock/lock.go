// Package mysqllock wraps MySQL's named-lock functions (GET_LOCK,
// RELEASE_LOCK, IS_USED_LOCK) as a small helper atop the DBIO algebra, the
// way lib-pq's lock.Lock wraps pg_advisory_lock/pg_advisory_unlock as a
// sync.Locker over a raw *sql.DB. This reimplements the same shape against
// ldbc.Connector/ldbc.DBIO instead, so acquiring and releasing a named lock
// goes through the same resource-lifecycle and logging guarantees as any
// other statement.
package mysqllock

import (
	"context"
	"sync"
	"time"

	"github.com/takapi327/ldbc-go"
)

// Lock names one MySQL named lock. The zero value is not usable; build one
// with New.
type Lock struct {
	name      string
	connector *ldbc.Connector
}

// New builds a Lock bound to name on connector. Distinct Lock values that
// share a name contend for the same MySQL-side lock.
func New(connector *ldbc.Connector, name string) *Lock {
	return &Lock{name: name, connector: connector}
}

// Acquire blocks (up to timeout) until the named lock is held, the way
// lib-pq's lock.Lock blocks on pg_advisory_lock. timeout is given in
// seconds to GET_LOCK directly; a negative timeout waits forever per
// MySQL's own convention.
func (l *Lock) Acquire(ctx context.Context, timeout time.Duration) error {
	sql := ldbc.Raw("SELECT GET_LOCK(").
		Concat(ldbc.Placeholder(ldbc.StringEncoder.Encode(l.name))).
		Concat(ldbc.Raw(", ")).
		Concat(ldbc.Placeholder(ldbc.Int32Encoder.Encode(int32(timeout.Seconds())))).
		Concat(ldbc.Raw(")"))

	got, err := ldbc.Commit(ctx, l.connector, ldbc.QueryUnique(sql, ldbc.OptionalDecoder(ldbc.Int32Decoder)))
	if err != nil {
		return err
	}
	if got == nil || *got != 1 {
		return ErrLockNotAcquired
	}
	return nil
}

// Release releases the named lock. It is a caller error to release a lock
// this session does not hold; MySQL reports that as RELEASE_LOCK returning
// 0, surfaced here as ErrLockNotHeld.
func (l *Lock) Release(ctx context.Context) error {
	sql := ldbc.Raw("SELECT RELEASE_LOCK(").
		Concat(ldbc.Placeholder(ldbc.StringEncoder.Encode(l.name))).
		Concat(ldbc.Raw(")"))

	released, err := ldbc.Commit(ctx, l.connector, ldbc.QueryUnique(sql, ldbc.OptionalDecoder(ldbc.Int32Decoder)))
	if err != nil {
		return err
	}
	if released == nil || *released != 1 {
		return ErrLockNotHeld
	}
	return nil
}

// ErrLockNotHeld is returned by Release when this session does not hold
// the named lock.
var ErrLockNotHeld = lockError("mysqllock: lock not held")

// ErrLockNotAcquired is returned by Acquire when GET_LOCK timed out or
// another session already holds an incompatible lock.
var ErrLockNotAcquired = lockError("mysqllock: lock not acquired")

type lockError string

func (e lockError) Error() string { return string(e) }

// locker adapts *Lock to sync.Locker the way lib-pq's unexported locker
// type does, panicking on error since sync.Locker has no error return.
type locker struct {
	lock    *Lock
	timeout time.Duration
}

func (l locker) Lock() {
	if err := l.lock.Acquire(context.Background(), l.timeout); err != nil {
		panic(err)
	}
}

func (l locker) Unlock() {
	if err := l.lock.Release(context.Background()); err != nil {
		panic(err)
	}
}

// Locker returns a sync.Locker view of l, blocking up to timeout to
// acquire.
func (l *Lock) Locker(timeout time.Duration) sync.Locker {
	return locker{lock: l, timeout: timeout}
}
