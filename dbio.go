package ldbc

import (
	"context"
	"time"
)

// DBIO is a pure, composable description of a database computation. It
// carries no runtime resource of its own; interpretation happens only when
// an interpreter (see interpreter.go) runs it against a live Connection.
//
// The representation chosen here is a continuation-style closure: a
// DBIO[A] is a function from (ctx, Connection) to (A, error). This keeps
// construction allocation-free and lets FlatMap/Map compose by ordinary
// closure nesting, the same way Begin/Commit/Rollback compose from a
// single underlying exec primitive.
type DBIO[A any] struct {
	run func(ctx context.Context, conn Connection) (A, error)
}

func newDBIO[A any](f func(ctx context.Context, conn Connection) (A, error)) DBIO[A] {
	return DBIO[A]{run: f}
}

// Run interprets the program against conn. Only the Connector (connector.go)
// and tests should call this directly; ordinary user code composes DBIO
// values and hands the result to a Connector method.
func (d DBIO[A]) Run(ctx context.Context, conn Connection) (A, error) {
	return d.run(ctx, conn)
}

// Pure lifts a value into DBIO without touching the connection.
func Pure[A any](a A) DBIO[A] {
	return newDBIO(func(ctx context.Context, conn Connection) (A, error) {
		return a, nil
	})
}

// RaiseError builds a DBIO that fails immediately with err.
func RaiseError[A any](err error) DBIO[A] {
	return newDBIO(func(ctx context.Context, conn Connection) (A, error) {
		var zero A
		return zero, err
	})
}

// Sleep suspends for d, honoring context cancellation, then continues with
// no value. Modeled as a first-class op per the concurrency model's
// suspension-point list.
func Sleep(d time.Duration) DBIO[struct{}] {
	return newDBIO(func(ctx context.Context, conn Connection) (struct{}, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return struct{}{}, nil
		case <-ctx.Done():
			return struct{}{}, &CancellationObserved{cause: ctx.Err()}
		}
	})
}

// FlatMap sequences two DBIO steps, threading the first's result into a
// function that builds the second. This is the one strict sequencing point
// the concurrency model requires between binds.
func FlatMap[A, B any](fa DBIO[A], f func(A) DBIO[B]) DBIO[B] {
	return newDBIO(func(ctx context.Context, conn Connection) (B, error) {
		a, err := fa.run(ctx, conn)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a).run(ctx, conn)
	})
}

// MapDBIO transforms a DBIO's result with a pure function.
func MapDBIO[A, B any](fa DBIO[A], f func(A) B) DBIO[B] {
	return FlatMap(fa, func(a A) DBIO[B] {
		return Pure(f(a))
	})
}

// HandleErrorWith runs fa; on failure, evaluates f(err) against the same
// connection instead of propagating. On success, fa's result passes through
// untouched.
func HandleErrorWith[A any](fa DBIO[A], f func(error) DBIO[A]) DBIO[A] {
	return newDBIO(func(ctx context.Context, conn Connection) (A, error) {
		a, err := fa.run(ctx, conn)
		if err == nil {
			return a, nil
		}
		return f(err).run(ctx, conn)
	})
}

// OnError runs fa; if it fails, runs finalizer(err) purely for its side
// effect (its result is discarded) and then re-raises the original error.
// finalizer failures do not mask the original error.
func OnError[A any](fa DBIO[A], finalizer func(error) DBIO[struct{}]) DBIO[A] {
	return newDBIO(func(ctx context.Context, conn Connection) (A, error) {
		a, err := fa.run(ctx, conn)
		if err != nil {
			_, _ = finalizer(err).run(ctx, conn)
		}
		return a, err
	})
}

// Attempt materializes fa's outcome as an Either-shaped Result instead of
// propagating a failure, built atop HandleErrorWith per the design notes.
type Result[A any] struct {
	Value A
	Err   error
}

func Attempt[A any](fa DBIO[A]) DBIO[Result[A]] {
	return HandleErrorWith(
		MapDBIO(fa, func(a A) Result[A] { return Result[A]{Value: a} }),
		func(err error) DBIO[Result[A]] {
			return Pure(Result[A]{Err: err})
		},
	)
}

// SequenceDBIO runs each DBIO in order, collecting their results. It stops
// and propagates on the first failure, per ordinary monadic sequencing.
func SequenceDBIO[A any](ops []DBIO[A]) DBIO[[]A] {
	return newDBIO(func(ctx context.Context, conn Connection) ([]A, error) {
		out := make([]A, 0, len(ops))
		for _, op := range ops {
			a, err := op.run(ctx, conn)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	})
}
