package ldbc

import (
	"context"
	"reflect"

	myerr "github.com/go-mysql/errors"
)

// decoderTypeName names the Go type a Decoder[A] produces, for
// DecodeFailure.Expected. Reflection only reads a type descriptor here; it
// never touches a value, so it works even when every instance of A seen so
// far was the zero value.
func decoderTypeName[A any]() string {
	return reflect.TypeOf((*A)(nil)).Elem().String()
}

// bindAndRun is the shared acquire -> bind -> execute body every primitive
// in this file runs under. acquire decides how the statement is obtained
// (plain vs returning-keys); body runs once the statement is bound and
// returns the primitive's result. Release and logging always happen,
// mirroring the fixed seven-step lifecycle: acquire, (fetch-size), bind,
// execute, decode, release, log.
func bindAndRun[A any](
	ctx context.Context,
	conn Connection,
	sql Sql,
	acquire func(ctx context.Context, conn Connection, text string) (PreparedStatement, error),
	configure func(stmt PreparedStatement) error,
	body func(ctx context.Context, stmt PreparedStatement) (A, error),
) (A, error) {
	var zero A

	stmt, err := acquire(ctx, conn, sql.Text())
	if err != nil {
		logExecFailure(conn, sql, err)
		return zero, wrapExec(sql.Text(), err)
	}
	defer stmt.Close(ctx)

	if configure != nil {
		if err := configure(stmt); err != nil {
			logExecFailure(conn, sql, err)
			return zero, err
		}
	}

	if err := bindParams(stmt, sql.DynamicParams()); err != nil {
		logExecFailure(conn, sql, err)
		return zero, err
	}

	a, err := body(ctx, stmt)
	if err != nil {
		// A failure surfacing from execute itself is an ExecFailure; a
		// failure surfacing while consuming rows (already wrapped as
		// ProcessingFailure/DecodeFailure by the caller) passes through.
		if !isProcessingFailure(err) {
			logExecFailure(conn, sql, err)
			return zero, wrapExec(sql.Text(), err)
		}
		logProcessingFailure(conn, sql, err)
		return zero, err
	}

	logSuccess(conn, sql)
	return a, nil
}

func isProcessingFailure(err error) bool {
	switch err.(type) {
	case *ProcessingFailure, *DecodeFailure, *UnexpectedEnd, *UnexpectedContinuation:
		return true
	default:
		return false
	}
}

// bindParams walks the dynamic parameter list in order, dispatching each
// primitive to its typed setter. Every member of the supported primitive
// set (primitive.go) has a case here, including the null sentinel.
func bindParams(stmt PreparedStatement, params []Parameter) error {
	var msgs []string
	pos := 1
	for _, p := range params {
		if !p.dynamic.Ok() {
			msgs = append(msgs, p.dynamic.Errors()...)
			pos++
			continue
		}
		if len(msgs) > 0 {
			// Keep scanning to aggregate every failing parameter's messages
			// before we give up, per the encoder composition law that no
			// error is ever dropped.
			pos++
			continue
		}
		v := p.dynamic.values[0]
		if err := bindOne(stmt, pos, v); err != nil {
			return wrapExec("<bind>", err)
		}
		pos++
	}
	if len(msgs) > 0 {
		return &EncodingError{Messages: msgs}
	}
	return nil
}

func bindOne(stmt PreparedStatement, pos int, v Primitive) error {
	switch val := v.(type) {
	case Bool:
		return stmt.SetBool(pos, bool(val))
	case Int8:
		return stmt.SetInt8(pos, int8(val))
	case Int16:
		return stmt.SetInt16(pos, int16(val))
	case Int32:
		return stmt.SetInt32(pos, int32(val))
	case Int64:
		return stmt.SetInt64(pos, int64(val))
	case Float32:
		return stmt.SetFloat32(pos, float32(val))
	case Float64:
		return stmt.SetFloat64(pos, float64(val))
	case Decimal:
		return stmt.SetDecimal(pos, decimalValue(val))
	case String:
		return stmt.SetString(pos, string(val))
	case Bytes:
		return stmt.SetBytes(pos, []byte(val))
	case Date:
		return stmt.SetDate(pos, dateValue(val))
	case TimeOfDay:
		return stmt.SetTimeOfDay(pos, timeValue(val))
	case Timestamp:
		return stmt.SetTimestamp(pos, timestampValue(val))
	case Null:
		return stmt.SetNull(pos, val.SQLType)
	default:
		return &InvariantViolation{Reason: "unsupported primitive bound to statement"}
	}
}

// classify annotates a raw driver error with its MySQL error code when one
// is present, mirroring block-finch's use of myerr.MySQLErrorCode to decide
// rollback-and-retry vs abort; the code is carried for the LogHandler and
// any caller that wants to branch on retryability.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if code := myerr.MySQLErrorCode(err); code != 0 {
		return &classifiedError{code: code, cause: err}
	}
	return err
}

type classifiedError struct {
	code  uint16
	cause error
}

func (e *classifiedError) Error() string { return e.cause.Error() }
func (e *classifiedError) Unwrap() error { return e.cause }

// MySQLErrorCode extracts the MySQL error code from err, if classify
// previously annotated it; zero otherwise.
func MySQLErrorCode(err error) uint16 {
	if ce, ok := err.(*classifiedError); ok {
		return ce.code
	}
	return 0
}

func logSuccess(conn Connection, sql Sql) {
	conn.Log().Log(LogEvent{Kind: LogSuccess, SQL: sql.Text(), Params: renderParams(sql)})
}

func logExecFailure(conn Connection, sql Sql, cause error) {
	conn.Log().Log(LogEvent{Kind: LogExecFailure, SQL: sql.Text(), Params: renderParams(sql), Cause: classify(cause)})
}

func logProcessingFailure(conn Connection, sql Sql, cause error) {
	conn.Log().Log(LogEvent{Kind: LogProcessingFailure, SQL: sql.Text(), Params: renderParams(sql), Cause: classify(cause)})
}

func plainAcquire(ctx context.Context, conn Connection, text string) (PreparedStatement, error) {
	return conn.PrepareStatement(ctx, text)
}

func returningAcquire(ctx context.Context, conn Connection, text string) (PreparedStatement, error) {
	return conn.PrepareStatementReturningKeys(ctx, text)
}

// QueryUnique builds a DBIO that expects at least one row and decodes the
// first one with d, starting at column 1. Per the adopted open-question
// resolution, it does not verify that no further rows follow — use
// QueryOption for that.
func QueryUnique[A any](sql Sql, d Decoder[A]) DBIO[A] {
	return newDBIO(func(ctx context.Context, conn Connection) (A, error) {
		return bindAndRun(ctx, conn, sql, plainAcquire, nil, func(ctx context.Context, stmt PreparedStatement) (A, error) {
			var zero A
			rs, err := stmt.ExecuteQuery(ctx)
			if err != nil {
				return zero, err
			}
			defer rs.Close(ctx)

			ok, err := rs.Next(ctx)
			if err != nil {
				return zero, wrapProcessing(sql.Text(), err)
			}
			if !ok {
				return zero, &UnexpectedEnd{SQL: sql.Text()}
			}
			a, err := d.Decode(1, rs)
			if err != nil {
				return zero, wrapDecode(sql.Text(), 1, decoderTypeName[A](), err)
			}
			return a, nil
		})
	})
}

// QueryOption builds a DBIO that expects zero or one row.
func QueryOption[A any](sql Sql, d Decoder[A]) DBIO[*A] {
	return newDBIO(func(ctx context.Context, conn Connection) (*A, error) {
		return bindAndRun(ctx, conn, sql, plainAcquire, nil, func(ctx context.Context, stmt PreparedStatement) (*A, error) {
			rs, err := stmt.ExecuteQuery(ctx)
			if err != nil {
				return nil, err
			}
			defer rs.Close(ctx)

			ok, err := rs.Next(ctx)
			if err != nil {
				return nil, wrapProcessing(sql.Text(), err)
			}
			if !ok {
				return nil, nil
			}
			a, err := d.Decode(1, rs)
			if err != nil {
				return nil, wrapDecode(sql.Text(), 1, decoderTypeName[A](), err)
			}
			more, err := rs.Next(ctx)
			if err != nil {
				return nil, wrapProcessing(sql.Text(), err)
			}
			if more {
				return nil, &UnexpectedContinuation{SQL: sql.Text()}
			}
			return &a, nil
		})
	})
}

// QueryNel builds a DBIO that expects at least one row and accumulates all
// of them.
func QueryNel[A any](sql Sql, d Decoder[A]) DBIO[NonEmptyList[A]] {
	return newDBIO(func(ctx context.Context, conn Connection) (NonEmptyList[A], error) {
		return bindAndRun(ctx, conn, sql, plainAcquire, nil, func(ctx context.Context, stmt PreparedStatement) (NonEmptyList[A], error) {
			var zero NonEmptyList[A]
			rs, err := stmt.ExecuteQuery(ctx)
			if err != nil {
				return zero, err
			}
			defer rs.Close(ctx)

			rows, err := decodeAll(ctx, sql, rs, d)
			if err != nil {
				return zero, err
			}
			if len(rows) == 0 {
				return zero, &UnexpectedEnd{SQL: sql.Text()}
			}
			return NonEmptyList[A]{Head: rows[0], Tail: rows[1:]}, nil
		})
	})
}

// QueryTo builds a DBIO that accumulates every row into a caller-chosen
// container via f.
func QueryTo[A any, G any](sql Sql, d Decoder[A], f Factory[A, G]) DBIO[G] {
	return newDBIO(func(ctx context.Context, conn Connection) (G, error) {
		return bindAndRun(ctx, conn, sql, plainAcquire, nil, func(ctx context.Context, stmt PreparedStatement) (G, error) {
			g := f.zero()
			rs, err := stmt.ExecuteQuery(ctx)
			if err != nil {
				return g, err
			}
			defer rs.Close(ctx)

			for {
				ok, err := rs.Next(ctx)
				if err != nil {
					return g, wrapProcessing(sql.Text(), err)
				}
				if !ok {
					return g, nil
				}
				a, err := d.Decode(1, rs)
				if err != nil {
					return g, wrapDecode(sql.Text(), 1, decoderTypeName[A](), err)
				}
				g = f.append(g, a)
			}
		})
	})
}

func decodeAll[A any](ctx context.Context, sql Sql, rs ResultSet, d Decoder[A]) ([]A, error) {
	var out []A
	for {
		ok, err := rs.Next(ctx)
		if err != nil {
			return nil, wrapProcessing(sql.Text(), err)
		}
		if !ok {
			return out, nil
		}
		a, err := d.Decode(1, rs)
		if err != nil {
			return nil, wrapDecode(sql.Text(), 1, decoderTypeName[A](), err)
		}
		out = append(out, a)
	}
}

// Update builds a DBIO running sql as an update and returning the affected
// row count.
func Update(sql Sql) DBIO[int64] {
	return newDBIO(func(ctx context.Context, conn Connection) (int64, error) {
		return bindAndRun(ctx, conn, sql, plainAcquire, nil, func(ctx context.Context, stmt PreparedStatement) (int64, error) {
			return stmt.ExecuteUpdate(ctx)
		})
	})
}

// Returning builds a DBIO that executes sql expecting it to generate keys,
// then decodes the first generated-key row with d.
func Returning[A any](sql Sql, d Decoder[A]) DBIO[A] {
	return newDBIO(func(ctx context.Context, conn Connection) (A, error) {
		return bindAndRun(ctx, conn, sql, returningAcquire, nil, func(ctx context.Context, stmt PreparedStatement) (A, error) {
			var zero A
			if _, err := stmt.ExecuteUpdate(ctx); err != nil {
				return zero, err
			}
			rs, err := stmt.GetGeneratedKeys(ctx)
			if err != nil {
				return zero, err
			}
			defer rs.Close(ctx)

			ok, err := rs.Next(ctx)
			if err != nil {
				return zero, wrapProcessing(sql.Text(), err)
			}
			if !ok {
				return zero, &UnexpectedEnd{SQL: sql.Text()}
			}
			a, err := d.Decode(1, rs)
			if err != nil {
				return zero, wrapDecode(sql.Text(), 1, decoderTypeName[A](), err)
			}
			return a, nil
		})
	})
}

// BatchRaw executes each statement in statements as a single batch and
// returns one affected-row count per statement. A failing statement aborts
// the batch; whatever counts were already recorded by the driver are
// returned alongside the error per the partial-outcome testable property.
func BatchRaw(statements []string) DBIO[[]int64] {
	sql := Raw(joinStatements(statements))
	return newDBIO(func(ctx context.Context, conn Connection) ([]int64, error) {
		counts, err := conn.ExecuteBatch(ctx, statements)
		if err != nil {
			logProcessingFailure(conn, sql, err)
			return counts, wrapProcessing(sql.Text(), err)
		}
		logSuccess(conn, sql)
		return counts, nil
	})
}

func joinStatements(statements []string) string {
	out := ""
	for i, s := range statements {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}
