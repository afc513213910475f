package ldbc

import "context"

// Stream is a lazy, forward-only sequence of decoded rows bound to a
// prepared statement and its result set. It implements the two-bracket
// streaming contract from the design notes: the outer bracket owns the
// PreparedStatement, the inner owns the ResultSet, and Close releases both
// in LIFO order regardless of why iteration stopped.
type Stream[A any] struct {
	ctx           context.Context
	conn          Connection
	sql           Sql
	stmt          PreparedStatement
	rs            ResultSet
	d             Decoder[A]
	done          bool
	failureLogged bool
}

// NewStream opens sql with the given fetch-size hint and returns a Stream
// ready to be pulled from. fetchSize must be positive; a non-positive value
// is rejected before the connection is ever touched, per the fetch-size
// precondition.
func NewStream[A any](ctx context.Context, conn Connection, sql Sql, d Decoder[A], fetchSize int) (*Stream[A], error) {
	if fetchSize <= 0 {
		return nil, &InvariantViolation{Reason: "fetch size must be positive"}
	}

	stmt, err := conn.PrepareStatement(ctx, sql.Text())
	if err != nil {
		logExecFailure(conn, sql, err)
		return nil, wrapExec(sql.Text(), err)
	}
	if err := stmt.SetFetchSize(fetchSize); err != nil {
		stmt.Close(ctx)
		logExecFailure(conn, sql, err)
		return nil, wrapExec(sql.Text(), err)
	}
	if err := bindParams(stmt, sql.DynamicParams()); err != nil {
		stmt.Close(ctx)
		logExecFailure(conn, sql, err)
		return nil, err
	}
	rs, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		stmt.Close(ctx)
		logExecFailure(conn, sql, err)
		return nil, wrapExec(sql.Text(), err)
	}

	return &Stream[A]{ctx: ctx, conn: conn, sql: sql, stmt: stmt, rs: rs, d: d}, nil
}

// Next advances the cursor and decodes the next row. The second return
// value is false once the stream is exhausted; callers must stop pulling at
// that point (the stream does not auto-close on exhaustion — call Close).
func (s *Stream[A]) Next() (A, bool, error) {
	var zero A
	if s.done {
		return zero, false, nil
	}
	ok, err := s.rs.Next(s.ctx)
	if err != nil {
		s.failureLogged = true
		logProcessingFailure(s.conn, s.sql, err)
		return zero, false, wrapProcessing(s.sql.Text(), err)
	}
	if !ok {
		return zero, false, nil
	}
	a, err := s.d.Decode(1, s.rs)
	if err != nil {
		wrapped := wrapDecode(s.sql.Text(), 1, decoderTypeName[A](), err)
		s.failureLogged = true
		logProcessingFailure(s.conn, s.sql, wrapped)
		return zero, false, wrapped
	}
	return a, true, nil
}

// Close releases the inner result set then the outer statement, in that
// order, exactly once — safe to call after exhaustion, after an error, or
// to terminate early. It also emits the stream's terminating Success log
// event if no ProcessingFailure was already logged for it; a failure to
// close is logged as an ExecFailure instead.
func (s *Stream[A]) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	rsErr := s.rs.Close(s.ctx)
	stmtErr := s.stmt.Close(s.ctx)
	closeErr := rsErr
	if closeErr == nil {
		closeErr = stmtErr
	}
	switch {
	case closeErr != nil:
		logExecFailure(s.conn, s.sql, closeErr)
	case !s.failureLogged:
		logSuccess(s.conn, s.sql)
	}
	return closeErr
}

// Collect drains the stream into a slice and closes it, the common case for
// a caller that doesn't need true incremental consumption.
func Collect[A any](s *Stream[A]) ([]A, error) {
	defer s.Close()
	var out []A
	for {
		a, ok, err := s.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, a)
	}
}

// StreamSql builds a DBIO that opens a Stream and hands it to consume,
// guaranteeing Close runs even if consume panics or returns an error —
// the DBIO-level entry point into the streaming contract for callers that
// want to stay inside the algebra rather than drop to *Stream directly.
func StreamSql[A any](sql Sql, d Decoder[A], fetchSize int, consume func(*Stream[A]) error) DBIO[struct{}] {
	return newDBIO(func(ctx context.Context, conn Connection) (struct{}, error) {
		s, err := NewStream(ctx, conn, sql, d, fetchSize)
		if err != nil {
			return struct{}{}, err
		}
		defer s.Close()
		return struct{}{}, consume(s)
	})
}
