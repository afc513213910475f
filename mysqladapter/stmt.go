package mysqladapter

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/takapi327/ldbc-go"
)

// Stmt adapts a *sql.Stmt to ldbc.PreparedStatement. database/sql binds all
// parameters in one call, so the typed Set* methods here only record
// positional arguments; ExecuteQuery/ExecuteUpdate pass them through
// together, the same widen-then-bind shape database/sql's own driver
// converters use one layer down.
type Stmt struct {
	stmt          *sql.Stmt
	returningKeys bool
	args          []any
	fetchSize     int
	lastResult    sql.Result
}

func (s *Stmt) set(pos int, v any) error {
	for len(s.args) < pos {
		s.args = append(s.args, nil)
	}
	s.args[pos-1] = v
	return nil
}

func (s *Stmt) SetBool(pos int, v bool) error              { return s.set(pos, v) }
func (s *Stmt) SetInt8(pos int, v int8) error               { return s.set(pos, v) }
func (s *Stmt) SetInt16(pos int, v int16) error             { return s.set(pos, v) }
func (s *Stmt) SetInt32(pos int, v int32) error             { return s.set(pos, v) }
func (s *Stmt) SetInt64(pos int, v int64) error             { return s.set(pos, v) }
func (s *Stmt) SetFloat32(pos int, v float32) error          { return s.set(pos, v) }
func (s *Stmt) SetFloat64(pos int, v float64) error          { return s.set(pos, v) }
func (s *Stmt) SetDecimal(pos int, v decimal.Decimal) error  { return s.set(pos, v.String()) }
func (s *Stmt) SetString(pos int, v string) error            { return s.set(pos, v) }
func (s *Stmt) SetBytes(pos int, v []byte) error             { return s.set(pos, v) }
func (s *Stmt) SetDate(pos int, v time.Time) error            { return s.set(pos, v.Format("2006-01-02")) }
func (s *Stmt) SetTimeOfDay(pos int, v time.Time) error       { return s.set(pos, v.Format("15:04:05")) }
func (s *Stmt) SetTimestamp(pos int, v time.Time) error       { return s.set(pos, v.Format("2006-01-02 15:04:05")) }
func (s *Stmt) SetNull(pos int, sqlType string) error         { return s.set(pos, nil) }

func (s *Stmt) SetFetchSize(n int) error {
	s.fetchSize = n
	return nil
}

func (s *Stmt) ExecuteQuery(ctx context.Context) (ldbc.ResultSet, error) {
	rows, err := s.stmt.QueryContext(ctx, s.args...)
	if err != nil {
		return nil, classify(err)
	}
	return &ResultSet{rows: rows}, nil
}

func (s *Stmt) ExecuteUpdate(ctx context.Context) (int64, error) {
	res, err := s.stmt.ExecContext(ctx, s.args...)
	if err != nil {
		return 0, classify(err)
	}
	s.lastResult = res
	n, err := res.RowsAffected()
	return n, classify(err)
}

func (s *Stmt) GetGeneratedKeys(ctx context.Context) (ldbc.ResultSet, error) {
	if s.lastResult == nil {
		return nil, &ldbc.InvariantViolation{Reason: "GetGeneratedKeys called before ExecuteUpdate"}
	}
	id, err := s.lastResult.LastInsertId()
	if err != nil {
		return nil, classify(err)
	}
	return &singleRowResultSet{value: id}, nil
}

func (s *Stmt) AddBatch() error {
	return &ldbc.InvariantViolation{Reason: "mysqladapter: use Conn.ExecuteBatch for batch_raw"}
}

func (s *Stmt) ExecuteBatch(ctx context.Context) ([]int64, error) {
	return nil, &ldbc.InvariantViolation{Reason: "mysqladapter: use Conn.ExecuteBatch for batch_raw"}
}

func (s *Stmt) Close(ctx context.Context) error {
	return classify(s.stmt.Close())
}

var _ ldbc.PreparedStatement = (*Stmt)(nil)
