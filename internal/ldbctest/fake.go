// Package ldbctest provides an in-memory stand-in for a live MySQL
// connection, table-driven over Go values instead of wire bytes. It plays
// the role internal/pqtest.Fake plays for lib-pq's driver tests — a hand
// built double for the capability layer the interpreter depends on — but
// since ldbc.Connection is a small Go interface rather than a wire
// protocol, the fake implements it directly with no socket involved.
package ldbctest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/takapi327/ldbc-go"
)

// Row is one canned result row, one entry per column in selection order.
type Row []ldbc.Primitive

// Script describes what a given SQL text should do when executed as a
// query: the rows to hand back, or an error to fail with instead.
type Script struct {
	Rows []Row
	Err  error
}

// UpdateScript describes what a given SQL text should do when executed as
// an update: the affected-row count, or an error.
type UpdateScript struct {
	Affected int64
	Err      error
}

// BatchFailure describes a batch that fails partway through: Counts holds
// one entry per statement that completed before Err aborted the rest.
type BatchFailure struct {
	Counts []int64
	Err    error
}

// Conn is the fake ldbc.Connection. Build one with NewConn (the zero value
// has nil maps and no Handler, so it is not usable); register behavior for
// specific SQL text via the exported maps before running a program against
// it.
type Conn struct {
	Queries       map[string]Script
	Updates       map[string]UpdateScript
	GeneratedKeys map[string]Script
	Batches       map[string][]int64 // keyed by the joined "; "-separated statement text
	BatchErr      error

	// BatchFailures registers a partial-failure outcome for a specific
	// joined statement key: ExecuteBatch returns Counts (whatever the batch
	// completed before the failing statement) alongside Err, instead of
	// nil counts, the way a real batch driver reports partial progress.
	BatchFailures map[string]BatchFailure

	Handler ldbc.LogHandler

	ReadOnly      bool
	AutoCommit    bool
	Committed     int
	RolledBack    int
	Closed        bool

	// FetchSizes records the fetch size passed for each streamed SQL text,
	// for asserting the fetch-size precondition was honored.
	FetchSizes map[string]int
}

// NewConn builds an empty fake connection ready to have scripts registered.
func NewConn() *Conn {
	return &Conn{
		Queries:       map[string]Script{},
		Updates:       map[string]UpdateScript{},
		GeneratedKeys: map[string]Script{},
		Batches:       map[string][]int64{},
		BatchFailures: map[string]BatchFailure{},
		Handler:       ldbc.NoopLogHandler{},
		AutoCommit:    true,
		FetchSizes:    map[string]int{},
	}
}

func (c *Conn) PrepareStatement(ctx context.Context, sql string) (ldbc.PreparedStatement, error) {
	return &stmt{conn: c, sql: sql}, nil
}

func (c *Conn) PrepareStatementReturningKeys(ctx context.Context, sql string) (ldbc.PreparedStatement, error) {
	return &stmt{conn: c, sql: sql, returningKeys: true}, nil
}

func (c *Conn) SetReadOnly(ctx context.Context, readOnly bool) error {
	c.ReadOnly = readOnly
	return nil
}

func (c *Conn) SetAutoCommit(ctx context.Context, autoCommit bool) error {
	c.AutoCommit = autoCommit
	return nil
}

func (c *Conn) Commit(ctx context.Context) error {
	c.Committed++
	return nil
}

func (c *Conn) Rollback(ctx context.Context) error {
	c.RolledBack++
	return nil
}

func (c *Conn) Close(ctx context.Context) error {
	c.Closed = true
	return nil
}

func (c *Conn) ExecuteBatch(ctx context.Context, statements []string) ([]int64, error) {
	key := joinKey(statements)
	if bf, ok := c.BatchFailures[key]; ok {
		return bf.Counts, bf.Err
	}
	if c.BatchErr != nil {
		return nil, c.BatchErr
	}
	if counts, ok := c.Batches[key]; ok {
		return counts, nil
	}
	return nil, fmt.Errorf("ldbctest: no batch script registered for %v", statements)
}

func (c *Conn) Log() ldbc.LogHandler { return c.Handler }

func joinKey(statements []string) string {
	out := ""
	for i, s := range statements {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}

type stmt struct {
	conn          *Conn
	sql           string
	returningKeys bool
	fetchSize     int
	bound         []any
	closed        bool
}

func (s *stmt) set(pos int, v any) error {
	for len(s.bound) < pos {
		s.bound = append(s.bound, nil)
	}
	s.bound[pos-1] = v
	return nil
}

func (s *stmt) SetBool(pos int, v bool) error                     { return s.set(pos, v) }
func (s *stmt) SetInt8(pos int, v int8) error                     { return s.set(pos, v) }
func (s *stmt) SetInt16(pos int, v int16) error                   { return s.set(pos, v) }
func (s *stmt) SetInt32(pos int, v int32) error                   { return s.set(pos, v) }
func (s *stmt) SetInt64(pos int, v int64) error                   { return s.set(pos, v) }
func (s *stmt) SetFloat32(pos int, v float32) error                { return s.set(pos, v) }
func (s *stmt) SetFloat64(pos int, v float64) error                { return s.set(pos, v) }
func (s *stmt) SetDecimal(pos int, v decimal.Decimal) error        { return s.set(pos, v) }
func (s *stmt) SetString(pos int, v string) error                  { return s.set(pos, v) }
func (s *stmt) SetBytes(pos int, v []byte) error                   { return s.set(pos, v) }
func (s *stmt) SetDate(pos int, v time.Time) error                  { return s.set(pos, v) }
func (s *stmt) SetTimeOfDay(pos int, v time.Time) error             { return s.set(pos, v) }
func (s *stmt) SetTimestamp(pos int, v time.Time) error             { return s.set(pos, v) }
func (s *stmt) SetNull(pos int, sqlType string) error               { return s.set(pos, nil) }

func (s *stmt) SetFetchSize(n int) error {
	s.fetchSize = n
	s.conn.FetchSizes[s.sql] = n
	return nil
}

func (s *stmt) ExecuteQuery(ctx context.Context) (ldbc.ResultSet, error) {
	script, ok := s.conn.Queries[s.sql]
	if !ok {
		return nil, fmt.Errorf("ldbctest: no query script registered for %q", s.sql)
	}
	if script.Err != nil {
		return nil, script.Err
	}
	return &resultSet{rows: script.Rows, idx: -1}, nil
}

func (s *stmt) ExecuteUpdate(ctx context.Context) (int64, error) {
	script, ok := s.conn.Updates[s.sql]
	if !ok {
		return 0, fmt.Errorf("ldbctest: no update script registered for %q", s.sql)
	}
	return script.Affected, script.Err
}

func (s *stmt) GetGeneratedKeys(ctx context.Context) (ldbc.ResultSet, error) {
	script, ok := s.conn.GeneratedKeys[s.sql]
	if !ok {
		return nil, fmt.Errorf("ldbctest: no generated-keys script registered for %q", s.sql)
	}
	if script.Err != nil {
		return nil, script.Err
	}
	return &resultSet{rows: script.Rows, idx: -1}, nil
}

func (s *stmt) AddBatch() error { return nil }

func (s *stmt) ExecuteBatch(ctx context.Context) ([]int64, error) {
	return s.conn.ExecuteBatch(ctx, []string{s.sql})
}

func (s *stmt) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

type resultSet struct {
	rows    []Row
	idx     int
	lastNil bool
	closed  bool
}

func (r *resultSet) Next(ctx context.Context) (bool, error) {
	r.idx++
	return r.idx < len(r.rows), nil
}

func (r *resultSet) Close(ctx context.Context) error {
	r.closed = true
	return nil
}

func (r *resultSet) col(i int) ldbc.Primitive {
	v := r.rows[r.idx][i-1]
	if _, ok := v.(ldbc.Null); ok {
		r.lastNil = true
	} else {
		r.lastNil = false
	}
	return v
}

func (r *resultSet) WasNull() bool { return r.lastNil }

func (r *resultSet) GetBool(col int) (bool, error) {
	v, ok := r.col(col).(ldbc.Bool)
	if !ok {
		return false, nil
	}
	return bool(v), nil
}

func (r *resultSet) GetInt8(col int) (int8, error) {
	v, ok := r.col(col).(ldbc.Int8)
	if !ok {
		return 0, nil
	}
	return int8(v), nil
}

func (r *resultSet) GetInt16(col int) (int16, error) {
	v, ok := r.col(col).(ldbc.Int16)
	if !ok {
		return 0, nil
	}
	return int16(v), nil
}

func (r *resultSet) GetInt32(col int) (int32, error) {
	v, ok := r.col(col).(ldbc.Int32)
	if !ok {
		return 0, nil
	}
	return int32(v), nil
}

func (r *resultSet) GetInt64(col int) (int64, error) {
	v, ok := r.col(col).(ldbc.Int64)
	if !ok {
		return 0, nil
	}
	return int64(v), nil
}

func (r *resultSet) GetFloat32(col int) (float32, error) {
	v, ok := r.col(col).(ldbc.Float32)
	if !ok {
		return 0, nil
	}
	return float32(v), nil
}

func (r *resultSet) GetFloat64(col int) (float64, error) {
	v, ok := r.col(col).(ldbc.Float64)
	if !ok {
		return 0, nil
	}
	return float64(v), nil
}

func (r *resultSet) GetDecimal(col int) (decimal.Decimal, error) {
	v, ok := r.col(col).(ldbc.Decimal)
	if !ok {
		return decimal.Decimal{}, nil
	}
	return decimal.Decimal(v), nil
}

func (r *resultSet) GetString(col int) (string, error) {
	v, ok := r.col(col).(ldbc.String)
	if !ok {
		return "", nil
	}
	return string(v), nil
}

func (r *resultSet) GetBytes(col int) ([]byte, error) {
	v, ok := r.col(col).(ldbc.Bytes)
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (r *resultSet) GetDate(col int) (time.Time, error) {
	v, ok := r.col(col).(ldbc.Date)
	if !ok {
		return time.Time{}, nil
	}
	return time.Time(v), nil
}

func (r *resultSet) GetTimeOfDay(col int) (time.Time, error) {
	v, ok := r.col(col).(ldbc.TimeOfDay)
	if !ok {
		return time.Time{}, nil
	}
	return time.Time(v), nil
}

func (r *resultSet) GetTimestamp(col int) (time.Time, error) {
	v, ok := r.col(col).(ldbc.Timestamp)
	if !ok {
		return time.Time{}, nil
	}
	return time.Time(v), nil
}

// RecordingHandler collects every LogEvent it receives, for assertions.
type RecordingHandler struct {
	Events []ldbc.LogEvent
}

func (h *RecordingHandler) Log(event ldbc.LogEvent) {
	h.Events = append(h.Events, event)
}

var _ ldbc.Connection = (*Conn)(nil)
var _ ldbc.PreparedStatement = (*stmt)(nil)
var _ ldbc.ResultSet = (*resultSet)(nil)
