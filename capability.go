package ldbc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Connection is the capability the interpreter consumes; it is never
// implemented by this repository's core, only by an adapter such as
// mysqladapter. Exactly one logical statement may be in flight on a
// Connection at a time — the Connector guarantees exclusivity, not the
// Connection itself.
type Connection interface {
	PrepareStatement(ctx context.Context, sql string) (PreparedStatement, error)
	PrepareStatementReturningKeys(ctx context.Context, sql string) (PreparedStatement, error)

	SetReadOnly(ctx context.Context, readOnly bool) error
	SetAutoCommit(ctx context.Context, autoCommit bool) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Close(ctx context.Context) error

	// ExecuteBatch runs each of statements in turn as a single batch of raw,
	// unparameterized SQL text and returns one affected-row count per
	// statement. Unlike PreparedStatement's AddBatch/ExecuteBatch (repeated
	// executions of one template with different bindings), batch_raw's
	// statements may each be entirely different text, so it is driven
	// directly off the Connection rather than a single PreparedStatement.
	ExecuteBatch(ctx context.Context, statements []string) ([]int64, error)

	Log() LogHandler
}

// PreparedStatement is a compiled SQL template with 1-based positional
// parameter slots, bound once per execution and released before the owning
// DBIO primitive completes.
type PreparedStatement interface {
	SetBool(pos int, v bool) error
	SetInt8(pos int, v int8) error
	SetInt16(pos int, v int16) error
	SetInt32(pos int, v int32) error
	SetInt64(pos int, v int64) error
	SetFloat32(pos int, v float32) error
	SetFloat64(pos int, v float64) error
	SetDecimal(pos int, v decimal.Decimal) error
	SetString(pos int, v string) error
	SetBytes(pos int, v []byte) error
	SetDate(pos int, v time.Time) error
	SetTimeOfDay(pos int, v time.Time) error
	SetTimestamp(pos int, v time.Time) error
	SetNull(pos int, sqlType string) error

	SetFetchSize(n int) error

	ExecuteQuery(ctx context.Context) (ResultSet, error)
	ExecuteUpdate(ctx context.Context) (int64, error)
	GetGeneratedKeys(ctx context.Context) (ResultSet, error)

	AddBatch() error
	ExecuteBatch(ctx context.Context) ([]int64, error)

	Close(ctx context.Context) error
}

// ResultSet is a forward-only row cursor. It embeds RowReader (decoder.go)
// so a Decoder can read directly from it once Next has been called.
type ResultSet interface {
	RowReader
	Next(ctx context.Context) (bool, error)
	Close(ctx context.Context) error
}

// LogEventKind distinguishes the three terminating log events a statement
// execution can produce.
type LogEventKind int

const (
	LogSuccess LogEventKind = iota
	LogProcessingFailure
	LogExecFailure
)

// LogEvent is emitted exactly once per terminating DBIO primitive.
type LogEvent struct {
	Kind   LogEventKind
	SQL    string
	Params []string // canonical textual rendering of each bound parameter, in order
	Cause  error     // nil for LogSuccess
}

// LogHandler is the sink the interpreter reports terminating events to. It
// must never block the interpreter on a logging failure — implementations
// that can fail (e.g. a network log shipper) should swallow their own
// errors internally.
type LogHandler interface {
	Log(event LogEvent)
}

// NoopLogHandler discards every event. Useful as a test default.
type NoopLogHandler struct{}

func (NoopLogHandler) Log(LogEvent) {}
