package mysqladapter

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/takapi327/ldbc-go"
)

// ResultSet adapts a *sql.Rows cursor to ldbc.ResultSet. Each Get* call
// re-scans the current row into a sql.Null* destination so WasNull reflects
// exactly the most recently read column, per the decoder contract's
// staleness requirement.
type ResultSet struct {
	rows    *sql.Rows
	cols    []string
	lastNil bool
}

func (r *ResultSet) Next(ctx context.Context) (bool, error) {
	ok := r.rows.Next()
	if !ok {
		return false, classify(r.rows.Err())
	}
	return true, nil
}

func (r *ResultSet) Close(ctx context.Context) error {
	return classify(r.rows.Close())
}

func (r *ResultSet) WasNull() bool { return r.lastNil }

func (r *ResultSet) scan(col int, dest any) error {
	n := r.width()
	dests := make([]any, n)
	for i := range dests {
		dests[i] = new(any)
	}
	dests[col-1] = dest
	return r.rows.Scan(dests...)
}

func (r *ResultSet) width() int {
	if r.cols == nil {
		cols, _ := r.rows.Columns()
		r.cols = cols
	}
	return len(r.cols)
}

func (r *ResultSet) GetBool(col int) (bool, error) {
	var v sql.NullBool
	err := r.scan(col, &v)
	r.lastNil = !v.Valid
	return v.Bool, classify(err)
}

func (r *ResultSet) GetInt8(col int) (int8, error) {
	v, err := r.GetInt64(col)
	return int8(v), err
}

func (r *ResultSet) GetInt16(col int) (int16, error) {
	v, err := r.GetInt64(col)
	return int16(v), err
}

func (r *ResultSet) GetInt32(col int) (int32, error) {
	v, err := r.GetInt64(col)
	return int32(v), err
}

func (r *ResultSet) GetInt64(col int) (int64, error) {
	var v sql.NullInt64
	err := r.scan(col, &v)
	r.lastNil = !v.Valid
	return v.Int64, classify(err)
}

func (r *ResultSet) GetFloat32(col int) (float32, error) {
	v, err := r.GetFloat64(col)
	return float32(v), err
}

func (r *ResultSet) GetFloat64(col int) (float64, error) {
	var v sql.NullFloat64
	err := r.scan(col, &v)
	r.lastNil = !v.Valid
	return v.Float64, classify(err)
}

func (r *ResultSet) GetDecimal(col int) (decimal.Decimal, error) {
	var v sql.NullString
	err := r.scan(col, &v)
	r.lastNil = !v.Valid
	if err != nil || !v.Valid {
		return decimal.Decimal{}, classify(err)
	}
	d, err := decimal.NewFromString(v.String)
	return d, err
}

func (r *ResultSet) GetString(col int) (string, error) {
	var v sql.NullString
	err := r.scan(col, &v)
	r.lastNil = !v.Valid
	return v.String, classify(err)
}

func (r *ResultSet) GetBytes(col int) ([]byte, error) {
	var v []byte
	err := r.scan(col, &v)
	r.lastNil = v == nil
	return v, classify(err)
}

func (r *ResultSet) GetDate(col int) (time.Time, error) {
	return r.getTime(col, "2006-01-02")
}

func (r *ResultSet) GetTimeOfDay(col int) (time.Time, error) {
	return r.getTime(col, "15:04:05")
}

func (r *ResultSet) GetTimestamp(col int) (time.Time, error) {
	return r.getTime(col, "2006-01-02 15:04:05")
}

func (r *ResultSet) getTime(col int, layout string) (time.Time, error) {
	var v sql.NullString
	err := r.scan(col, &v)
	r.lastNil = !v.Valid
	if err != nil || !v.Valid {
		return time.Time{}, classify(err)
	}
	t, err := time.Parse(layout, v.String)
	return t, err
}

// singleRowResultSet is the one-row ResultSet GetGeneratedKeys hands back,
// since database/sql exposes LastInsertId() directly rather than through a
// cursor.
type singleRowResultSet struct {
	value   int64
	visited bool
}

func (r *singleRowResultSet) Next(ctx context.Context) (bool, error) {
	if r.visited {
		return false, nil
	}
	r.visited = true
	return true, nil
}

func (r *singleRowResultSet) Close(ctx context.Context) error { return nil }
func (r *singleRowResultSet) WasNull() bool                    { return false }

func (r *singleRowResultSet) GetInt64(col int) (int64, error) { return r.value, nil }
func (r *singleRowResultSet) GetInt32(col int) (int32, error) { return int32(r.value), nil }
func (r *singleRowResultSet) GetInt16(col int) (int16, error) { return int16(r.value), nil }
func (r *singleRowResultSet) GetInt8(col int) (int8, error)   { return int8(r.value), nil }
func (r *singleRowResultSet) GetBool(col int) (bool, error)   { return r.value != 0, nil }
func (r *singleRowResultSet) GetFloat32(col int) (float32, error) {
	return float32(r.value), nil
}
func (r *singleRowResultSet) GetFloat64(col int) (float64, error) {
	return float64(r.value), nil
}
func (r *singleRowResultSet) GetDecimal(col int) (decimal.Decimal, error) {
	return decimal.NewFromInt(r.value), nil
}
func (r *singleRowResultSet) GetString(col int) (string, error) { return "", nil }
func (r *singleRowResultSet) GetBytes(col int) ([]byte, error)  { return nil, nil }
func (r *singleRowResultSet) GetDate(col int) (time.Time, error)      { return time.Time{}, nil }
func (r *singleRowResultSet) GetTimeOfDay(col int) (time.Time, error) { return time.Time{}, nil }
func (r *singleRowResultSet) GetTimestamp(col int) (time.Time, error) { return time.Time{}, nil }

var _ ldbc.ResultSet = (*ResultSet)(nil)
var _ ldbc.ResultSet = (*singleRowResultSet)(nil)
