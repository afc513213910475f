package ldbc

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowReader is the column-access surface a Decoder reads from. It is
// satisfied by a ResultSet (see capability.go) positioned on the current
// row; decoders never advance the cursor themselves.
type RowReader interface {
	GetBool(col int) (bool, error)
	GetInt8(col int) (int8, error)
	GetInt16(col int) (int16, error)
	GetInt32(col int) (int32, error)
	GetInt64(col int) (int64, error)
	GetFloat32(col int) (float32, error)
	GetFloat64(col int) (float64, error)
	GetDecimal(col int) (decimal.Decimal, error)
	GetString(col int) (string, error)
	GetBytes(col int) ([]byte, error)
	GetDate(col int) (time.Time, error)
	GetTimeOfDay(col int) (time.Time, error)
	GetTimestamp(col int) (time.Time, error)
	WasNull() bool
}

// Decoder reads T starting at a given 1-based column and reports how many
// columns it consumed (Offset). Decoders are process-lifetime values,
// composed by Map and ProductDecoder the same way Encoders are.
type Decoder[T any] struct {
	decode func(start int, r RowReader) (T, error)
	offset int
}

// NewDecoder builds a Decoder from its decode function and fixed width.
func NewDecoder[T any](offset int, f func(start int, r RowReader) (T, error)) Decoder[T] {
	return Decoder[T]{decode: f, offset: offset}
}

// Decode reads T starting at the given 1-based column.
func (d Decoder[T]) Decode(start int, r RowReader) (T, error) { return d.decode(start, r) }

// Offset is the number of columns this decoder consumes.
func (d Decoder[T]) Offset() int { return d.offset }

// MapDecoder transforms a Decoder[T] into a Decoder[U] via f. f must be
// total over whatever values the inner decoder can produce.
func MapDecoder[T, U any](d Decoder[T], f func(T) U) Decoder[U] {
	return NewDecoder(d.offset, func(start int, r RowReader) (U, error) {
		var zero U
		v, err := d.decode(start, r)
		if err != nil {
			return zero, err
		}
		return f(v), nil
	})
}

// ProductDecoder composes two decoders so that the second starts right
// after the first ends — the offset arithmetic that gives nested product
// decoders their associativity.
func ProductDecoder[A, B any](da Decoder[A], db Decoder[B]) Decoder[struct {
	A A
	B B
}] {
	return NewDecoder(da.offset+db.offset, func(start int, r RowReader) (struct {
		A A
		B B
	}, error) {
		var zero struct {
			A A
			B B
		}
		a, err := da.decode(start, r)
		if err != nil {
			return zero, err
		}
		b, err := db.decode(start+da.offset, r)
		if err != nil {
			return zero, err
		}
		return struct {
			A A
			B B
		}{a, b}, nil
	})
}

// OptionalDecoder lifts a Decoder[T] to *T: it runs the inner decoder, and
// if WasNull then reports the column as NULL it produces nil, discarding the
// inner decoder's unexpected-NULL error.
func OptionalDecoder[T any](inner Decoder[T]) Decoder[*T] {
	return NewDecoder(inner.offset, func(start int, r RowReader) (*T, error) {
		v, err := inner.decode(start, r)
		if r.WasNull() {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
}

// Built-in decoders for the supported primitive set, each of width 1.

var (
	BoolDecoder = NewDecoder(1, func(start int, r RowReader) (bool, error) {
		v, err := r.GetBool(start)
		if checkNull(r, err) {
			return false, errUnexpectedNull("bool")
		}
		return v, err
	})
	Int8Decoder = NewDecoder(1, func(start int, r RowReader) (int8, error) {
		v, err := r.GetInt8(start)
		if checkNull(r, err) {
			return 0, errUnexpectedNull("int8")
		}
		return v, err
	})
	Int16Decoder = NewDecoder(1, func(start int, r RowReader) (int16, error) {
		v, err := r.GetInt16(start)
		if checkNull(r, err) {
			return 0, errUnexpectedNull("int16")
		}
		return v, err
	})
	Int32Decoder = NewDecoder(1, func(start int, r RowReader) (int32, error) {
		v, err := r.GetInt32(start)
		if checkNull(r, err) {
			return 0, errUnexpectedNull("int32")
		}
		return v, err
	})
	Int64Decoder = NewDecoder(1, func(start int, r RowReader) (int64, error) {
		v, err := r.GetInt64(start)
		if checkNull(r, err) {
			return 0, errUnexpectedNull("int64")
		}
		return v, err
	})
	Float32Decoder = NewDecoder(1, func(start int, r RowReader) (float32, error) {
		v, err := r.GetFloat32(start)
		if checkNull(r, err) {
			return 0, errUnexpectedNull("float32")
		}
		return v, err
	})
	Float64Decoder = NewDecoder(1, func(start int, r RowReader) (float64, error) {
		v, err := r.GetFloat64(start)
		if checkNull(r, err) {
			return 0, errUnexpectedNull("float64")
		}
		return v, err
	})
	DecimalDecoder = NewDecoder(1, func(start int, r RowReader) (decimal.Decimal, error) {
		v, err := r.GetDecimal(start)
		if checkNull(r, err) {
			return decimal.Decimal{}, errUnexpectedNull("decimal")
		}
		return v, err
	})
	StringDecoder = NewDecoder(1, func(start int, r RowReader) (string, error) {
		v, err := r.GetString(start)
		if checkNull(r, err) {
			return "", errUnexpectedNull("string")
		}
		return v, err
	})
	BytesDecoder = NewDecoder(1, func(start int, r RowReader) ([]byte, error) {
		v, err := r.GetBytes(start)
		if checkNull(r, err) {
			return nil, errUnexpectedNull("[]byte")
		}
		return v, err
	})
	DateDecoder = NewDecoder(1, func(start int, r RowReader) (time.Time, error) {
		v, err := r.GetDate(start)
		if checkNull(r, err) {
			return time.Time{}, errUnexpectedNull("date")
		}
		return v, err
	})
	TimeOfDayDecoder = NewDecoder(1, func(start int, r RowReader) (time.Time, error) {
		v, err := r.GetTimeOfDay(start)
		if checkNull(r, err) {
			return time.Time{}, errUnexpectedNull("time")
		}
		return v, err
	})
	TimestampDecoder = NewDecoder(1, func(start int, r RowReader) (time.Time, error) {
		v, err := r.GetTimestamp(start)
		if checkNull(r, err) {
			return time.Time{}, errUnexpectedNull("timestamp")
		}
		return v, err
	})
)

func checkNull(r RowReader, err error) bool {
	return err == nil && r.WasNull()
}

func errUnexpectedNull(typ string) error {
	return &unexpectedNullError{typ: typ}
}

type unexpectedNullError struct{ typ string }

func (e *unexpectedNullError) Error() string {
	return "unexpected NULL for non-optional " + e.typ + " column"
}
