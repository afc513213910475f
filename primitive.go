package ldbc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Primitive is the closed interchange currency between Encoders, a
// Connection's parameter binder, and Decoders. Every value that crosses the
// codec boundary is one of the concrete types below; the set is intentionally
// closed so the binder in interpreter.go can switch over it exhaustively.
type Primitive interface {
	isPrimitive()
}

type (
	Bool      bool
	Int8      int8
	Int16     int16
	Int32     int32
	Int64     int64
	Float32   float32
	Float64   float64
	Decimal   decimal.Decimal
	String    string
	Bytes     []byte
	Date      time.Time // Y-M-D only; time-of-day components are ignored
	TimeOfDay time.Time // time-of-day only; date components are ignored
	Timestamp time.Time // naive datetime, no zone semantics imposed

	// Null is the explicit null sentinel. SQLType names the column type the
	// typed null setter should be told about (e.g. "VARCHAR", "BIGINT"), so a
	// driver that needs a type tag to bind NULL correctly still gets one.
	Null struct {
		SQLType string
	}
)

func (Bool) isPrimitive()      {}
func (Int8) isPrimitive()      {}
func (Int16) isPrimitive()     {}
func (Int32) isPrimitive()     {}
func (Int64) isPrimitive()     {}
func (Float32) isPrimitive()   {}
func (Float64) isPrimitive()   {}
func (Decimal) isPrimitive()   {}
func (String) isPrimitive()    {}
func (Bytes) isPrimitive()     {}
func (Date) isPrimitive()      {}
func (TimeOfDay) isPrimitive() {}
func (Timestamp) isPrimitive() {}
func (Null) isPrimitive()      {}
