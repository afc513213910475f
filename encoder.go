package ldbc

// Encoded is the result of running an Encoder: either the ordered primitives
// the value maps to, or a non-empty list of messages explaining why encoding
// failed. Both fields are never set at once.
type Encoded struct {
	values []Primitive
	errs   []string
}

// Ok reports whether encoding succeeded.
func (e Encoded) Ok() bool { return e.errs == nil }

// Values returns the encoded primitives. Meaningless if !Ok().
func (e Encoded) Values() []Primitive { return e.values }

// Errors returns the failure messages. Empty if Ok().
func (e Encoded) Errors() []string { return e.errs }

func success(values ...Primitive) Encoded { return Encoded{values: values} }
func failure(msgs ...string) Encoded      { return Encoded{errs: msgs} }

// EncodeSuccess and EncodeFailure are the public constructors for Encoded,
// for encoders built outside this package (e.g. ldbcjson) that need to
// report a failure without the driver ever seeing it.
func EncodeSuccess(values ...Primitive) Encoded { return success(values...) }
func EncodeFailure(msgs ...string) Encoded      { return failure(msgs...) }

// Encoder turns a value of T into an ordered sequence of Primitives, or
// fails with one or more messages. Encoders are process-lifetime values:
// build one per type, reuse it.
type Encoder[T any] struct {
	encode func(T) Encoded
}

// NewEncoder builds an Encoder from its encode function.
func NewEncoder[T any](f func(T) Encoded) Encoder[T] {
	return Encoder[T]{encode: f}
}

// Encode runs the encoder.
func (e Encoder[T]) Encode(v T) Encoded { return e.encode(v) }

// Map adapts an Encoder[T] to accept a U by applying f first — the
// contramap direction, named Map here to read naturally at call sites
// ("encode this field by mapping the struct down to its column value").
func Map[U, T any](e Encoder[T], f func(U) T) Encoder[U] {
	return NewEncoder(func(u U) Encoded {
		return e.Encode(f(u))
	})
}

// ProductEncoder composes two encoders so that encoding a pair encodes each
// side and concatenates the results. If either side fails, the combined
// result carries both sides' messages — neither side's errors are ever
// dropped.
func ProductEncoder[A, B any](ea Encoder[A], eb Encoder[B]) Encoder[struct {
	A A
	B B
}] {
	return NewEncoder(func(v struct {
		A A
		B B
	}) Encoded {
		ra := ea.Encode(v.A)
		rb := eb.Encode(v.B)
		if ra.Ok() && rb.Ok() {
			return success(append(append([]Primitive{}, ra.values...), rb.values...)...)
		}
		return failure(append(append([]string{}, ra.errs...), rb.errs...)...)
	})
}

// OptionalEncoder lifts an Encoder[T] to accept a *T: nil encodes to a single
// Null primitive tagged with sqlType; non-nil delegates to the inner encoder.
func OptionalEncoder[T any](inner Encoder[T], sqlType string) Encoder[*T] {
	return NewEncoder(func(v *T) Encoded {
		if v == nil {
			return success(Null{SQLType: sqlType})
		}
		return inner.Encode(*v)
	})
}

// Built-in encoders for the supported primitive set. Each is a one-value
// encoder; compose them with Map/ProductEncoder for records.

var (
	BoolEncoder      = NewEncoder(func(v bool) Encoded { return success(Bool(v)) })
	Int8Encoder      = NewEncoder(func(v int8) Encoded { return success(Int8(v)) })
	Int16Encoder     = NewEncoder(func(v int16) Encoded { return success(Int16(v)) })
	Int32Encoder     = NewEncoder(func(v int32) Encoded { return success(Int32(v)) })
	Int64Encoder     = NewEncoder(func(v int64) Encoded { return success(Int64(v)) })
	Float32Encoder   = NewEncoder(func(v float32) Encoded { return success(Float32(v)) })
	Float64Encoder   = NewEncoder(func(v float64) Encoded { return success(Float64(v)) })
	StringEncoder    = NewEncoder(func(v string) Encoded { return success(String(v)) })
	BytesEncoder     = NewEncoder(func(v []byte) Encoded { return success(Bytes(v)) })
)
