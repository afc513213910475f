// Package ldbcjson gives JSON-typed columns an Encoder/Decoder pair riding
// the core string primitive, the way lib-pq's json.JSON wraps
// encoding/json behind a database/sql Scanner/Valuer pair for a single
// JSON column. This reimplements the same convenience against ldbc's own
// codec interfaces instead of database/sql's.
package ldbcjson

import (
	"encoding/json"
	"fmt"

	"github.com/takapi327/ldbc-go"
)

// Encoder marshals T to JSON text and binds it through the string
// primitive.
func Encoder[T any]() ldbc.Encoder[T] {
	return ldbc.NewEncoder(func(v T) ldbc.Encoded {
		return encode(v)
	})
}

func encode[T any](v T) ldbc.Encoded {
	b, err := json.Marshal(v)
	if err != nil {
		return ldbc.EncodeFailure("ldbcjson: marshal failed: " + err.Error())
	}
	return ldbc.StringEncoder.Encode(string(b))
}

// Decoder reads the string column and unmarshals it into T. Unlike
// MapDecoder, which has no way to fail, this is built directly from
// NewDecoder so a malformed column propagates as a decode error instead of
// silently producing a zero-value T.
func Decoder[T any]() ldbc.Decoder[T] {
	return ldbc.NewDecoder(ldbc.StringDecoder.Offset(), func(start int, r ldbc.RowReader) (T, error) {
		var v T
		s, err := ldbc.StringDecoder.Decode(start, r)
		if err != nil {
			return v, err
		}
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return v, fmt.Errorf("ldbcjson: unmarshal failed: %w", err)
		}
		return v, nil
	})
}
