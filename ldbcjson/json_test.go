package ldbcjson_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takapi327/ldbc-go"
	"github.com/takapi327/ldbc-go/ldbcjson"
)

type payload struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestEncoderMarshalsValueThroughStringPrimitive(t *testing.T) {
	enc := ldbcjson.Encoder[payload]()
	got := enc.Encode(payload{Name: "Alice", Age: 30})

	require.True(t, got.Ok())
	require.Len(t, got.Values(), 1)
	assert.Equal(t, ldbc.String(`{"name":"Alice","age":30}`), got.Values()[0])
}

func TestEncoderFailsOnUnmarshalableValue(t *testing.T) {
	enc := ldbcjson.Encoder[chan int]()
	got := enc.Encode(make(chan int))

	assert.False(t, got.Ok())
	require.NotEmpty(t, got.Errors())
}

// stringColumnRow is a minimal RowReader that only ever stores a string
// column, for exercising the JSON decoder without pulling in the wider
// test fixtures of the core package.
type stringColumnRow struct {
	value string
}

func (r *stringColumnRow) GetBool(int) (bool, error)       { return false, nil }
func (r *stringColumnRow) GetInt8(int) (int8, error)       { return 0, nil }
func (r *stringColumnRow) GetInt16(int) (int16, error)     { return 0, nil }
func (r *stringColumnRow) GetInt32(int) (int32, error)     { return 0, nil }
func (r *stringColumnRow) GetInt64(int) (int64, error)     { return 0, nil }
func (r *stringColumnRow) GetFloat32(int) (float32, error) { return 0, nil }
func (r *stringColumnRow) GetFloat64(int) (float64, error) { return 0, nil }
func (r *stringColumnRow) GetDecimal(int) (decimal.Decimal, error) {
	return decimal.Decimal{}, nil
}
func (r *stringColumnRow) GetString(int) (string, error) { return r.value, nil }
func (r *stringColumnRow) GetBytes(int) ([]byte, error)  { return nil, nil }
func (r *stringColumnRow) GetDate(int) (time.Time, error)       { return time.Time{}, nil }
func (r *stringColumnRow) GetTimeOfDay(int) (time.Time, error)  { return time.Time{}, nil }
func (r *stringColumnRow) GetTimestamp(int) (time.Time, error)  { return time.Time{}, nil }
func (r *stringColumnRow) WasNull() bool                        { return false }

func TestDecoderRoundTripsThroughEncoder(t *testing.T) {
	enc := ldbcjson.Encoder[payload]()
	encoded := enc.Encode(payload{Name: "Bob", Age: 41})
	require.True(t, encoded.Ok())

	s, ok := encoded.Values()[0].(ldbc.String)
	require.True(t, ok)

	row := &stringColumnRow{value: string(s)}
	got, err := ldbcjson.Decoder[payload]().Decode(1, row)
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Bob", Age: 41}, got)
}

func TestDecoderPropagatesMalformedJSONAsError(t *testing.T) {
	row := &stringColumnRow{value: `{"name": "Bob", "age":`} // truncated
	_, err := ldbcjson.Decoder[payload]().Decode(1, row)
	require.Error(t, err, "malformed JSON must not silently decode to a zero value")
}
