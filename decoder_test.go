package ldbc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow is a minimal RowReader over a slice of Primitive, for exercising
// decoder offset/composition laws without a real connection.
type fakeRow struct {
	cols    []Primitive
	lastNil bool
}

func (r *fakeRow) get(col int) Primitive {
	v := r.cols[col-1]
	_, r.lastNil = v.(Null)
	return v
}

func (r *fakeRow) GetBool(col int) (bool, error) {
	v, _ := r.get(col).(Bool)
	return bool(v), nil
}
func (r *fakeRow) GetInt8(col int) (int8, error) {
	v, _ := r.get(col).(Int8)
	return int8(v), nil
}
func (r *fakeRow) GetInt16(col int) (int16, error) {
	v, _ := r.get(col).(Int16)
	return int16(v), nil
}
func (r *fakeRow) GetInt32(col int) (int32, error) {
	v, _ := r.get(col).(Int32)
	return int32(v), nil
}
func (r *fakeRow) GetInt64(col int) (int64, error) {
	v, _ := r.get(col).(Int64)
	return int64(v), nil
}
func (r *fakeRow) GetFloat32(col int) (float32, error) {
	v, _ := r.get(col).(Float32)
	return float32(v), nil
}
func (r *fakeRow) GetFloat64(col int) (float64, error) {
	v, _ := r.get(col).(Float64)
	return float64(v), nil
}
func (r *fakeRow) GetDecimal(col int) (decimal.Decimal, error) {
	v, _ := r.get(col).(Decimal)
	return decimal.Decimal(v), nil
}
func (r *fakeRow) GetString(col int) (string, error) {
	v, _ := r.get(col).(String)
	return string(v), nil
}
func (r *fakeRow) GetBytes(col int) ([]byte, error) {
	v, _ := r.get(col).(Bytes)
	return []byte(v), nil
}
func (r *fakeRow) GetDate(col int) (time.Time, error) {
	v, _ := r.get(col).(Date)
	return time.Time(v), nil
}
func (r *fakeRow) GetTimeOfDay(col int) (time.Time, error) {
	v, _ := r.get(col).(TimeOfDay)
	return time.Time(v), nil
}
func (r *fakeRow) GetTimestamp(col int) (time.Time, error) {
	v, _ := r.get(col).(Timestamp)
	return time.Time(v), nil
}
func (r *fakeRow) WasNull() bool { return r.lastNil }

func TestProductDecoderOffsetAssociativity(t *testing.T) {
	row := &fakeRow{cols: []Primitive{Int32(1), String("a"), Int32(2)}}

	left := ProductDecoder(ProductDecoder(Int32Decoder, StringDecoder), Int32Decoder)
	right := ProductDecoder(Int32Decoder, ProductDecoder(StringDecoder, Int32Decoder))

	assert.Equal(t, left.Offset(), right.Offset())

	lv, err := left.Decode(1, row)
	require.NoError(t, err)
	rv, err := right.Decode(1, row)
	require.NoError(t, err)

	assert.Equal(t, lv.A.A, rv.A)
	assert.Equal(t, lv.A.B, rv.B.A)
	assert.Equal(t, lv.B, rv.B.B)
}

func TestMapDecoderIdentity(t *testing.T) {
	row := &fakeRow{cols: []Primitive{String("hello")}}
	mapped := MapDecoder(StringDecoder, func(s string) string { return s })

	direct, err := StringDecoder.Decode(1, row)
	require.NoError(t, err)
	viaMap, err := mapped.Decode(1, row)
	require.NoError(t, err)

	assert.Equal(t, direct, viaMap)
}

func TestOptionalDecoderNullProducesNilWithoutError(t *testing.T) {
	row := &fakeRow{cols: []Primitive{Null{SQLType: "VARCHAR"}}}
	opt := OptionalDecoder(StringDecoder)

	v, err := opt.Decode(1, row)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNonOptionalDecoderFailsOnNull(t *testing.T) {
	row := &fakeRow{cols: []Primitive{Null{SQLType: "VARCHAR"}}}

	_, err := StringDecoder.Decode(1, row)
	assert.Error(t, err)
}

func TestDecoderOffsetAdvancesNextRead(t *testing.T) {
	row := &fakeRow{cols: []Primitive{Int32(10), Int32(20)}}
	pair := ProductDecoder(Int32Decoder, Int32Decoder)

	v, err := pair.Decode(1, row)
	require.NoError(t, err)
	assert.Equal(t, int32(10), v.A)
	assert.Equal(t, int32(20), v.B)
	assert.Equal(t, 2, pair.Offset())
}
