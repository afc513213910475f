package ldbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductEncoderConcatenatesValues(t *testing.T) {
	pair := ProductEncoder(Int32Encoder, StringEncoder)
	result := pair.Encode(struct {
		A int32
		B string
	}{A: 3, B: "z"})

	assert.True(t, result.Ok())
	assert.Equal(t, []Primitive{Int32(3), String("z")}, result.Values())
}

func TestProductEncoderAggregatesBothFailures(t *testing.T) {
	alwaysFails := NewEncoder(func(int) Encoded { return EncodeFailure("left failed") })
	alsoFails := NewEncoder(func(int) Encoded { return EncodeFailure("right failed") })
	pair := ProductEncoder(alwaysFails, alsoFails)

	result := pair.Encode(struct {
		A int
		B int
	}{})

	assert.False(t, result.Ok())
	assert.ElementsMatch(t, []string{"left failed", "right failed"}, result.Errors())
}

func TestOptionalEncoderNilProducesNull(t *testing.T) {
	opt := OptionalEncoder(StringEncoder, "VARCHAR")
	result := opt.Encode(nil)

	assert.True(t, result.Ok())
	assert.Equal(t, []Primitive{Null{SQLType: "VARCHAR"}}, result.Values())
}

func TestMapAdaptsEncoderToOuterType(t *testing.T) {
	type user struct{ Name string }
	nameEncoder := Map(StringEncoder, func(u user) string { return u.Name })

	result := nameEncoder.Encode(user{Name: "Bob"})

	assert.True(t, result.Ok())
	assert.Equal(t, []Primitive{String("Bob")}, result.Values())
}
