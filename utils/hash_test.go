package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU64(t *testing.T) {
	a := U64("age IN (:c1_0)")
	b := U64("age IN (:c1_0)")
	c := U64("age IN (:c2_0)")

	assert.Equal(t, a, b, "same input must hash identically")
	assert.NotEqual(t, a, c, "different inputs should not collide")
	assert.NotZero(t, a)
}

func TestMix64(t *testing.T) {
	ab := Mix64(U64("a"), U64("b"))
	ba := Mix64(U64("b"), U64("a"))

	assert.NotEqual(t, ab, ba, "mix must be order sensitive")
	assert.Equal(t, ab, Mix64(U64("a"), U64("b")))
	assert.NotEqual(t, Mix64(1), Mix64(1, 0), "arity must affect the result")
}

func TestU64ToBytes(t *testing.T) {
	b := U64ToBytes(0x0102030405060708)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, b)
}
