package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitsOnes(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		n      int
		expect Bits
	}{
		{-1, Bits{}},
		{0, Bits{}},
		{1, Bits{Lo: 1}},
		{8, Bits{Lo: 0xff}},
		{63, Bits{Lo: 0x7fff_ffff_ffff_ffff}},
		{64, Bits{Lo: ^uint64(0)}},
		{65, Bits{Hi: 1, Lo: ^uint64(0)}},
		{128, Bits{Hi: ^uint64(0), Lo: ^uint64(0)}},
		{200, Bits{Hi: ^uint64(0), Lo: ^uint64(0)}},
	}

	for _, entry := range table {
		ones := Ones(entry.n)
		assert.Equal(entry.expect, ones, "Ones(%d)", entry.n)
		assert.Equal(max(0, min(entry.n, MaxBitSize)), ones.OnesCount(), "Ones(%d)", entry.n)
	}
}

func TestBitsShift(t *testing.T) {
	assert := assert.New(t)

	one := BitsOf(1)
	assert.Equal(Bits{Lo: 1 << 63}, one.Shl(63))
	assert.Equal(Bits{Hi: 1}, one.Shl(64))
	assert.Equal(Bits{Hi: 1 << 63}, one.Shl(127))
	assert.Equal(Bits{}, one.Shl(128))
	assert.Equal(one, one.Shl(0))

	assert.Equal(Bits{Hi: 0xf, Lo: 0xf000_0000_0000_0000}, BitsOf(0xff).Shl(60))
	assert.Equal(BitsOf(0xff), Bits{Hi: 0xf, Lo: 0xf000_0000_0000_0000}.Shr(60))
	assert.Equal(BitsOf(1), Bits{Hi: 1}.Shr(64))
	assert.Equal(Bits{}, Bits{Hi: 1}.Shr(128))
}

func TestBitsOps(t *testing.T) {
	assert := assert.New(t)

	a := BitsOf(0b1100)
	b := BitsOf(0b1010)

	assert.Equal(BitsOf(0b1110), a.Or(b))
	assert.Equal(BitsOf(0b1000), a.And(b))
	assert.Equal(BitsOf(0b0110), a.Xor(b))
	assert.Equal(BitsOf(0b0100), a.AndNot(b))
	assert.True(a.Overlaps(b))
	assert.False(a.Overlaps(BitsOf(0b0011)))
	assert.True(Bits{}.IsZero())
	assert.True(Ones(MaxBitSize).Not().IsZero())

	assert.True(a.Bit(2))
	assert.False(a.Bit(0))
	assert.False(a.Bit(-1))
	assert.False(a.Bit(MaxBitSize))
	assert.True(Bits{Hi: 2}.Bit(65))

	assert.Equal([]int{2, 3}, a.Positions())
	assert.Equal([]int{0, 64}, Bits{Hi: 1, Lo: 1}.Positions())
	assert.Nil(Bits{}.Positions())
	assert.Equal(uint64(0b1100), a.Uint64())
}

func TestBitsString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0x0", Bits{}.String())
	assert.Equal("0xc0", BitsOf(0xc0).String())
	assert.Equal("0x10000000000000001", Bits{Hi: 1, Lo: 1}.String())
	assert.Equal("0-3,7", bitList(BitsOf(0x8f)))
	assert.Equal("7", bitList(BitsOf(0x80)))
	assert.Equal("", bitList(Bits{}))
}
