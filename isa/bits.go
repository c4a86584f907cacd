package isa

import (
	"fmt"
	"math/bits"
)

// MaxBitSize is the widest instruction word that can be described.
const MaxBitSize = 128

// Bits is a 128-bit mask over an instruction word. Bit 0 is the least
// significant bit. The zero value has no bits set.
type Bits struct {
	Hi uint64 // Bits 64..127
	Lo uint64 // Bits 0..63
}

// BitsOf returns a mask from a 64-bit value.
func BitsOf(value uint64) Bits {
	return Bits{Lo: value}
}

// Ones returns a mask with the low n bits set.
func Ones(n int) Bits {
	switch {
	case n <= 0:
		return Bits{}
	case n >= 128:
		return Bits{Hi: ^uint64(0), Lo: ^uint64(0)}
	case n >= 64:
		return Bits{Hi: (uint64(1) << (n - 64)) - 1, Lo: ^uint64(0)}
	default:
		return Bits{Lo: (uint64(1) << n) - 1}
	}
}

// Shl shifts the mask left by n bits.
func (b Bits) Shl(n int) Bits {
	switch {
	case n <= 0:
		return b
	case n >= 128:
		return Bits{}
	case n >= 64:
		return Bits{Hi: b.Lo << (n - 64)}
	default:
		return Bits{Hi: b.Hi<<n | b.Lo>>(64-n), Lo: b.Lo << n}
	}
}

// Shr shifts the mask right by n bits.
func (b Bits) Shr(n int) Bits {
	switch {
	case n <= 0:
		return b
	case n >= 128:
		return Bits{}
	case n >= 64:
		return Bits{Lo: b.Hi >> (n - 64)}
	default:
		return Bits{Hi: b.Hi >> n, Lo: b.Lo>>n | b.Hi<<(64-n)}
	}
}

func (b Bits) Or(o Bits) Bits {
	return Bits{Hi: b.Hi | o.Hi, Lo: b.Lo | o.Lo}
}

func (b Bits) And(o Bits) Bits {
	return Bits{Hi: b.Hi & o.Hi, Lo: b.Lo & o.Lo}
}

func (b Bits) Xor(o Bits) Bits {
	return Bits{Hi: b.Hi ^ o.Hi, Lo: b.Lo ^ o.Lo}
}

// AndNot clears the bits of o from b.
func (b Bits) AndNot(o Bits) Bits {
	return Bits{Hi: b.Hi &^ o.Hi, Lo: b.Lo &^ o.Lo}
}

func (b Bits) Not() Bits {
	return Bits{Hi: ^b.Hi, Lo: ^b.Lo}
}

// IsZero reports whether no bits are set.
func (b Bits) IsZero() bool {
	return b.Hi == 0 && b.Lo == 0
}

// Overlaps reports whether b and o share any set bit.
func (b Bits) Overlaps(o Bits) bool {
	return !b.And(o).IsZero()
}

// Bit reports whether bit n is set.
func (b Bits) Bit(n int) bool {
	switch {
	case n < 0 || n >= 128:
		return false
	case n >= 64:
		return b.Hi&(uint64(1)<<(n-64)) != 0
	default:
		return b.Lo&(uint64(1)<<n) != 0
	}
}

// OnesCount returns the number of set bits.
func (b Bits) OnesCount() int {
	return bits.OnesCount64(b.Hi) + bits.OnesCount64(b.Lo)
}

// Positions returns the set bit positions in ascending order.
func (b Bits) Positions() (pos []int) {
	for n := range MaxBitSize {
		if b.Bit(n) {
			pos = append(pos, n)
		}
	}
	return
}

// Uint64 returns the low 64 bits.
func (b Bits) Uint64() uint64 {
	return b.Lo
}

// String returns the mask in hexadecimal.
func (b Bits) String() string {
	if b.Hi == 0 {
		return fmt.Sprintf("0x%x", b.Lo)
	}
	return fmt.Sprintf("0x%x%016x", b.Hi, b.Lo)
}
