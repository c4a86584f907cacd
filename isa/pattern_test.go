package isa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePattern(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text     string
		br       BitRange
		match    uint64
		dontcare uint64
		mask     uint64
	}{
		{"11", BitRange{6, 7}, 0xc0, 0x00, 0xc0},
		{"xxxxxx", BitRange{0, 5}, 0x00, 0x3f, 0x3f},
		{"10x0", BitRange{4, 7}, 0x80, 0x20, 0xf0},
		{"0", BitRange{3, 3}, 0x00, 0x00, 0x08},
	}

	for _, entry := range table {
		pat, err := ParsePattern(entry.text, entry.br)
		assert.NoError(err, entry.text)
		assert.Equal(BitsOf(entry.match), pat.Match, entry.text)
		assert.Equal(BitsOf(entry.dontcare), pat.DontCare, entry.text)
		assert.Equal(BitsOf(entry.mask), pat.Mask, entry.text)
		assert.True(pat.FieldMask.IsZero(), entry.text)
	}

	wide, err := ParsePattern("1x", BitRange{63, 64})
	assert.NoError(err)
	assert.Equal(Bits{Hi: 1}, wide.Match)
	assert.Equal(Bits{Lo: 1 << 63}, wide.DontCare)
}

func TestParsePatternErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text string
		br   BitRange
	}{
		{"111", BitRange{0, 1}},
		{"1", BitRange{0, 1}},
		{"12", BitRange{0, 1}},
		{"1X", BitRange{0, 1}},
		{"", BitRange{0, 0}},
	}

	for _, entry := range table {
		_, err := ParsePattern(entry.text, entry.br)
		assert.ErrorIs(err, ErrPattern, entry.text)

		var pe *ErrPatternText
		assert.True(errors.As(err, &pe), entry.text)
	}
}

func TestPatternMerge(t *testing.T) {
	assert := assert.New(t)

	a := Pattern{Match: BitsOf(0xc0), Mask: BitsOf(0xc0)}
	b := Pattern{DontCare: BitsOf(0x30), Mask: BitsOf(0x30), FieldMask: BitsOf(0x0f)}

	merged := a.Merge(b)
	assert.Equal(BitsOf(0xc0), merged.Match)
	assert.Equal(BitsOf(0x30), merged.DontCare)
	assert.Equal(BitsOf(0xf0), merged.Mask)
	assert.Equal(BitsOf(0x0f), merged.FieldMask)
	assert.Equal(BitsOf(0xff), merged.DefinedBits())

	assert.Equal(merged, b.Merge(a))
	assert.Equal(a, a.Merge(a))
	assert.Equal(merged, merged.Merge(merged))
	assert.Equal(a, a.Merge(Pattern{}))
}

func FuzzParsePattern(f *testing.F) {
	f.Add("0", uint8(0))
	f.Add("1x0", uint8(5))
	f.Add("xxxxxxxx", uint8(60))
	f.Add("10z", uint8(1))

	f.Fuzz(func(t *testing.T, text string, low uint8) {
		assert := assert.New(t)

		if len(text) == 0 || len(text) > 64 {
			return
		}

		br := BitRange{Low: int(low) % 64}
		br.High = br.Low + len(text) - 1

		pat, err := ParsePattern(text, br)
		if err != nil {
			assert.ErrorIs(err, ErrPattern)
			return
		}

		assert.True(pat.Match.And(pat.DontCare).IsZero())
		assert.True(pat.Match.Or(pat.DontCare).AndNot(pat.Mask).IsZero())
		assert.Equal(br.Mask(), pat.Mask)
		assert.Equal(len(text), pat.Mask.OnesCount())
		assert.Equal(pat, pat.Merge(pat))
	})
}
