package isa

import (
	"fmt"
	"strconv"

	"github.com/ezrec/isaspec/document"
)

// BitRange is an inclusive [Low, High] span of bit positions.
type BitRange struct {
	Low  int
	High int
}

// Size is the number of bits in the range.
func (br BitRange) Size() int {
	return 1 + br.High - br.Low
}

// Mask returns the range as a bit mask.
func (br BitRange) Mask() Bits {
	return Ones(br.Size()).Shl(br.Low)
}

func (br BitRange) String() string {
	return fmt.Sprintf("%d..%d", br.Low, br.High)
}

// Pattern is the match/dontcare/mask/field_mask quadruple of a bitset.
type Pattern struct {
	Match     Bits // Bits pinned to 1.
	DontCare  Bits // Bits explicitly ignored.
	Mask      Bits // Bits pinned by literal patterns, 0, 1 or x.
	FieldMask Bits // Bits claimed by fields.
}

// Merge returns the union of two patterns.
func (pat Pattern) Merge(other Pattern) Pattern {
	return Pattern{
		Match:     pat.Match.Or(other.Match),
		DontCare:  pat.DontCare.Or(other.DontCare),
		Mask:      pat.Mask.Or(other.Mask),
		FieldMask: pat.FieldMask.Or(other.FieldMask),
	}
}

// DefinedBits returns every bit the pattern assigns a meaning to.
func (pat Pattern) DefinedBits() Bits {
	return pat.Match.Or(pat.DontCare).Or(pat.Mask).Or(pat.FieldMask)
}

// ParsePattern converts a pattern string of '0', '1' and 'x' characters,
// most significant bit first, into match, dontcare and mask bits placed
// at the given range.
func ParsePattern(text string, br BitRange) (pat Pattern, err error) {
	if len(text) != br.Size() {
		err = &ErrPatternText{Range: br, Text: text,
			Reason: f("length %d does not match %d bits", len(text), br.Size())}
		return
	}

	var match, dontcare Bits
	for n := range len(text) {
		match = match.Shl(1)
		dontcare = dontcare.Shl(1)
		switch text[n] {
		case '1':
			match = match.Or(BitsOf(1))
		case 'x':
			dontcare = dontcare.Or(BitsOf(1))
		case '0':
		default:
			err = &ErrPatternText{Range: br, Text: text,
				Reason: f("invalid character '%c'", text[n])}
			return
		}
	}

	pat = Pattern{
		Match:    match.Shl(br.Low),
		DontCare: dontcare.Shl(br.Low),
		Mask:     br.Mask(),
	}

	return
}

// extractPattern parses the text of a <pattern> or <assert> element.
// If isDefined reports any of the new bits as already claimed the pattern
// is rejected.
func extractPattern(node *document.Node, name string, isDefined func(br BitRange, mask Bits) error) (br BitRange, pat Pattern, err error) {
	br, err = parseBitRange(node, name)
	if err != nil {
		return
	}

	if isDefined != nil {
		err = isDefined(br, br.Mask())
		if err != nil {
			return
		}
	}

	pat, err = ParsePattern(node.TrimmedText(), br)
	if err != nil {
		pe := err.(*ErrPatternText)
		pe.Element = node.Tag
		pe.Name = name
	}

	return
}

// parseBitRange reads either a 'pos' or a 'low'/'high' attribute pair.
func parseBitRange(node *document.Node, name string) (br BitRange, err error) {
	fail := func(text string, reason string) error {
		return &ErrBitRange{Element: node.Tag, Name: name, Range: text, Reason: reason}
	}

	number := func(attr string) (value int, err error) {
		text, _ := node.Attr(attr)
		value, err = strconv.Atoi(text)
		if err != nil {
			err = fail(fmt.Sprintf("%v=%q", attr, text), f("not a bit position"))
			return
		}
		if value < 0 || value >= MaxBitSize {
			err = fail(fmt.Sprintf("%v=%q", attr, text), f("bit position out of range"))
		}
		return
	}

	pos, has_pos := node.Attr("pos")
	has_low := node.HasAttr("low")
	has_high := node.HasAttr("high")

	switch {
	case has_pos && (has_low || has_high):
		err = fail(fmt.Sprintf("pos=%q", pos), f("'pos' combined with 'low'/'high'"))
		return
	case has_pos:
		br.Low, err = number("pos")
		br.High = br.Low
		return
	case has_low && has_high:
		br.Low, err = number("low")
		if err != nil {
			return
		}
		br.High, err = number("high")
		if err != nil {
			return
		}
	default:
		err = fail("", f("needs 'pos' or 'low' and 'high'"))
		return
	}

	if br.Low > br.High {
		err = fail(br.String(), f("low is greater than high"))
		return
	}

	return
}
