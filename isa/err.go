package isa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ezrec/isaspec/translate"
)

var f = translate.From

var (
	// Error kinds. Every detailed error below unwraps to one of these.
	ErrGeometry   = errors.New(f("malformed bit range"))
	ErrPattern    = errors.New(f("invalid pattern"))
	ErrOverlap    = errors.New(f("bit overlap"))
	ErrCoverage   = errors.New(f("incomplete bit coverage"))
	ErrType       = errors.New(f("invalid field type"))
	ErrStructure  = errors.New(f("invalid structure"))
	ErrNumeric    = errors.New(f("invalid numeric format"))
	ErrExpression = errors.New(f("invalid expression"))
)

// ErrDocument locates an error within a specification document.
type ErrDocument struct {
	File   string
	LineNo int
	Err    error
}

func (err *ErrDocument) Error() string {
	if err.LineNo == 0 {
		return f("%v: %v", err.File, err.Err)
	}
	return f("%v:%d: %v", err.File, err.LineNo, err.Err)
}

func (err *ErrDocument) Unwrap() error {
	return err.Err
}

// ErrMissingAttr is a required attribute that was not supplied.
type ErrMissingAttr struct {
	Element string
	Name    string
	Attr    string
}

func (err *ErrMissingAttr) Error() string {
	if err.Name == "" {
		return f("<%v> requires attribute '%v'", err.Element, err.Attr)
	}
	return f("<%v> %v requires attribute '%v'", err.Element, err.Name, err.Attr)
}

func (err *ErrMissingAttr) Unwrap() error {
	return ErrStructure
}

// ErrBitRange is an invalid or contradictory bit range declaration.
type ErrBitRange struct {
	Element string
	Name    string
	Range   string
	Reason  string
}

func (err *ErrBitRange) Error() string {
	return f("<%v> in %v: bit range %v: %v", err.Element, err.Name, err.Range, err.Reason)
}

func (err *ErrBitRange) Unwrap() error {
	return ErrGeometry
}

// ErrFieldRange is a field that does not fit its owning bitset.
type ErrFieldRange struct {
	BitSet string
	Field  string
	Range  BitRange
	Size   int
}

func (err *ErrFieldRange) Error() string {
	return f("%v.%v: invalid bit range: %v is not in [0, %d]", err.BitSet, err.Field, err.Range, err.Size-1)
}

func (err *ErrFieldRange) Unwrap() error {
	return ErrGeometry
}

// ErrPatternText is a literal pattern that does not describe its range.
type ErrPatternText struct {
	Element string
	Name    string
	Range   BitRange
	Text    string
	Reason  string
}

func (err *ErrPatternText) Error() string {
	return f("invalid <%v> in %v %v '%v': %v", err.Element, err.Name, err.Range, err.Text, err.Reason)
}

func (err *ErrPatternText) Unwrap() error {
	return ErrPattern
}

// ErrRedefined is a definition whose bits were already claimed within
// the same bitset or case.
type ErrRedefined struct {
	BitSet     string
	Name       string
	Range      BitRange
	Other      string
	OtherRange BitRange
}

func (err *ErrRedefined) Error() string {
	if err.Other == "" {
		return f("redefined bits in %v.%v: %v", err.BitSet, err.Name, err.Range)
	}
	return f("redefined bits in %v.%v: %v overlaps %v %v", err.BitSet, err.Name, err.Range, err.Other, err.OtherRange)
}

func (err *ErrRedefined) Unwrap() error {
	return ErrOverlap
}

// ErrOverrideEscape is an override field outside of the default case's field bits.
type ErrOverrideEscape struct {
	Case  string
	Field string
	Range BitRange
	Bits  Bits
}

func (err *ErrOverrideEscape) Error() string {
	return f("override %v.%v: %v claims bits %v not in the default fields", err.Case, err.Field, err.Range, err.Bits)
}

func (err *ErrOverrideEscape) Unwrap() error {
	return ErrOverlap
}

// ErrBitsetConflict is a derivation that redeclares bits of its ancestors.
type ErrBitsetConflict struct {
	BitSet  string
	Extends string // Nearest ancestor that already defines Bits.
	Bits    Bits
}

func (err *ErrBitsetConflict) Error() string {
	return f("bitset conflict in %v: %v (bits %v) already defined by %v", err.BitSet, err.Bits, bitList(err.Bits), err.Extends)
}

func (err *ErrBitsetConflict) Unwrap() error {
	return ErrOverlap
}

// ErrUndefinedBits is a leaf bitset without complete bit coverage.
type ErrUndefinedBits struct {
	BitSet string
	Bits   Bits
}

func (err *ErrUndefinedBits) Error() string {
	return f("leaf bitset %v has undefined bits: %v (bits %v)", err.BitSet, err.Bits, bitList(err.Bits))
}

func (err *ErrUndefinedBits) Unwrap() error {
	return ErrCoverage
}

// ErrFieldType is a field type that does not name a builtin, enum or bitset.
type ErrFieldType struct {
	BitSet string
	Field  string
	Type   string
}

func (err *ErrFieldType) Error() string {
	return f("%v.%v: invalid type: %v", err.BitSet, err.Field, err.Type)
}

func (err *ErrFieldType) Unwrap() error {
	return ErrType
}

// ErrFieldSize is a bitset-typed field whose width differs from the bitset.
type ErrFieldSize struct {
	BitSet string
	Field  string
	Type   string
	Size   int
	Want   int
}

func (err *ErrFieldSize) Error() string {
	return f("%v.%v: invalid size: %d vs %d of %v", err.BitSet, err.Field, err.Size, err.Want, err.Type)
}

func (err *ErrFieldSize) Unwrap() error {
	return ErrType
}

// ErrFloatSize is a float field that is neither half nor single precision.
type ErrFloatSize struct {
	BitSet string
	Field  string
	Size   int
}

func (err *ErrFloatSize) Error() string {
	return f("%v.%v: float fields must be 16 or 32 bits, not %d", err.BitSet, err.Field, err.Size)
}

func (err *ErrFloatSize) Unwrap() error {
	return ErrNumeric
}

// ErrNumber is an attribute that should be an integer.
type ErrNumber struct {
	Element string
	Name    string
	Attr    string
	Value   string
}

func (err *ErrNumber) Error() string {
	return f("<%v> %v: '%v' is not a valid %v", err.Element, err.Name, err.Value, err.Attr)
}

func (err *ErrNumber) Unwrap() error {
	return ErrNumeric
}

// ErrSizeExtends is a bitset without exactly one of size and extends.
type ErrSizeExtends struct {
	BitSet string
}

func (err *ErrSizeExtends) Error() string {
	return f("bitset %v must have exactly one of 'size' or 'extends'", err.BitSet)
}

func (err *ErrSizeExtends) Unwrap() error {
	return ErrStructure
}

// ErrBitSize is a root bitset size outside the supported range.
type ErrBitSize struct {
	BitSet string
	Size   int
}

func (err *ErrBitSize) Error() string {
	return f("bitset %v size %d is not in [1, %d]", err.BitSet, err.Size, MaxBitSize)
}

func (err *ErrBitSize) Unwrap() error {
	return ErrStructure
}

// ErrExtends is a derivation of an unknown bitset.
type ErrExtends struct {
	BitSet  string
	Extends string
}

func (err *ErrExtends) Error() string {
	return f("%v extends invalid type: %v", err.BitSet, err.Extends)
}

func (err *ErrExtends) Unwrap() error {
	return ErrStructure
}

// ErrCycle is a circular chain of extends or imports.
type ErrCycle struct {
	Kind  string
	Chain []string
}

func (err *ErrCycle) Error() string {
	return f("%v cycle: %v", err.Kind, strings.Join(err.Chain, " -> "))
}

func (err *ErrCycle) Unwrap() error {
	return ErrStructure
}

// ErrDuplicate is a name declared more than once.
type ErrDuplicate struct {
	Kind string
	Name string
}

func (err *ErrDuplicate) Error() string {
	return f("%v %v duplicated", err.Kind, err.Name)
}

func (err *ErrDuplicate) Unwrap() error {
	return ErrStructure
}

// ErrExprCount is an element with the wrong number of guard expressions.
type ErrExprCount struct {
	Element string
	Name    string
	Count   int
	Attr    bool
}

func (err *ErrExprCount) Error() string {
	if err.Attr {
		return f("<%v> in %v has both an 'expr' attribute and %d <expr> elements", err.Element, err.Name, err.Count)
	}
	return f("expected a single expression in <%v> of %v, found %d", err.Element, err.Name, err.Count)
}

func (err *ErrExprCount) Unwrap() error {
	return ErrStructure
}

// ErrUnknownExpr is a reference to an expression that was never declared.
type ErrUnknownExpr struct {
	Where string
	Expr  string
}

func (err *ErrUnknownExpr) Error() string {
	return f("%v: unknown expression %v", err.Where, err.Expr)
}

func (err *ErrUnknownExpr) Unwrap() error {
	return ErrStructure
}

// ErrEncodeHierarchy is a bitset chain with more than one <encode>.
type ErrEncodeHierarchy struct {
	BitSet string
	Other  string
}

func (err *ErrEncodeHierarchy) Error() string {
	return f("bitset %v has <encode> but so does its ancestor %v", err.BitSet, err.Other)
}

func (err *ErrEncodeHierarchy) Unwrap() error {
	return ErrStructure
}

// ErrExpressionSyntax is an expression that cannot be parsed or evaluated.
type ErrExpressionSyntax struct {
	Expr string
	Text string
	Err  error
}

func (err *ErrExpressionSyntax) Error() string {
	return f("expression %v '%v': %v", err.Expr, err.Text, err.Err)
}

func (err *ErrExpressionSyntax) Unwrap() []error {
	return []error{ErrExpression, err.Err}
}

// bitList renders the set bit positions of a mask, e.g. "0-3,7".
func bitList(bits Bits) string {
	var parts []string
	pos := bits.Positions()
	for n := 0; n < len(pos); {
		end := n
		for end+1 < len(pos) && pos[end+1] == pos[end]+1 {
			end++
		}
		if end == n {
			parts = append(parts, fmt.Sprintf("%d", pos[n]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", pos[n], pos[end]))
		}
		n = end + 1
	}
	return strings.Join(parts, ",")
}
