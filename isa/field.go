package isa

import (
	"fmt"
	"slices"
	"strings"
)

// FieldKind selects the variant of a Field.
type FieldKind int

const (
	FIELD_POSITIONED = FieldKind(0) // field
	FIELD_DERIVED    = FieldKind(1) // derived
	FIELD_ASSERT     = FieldKind(2) // assert
)

func (fk FieldKind) String() string {
	switch fk {
	case FIELD_POSITIONED:
		return "field"
	case FIELD_DERIVED:
		return "derived"
	case FIELD_ASSERT:
		return "assert"
	}
	return fmt.Sprintf("FieldKind(%d)", int(fk))
}

// TypeClass is how a field type name resolved.
type TypeClass int

const (
	TYPE_UNRESOLVED = TypeClass(0)
	TYPE_BUILTIN    = TypeClass(1)
	TYPE_ENUM       = TypeClass(2)
	TYPE_BITSET     = TypeClass(3)
)

func (tc TypeClass) String() string {
	switch tc {
	case TYPE_UNRESOLVED:
		return "unresolved"
	case TYPE_BUILTIN:
		return "builtin"
	case TYPE_ENUM:
		return "enum"
	case TYPE_BITSET:
		return "bitset"
	}
	return fmt.Sprintf("TypeClass(%d)", int(tc))
}

// BuiltinTypes are the field types that need no declaration.
var BuiltinTypes = []string{"branch", "int", "uint", "hex", "offset", "uoffset", "float", "bool", "enum"}

// IsBuiltinType reports whether name is one of BuiltinTypes.
func IsBuiltinType(name string) bool {
	return slices.Contains(BuiltinTypes, name)
}

// FieldType is a resolved field type.
type FieldType struct {
	Class TypeClass
	Name  string
}

// Param aliases a field value under another name for a nested bitset.
type Param struct {
	Name string
	As   string
}

// Field gives meaning to some bits of a case.
//
// Positioned and assert fields occupy [Low, High]. Derived fields have no
// position; Low is 0 and High is Width-1 (or 0) so that Size() still
// reports the value width.
type Field struct {
	Kind    FieldKind
	Name    string
	Low     int
	High    int
	Type    string
	Params  []Param // Positioned only.
	Display string  // Display format, empty if none.
	Expr    string  // Derived only: expression name.
	Width   int     // Derived only: declared width, 0 if none.
	Value   Bits    // Assert only: required bits, shifted to bit 0.
	LineNo  int

	Resolved FieldType // Set during validation.
}

// Range returns the field bit range.
func (fld *Field) Range() BitRange {
	return BitRange{Low: fld.Low, High: fld.High}
}

// Size returns the field width in bits.
func (fld *Field) Size() int {
	return 1 + fld.High - fld.Low
}

// BitMask returns the instruction bits the field occupies. Derived fields
// occupy none.
func (fld *Field) BitMask() Bits {
	if fld.Kind == FIELD_DERIVED {
		return Bits{}
	}
	return Ones(fld.Size()).Shl(fld.Low)
}

// IsDerived reports whether the field is computed from an expression.
func (fld *Field) IsDerived() bool {
	return fld.Kind == FIELD_DERIVED
}

// CName is the identifier a generator uses for the field.
func (fld *Field) CName() string {
	return cName(fld.Name)
}

// TypeName is the generator type tag of the field.
func (fld *Field) TypeName() string {
	if fld.Kind == FIELD_ASSERT {
		return "TYPE_ASSERT"
	}
	switch fld.Resolved.Class {
	case TYPE_ENUM:
		return "TYPE_ENUM"
	case TYPE_BITSET:
		return "TYPE_BITSET"
	}
	return "TYPE_" + strings.ToUpper(fld.Type)
}
