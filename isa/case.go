package isa

import (
	"iter"

	"github.com/ezrec/isaspec/internal"
)

// Case is one arm of a bitset: the default, or an override selected by
// an expression.
type Case struct {
	Name       string
	Expr       string // Guard expression name, empty for the default case.
	Display    string // Fixed rendering of the case, if HasDisplay.
	HasDisplay bool
	FieldMask  Bits // Bits claimed by the case's fields.
	LineNo     int

	fields internal.Table[*Field]
}

// IsDefault reports whether the case is the unguarded default.
func (cs *Case) IsDefault() bool {
	return cs.Expr == ""
}

// CName is the identifier a generator uses for the case.
func (cs *Case) CName() string {
	return cName(cs.Name)
}

// Field looks up a field by name.
func (cs *Case) Field(name string) (fld *Field, ok bool) {
	return cs.fields.Get(name)
}

// Fields iterates over the case fields in order.
func (cs *Case) Fields() iter.Seq2[string, *Field] {
	return cs.fields.All()
}

// FieldCount returns the number of fields.
func (cs *Case) FieldCount() int {
	return cs.fields.Len()
}

// addField adds a field to the case.
func (cs *Case) addField(fld *Field) (err error) {
	if cs.fields.Has(fld.Name) {
		err = &ErrDuplicate{Kind: f("field"), Name: cs.Name + "." + fld.Name}
		return
	}
	cs.fields.Set(fld.Name, fld)
	return
}
