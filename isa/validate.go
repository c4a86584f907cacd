package isa

// validate checks every bitset, field and expression once all documents
// are parsed. Field types are resolved here, so documents may refer to
// names declared later or in other documents.
func (isa *Registry) validate(cc *Compiler) (err error) {
	for _, bs := range isa.bitsets.All() {
		err = isa.validateBitSet(cc, bs)
		if err != nil {
			return
		}
	}

	if cc.CheckExpressions {
		for _, expr := range isa.expressions.All() {
			err = expr.Check()
			if err != nil {
				err = &ErrDocument{File: expr.File, LineNo: expr.LineNo, Err: err}
				return
			}
		}
	}

	for _, bs := range isa.leafs.All() {
		err = isa.validateLeaf(cc, bs)
		if err != nil {
			err = &ErrDocument{File: bs.File, LineNo: bs.LineNo, Err: err}
			return
		}
	}

	return
}

// validateBitSet checks the structure of a bitset and the range and type
// of every field in every case.
func (isa *Registry) validateBitSet(cc *Compiler, bs *BitSet) (err error) {
	where := func(line int, err error) error {
		return &ErrDocument{File: bs.File, LineNo: line, Err: err}
	}

	chain, err := bs.Chain()
	if err != nil {
		return where(bs.LineNo, err)
	}

	if bs.Encode != nil {
		for _, ancestor := range chain[1:] {
			if ancestor.Encode != nil {
				return where(bs.LineNo, &ErrEncodeHierarchy{BitSet: bs.Name, Other: ancestor.Name})
			}
		}
	}

	size := chain[len(chain)-1].Size

	// Fields are range checked by validateField, under their own name.
	literal := bs.own.Match.Or(bs.own.DontCare).Or(bs.own.Mask)
	extra := literal.AndNot(Ones(size))
	if !extra.IsZero() {
		pos := extra.Positions()
		return where(bs.LineNo, &ErrFieldRange{BitSet: bs.Name, Field: "pattern",
			Range: BitRange{Low: pos[0], High: pos[len(pos)-1]}, Size: size})
	}

	for _, cs := range bs.Cases {
		if !cs.IsDefault() && !isa.expressions.Has(cs.Expr) {
			return where(cs.LineNo, &ErrUnknownExpr{Where: cs.Name, Expr: cs.Expr})
		}
		for _, fld := range cs.Fields() {
			err = isa.validateField(bs, size, fld)
			if err != nil {
				return where(fld.LineNo, err)
			}
		}
	}

	cc.logf("isa: %v: %d cases, %d bits", bs.Name, len(bs.Cases), size)

	return
}

func (isa *Registry) validateField(bs *BitSet, size int, fld *Field) (err error) {
	if fld.IsDerived() && !isa.expressions.Has(fld.Expr) {
		err = &ErrUnknownExpr{Where: bs.Name + "." + fld.Name, Expr: fld.Expr}
		return
	}

	if fld.Type == "float" && fld.Size() != 16 && fld.Size() != 32 {
		err = &ErrFloatSize{BitSet: bs.Name, Field: fld.Name, Size: fld.Size()}
		return
	}

	if !fld.IsDerived() && fld.High >= size {
		err = &ErrFieldRange{BitSet: bs.Name, Field: fld.Name, Range: fld.Range(), Size: size}
		return
	}

	switch {
	case IsBuiltinType(fld.Type):
		fld.Resolved = FieldType{Class: TYPE_BUILTIN, Name: fld.Type}
	case isa.enums.Has(fld.Type):
		fld.Resolved = FieldType{Class: TYPE_ENUM, Name: fld.Type}
	case isa.bitsets.Has(fld.Type):
		other, _ := isa.bitsets.Get(fld.Type)
		var want int
		want, err = other.BitSize()
		if err != nil {
			return
		}
		if fld.Size() != want {
			err = &ErrFieldSize{BitSet: bs.Name, Field: fld.Name, Type: fld.Type, Size: fld.Size(), Want: want}
			return
		}
		fld.Resolved = FieldType{Class: TYPE_BITSET, Name: fld.Type}
	default:
		err = &ErrFieldType{BitSet: bs.Name, Field: fld.Name, Type: fld.Type}
	}

	return
}

// validateLeaf checks that a leaf bitset, together with its ancestors,
// gives a meaning to every bit of its size.
func (isa *Registry) validateLeaf(cc *Compiler, bs *BitSet) (err error) {
	pat, err := bs.Pattern()
	if err != nil {
		return
	}

	size, err := bs.BitSize()
	if err != nil {
		return
	}

	all := Ones(size)
	covered := pat.Mask.Or(pat.FieldMask)
	if covered != all {
		err = &ErrUndefinedBits{BitSet: bs.Name, Bits: all.AndNot(covered)}
		return
	}

	cc.logf("isa: leaf %v: match %v dontcare %v mask %v", bs.Name, pat.Match, pat.DontCare, pat.Mask)

	return
}
