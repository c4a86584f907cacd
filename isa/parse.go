package isa

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/ezrec/isaspec/document"
)

// parseDocument collects the imports, expressions, enums and bitsets of
// one document into the registry.
func (ld *loader) parseDocument(name string, root *document.Node) (err error) {
	for imp := range root.Elements("import") {
		file, ok := imp.Attr("file")
		if !ok {
			return located(imp, &ErrMissingAttr{Element: imp.Tag, Attr: "file"})
		}
		err = ld.parseFile(path.Join(path.Dir(name), file))
		if err != nil {
			return located(imp, err)
		}
	}

	for node := range root.Elements("expr") {
		_, err = ld.parseExpression(node)
		if err != nil {
			return located(node, err)
		}
	}

	for node := range root.Elements("enum") {
		err = ld.parseEnum(node)
		if err != nil {
			return located(node, err)
		}
	}

	for node := range root.Elements("bitset") {
		var bs *BitSet
		bs, err = ld.parseBitSet(name, node)
		if err != nil {
			return
		}
		err = ld.isa.addBitSet(bs)
		if err != nil {
			return located(node, err)
		}
		if bs.IsRoot() {
			ld.cc.logf("isa: toplevel: %v (%d bits)", bs.Name, bs.Size)
		} else {
			ld.cc.logf("isa: derived: %v extends %v", bs.Name, bs.Extends)
		}
	}

	return
}

// parseExpression registers an <expr> element, naming it anon_N if it
// has no name of its own.
func (ld *loader) parseExpression(node *document.Node) (expr *Expression, err error) {
	name, ok := node.Attr("name")
	if !ok {
		name = fmt.Sprintf("anon_%d", ld.isa.anonCount)
		ld.isa.anonCount++
	}

	expr = NewExpression(name, node.Text)
	expr.File = ld.loading[len(ld.loading)-1]
	expr.LineNo = node.Line

	err = ld.isa.addExpression(expr)
	if err != nil {
		return
	}

	ld.cc.logf("isa: expr %v: '%v' -> '%v'", expr.Name, expr.Source, expr.Text)

	return
}

// parseOneExpression returns the name of the guard expression of an
// element: either its 'expr' attribute or its single inline <expr>.
func (ld *loader) parseOneExpression(node *document.Node, owner string) (name string, err error) {
	exprs := node.FindAll("expr")
	name, has_attr := node.Attr("expr")

	switch {
	case has_attr && len(exprs) > 0:
		err = &ErrExprCount{Element: node.Tag, Name: owner, Count: len(exprs), Attr: true}
		return
	case has_attr:
		return
	case len(exprs) != 1:
		err = &ErrExprCount{Element: node.Tag, Name: owner, Count: len(exprs)}
		return
	}

	expr, err := ld.parseExpression(exprs[0])
	if err != nil {
		err = located(exprs[0], err)
		return
	}

	name = expr.Name

	return
}

func (ld *loader) parseEnum(node *document.Node) (err error) {
	name, ok := node.Attr("name")
	if !ok {
		err = &ErrMissingAttr{Element: node.Tag, Attr: "name"}
		return
	}

	en := &Enum{Name: name, LineNo: node.Line}
	for value := range node.Elements("value") {
		raw, ok := value.Attr("val")
		if !ok {
			return located(value, &ErrMissingAttr{Element: value.Tag, Name: name, Attr: "val"})
		}
		display, ok := value.Attr("display")
		if !ok {
			return located(value, &ErrMissingAttr{Element: value.Tag, Name: name, Attr: "display"})
		}
		v, perr := strconv.ParseInt(raw, 0, 64)
		if perr != nil {
			return located(value, &ErrNumber{Element: value.Tag, Name: name, Attr: "val", Value: raw})
		}
		if _, dup := en.Display(v); dup {
			return located(value, &ErrDuplicate{Kind: f("enum value"), Name: name + "." + raw})
		}
		en.Values = append(en.Values, EnumValue{Value: v, Raw: raw, Display: display})
	}

	err = ld.isa.addEnum(en)

	return
}

func (ld *loader) parseEncode(node *document.Node) (em *EncodeMeta, err error) {
	em = &EncodeMeta{}
	em.Type, _ = node.Attr("type")
	em.CasePrefix, _ = node.Attr("case-prefix")

	for mapping := range node.Elements("map") {
		name, ok := mapping.Attr("name")
		if !ok {
			err = located(mapping, &ErrMissingAttr{Element: mapping.Tag, Attr: "name"})
			return
		}
		force, _ := mapping.Attr("force")
		em.Maps = append(em.Maps, EncodeMap{
			Name:  name,
			Expr:  mapping.TrimmedText(),
			Force: force == "true",
		})
	}

	return
}

// claim records which definition owns a bit range, for error reporting.
type claim struct {
	name string
	br   BitRange
}

// bitsetBuilder accumulates the bit usage of a bitset while it is parsed.
type bitsetBuilder struct {
	bs         *BitSet
	claims     []claim // Bitset-level: default fields and patterns.
	caseClaims []claim // Current override case.
}

func (sb *bitsetBuilder) redefined(claims []claim, name string, br BitRange) error {
	err := &ErrRedefined{BitSet: sb.bs.Name, Name: name, Range: br}
	for _, other := range claims {
		if other.br.Mask().Overlaps(br.Mask()) {
			err.Other = other.name
			err.OtherRange = other.br
			break
		}
	}
	return err
}

// isDefined rejects a bitset-level pattern over already claimed bits.
func (sb *bitsetBuilder) isDefined(br BitRange, mask Bits) error {
	if sb.bs.own.DefinedBits().Overlaps(mask) {
		return sb.redefined(sb.claims, "pattern", br)
	}
	return nil
}

// foldDefault adds a default case field. No bit may be defined twice.
func (sb *bitsetBuilder) foldDefault(cs *Case, fld *Field) error {
	m := fld.BitMask()
	if sb.bs.own.DefinedBits().Overlaps(m) {
		return sb.redefined(sb.claims, fld.Name, fld.Range())
	}

	sb.bs.own.FieldMask = sb.bs.own.FieldMask.Or(m)
	cs.FieldMask = cs.FieldMask.Or(m)
	sb.claims = append(sb.claims, claim{name: fld.Name, br: fld.Range()})

	return nil
}

// foldOverride adds an override case field. Overrides re-describe the
// default case bits, so they must stay within the default field bits.
func (sb *bitsetBuilder) foldOverride(cs *Case, fld *Field) error {
	m := fld.BitMask()
	if cs.FieldMask.Overlaps(m) {
		return sb.redefined(sb.caseClaims, fld.Name, fld.Range())
	}

	escape := m.AndNot(sb.bs.own.FieldMask)
	if !escape.IsZero() {
		return &ErrOverrideEscape{Case: cs.Name, Field: fld.Name, Range: fld.Range(), Bits: escape}
	}

	cs.FieldMask = cs.FieldMask.Or(m)
	sb.caseClaims = append(sb.caseClaims, claim{name: fld.Name, br: fld.Range()})

	return nil
}

func (ld *loader) parseBitSet(file string, node *document.Node) (bs *BitSet, err error) {
	defer func() {
		if err != nil {
			bs = nil
		}
	}()

	name, ok := node.Attr("name")
	if !ok {
		err = located(node, &ErrMissingAttr{Element: node.Tag, Attr: "name"})
		return
	}

	bs = &BitSet{Name: name, File: file, LineNo: node.Line, GenMin: "0"}

	size, has_size := node.Attr("size")
	extends, has_extends := node.Attr("extends")
	switch {
	case has_size == has_extends, has_extends && extends == "":
		err = located(node, &ErrSizeExtends{BitSet: name})
		return
	case has_size:
		bs.Size, err = strconv.Atoi(size)
		if err != nil {
			err = located(node, &ErrNumber{Element: node.Tag, Name: name, Attr: "size", Value: size})
			return
		}
		if bs.Size < 1 || bs.Size > MaxBitSize {
			err = located(node, &ErrBitSize{BitSet: name, Size: bs.Size})
			return
		}
	default:
		bs.Extends = extends
	}

	encodes := node.FindAll("encode")
	if len(encodes) > 1 {
		err = located(encodes[1], &ErrDuplicate{Kind: f("encode"), Name: name})
		return
	}
	if len(encodes) == 1 {
		bs.Encode, err = ld.parseEncode(encodes[0])
		if err != nil {
			return
		}
	}

	for gen := range node.Elements("gen") {
		if low, ok := gen.Attr("min"); ok {
			bs.GenMin = low
		}
		if high, ok := gen.Attr("max"); ok {
			bs.GenMax = high
		}
	}

	sb := &bitsetBuilder{bs: bs}

	dflt, err := ld.parseCase(sb, node, name+"#default", "", sb.foldDefault)
	if err != nil {
		return
	}

	for override := range node.Elements("override") {
		var guard string
		guard, err = ld.parseOneExpression(override, name)
		if err != nil {
			err = located(override, err)
			return
		}
		var cs *Case
		cs, err = ld.parseCase(sb, override, fmt.Sprintf("%v#case%d", name, len(bs.Cases)), guard, sb.foldOverride)
		if err != nil {
			return
		}
		bs.Cases = append(bs.Cases, cs)
	}

	// Default case is always the last one.
	bs.Cases = append(bs.Cases, dflt)

	for pattern := range node.Elements("pattern") {
		var br BitRange
		var pat Pattern
		br, pat, err = extractPattern(pattern, name, sb.isDefined)
		if err != nil {
			err = located(pattern, err)
			return
		}
		bs.own.Match = bs.own.Match.Or(pat.Match)
		bs.own.DontCare = bs.own.DontCare.Or(pat.DontCare)
		bs.own.Mask = bs.own.Mask.Or(pat.Mask)
		sb.claims = append(sb.claims, claim{name: "pattern", br: br})
	}

	return
}

// parseCase builds a case from the body of a bitset or an <override>.
// Every assert and positioned field is folded into the bit usage masks.
func (ld *loader) parseCase(sb *bitsetBuilder, node *document.Node, name string, guard string, fold func(*Case, *Field) error) (cs *Case, err error) {
	bs := sb.bs
	cs = &Case{Name: name, Expr: guard, LineNo: node.Line}
	sb.caseClaims = nil

	add := func(elem *document.Node, fld *Field, folded bool) error {
		if folded {
			ld.cc.logf("isa: field: %v.%v => %v", bs.Name, fld.Name, fld.BitMask())
			err := fold(cs, fld)
			if err != nil {
				return located(elem, err)
			}
		}
		return located(elem, cs.addField(fld))
	}

	for elem := range node.Elements("derived") {
		var fld *Field
		fld, err = ld.parseDerived(bs, elem)
		if err != nil {
			err = located(elem, err)
			return
		}
		err = add(elem, fld, false)
		if err != nil {
			return
		}
	}

	for elem := range node.Elements("assert") {
		var fld *Field
		fld, err = parseAssert(bs, cs, elem)
		if err != nil {
			err = located(elem, err)
			return
		}
		err = add(elem, fld, true)
		if err != nil {
			return
		}
	}

	for elem := range node.Elements("field") {
		var fld *Field
		fld, err = parseField(bs, elem)
		if err != nil {
			err = located(elem, err)
			return
		}
		err = add(elem, fld, true)
		if err != nil {
			return
		}
	}

	// <display/> is allowed, for an empty display string.
	for elem := range node.Elements("display") {
		cs.HasDisplay = true
		cs.Display = elem.TrimmedText()
		ld.cc.logf("isa: found display: '%v'", cs.Display)
	}

	return
}

func requireAttrs(node *document.Node, owner string, attrs ...string) (values []string, err error) {
	for _, attr := range attrs {
		value, ok := node.Attr(attr)
		if !ok {
			err = &ErrMissingAttr{Element: node.Tag, Name: owner, Attr: attr}
			return
		}
		values = append(values, value)
	}
	return
}

func parseField(bs *BitSet, node *document.Node) (fld *Field, err error) {
	values, err := requireAttrs(node, bs.Name, "name", "type")
	if err != nil {
		return
	}

	fld = &Field{
		Kind:   FIELD_POSITIONED,
		Name:   values[0],
		Type:   values[1],
		LineNo: node.Line,
	}

	br, err := parseBitRange(node, bs.Name+"."+fld.Name)
	if err != nil {
		return
	}
	fld.Low, fld.High = br.Low, br.High

	if display, ok := node.Attr("display"); ok {
		fld.Display = strings.TrimSpace(display)
	}

	for param := range node.Elements("param") {
		pname, ok := param.Attr("name")
		if !ok {
			err = &ErrMissingAttr{Element: param.Tag, Name: bs.Name + "." + fld.Name, Attr: "name"}
			return
		}
		as, ok := param.Attr("as")
		if !ok {
			as = pname
		}
		fld.Params = append(fld.Params, Param{Name: pname, As: as})
	}

	return
}

func (ld *loader) parseDerived(bs *BitSet, node *document.Node) (fld *Field, err error) {
	values, err := requireAttrs(node, bs.Name, "name", "type")
	if err != nil {
		return
	}

	fld = &Field{
		Kind:   FIELD_DERIVED,
		Name:   values[0],
		Type:   values[1],
		LineNo: node.Line,
	}

	fld.Expr, err = ld.parseOneExpression(node, bs.Name+"."+fld.Name)
	if err != nil {
		return
	}

	if display, ok := node.Attr("display"); ok {
		fld.Display = strings.TrimSpace(display)
	}

	// Derived fields have no position; an optional width stands in for
	// the bit range of signed values.
	if width, ok := node.Attr("width"); ok {
		fld.Width, err = strconv.Atoi(width)
		if err != nil || fld.Width < 1 || fld.Width > MaxBitSize {
			err = &ErrNumber{Element: node.Tag, Name: bs.Name + "." + fld.Name, Attr: "width", Value: width}
			return
		}
		fld.High = fld.Width - 1
	}

	return
}

func parseAssert(bs *BitSet, cs *Case, node *document.Node) (fld *Field, err error) {
	br, pat, err := extractPattern(node, bs.Name, nil)
	if err != nil {
		return
	}

	if !pat.DontCare.IsZero() {
		err = &ErrPatternText{Element: node.Tag, Name: bs.Name, Range: br, Text: node.TrimmedText(),
			Reason: f("'x' (dontcare) is not valid in an assert")}
		return
	}

	fld = &Field{
		Kind:   FIELD_ASSERT,
		Name:   fmt.Sprintf("%v#assert%d", bs.Name, cs.FieldCount()),
		Low:    br.Low,
		High:   br.High,
		Type:   "uint",
		Value:  pat.Match.Shr(br.Low),
		LineNo: node.Line,
	}

	return
}
