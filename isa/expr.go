package isa

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Expression is a named formula over field values. The compiler only
// stores expressions; generators and decoders evaluate them.
type Expression struct {
	Name       string   // Declared name, or anon_N.
	Source     string   // Text as written, with {field} placeholders.
	Text       string   // Text with placeholders reduced to bare names.
	FieldNames []string // Sorted set of referenced field names.
	File       string
	LineNo     int
}

var (
	reFieldName    = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment  = regexp.MustCompile(`//[^\n]*`)
)

var (
	errExprTernary = errors.New(f("conditional operator is not supported"))
	errExprResult  = errors.New(f("result is not an integer"))
)

// NewExpression builds an expression from its source text.
func NewExpression(name string, source string) (expr *Expression) {
	source = strings.TrimSpace(source)

	expr = &Expression{
		Name:   name,
		Source: source,
		Text:   reFieldName.ReplaceAllString(source, "$1"),
	}

	for _, match := range reFieldName.FindAllStringSubmatch(source, -1) {
		if !slices.Contains(expr.FieldNames, match[1]) {
			expr.FieldNames = append(expr.FieldNames, match[1])
		}
	}
	slices.Sort(expr.FieldNames)

	return
}

// CName is the identifier a generator uses for the expression.
func (expr *Expression) CName() string {
	return "expr_" + cName(expr.Name)
}

// HasField reports whether the expression refers to the named field.
func (expr *Expression) HasField(name string) bool {
	_, found := slices.BinarySearch(expr.FieldNames, name)
	return found
}

// toStarlark translates the C expression into Starlark with C integer
// semantics. Field placeholders become _fN globals, numbered by their
// position in FieldNames, so any field name is usable.
func (expr *Expression) toStarlark() (src string, err error) {
	text := reBlockComment.ReplaceAllString(expr.Source, " ")
	text = reLineComment.ReplaceAllString(text, " ")

	tokens, err := cLex(text)
	if err == nil {
		ct := &cTranslator{tokens: tokens, field: expr.fieldIdent}
		src, err = ct.translate()
	}
	if err != nil {
		err = &ErrExpressionSyntax{Expr: expr.Name, Text: expr.Source, Err: err}
	}

	return
}

func (expr *Expression) fieldIdent(name string) (ident string, ok bool) {
	n, ok := slices.BinarySearch(expr.FieldNames, name)
	if !ok {
		return
	}
	ident = fmt.Sprintf("_f%d", n)
	return
}

// Check parses the expression and verifies that every identifier it
// uses is one of its {field} placeholders.
func (expr *Expression) Check() (err error) {
	src, err := expr.toStarlark()
	if err != nil {
		return
	}

	opts := syntax.FileOptions{}
	_, err = opts.ParseExpr(expr.Name, src, 0)
	if err != nil {
		err = &ErrExpressionSyntax{Expr: expr.Name, Text: expr.Source, Err: err}
	}

	return
}

// Eval evaluates the expression with the given field values, using C
// integer semantics: comparisons and logical operators yield 0 or 1, and
// division truncates toward zero.
func (expr *Expression) Eval(values map[string]int64) (value int64, err error) {
	src, err := expr.toStarlark()
	if err != nil {
		return
	}

	pred := starlark.StringDict{}
	maps.Copy(pred, cBuiltins)
	for n, name := range expr.FieldNames {
		field, ok := values[name]
		if !ok {
			err = &ErrExpressionSyntax{Expr: expr.Name, Text: expr.Source,
				Err: errors.New(f("no value for field %v", name))}
			return
		}
		pred[fmt.Sprintf("_f%d", n)] = starlark.MakeInt64(field)
	}

	thread := starlark.Thread{Name: expr.Name}
	opts := syntax.FileOptions{}
	prog := "rc_ = " + src + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, expr.Name, prog, pred)
	if err != nil {
		err = &ErrExpressionSyntax{Expr: expr.Name, Text: expr.Source, Err: err}
		return
	}

	rc, ok := dict["rc_"].(starlark.Int)
	if ok {
		value, ok = rc.Int64()
	}
	if !ok {
		err = &ErrExpressionSyntax{Expr: expr.Name, Text: expr.Source, Err: errExprResult}
	}

	return
}
