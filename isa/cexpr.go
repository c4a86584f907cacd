package isa

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
)

// cToken is one lexical element of a C integer expression.
type cToken struct {
	kind byte // 'n' number, 'f' {field}, 'i' bare identifier, 'o' operator
	text string
}

var cOperators2 = []string{"||", "&&", "==", "!=", "<=", ">=", "<<", ">>"}

const cOperators1 = "|&^<>+-*/%!~()?:"

// cBinaryLevels lists the C binary operators, loosest binding first.
var cBinaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

var (
	errExprEnd       = errors.New(f("unexpected end of expression"))
	errExprDivide    = errors.New(f("division by zero"))
	errExprPlacement = errors.New(f("unterminated {field} reference"))
)

func cLex(text string) (tokens []cToken, err error) {
	isWord := func(c byte) bool {
		return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
	}

	for n := 0; n < len(text); {
		c := text[n]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			n++
		case c == '{':
			end := strings.IndexByte(text[n:], '}')
			if end < 0 {
				err = errExprPlacement
				return
			}
			tokens = append(tokens, cToken{kind: 'f', text: text[n+1 : n+end]})
			n += end + 1
		case isWord(c):
			end := n
			for end < len(text) && isWord(text[end]) {
				end++
			}
			kind := byte('i')
			if '0' <= c && c <= '9' {
				kind = 'n'
			}
			tokens = append(tokens, cToken{kind: kind, text: text[n:end]})
			n = end
		case n+1 < len(text) && slices.Contains(cOperators2, text[n:n+2]):
			tokens = append(tokens, cToken{kind: 'o', text: text[n : n+2]})
			n += 2
		case strings.IndexByte(cOperators1, c) >= 0:
			tokens = append(tokens, cToken{kind: 'o', text: text[n : n+1]})
			n++
		default:
			err = errors.New(f("invalid character '%c'", c))
			return
		}
	}

	return
}

// cTranslator rewrites a C expression as Starlark in which every
// subexpression is a parenthesized int, so Starlark's own precedence
// and bool results never show through.
type cTranslator struct {
	tokens []cToken
	pos    int
	field  func(name string) (ident string, ok bool)
}

func (ct *cTranslator) peek() (tok cToken, ok bool) {
	if ct.pos >= len(ct.tokens) {
		return
	}
	return ct.tokens[ct.pos], true
}

func (ct *cTranslator) translate() (src string, err error) {
	src, err = ct.binary(0)
	if err != nil {
		return
	}

	if tok, ok := ct.peek(); ok {
		if tok.text == "?" {
			err = errExprTernary
		} else {
			err = errors.New(f("unexpected '%v'", tok.text))
		}
	}

	return
}

func (ct *cTranslator) binary(level int) (src string, err error) {
	if level == len(cBinaryLevels) {
		return ct.unary()
	}

	src, err = ct.binary(level + 1)
	if err != nil {
		return
	}

	for {
		tok, ok := ct.peek()
		if !ok || tok.kind != 'o' || !slices.Contains(cBinaryLevels[level], tok.text) {
			return
		}
		ct.pos++

		var right string
		right, err = ct.binary(level + 1)
		if err != nil {
			return
		}

		switch tok.text {
		case "||":
			src = fmt.Sprintf("int(%v != 0 or %v != 0)", src, right)
		case "&&":
			src = fmt.Sprintf("int(%v != 0 and %v != 0)", src, right)
		case "==", "!=", "<", "<=", ">", ">=":
			src = fmt.Sprintf("int(%v %v %v)", src, tok.text, right)
		case "/":
			src = fmt.Sprintf("_div(%v, %v)", src, right)
		case "%":
			src = fmt.Sprintf("_mod(%v, %v)", src, right)
		default:
			src = fmt.Sprintf("(%v %v %v)", src, tok.text, right)
		}
	}
}

func (ct *cTranslator) unary() (src string, err error) {
	tok, ok := ct.peek()
	if !ok {
		err = errExprEnd
		return
	}

	if tok.kind == 'o' && strings.Contains("-+~!", tok.text) {
		ct.pos++
		src, err = ct.unary()
		if err != nil {
			return
		}
		if tok.text == "!" {
			src = fmt.Sprintf("int(%v == 0)", src)
		} else {
			src = fmt.Sprintf("(%v%v)", tok.text, src)
		}
		return
	}

	return ct.primary()
}

func (ct *cTranslator) primary() (src string, err error) {
	tok, ok := ct.peek()
	if !ok {
		err = errExprEnd
		return
	}
	ct.pos++

	switch tok.kind {
	case 'n':
		// Integer suffixes carry no value.
		text := strings.TrimRight(tok.text, "uUlL")
		value, perr := strconv.ParseUint(text, 0, 64)
		if perr != nil {
			err = errors.New(f("'%v' is not an integer", tok.text))
			return
		}
		src = strconv.FormatUint(value, 10)
	case 'f':
		src, ok = ct.field(tok.text)
		if !ok {
			err = errors.New(f("'{%v}' is not a valid {field} reference", tok.text))
		}
	case 'i':
		err = errors.New(f("'%v' is not a {field} reference", tok.text))
	default:
		switch tok.text {
		case "(":
			src, err = ct.binary(0)
			if err != nil {
				return
			}
			next, ok := ct.peek()
			if !ok || next.text != ")" {
				err = errors.New(f("missing ')'"))
				return
			}
			ct.pos++
		case "?":
			err = errExprTernary
		default:
			err = errors.New(f("unexpected '%v'", tok.text))
		}
	}

	return
}

// cDivision returns a builtin with C's truncating integer division
// semantics for op.
func cDivision(name string, op func(a, b int64) int64) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 2 || len(kwargs) != 0 {
			return nil, errors.New(f("%v: expected 2 arguments", fn.Name()))
		}

		var values [2]int64
		for n, arg := range args {
			num, ok := arg.(starlark.Int)
			if !ok {
				return nil, errors.New(f("%v: %v is not an int", fn.Name(), arg.Type()))
			}
			values[n], ok = num.Int64()
			if !ok {
				return nil, errors.New(f("%v: %v is out of range", fn.Name(), num))
			}
		}

		if values[1] == 0 {
			return nil, errExprDivide
		}

		return starlark.MakeInt64(op(values[0], values[1])), nil
	})
}

var cBuiltins = starlark.StringDict{
	"_div": cDivision("_div", func(a, b int64) int64 { return a / b }),
	"_mod": cDivision("_mod", func(a, b int64) int64 { return a % b }),
}
