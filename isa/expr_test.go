package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExpression(t *testing.T) {
	assert := assert.New(t)

	expr := NewExpression("#sum", "  {B} + {A} * 2 + {B}\n")
	assert.Equal("#sum", expr.Name)
	assert.Equal("{B} + {A} * 2 + {B}", expr.Source)
	assert.Equal("B + A * 2 + B", expr.Text)
	assert.Equal([]string{"A", "B"}, expr.FieldNames)
	assert.True(expr.HasField("A"))
	assert.False(expr.HasField("C"))
	assert.Equal("expr___sum", expr.CName())

	bare := NewExpression("anon_0", "1")
	assert.Nil(bare.FieldNames)
}

func TestExpressionEval(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text   string
		values map[string]int64
		expect int64
	}{
		{"{A} + {B} * 2", map[string]int64{"A": 1, "B": 3}, 7},
		{"({A} == 1) && !{B}", map[string]int64{"A": 1, "B": 0}, 1},
		{"({A} == 1) && !{B}", map[string]int64{"A": 1, "B": 1}, 0},
		{"{A} || {B}", map[string]int64{"A": 0, "B": 0}, 0},
		{"{A} != 0", map[string]int64{"A": 0}, 0},
		{"{A} / 2", map[string]int64{"A": 7}, 3},
		{"{A} << 4 | {B}", map[string]int64{"A": 1, "B": 2}, 18},
		{"{A} /* comment */ + 1", map[string]int64{"A": 1}, 2},
		{"({A} &\n 0x3)", map[string]int64{"A": 0xf}, 3},
		{"~{A} & 0xff", map[string]int64{"A": 0x0f}, 0xf0},
		{"{A} && {B}", map[string]int64{"A": 2, "B": 3}, 1},
		{"{A} || {B}", map[string]int64{"A": 0, "B": 3}, 1},
		{"!{A} & 1", map[string]int64{"A": 2}, 0},
		{"!!{A}", map[string]int64{"A": 7}, 1},
		{"{A} & ({B} == 3)", map[string]int64{"A": 2, "B": 3}, 0},
		{"{A} & {B} == 3", map[string]int64{"A": 2, "B": 3}, 0},
		{"{A} == 2 + 1", map[string]int64{"A": 2}, 0},
		{"({A} < {B}) + 1", map[string]int64{"A": 2, "B": 3}, 2},
		{"{A} < {B} == 1", map[string]int64{"A": 2, "B": 3}, 1},
		{"-7 / 2", nil, -3},
		{"-7 % 2", nil, -1},
		{"{A} / -2", map[string]int64{"A": 7}, -3},
		{"10 - 4 - 3", nil, 3},
		{"1 << 2 + 1", nil, 8},
		{"0x10u | 010", nil, 0x18},
		{"{A} || 1 / 0", map[string]int64{"A": 1}, 1},
		{"{in} + {3D}", map[string]int64{"in": 1, "3D": 2}, 3},
		{"{if} && !{pass}", map[string]int64{"if": 1, "pass": 0}, 1},
	}

	for _, entry := range table {
		expr := NewExpression("test", entry.text)
		value, err := expr.Eval(entry.values)
		assert.NoError(err, entry.text)
		assert.Equal(entry.expect, value, entry.text)
	}
}

func TestExpressionEvalErrors(t *testing.T) {
	assert := assert.New(t)

	expr := NewExpression("test", "{A} + {B}")
	_, err := expr.Eval(map[string]int64{"A": 1})
	assert.ErrorIs(err, ErrExpression)

	expr = NewExpression("test", "{A} ? 1 : 2")
	_, err = expr.Eval(map[string]int64{"A": 1})
	assert.ErrorIs(err, ErrExpression)
	assert.ErrorIs(err, errExprTernary)

	expr = NewExpression("test", "{A} +")
	_, err = expr.Eval(map[string]int64{"A": 1})
	assert.ErrorIs(err, ErrExpression)

	expr = NewExpression("test", "{A} / 0")
	_, err = expr.Eval(map[string]int64{"A": 1})
	assert.ErrorIs(err, ErrExpression)

	expr = NewExpression("test", "{A} && _f0")
	_, err = expr.Eval(map[string]int64{"A": 1})
	assert.ErrorIs(err, ErrExpression)
}

func TestExpressionCheck(t *testing.T) {
	assert := assert.New(t)

	good := []string{
		"{SRC} == 0",
		"({A} & 0x3) == 2 && ({B} || !{C})",
		"{WRMASK} != 0xf",
		"0",
		"{in} == {3D}",
		"{def} && !{pass} /* keywords */",
		"-{A} % 3 >= ~{B}",
	}
	for _, text := range good {
		assert.NoError(NewExpression("good", text).Check(), text)
	}

	bad := []string{
		"{A} +",
		"{A} + B",
		"{A} ? 1 : 0",
		"({A}",
		"{A})",
		"{A} {B}",
		"{A",
		"{A} $ 1",
		"0x1g",
		"{} + 1",
	}
	for _, text := range bad {
		err := NewExpression("bad", text).Check()
		assert.ErrorIs(err, ErrExpression, text)

		var se *ErrExpressionSyntax
		assert.ErrorAs(err, &se, text)
	}
}
