package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	text := `<?xml version="1.0" encoding="UTF-8"?>
<isa>
	<!-- comment -->
	<bitset name="#instruction" size="8">
		<pattern low="6" high="7">11</pattern>
		<display/>
		<field name="SRC" low="0" high="5" type="uint"/>
	</bitset>
	<expr name="#zero">{SRC} == 0</expr>
</isa>
`

	root, err := Parse(strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal("isa", root.Tag)
	assert.Equal(2, root.Line)
	assert.Len(root.Children, 2)

	bitset := root.Find("bitset")
	require.NotNil(t, bitset)
	assert.Equal(4, bitset.Line)

	name, ok := bitset.Attr("name")
	assert.True(ok)
	assert.Equal("#instruction", name)
	assert.True(bitset.HasAttr("size"))
	assert.False(bitset.HasAttr("extends"))
	assert.Equal([]Attr{{"name", "#instruction"}, {"size", "8"}}, bitset.Attrs)

	pattern := bitset.Find("pattern")
	require.NotNil(t, pattern)
	assert.Equal("11", pattern.Text)

	display := bitset.Find("display")
	require.NotNil(t, display)
	assert.Equal("", display.Text)

	assert.Len(bitset.FindAll("field"), 1)
	assert.Len(bitset.FindAll("override"), 0)
	assert.Nil(bitset.Find("override"))

	expr := root.Find("expr")
	require.NotNil(t, expr)
	assert.Equal("{SRC} == 0", expr.TrimmedText())
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		text string
		err  error
	}{
		{"empty", "", ErrEmpty},
		{"comment_only", "<!-- nothing -->", ErrEmpty},
		{"two_roots", "<isa/>\n<isa/>", ErrMultipleRoots},
	}

	for _, entry := range table {
		_, err := Parse(strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		assert.True(errors.As(err, &syntax), entry.name)
	}

	_, err := Parse(strings.NewReader("<isa>\n<bitset>\n</isa>"))
	var syntax *ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(3, syntax.LineNo)
}
