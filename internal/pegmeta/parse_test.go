package pegmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseGrammar_Basic(t *testing.T) {
	src := `
line = item "," item ;
item = "foo" / "bar" ;
`
	g, err := ParseGrammar(src)
	require.NoError(t, err)
	require.Len(t, g.Rules, 2)

	line, ok := g.Rule("line")
	require.True(t, ok)
	assert.Equal(t, ExprSequence, line.Body.Kind)
	require.Len(t, line.Body.Items, 3)
	assert.Equal(t, ExprRule, line.Body.Items[0].Kind)
	assert.Equal(t, "item", line.Body.Items[0].RuleName)
	assert.Equal(t, ExprLiteral, line.Body.Items[1].Kind)
	assert.Equal(t, ",", line.Body.Items[1].Text)

	item, ok := g.Rule("item")
	require.True(t, ok)
	assert.Equal(t, ExprChoice, item.Body.Kind)
	require.Len(t, item.Body.Items, 2)
}

func Test_ParseGrammar_Icase(t *testing.T) {
	g, err := ParseGrammar(`@icase kw = "become" ;`)
	require.NoError(t, err)
	require.Len(t, g.Rules, 1)
	assert.True(t, g.Rules[0].ICase)
	assert.True(t, g.Rules[0].Body.ICase)
}

func Test_ParseGrammar_RangeAndRepetition(t *testing.T) {
	g, err := ParseGrammar(`digits = 'a'..'z'i+ ;`)
	require.NoError(t, err)
	body := g.Rules[0].Body
	require.Equal(t, ExprPlus, body.Kind)
	require.Equal(t, ExprRange, body.Sub.Kind)
	assert.True(t, body.Sub.ICase)
	assert.Equal(t, 'a', body.Sub.Lo)
	assert.Equal(t, 'z', body.Sub.Hi)
}

func Test_ParseGrammar_LookaheadAndCapture(t *testing.T) {
	g, err := ParseGrammar(`word = #Tag:(!"x" ANY)+ EOI ;`)
	require.NoError(t, err)
	body := g.Rules[0].Body
	require.Equal(t, ExprSequence, body.Kind)
	require.Len(t, body.Items, 2)
	assert.Equal(t, ExprCapture, body.Items[0].Kind)
	assert.Equal(t, "Tag", body.Items[0].Tag)
	assert.Equal(t, ExprEOI, body.Items[1].Kind)

	plus := body.Items[0].Sub
	require.Equal(t, ExprPlus, plus.Kind)
	require.Equal(t, ExprSequence, plus.Sub.Kind)
	assert.Equal(t, ExprNegLookahead, plus.Sub.Items[0].Kind)
	assert.Equal(t, ExprAny, plus.Sub.Items[1].Kind)
}

func Test_ParseGrammar_SyntaxError(t *testing.T) {
	_, err := ParseGrammar(`line = "unterminated ;`)
	assert.Error(t, err)
}

func Test_Grammar_Tags(t *testing.T) {
	g, err := ParseGrammar(`r = #A:"x" (#B:"y")? ;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, g.Tags())
}
