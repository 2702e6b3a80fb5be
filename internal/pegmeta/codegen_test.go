package pegmeta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Generate_EmitsOneFuncPerRule(t *testing.T) {
	g, err := ParseGrammar(`
line  = field ("," field)* EOI ;
field = #Field:(!"," !EOI ANY)* ;
`)
	require.NoError(t, err)

	src, err := Generate(g, GenerateConfig{
		Package:   "csvgen",
		PegImport: "github.com/dekarrin/marzipan/internal/peg",
		TagType:   "Tag",
		TagConst: func(name string) string {
			return "Tag" + name
		},
		FuncPrefix: "match",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "// Code generated"))
	assert.Contains(t, src, "package csvgen")
	assert.Contains(t, src, `"github.com/dekarrin/marzipan/internal/peg"`)
	assert.Contains(t, src, "func matchline(p *peg.ParseState[Tag]) bool {")
	assert.Contains(t, src, "func matchfield(p *peg.ParseState[Tag]) bool {")
	assert.Contains(t, src, "p.BeginCapture(TagField)")
	assert.Contains(t, src, "p.EOI()")

	// brace balance sanity check: a structural bug in emit() (e.g. the
	// Sequence-ordering regression this package once had) tends to show up
	// as mismatched braces long before it shows up as a subtler bug.
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"))
}

func Test_Generate_RequiresTagConst(t *testing.T) {
	g, err := ParseGrammar(`r = "x" ;`)
	require.NoError(t, err)
	_, err = Generate(g, GenerateConfig{Package: "p", PegImport: "x"})
	assert.Error(t, err)
}

func Test_Generate_SequenceGuardsLaterItems(t *testing.T) {
	// Regression test for a past bug where a sequence's later items were
	// emitted unconditionally instead of nested inside "if ok { ... }",
	// letting them run even after an earlier item had already failed.
	g, err := ParseGrammar(`r = "a" "b" "c" ;`)
	require.NoError(t, err)
	src, err := Generate(g, GenerateConfig{
		Package:    "p",
		PegImport:  "github.com/dekarrin/marzipan/internal/peg",
		TagType:    "int",
		TagConst:   func(string) string { return "0" },
		FuncPrefix: "",
	})
	require.NoError(t, err)

	// every literal match after the first must appear textually inside an
	// "if ok" block; a crude but effective check is that the number of
	// "if ok" guards equals the number of sequence items.
	assert.Equal(t, 3, strings.Count(src, "if ok1 {"))
}
