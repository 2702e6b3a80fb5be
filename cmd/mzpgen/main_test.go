package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Generate_ToyGrammar(t *testing.T) {
	grammarSrc := `
line  = field ("," field)* EOI ;
field = #Field:(!"," !EOI ANY)* ;
`
	src, err := generate(grammarSrc, cliConfig{
		Package:    "csvgen",
		PegImport:  "github.com/dekarrin/marzipan/internal/peg",
		TagType:    "Tag",
		TagPrefix:  "Tag",
		FuncPrefix: "match",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "// Code generated"))
	assert.Contains(t, src, "package csvgen")
	assert.Contains(t, src, "func matchline(p *peg.ParseState[Tag]) bool {")
	assert.Contains(t, src, "p.BeginCapture(TagField)")
}

func Test_Generate_QualifiesTagConstFromPackagedType(t *testing.T) {
	src, err := generate(`r = #Label:"x" ;`, cliConfig{
		Package:    "gen",
		PegImport:  "github.com/dekarrin/marzipan/internal/peg",
		TagType:    "script.CaptureTag",
		TagImport:  "github.com/dekarrin/marzipan/internal/script",
		TagPrefix:  "Tag",
		FuncPrefix: "parse_",
	})
	require.NoError(t, err)
	assert.Contains(t, src, "p.BeginCapture(script.TagLabel)")
}

func Test_Generate_BadGrammar_Errors(t *testing.T) {
	_, err := generate("not a valid grammar {{{", cliConfig{
		Package:   "p",
		PegImport: "x",
		TagType:   "int",
		TagPrefix: "Tag",
	})
	assert.Error(t, err)
}

func Test_LastDot(t *testing.T) {
	assert.Equal(t, -1, lastDot("CaptureTag"))
	assert.Equal(t, 6, lastDot("script.CaptureTag"))
}
