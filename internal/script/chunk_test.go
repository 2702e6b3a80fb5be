package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_ChunkScript_Faithfulness covers testable property 4: concatenating
// every chunk's textual form before any rewriting reproduces the input
// byte-for-byte.
func Test_ChunkScript_Faithfulness(t *testing.T) {
	inputs := []string{
		"",
		"plain text\n",
		":touch\n#send .loop\n:.loop\n#end",
		"#send all:@b\n",
		":@\n#send @f\n:@\n#send @b\n#end\n",
		"north #send target\n#char 65\nunparsed ? line\n",
	}
	for _, in := range inputs {
		chunks, _ := ChunkScript(in)
		assert.Equal(t, in, Join(chunks), "faithfulness broke for %q", in)
	}
}

// Test_ChunkScript_ScenarioA mirrors spec Scenario A.
func Test_ChunkScript_ScenarioA(t *testing.T) {
	in := ":touch\n#send .loop\n:.loop\n#end"
	chunks, findings := ChunkScript(in)
	assert.Empty(t, findings)

	var labels []LabelChunk
	for _, c := range chunks {
		if lc, ok := c.(LabelChunk); ok {
			labels = append(labels, lc)
		}
	}
	require.Len(t, labels, 3)

	assert.False(t, labels[0].IsRef)
	assert.Equal(t, "touch", labels[0].Name.Base)

	assert.True(t, labels[1].IsRef)
	assert.Equal(t, "", labels[1].Name.Base)
	assert.Equal(t, "loop", labels[1].Name.Local)

	assert.False(t, labels[2].IsRef)
	assert.Equal(t, "", labels[2].Name.Base)
	assert.Equal(t, "loop", labels[2].Name.Local)
}

// Test_ChunkScript_ScenarioB mirrors spec Scenario B (anonymous wiring).
func Test_ChunkScript_ScenarioB(t *testing.T) {
	in := ":@\n#send @f\n:@\n#send @b\n#end"
	chunks, findings := ChunkScript(in)
	assert.Empty(t, findings)

	var labels []LabelChunk
	for _, c := range chunks {
		if lc, ok := c.(LabelChunk); ok {
			labels = append(labels, lc)
		}
	}
	require.Len(t, labels, 4)
	assert.False(t, labels[0].IsRef)
	assert.True(t, labels[0].IsAnon)
	assert.True(t, labels[1].IsRef)
	assert.Equal(t, "@f", labels[1].Name.Base)
	assert.False(t, labels[2].IsRef)
	assert.True(t, labels[2].IsAnon)
	assert.True(t, labels[3].IsRef)
	assert.Equal(t, "@b", labels[3].Name.Base)
}

// Test_ChunkScript_ScenarioD mirrors spec Scenario D: recipient + anonymous
// label is rejected.
func Test_ChunkScript_ScenarioD(t *testing.T) {
	in := "#send all:@b"
	_, findings := ChunkScript(in)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Equal(t, "message targets not allowed for anonymous labels", findings[0].Message)
}

// Test_ChunkScript_ScenarioE mirrors spec Scenario E: recipient + local
// label is rejected.
func Test_ChunkScript_ScenarioE(t *testing.T) {
	in := "#send all:.loop"
	_, findings := ChunkScript(in)
	require.Len(t, findings, 1)
	assert.Equal(t, "message targets not supported for local labels", findings[0].Message)
}

func Test_ChunkScript_TrailingWarning(t *testing.T) {
	in := ":touch   extra junk\n"
	_, findings := ChunkScript(in)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, "trailing characters at end of line", findings[0].Message)
}

func Test_ChunkScript_UnparsableLineFallsBackToVerbatim(t *testing.T) {
	in := "? weird line that the grammar does not model\n"
	chunks, findings := ChunkScript(in)
	assert.Empty(t, findings)
	require.Len(t, chunks, 1)
	assert.Equal(t, in, Join(chunks))
}
