package script

import (
	"testing"

	"github.com/dekarrin/marzipan/internal/peg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, line string) (*peg.ParseState[CaptureTag], []peg.CaptureNode[CaptureTag]) {
	t.Helper()
	p, ok := parseLine(line)
	require.Truef(t, ok, "expected %q to parse as a line", line)
	return p, peg.Forest(p.Captures())
}

func Test_ParseLine_LabelLine_Global(t *testing.T) {
	p, forest := mustParse(t, ":touch")
	require.Len(t, forest, 1)
	label := forest[0]
	assert.Equal(t, TagLabel, label.Kind)
	g, ok := label.Find(TagGlobal)
	require.True(t, ok)
	assert.Equal(t, "touch", g.Text(p.Input()))
	assert.False(t, label.Has(TagLocal))
	assert.False(t, label.Has(TagAnon))
}

func Test_ParseLine_LabelLine_Local(t *testing.T) {
	p, forest := mustParse(t, ":.loop")
	label := forest[0]
	l, ok := label.Find(TagLocal)
	require.True(t, ok)
	assert.Equal(t, "loop", l.Text(p.Input()))
	assert.False(t, label.Has(TagGlobal))
}

func Test_ParseLine_LabelLine_Namespace(t *testing.T) {
	p, forest := mustParse(t, ":area~touch.foo")
	label := forest[0]
	ns, ok := label.Find(TagNamespace)
	require.True(t, ok)
	assert.Equal(t, "area", ns.Text(p.Input()))
	g, ok := label.Find(TagGlobal)
	require.True(t, ok)
	assert.Equal(t, "touch", g.Text(p.Input()))
	l, ok := label.Find(TagLocal)
	require.True(t, ok)
	assert.Equal(t, "foo", l.Text(p.Input()))
}

func Test_ParseLine_LabelLine_Anon(t *testing.T) {
	_, forest := mustParse(t, ":@")
	label := forest[0]
	assert.True(t, label.Has(TagAnon))
}

func Test_ParseLine_SendCommand_Message(t *testing.T) {
	p, forest := mustParse(t, "#send .loop")
	require.Len(t, forest, 1)
	ref := forest[0]
	assert.Equal(t, TagReference, ref.Kind)
	label, ok := ref.Find(TagLabel)
	require.True(t, ok)
	l, ok := label.Find(TagLocal)
	require.True(t, ok)
	assert.Equal(t, "loop", l.Text(p.Input()))
	assert.False(t, ref.Has(TagRecipient))
}

func Test_ParseLine_SendCommand_WithRecipientAndAnon(t *testing.T) {
	p, forest := mustParse(t, "#send all:@b")
	ref := forest[0]
	recipient, ok := ref.Find(TagRecipient)
	require.True(t, ok)
	assert.Equal(t, "all", recipient.Text(p.Input()))
	label, ok := ref.Find(TagLabel)
	require.True(t, ok)
	anon, ok := label.Find(TagAnon)
	require.True(t, ok)
	assert.Equal(t, "@b", anon.Text(p.Input()))
}

func Test_ParseLine_BareShorthandSend(t *testing.T) {
	p, forest := mustParse(t, "#area~label")
	require.Len(t, forest, 1)
	ref := forest[0]
	require.Equal(t, TagReference, ref.Kind)
	label, _ := ref.Find(TagLabel)
	ns, ok := label.Find(TagNamespace)
	require.True(t, ok)
	assert.Equal(t, "area", ns.Text(p.Input()))
}

func Test_ParseLine_SimpleCommand_IgnoresRest(t *testing.T) {
	_, forest := mustParse(t, "#char 65")
	assert.Len(t, forest, 0)
}

func Test_ParseLine_IfCommand_NestedSend(t *testing.T) {
	p, forest := mustParse(t, "#if flag #send target")
	require.Len(t, forest, 2)
	for _, ref := range forest {
		assert.Equal(t, TagReference, ref.Kind)
	}
	label0, _ := forest[0].Find(TagLabel)
	g0, _ := label0.Find(TagGlobal)
	assert.Equal(t, "flag", g0.Text(p.Input()))
	label1, _ := forest[1].Find(TagLabel)
	g1, _ := label1.Find(TagGlobal)
	assert.Equal(t, "target", g1.Text(p.Input()))
}

func Test_ParseLine_Text(t *testing.T) {
	_, forest := mustParse(t, "Just a line of dialogue.")
	assert.Len(t, forest, 0)
}

func Test_ParseLine_TrailingWarning(t *testing.T) {
	p, forest := mustParse(t, ":touch   extra junk")
	require.Len(t, forest, 2)
	assert.Equal(t, TagLabel, forest[0].Kind)
	assert.Equal(t, TagWarnTrailing, forest[1].Kind)
	assert.Equal(t, "extra junk", forest[1].Text(p.Input()))
}

func Test_ParseLine_Movement_Prefix(t *testing.T) {
	p, forest := mustParse(t, "north #send target")
	require.Len(t, forest, 1)
	label, _ := forest[0].Find(TagLabel)
	g, _ := label.Find(TagGlobal)
	assert.Equal(t, "target", g.Text(p.Input()))
}
