package diag

import (
	"testing"

	"github.com/dekarrin/marzipan/internal/peg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Context_InheritsNearestValues(t *testing.T) {
	root := NewRoot()
	file := root.WithFilePath("board1.brd")
	board := file.WithBoard(2)
	stat := board.WithStat(5)
	span := stat.WithSpan(peg.Span{Start: 10, End: 14})

	span.Error("something bad")

	msgs := root.Messages()
	require.Len(t, msgs, 1)
	m := msgs[0]
	assert.Equal(t, LevelError, m.Level)
	assert.Equal(t, "board1.brd", m.FilePath)
	assert.True(t, m.HasFile)
	assert.Equal(t, 2, m.Board)
	assert.Equal(t, 5, m.Stat)
	assert.Equal(t, peg.Span{Start: 10, End: 14}, m.Span)
}

func Test_Context_ChildDoesNotMutateParent(t *testing.T) {
	root := NewRoot()
	board1 := root.WithBoard(1)
	board2 := root.WithBoard(2)

	board1.Error("e1")
	board2.Error("e2")

	msgs := root.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, 1, msgs[0].Board)
	assert.Equal(t, 2, msgs[1].Board)
}

func Test_Context_AnyErrors(t *testing.T) {
	root := NewRoot()
	assert.False(t, root.AnyErrors())
	root.Warning("just a warning")
	assert.False(t, root.AnyErrors())
	root.Error("a real error")
	assert.True(t, root.AnyErrors())
	assert.Equal(t, 1, root.ErrorCount())
}

func Test_Context_MostSpecificWins(t *testing.T) {
	root := NewRoot()
	outer := root.WithSpan(peg.Span{Start: 0, End: 1})
	inner := outer.WithSpan(peg.Span{Start: 5, End: 6})
	inner.Error("x")
	assert.Equal(t, peg.Span{Start: 5, End: 6}, root.Messages()[0].Span)
}

type fakeLookup struct{}

func (fakeLookup) BoardName(int) string { return "Town Square" }
func (fakeLookup) StatLabel(board, stat int) (string, int, int) {
	return "Guard", 12, 7
}
func (fakeLookup) StatCode(board, stat int) string {
	return "line one\nline two\n:touch\n#send bogus\nline five\n"
}

func Test_Format_IncludesBreadcrumbAndExcerpt(t *testing.T) {
	root := NewRoot()
	ctx := root.WithFilePath("world.zzt").WithBoard(0).WithStat(0).
		WithSpan(peg.Span{Start: 9 + 10, End: 9 + 10 + 5})
	// offset 9 is the start of "line two\n", plus 10 puts us partway into
	// ":touch\n#send bogus\n"; exact value isn't load-bearing for this test,
	// it only checks the shape of the formatted output.
	ctx.Error("bogus reference")

	out := Format(root.Messages()[0], fakeLookup{})
	assert.Contains(t, out, "error: bogus reference")
	assert.Contains(t, out, "=>")
	assert.Contains(t, out, "world.zzt")
	assert.Contains(t, out, "Town Square")
	assert.Contains(t, out, `"Guard" (12,7)`)
	assert.Contains(t, out, "^")
}

func Test_LineCol_ScansFromZero(t *testing.T) {
	code := "abc\ndef\nghi"
	line, col := lineCol(code, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = lineCol(code, 5) // 'e' in "def"
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}
