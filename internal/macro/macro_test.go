package macro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func Test_Expand_SplicesInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "part.txt", "middle line\n")
	main := writeFile(t, dir, "main.txt", "first\n%include \"part.txt\"\nlast\n")

	got, err := Expand(main)
	require.NoError(t, err)
	assert.Equal(t, "first\nmiddle line\nlast\n", got)
}

func Test_Expand_NormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.txt", "a\r\nb\r\n")

	got, err := Expand(main)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)
}

func Test_Expand_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inner.txt", "innermost\n")
	writeFile(t, dir, "middle.txt", "before\n%include \"inner.txt\"\nafter\n")
	main := writeFile(t, dir, "main.txt", "%include \"middle.txt\"\n")

	got, err := Expand(main)
	require.NoError(t, err)
	assert.Equal(t, "before\ninnermost\nafter\n", got)
}

func Test_Expand_CircularRef_Errors(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.txt")
	bPath := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(aPath, []byte("%include \"b.txt\"\n"), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte("%include \"a.txt\"\n"), 0o644))

	_, err := Expand(aPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncludeCircularRef)
}

func Test_Expand_UnknownDirective_Errors(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.txt", "%bogus \"x\"\n")

	_, err := Expand(main)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDirective)
}

func Test_Expand_WrongArgCount_Errors(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.txt", "%include \"a.txt\", \"b.txt\"\n")

	_, err := Expand(main)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDirectiveArgs)
}

func Test_Expand_NonStringArg_Errors(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.txt", "%include 42\n")

	_, err := Expand(main)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDirectiveArgs)
}

func Test_ExpandString_ResolvesRelativeToGivenPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "part.txt", "included\n")

	got, err := ExpandString("x\n%include \"part.txt\"\ny\n", filepath.Join(dir, "virtual.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x\nincluded\ny\n", got)
}
