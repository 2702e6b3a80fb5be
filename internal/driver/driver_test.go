package driver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/marzipan/internal/codepage"
	"github.com/dekarrin/marzipan/internal/worldio"
)

func boardWithScript(name string, script string) worldio.Board {
	return worldio.Board{
		Name: name,
		Stats: []worldio.Stat{
			{HasScript: true, Script: script},
		},
	}
}

func sampleWorld() worldio.World {
	return worldio.World{
		Header: worldio.Header{Name: "Test World"},
		Boards: []worldio.Board{
			boardWithScript("Good Board", ":touch\n#send .loop\n:.loop\n#end"),
			boardWithScript("Bad Board", "#send @b\n#end"),
		},
	}
}

func Test_Build_CommitsOnlyErrorFreeBoards(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.zzt")
	out := filepath.Join(dir, "out.zzt")

	table := codepage.DefaultTable()
	require.NoError(t, worldio.Save(in, sampleWorld(), table))

	result, err := Build(in, out, Options{Table: table})
	require.NoError(t, err)

	assert.True(t, result.Diag.AnyErrors())

	// the good board's script was rewritten: it no longer equals the
	// input, and it still carries its #send to the (now resolved) local
	// label.
	goodScript := result.World.Boards[0].Stats[0].Script
	assert.NotEqual(t, ":touch\n#send .loop\n:.loop\n#end", goodScript)
	assert.Contains(t, goodScript, "#send ")

	// the bad board's backward reference has no preceding anonymous
	// label, so its pipeline produced an error and its script must be
	// left completely untouched.
	assert.Equal(t, "#send @b\n#end", result.World.Boards[1].Stats[0].Script)

	reloaded, err := worldio.Load(out, table)
	require.NoError(t, err)
	assert.Equal(t, goodScript, reloaded.Boards[0].Stats[0].Script)
	assert.Equal(t, "#send @b\n#end", reloaded.Boards[1].Stats[0].Script)
}

func Test_Build_LoadError_PropagatesWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	_, err := Build(filepath.Join(dir, "missing.zzt"), filepath.Join(dir, "out.zzt"), Options{})
	assert.Error(t, err)
}
