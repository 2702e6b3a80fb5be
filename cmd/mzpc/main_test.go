package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/marzipan/internal/worldio"
)

func Test_WorldLookup_OutOfRangeIsSafe(t *testing.T) {
	l := worldLookup{worldio.World{}}
	assert.Equal(t, "board 3", l.BoardName(3))

	name, x, y := l.StatLabel(0, 0)
	assert.Equal(t, "?", name)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	assert.Equal(t, "", l.StatCode(0, 0))
}

func Test_WorldLookup_ResolvesRealBoardAndStat(t *testing.T) {
	w := worldio.World{
		Boards: []worldio.Board{
			{
				Name: "Town Square",
				Stats: []worldio.Stat{
					{X: 5, Y: 7, HasScript: true, Script: ":touch\n#end"},
				},
			},
		},
	}
	l := worldLookup{w}
	assert.Equal(t, "Town Square", l.BoardName(0))

	name, x, y := l.StatLabel(0, 0)
	assert.Equal(t, "stat 0", name)
	assert.Equal(t, 5, x)
	assert.Equal(t, 7, y)

	assert.Equal(t, ":touch\n#end", l.StatCode(0, 0))
}
