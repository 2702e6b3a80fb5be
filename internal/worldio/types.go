// Package worldio reads and writes the world/board binary container
// documented in spec section 6: a fixed 512-byte world header, followed by
// one size-prefixed block per board holding RLE terrain, board info, and a
// run of stat records. The core never touches this package directly — it
// only ever sees the decoded script strings internal/codepage hands it.
package worldio

// BoardWidth and BoardHeight are the fixed terrain dimensions every board
// uses, per spec 6.
const (
	BoardWidth  = 60
	BoardHeight = 25
	TileCount   = BoardWidth * BoardHeight
)

// Header is the 512-byte world header (spec 6). Only the fields spec names
// are modeled; everything else is zero padding.
type Header struct {
	Ammo            int16
	Gems            int16
	Keys            int16
	Health          int16
	StartingBoard   int16
	Torches         int16
	TorchCycles     int16
	EnergizerCycles int16
	Score           int16
	Name            string
	Flags           [10]string
	Time            int16
	TimeTicks       int16
	Locked          bool
}

// Tile is one terrain cell: an element ID and its color attribute byte.
type Tile struct {
	Element byte
	Color   byte
}

// BoardInfo is the handful of fixed board-level fields that follow the
// terrain grid, before the stat count.
type BoardInfo struct {
	MaxShots       byte
	IsDark         bool
	Exits          [4]byte // north, south, east, west board indices
	RestartOnZap   bool
	Message        string
	PlayerEnterX   byte
	PlayerEnterY   byte
	TimeLimitSec   int16
}

// Stat is one stat record (spec 6): a board object's position, movement,
// and (possibly) attached script.
type Stat struct {
	X, Y               byte
	StepX, StepY       int16
	Cycle              int16
	P1, P2, P3         byte
	Follower, Leader   int16
	UnderElement       byte
	UnderColor         byte
	InstructionPointer int16

	// HasScript is true when this stat owns its own script bytes (a
	// positive length field); false means it binds to another stat's
	// script, identified by BindIndex (the length field's negative
	// magnitude).
	HasScript bool
	Script    string
	BindIndex int16
}

// Board is one decoded board: its name, terrain grid, info bytes, and stat
// records.
type Board struct {
	Name    string
	Terrain [TileCount]Tile
	Info    BoardInfo
	Stats   []Stat
}

// World is a fully decoded world: the header plus every board in order.
type World struct {
	Header Header
	Boards []Board
}
