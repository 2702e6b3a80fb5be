package worldio

import "errors"

// Errors returned while decoding or encoding a world container; Load and
// Save wrap them in internal/mzerrors' container category (spec 7's
// "I/O / container" taxonomy).
var (
	// ErrBadMagic is returned when a world file's header doesn't start with
	// the expected magic value.
	ErrBadMagic = errors.New("not a world file: bad magic value")

	// ErrTileCountMismatch is returned when a board's RLE-encoded terrain
	// doesn't expand to exactly TileCount tiles.
	ErrTileCountMismatch = errors.New("board terrain does not decode to the expected tile count")

	// ErrNegativeStatCount is returned when a board's encoded stat count is
	// negative.
	ErrNegativeStatCount = errors.New("board has a negative stat count")

	// ErrStringFieldOverflow is returned when encoding a string into a
	// fixed-capacity Pascal string field that's too small to hold it.
	ErrStringFieldOverflow = errors.New("string does not fit in its fixed-capacity field")
)
