package worldio

import (
	"bytes"
	"fmt"
	"io"
)

// readTerrain reads a board's RLE-encoded terrain: repeated (count, element,
// color) triples, a count of 0 standing for 256, until exactly TileCount
// tiles have been produced (spec 6).
func readTerrain(r io.Reader) ([TileCount]Tile, error) {
	var tiles [TileCount]Tile
	filled := 0

	for filled < TileCount {
		var triple [3]byte
		if _, err := io.ReadFull(r, triple[:]); err != nil {
			return tiles, fmt.Errorf("reading RLE terrain run: %w", err)
		}
		count := int(triple[0])
		if count == 0 {
			count = 256
		}
		tile := Tile{Element: triple[1], Color: triple[2]}

		if filled+count > TileCount {
			return tiles, fmt.Errorf("%w: run of %d at tile %d overshoots %d tiles", ErrTileCountMismatch, count, filled, TileCount)
		}
		for i := 0; i < count; i++ {
			tiles[filled+i] = tile
		}
		filled += count
	}

	return tiles, nil
}

// writeTerrain RLE-encodes tiles, run-length-encoding maximal runs of
// identical adjacent tiles with each run capped at 256 (encoded as count
// byte 0).
func writeTerrain(w io.Writer, tiles [TileCount]Tile) error {
	var buf bytes.Buffer

	i := 0
	for i < TileCount {
		run := tiles[i]
		n := 1
		for i+n < TileCount && n < 256 && tiles[i+n] == run {
			n++
		}
		countByte := byte(n)
		if n == 256 {
			countByte = 0
		}
		buf.WriteByte(countByte)
		buf.WriteByte(run.Element)
		buf.WriteByte(run.Color)
		i += n
	}

	_, err := w.Write(buf.Bytes())
	return err
}
