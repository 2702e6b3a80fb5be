package worldio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerSize  = 512
	headerMagic = int16(-1) // 0xFFFF as a little-endian signed int16
	worldNameCap = 20
	flagCap      = 20
)

// readHeader reads and validates the fixed 512-byte world header, returning
// the board count alongside it (the header stores numBoards-1, not the
// count itself).
func readHeader(r io.Reader) (Header, int, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Header{}, 0, fmt.Errorf("reading world header: %w", err)
	}
	buf := bytes.NewReader(raw)

	var magic, numBoardsMinusOne int16
	if err := binary.Read(buf, binary.LittleEndian, &magic); err != nil {
		return Header{}, 0, err
	}
	if magic != headerMagic {
		return Header{}, 0, ErrBadMagic
	}
	if err := binary.Read(buf, binary.LittleEndian, &numBoardsMinusOne); err != nil {
		return Header{}, 0, err
	}

	var h Header
	for _, field := range []*int16{
		&h.Ammo, &h.Gems, &h.Keys, &h.Health, &h.StartingBoard,
		&h.Torches, &h.TorchCycles, &h.EnergizerCycles, &h.Score,
	} {
		if err := binary.Read(buf, binary.LittleEndian, field); err != nil {
			return Header{}, 0, err
		}
	}

	name, err := readPascalString(buf, worldNameCap)
	if err != nil {
		return Header{}, 0, err
	}
	h.Name = name

	for i := range h.Flags {
		flag, err := readPascalString(buf, flagCap)
		if err != nil {
			return Header{}, 0, err
		}
		h.Flags[i] = flag
	}

	if err := binary.Read(buf, binary.LittleEndian, &h.Time); err != nil {
		return Header{}, 0, err
	}
	if err := binary.Read(buf, binary.LittleEndian, &h.TimeTicks); err != nil {
		return Header{}, 0, err
	}

	var locked byte
	if err := binary.Read(buf, binary.LittleEndian, &locked); err != nil {
		return Header{}, 0, err
	}
	h.Locked = locked != 0

	// the rest of the 512 bytes is zero padding.
	return h, int(numBoardsMinusOne) + 1, nil
}

// writeHeader writes h as the fixed 512-byte header, zero-padding the
// remainder.
func writeHeader(w io.Writer, h Header, numBoards int) error {
	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, headerMagic)
	binary.Write(&buf, binary.LittleEndian, int16(numBoards-1))

	for _, v := range []int16{
		h.Ammo, h.Gems, h.Keys, h.Health, h.StartingBoard,
		h.Torches, h.TorchCycles, h.EnergizerCycles, h.Score,
	} {
		binary.Write(&buf, binary.LittleEndian, v)
	}

	if err := writePascalString(&buf, h.Name, worldNameCap); err != nil {
		return err
	}
	for _, f := range h.Flags {
		if err := writePascalString(&buf, f, flagCap); err != nil {
			return err
		}
	}

	binary.Write(&buf, binary.LittleEndian, h.Time)
	binary.Write(&buf, binary.LittleEndian, h.TimeTicks)

	locked := byte(0)
	if h.Locked {
		locked = 1
	}
	buf.WriteByte(locked)

	if buf.Len() > headerSize {
		return fmt.Errorf("encoded world header is %d bytes, exceeds fixed size %d", buf.Len(), headerSize)
	}
	padded := make([]byte, headerSize)
	copy(padded, buf.Bytes())

	_, err := w.Write(padded)
	return err
}
