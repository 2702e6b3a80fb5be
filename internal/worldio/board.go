package worldio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dekarrin/marzipan/internal/codepage"
)

const boardNameCap = 50
const boardMessageCap = 58

// readBoard reads one size-prefixed board block: a u16 size, a 50-byte
// Pascal name, RLE terrain, board info, then (numStats-1):i16 and that many
// stat records.
func readBoard(r io.Reader, table *codepage.Table) (Board, error) {
	var size uint16
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return Board{}, fmt.Errorf("reading board size: %w", err)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Board{}, fmt.Errorf("reading board body: %w", err)
	}
	buf := bytes.NewReader(body)

	var b Board

	name, err := readPascalString(buf, boardNameCap)
	if err != nil {
		return Board{}, err
	}
	b.Name = name

	terrain, err := readTerrain(buf)
	if err != nil {
		return Board{}, err
	}
	b.Terrain = terrain

	info, err := readBoardInfo(buf)
	if err != nil {
		return Board{}, err
	}
	b.Info = info

	var numStatsMinusOne int16
	if err := binary.Read(buf, binary.LittleEndian, &numStatsMinusOne); err != nil {
		return Board{}, err
	}
	if numStatsMinusOne < -1 {
		return Board{}, ErrNegativeStatCount
	}
	numStats := int(numStatsMinusOne) + 1

	b.Stats = make([]Stat, numStats)
	for i := 0; i < numStats; i++ {
		stat, err := readStat(buf, table)
		if err != nil {
			return Board{}, fmt.Errorf("board %q stat %d: %w", b.Name, i, err)
		}
		b.Stats[i] = stat
	}

	return b, nil
}

// writeBoard encodes a board into its size-prefixed block.
func writeBoard(w io.Writer, b Board, table *codepage.Table) error {
	var body bytes.Buffer

	if err := writePascalString(&body, b.Name, boardNameCap); err != nil {
		return err
	}
	if err := writeTerrain(&body, b.Terrain); err != nil {
		return err
	}
	if err := writeBoardInfo(&body, b.Info); err != nil {
		return err
	}

	binary.Write(&body, binary.LittleEndian, int16(len(b.Stats)-1))
	for i, s := range b.Stats {
		if err := writeStat(&body, s, table); err != nil {
			return fmt.Errorf("board %q stat %d: %w", b.Name, i, err)
		}
	}

	if body.Len() > int(^uint16(0)) {
		return fmt.Errorf("board %q encodes to %d bytes, exceeds u16 size field", b.Name, body.Len())
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(body.Len())); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

func readBoardInfo(r io.Reader) (BoardInfo, error) {
	var info BoardInfo

	if err := binaryReadByte(r, &info.MaxShots); err != nil {
		return info, err
	}

	var isDark byte
	if err := binaryReadByte(r, &isDark); err != nil {
		return info, err
	}
	info.IsDark = isDark != 0

	for i := range info.Exits {
		if err := binaryReadByte(r, &info.Exits[i]); err != nil {
			return info, err
		}
	}

	var restart byte
	if err := binaryReadByte(r, &restart); err != nil {
		return info, err
	}
	info.RestartOnZap = restart != 0

	msg, err := readPascalString(r, boardMessageCap)
	if err != nil {
		return info, err
	}
	info.Message = msg

	if err := binaryReadByte(r, &info.PlayerEnterX); err != nil {
		return info, err
	}
	if err := binaryReadByte(r, &info.PlayerEnterY); err != nil {
		return info, err
	}

	if err := binary.Read(r, binary.LittleEndian, &info.TimeLimitSec); err != nil {
		return info, err
	}

	return info, nil
}

func writeBoardInfo(w io.Writer, info BoardInfo) error {
	w.Write([]byte{info.MaxShots})
	w.Write([]byte{boolByte(info.IsDark)})
	for _, e := range info.Exits {
		w.Write([]byte{e})
	}
	w.Write([]byte{boolByte(info.RestartOnZap)})

	if err := writePascalString(w, info.Message, boardMessageCap); err != nil {
		return err
	}

	w.Write([]byte{info.PlayerEnterX, info.PlayerEnterY})

	return binary.Write(w, binary.LittleEndian, info.TimeLimitSec)
}

func binaryReadByte(r io.Reader, dst *byte) error {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return err
	}
	*dst = b[0]
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
