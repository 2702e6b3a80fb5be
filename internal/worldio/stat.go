package worldio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dekarrin/marzipan/internal/codepage"
)

const statSkippedBytesBeforeScript = 8
const statSkippedBytesAfterPointer = 4

// readStat reads one stat record and decodes its script bytes (if any)
// through table, per spec 6's fixed layout: position, steps, cycle, three
// parameters, follower/leader, under-tile, four skipped bytes, instruction
// pointer, a length field, eight skipped bytes, then the script.
func readStat(r io.Reader, table *codepage.Table) (Stat, error) {
	var s Stat

	var pos [2]byte
	if _, err := io.ReadFull(r, pos[:]); err != nil {
		return s, err
	}
	s.X, s.Y = pos[0], pos[1]

	for _, field := range []*int16{&s.StepX, &s.StepY, &s.Cycle} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return s, err
		}
	}

	var params [3]byte
	if _, err := io.ReadFull(r, params[:]); err != nil {
		return s, err
	}
	s.P1, s.P2, s.P3 = params[0], params[1], params[2]

	for _, field := range []*int16{&s.Follower, &s.Leader} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return s, err
		}
	}

	var under [2]byte
	if _, err := io.ReadFull(r, under[:]); err != nil {
		return s, err
	}
	s.UnderElement, s.UnderColor = under[0], under[1]

	if _, err := io.CopyN(io.Discard, r, statSkippedBytesAfterPointer); err != nil {
		return s, err
	}

	if err := binary.Read(r, binary.LittleEndian, &s.InstructionPointer); err != nil {
		return s, err
	}

	var length int16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return s, err
	}

	if _, err := io.CopyN(io.Discard, r, statSkippedBytesBeforeScript); err != nil {
		return s, err
	}

	if length > 0 {
		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return s, fmt.Errorf("reading stat script bytes: %w", err)
		}
		s.HasScript = true
		s.Script = codepage.Decode(raw, table)
	} else {
		s.BindIndex = -length
	}

	return s, nil
}

// writeStat encodes one stat record, re-encoding its script through table.
func writeStat(w io.Writer, s Stat, table *codepage.Table) error {
	var buf bytes.Buffer

	buf.WriteByte(s.X)
	buf.WriteByte(s.Y)

	for _, v := range []int16{s.StepX, s.StepY, s.Cycle} {
		binary.Write(&buf, binary.LittleEndian, v)
	}

	buf.WriteByte(s.P1)
	buf.WriteByte(s.P2)
	buf.WriteByte(s.P3)

	for _, v := range []int16{s.Follower, s.Leader} {
		binary.Write(&buf, binary.LittleEndian, v)
	}

	buf.WriteByte(s.UnderElement)
	buf.WriteByte(s.UnderColor)

	buf.Write(make([]byte, statSkippedBytesAfterPointer))

	binary.Write(&buf, binary.LittleEndian, s.InstructionPointer)

	var scriptBytes []byte
	var length int16
	if s.HasScript {
		encoded, err := codepage.Encode(s.Script, table)
		if err != nil {
			return fmt.Errorf("encoding stat script: %w", err)
		}
		scriptBytes = encoded
		length = int16(len(encoded))
	} else {
		length = -s.BindIndex
	}
	binary.Write(&buf, binary.LittleEndian, length)

	buf.Write(make([]byte, statSkippedBytesBeforeScript))
	buf.Write(scriptBytes)

	_, err := w.Write(buf.Bytes())
	return err
}
