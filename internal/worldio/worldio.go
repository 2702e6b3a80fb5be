package worldio

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/marzipan/internal/codepage"
	"github.com/dekarrin/marzipan/internal/mzerrors"
)

// Load reads a complete world from path, decoding every stat's script
// through table.
func Load(path string, table *codepage.Table) (World, error) {
	f, err := os.Open(path)
	if err != nil {
		return World{}, mzerrors.Wrap(mzerrors.CategoryContainer, err, fmt.Sprintf("opening world file %q", path))
	}
	defer f.Close()

	w, err := ReadWorld(f, table)
	if err != nil {
		return World{}, mzerrors.Wrap(mzerrors.CategoryContainer, err, fmt.Sprintf("reading world file %q", path))
	}
	return w, nil
}

// Save writes a complete world to path, re-encoding every stat's script
// through table.
func Save(path string, w World, table *codepage.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return mzerrors.Wrap(mzerrors.CategoryContainer, err, fmt.Sprintf("creating world file %q", path))
	}
	defer f.Close()

	if err := WriteWorld(f, w, table); err != nil {
		return mzerrors.Wrap(mzerrors.CategoryContainer, err, fmt.Sprintf("writing world file %q", path))
	}
	return nil
}

// ReadWorld decodes a complete world from r: the fixed header, then that
// many boards in sequence.
func ReadWorld(r io.Reader, table *codepage.Table) (World, error) {
	header, numBoards, err := readHeader(r)
	if err != nil {
		return World{}, err
	}

	boards := make([]Board, numBoards)
	for i := 0; i < numBoards; i++ {
		b, err := readBoard(r, table)
		if err != nil {
			return World{}, fmt.Errorf("board %d: %w", i, err)
		}
		boards[i] = b
	}

	return World{Header: header, Boards: boards}, nil
}

// WriteWorld encodes a complete world to w: the fixed header, then every
// board in order.
func WriteWorld(w io.Writer, world World, table *codepage.Table) error {
	if err := writeHeader(w, world.Header, len(world.Boards)); err != nil {
		return err
	}
	for i, b := range world.Boards {
		if err := writeBoard(w, b, table); err != nil {
			return fmt.Errorf("board %d: %w", i, err)
		}
	}
	return nil
}
