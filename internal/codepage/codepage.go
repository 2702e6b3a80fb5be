// Package codepage implements the bidirectional byte<->rune codec for the
// game's 8-bit script text (spec section 4.9). Decoding always folds the
// internal line-terminator byte (13) to '\n'; encoding reverses that
// mapping on top of whatever table is in effect.
package codepage

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding/charmap"
)

// terminatorByte is the game's native line-terminator byte, independent of
// whatever the active code page's table says byte 13 decodes to.
const terminatorByte = 13

// ErrNoCodepagePreimage is returned by Encode when a rune in the input has
// no byte under the active table.
var ErrNoCodepagePreimage = errors.New("rune has no byte pre-image in code page")

// Table is a full 256-entry byte<->rune mapping.
type Table struct {
	toRune [256]rune
	toByte map[rune]byte
}

// FromCharmap builds a Table from a golang.org/x/text charmap, decoding
// each of the 256 byte values once.
func FromCharmap(cm *charmap.Charmap) *Table {
	t := &Table{toByte: make(map[rune]byte, 256)}
	for b := 0; b < 256; b++ {
		r := cm.DecodeByte(byte(b))
		t.toRune[b] = r
		if _, taken := t.toByte[r]; !taken {
			t.toByte[r] = byte(b)
		}
	}
	return t
}

// FromTable builds a Table from an explicit 256-entry byte->rune mapping,
// as loaded from an operator-supplied TOML override (internal/mzconfig).
func FromTable(bytes [256]rune) *Table {
	t := &Table{toRune: bytes, toByte: make(map[rune]byte, 256)}
	for b, r := range bytes {
		if _, taken := t.toByte[r]; !taken {
			t.toByte[r] = byte(b)
		}
	}
	return t
}

// DefaultTable is the built-in default code page, IBM code page 437, the
// table this family of games shipped with historically.
func DefaultTable() *Table {
	return FromCharmap(charmap.CodePage437)
}

// tomlTable is the on-disk shape of an operator-supplied code-page override,
// a flat array of 256 Unicode code points indexed by byte value.
type tomlTable struct {
	Bytes [256]int32 `toml:"bytes"`
}

// LoadTable reads an operator-supplied code-page override from a TOML file
// (internal/mzconfig's Codepage.TablePath) and builds a Table from it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code page table %q: %w", path, err)
	}

	var tt tomlTable
	if err := toml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("parsing code page table %q: %w", path, err)
	}

	var runes [256]rune
	for i, cp := range tt.Bytes {
		runes[i] = rune(cp)
	}
	return FromTable(runes), nil
}

// Decode converts raw 8-bit script bytes to a decoded string, folding the
// terminator byte to '\n' per spec 4.9. The core never sees the native
// terminator byte.
func Decode(data []byte, t *Table) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		if b == terminatorByte {
			runes[i] = '\n'
			continue
		}
		runes[i] = t.toRune[b]
	}
	return string(runes)
}

// Encode reverses Decode: '\n' always becomes the terminator byte,
// regardless of what byte the table's forward mapping would otherwise pick,
// and every other rune goes through the table's reverse mapping. Encode
// returns ErrNoCodepagePreimage for the first rune with no byte pre-image.
func Encode(s string, t *Table) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r == '\n' {
			out = append(out, terminatorByte)
			continue
		}
		b, ok := t.toByte[r]
		if !ok {
			return nil, fmt.Errorf("%q: %w", r, ErrNoCodepagePreimage)
		}
		out = append(out, b)
	}
	return out, nil
}
