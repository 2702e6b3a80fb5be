package worldio

import (
	"fmt"
	"io"
)

// readPascalString reads a 1-length-byte-prefixed, zero-filled-to-capacity
// string field, per spec 6. cap is the field's total fixed width on disk,
// not counting the length byte.
func readPascalString(r io.Reader, cap int) (string, error) {
	var lenByte [1]byte
	if _, err := io.ReadFull(r, lenByte[:]); err != nil {
		return "", fmt.Errorf("reading pascal string length: %w", err)
	}
	n := int(lenByte[0])
	if n > cap {
		return "", fmt.Errorf("pascal string length %d exceeds field capacity %d", n, cap)
	}

	buf := make([]byte, cap)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("reading pascal string body: %w", err)
	}
	return string(buf[:n]), nil
}

// writePascalString writes s as a 1-length-byte-prefixed, zero-filled string
// field of exactly cap bytes. s longer than cap is an encoding error (spec 6
// names "string field overflow" as a fatal container error).
func writePascalString(w io.Writer, s string, cap int) error {
	if len(s) > cap {
		return fmt.Errorf("%w: string %q (%d bytes) exceeds field capacity %d", ErrStringFieldOverflow, s, len(s), cap)
	}
	if _, err := w.Write([]byte{byte(len(s))}); err != nil {
		return err
	}
	buf := make([]byte, cap)
	copy(buf, s)
	_, err := w.Write(buf)
	return err
}
