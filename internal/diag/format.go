package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/marzipan/internal/peg"
	"github.com/dekarrin/rosed"
)

// WorldLookup resolves the world-specific names a Message's indices refer
// to, at format time rather than store time — per design note "Cyclic
// references between boards and diagnostics" in spec section 9, a Message
// stores only indices, and the world is consulted only when formatting a
// message for display.
type WorldLookup interface {
	// BoardName returns the display name of the board at the given index.
	BoardName(board int) string

	// StatLabel returns a short human label for the stat at (board, stat),
	// e.g. an object name, and its (x, y) position.
	StatLabel(board, stat int) (name string, x, y int)

	// StatCode returns the decoded script source for the stat at
	// (board, stat), used to render the source-excerpt context block.
	StatCode(board, stat int) string
}

// Format renders m in the rich human-readable form from spec 4.7: a first
// line "level: message", a second "=>" breadcrumb line, and — when the
// message carries a span — a context block with up to three lines of
// surrounding source, a caret underline, and numbered gutters.
func Format(m Message, lookup WorldLookup) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", m.Level, m.Text)
	b.WriteString("=> ")
	b.WriteString(breadcrumb(m, lookup))

	if m.HasSpan && m.HasStat {
		code := lookup.StatCode(safeBoard(m), m.Stat)
		b.WriteByte('\n')
		b.WriteString(sourceExcerpt(code, m.Span))
	}

	return rosed.Edit(b.String()).String()
}

func safeBoard(m Message) int {
	if m.HasBoard {
		return m.Board
	}
	return 0
}

func breadcrumb(m Message, lookup WorldLookup) string {
	var parts []string
	if m.HasFile {
		parts = append(parts, m.FilePath)
	}
	if m.HasBoard {
		parts = append(parts, lookup.BoardName(m.Board))
	}
	if m.HasBoard && m.HasStat {
		name, x, y := lookup.StatLabel(m.Board, m.Stat)
		parts = append(parts, fmt.Sprintf("%q (%d,%d)", name, x, y))
	}
	if m.HasSpan && m.HasStat {
		code := lookup.StatCode(safeBoard(m), m.Stat)
		line, col := lineCol(code, m.Span.Start)
		parts = append(parts, fmt.Sprintf("line %d:%d", line, col))
	}
	if len(parts) == 0 {
		return "(no location)"
	}
	return strings.Join(parts, " -> ")
}

// lineCol scans code from offset 0, as spec 4.7 requires: "\n" increments
// the line and resets the column to 1.
func lineCol(code string, offset int) (line, col int) {
	line, col = 1, 1
	if offset > len(code) {
		offset = len(code)
	}
	for i := 0; i < offset; i++ {
		if code[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// sourceExcerpt renders up to three lines before and after the line
// containing span, with numbered gutters and a caret underline beneath the
// span on its own line. This gutter/caret layout is hand-rolled rather than
// built from rosed: it is a fixed, single-purpose block format (numbered
// gutter width, caret run length tied to byte offsets) rather than a
// paragraph-reflow or tabular problem, which is what rosed's Edit/table
// helpers are built around.
func sourceExcerpt(code string, span peg.Span) string {
	lines := strings.Split(code, "\n")
	spanLine, lineStartOffset := lineIndexOf(lines, span.Start)

	first := spanLine - 3
	if first < 0 {
		first = 0
	}
	last := spanLine + 3
	if last > len(lines)-1 {
		last = len(lines) - 1
	}

	gutterWidth := len(strconv.Itoa(last + 1))

	var b strings.Builder
	for i := first; i <= last; i++ {
		fmt.Fprintf(&b, "%*d | %s\n", gutterWidth, i+1, lines[i])
		if i == spanLine {
			caretLen := span.End - span.Start
			if caretLen < 1 {
				caretLen = 1
			}
			col := span.Start - lineStartOffset
			padding := strings.Repeat(" ", gutterWidth+3+col)
			fmt.Fprintf(&b, "%s%s\n", padding, strings.Repeat("^", caretLen))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// lineIndexOf returns the zero-based line index containing byte offset
// within the \n-joined lines, along with that line's starting offset in the
// original string.
func lineIndexOf(lines []string, offset int) (lineIdx, lineStart int) {
	cursor := 0
	for i, l := range lines {
		end := cursor + len(l)
		if offset <= end || i == len(lines)-1 {
			return i, cursor
		}
		cursor = end + 1 // +1 for the consumed "\n"
	}
	return 0, 0
}
