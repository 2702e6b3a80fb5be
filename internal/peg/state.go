// Package peg implements the parsing-expression-grammar runtime that the rest
// of this module's grammars are built on: a cursor over an input string plus
// a flat, pre-order buffer of tagged captures.
//
// ParseState has no notion of rules or grammars; it only knows how to match
// primitives (literals, character ranges, any-char, end-of-input) and how to
// begin/commit/discard a capture. The combinators that give those primitives
// grammar structure (sequence, choice, repetition, lookahead) live in the
// generated rule functions produced from internal/pegmeta, following the
// translation given there.
package peg

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into a ParseState's input.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Slice returns the text of the span within the given input.
func (s Span) Slice(input string) string {
	return input[s.Start:s.End]
}

// RawCapture is one entry in a ParseState's capture buffer. A committed
// capture always has SubtreeLen >= 1; its children occupy the SubtreeLen-1
// entries immediately following it in the buffer. A capture whose SubtreeLen
// is still 0 is an in-progress frame that has been begun but not yet
// committed or discarded.
type RawCapture[Tag comparable] struct {
	Kind       Tag
	Span       Span
	SubtreeLen int
}

// Savepoint is an opaque snapshot of a ParseState's cursor and capture-buffer
// length, taken by Save or BeginCapture. Restore truncates both back to the
// remembered lengths. Savepoints must not be reordered or reused across
// ParseStates; they are not safe to share across goroutines.
type Savepoint struct {
	offset int
	numCap int
}

// ParseState holds an input string, a byte cursor into it, and the capture
// buffer accumulated so far. It is the single mutable object threaded through
// an entire parse.
type ParseState[Tag comparable] struct {
	input    string
	offset   int
	captures []RawCapture[Tag]
}

// New returns a ParseState positioned at the start of input.
func New[Tag comparable](input string) *ParseState[Tag] {
	return &ParseState[Tag]{input: input}
}

// Input returns the full input string being parsed.
func (p *ParseState[Tag]) Input() string {
	return p.input
}

// Offset returns the current byte offset of the cursor.
func (p *ParseState[Tag]) Offset() int {
	return p.offset
}

// Captures returns the capture buffer accumulated so far. The returned slice
// aliases the ParseState's internal storage and must not outlive further
// mutation of p; callers that need to keep it past the parse should copy it.
func (p *ParseState[Tag]) Captures() []RawCapture[Tag] {
	return p.captures
}

// Save takes a snapshot of the cursor and capture-buffer length.
func (p *ParseState[Tag]) Save() Savepoint {
	return Savepoint{offset: p.offset, numCap: len(p.captures)}
}

// Restore resets the cursor and capture buffer to a prior Save. Any captures
// committed or begun after sp was taken are discarded.
func (p *ParseState[Tag]) Restore(sp Savepoint) {
	p.offset = sp.offset
	p.captures = p.captures[:sp.numCap]
}

// EOI succeeds iff the cursor is at or past the end of the input. It never
// advances the cursor.
func (p *ParseState[Tag]) EOI() bool {
	return p.offset >= len(p.input)
}

// Any succeeds unless at end-of-input, advancing the cursor by one Unicode
// scalar.
func (p *ParseState[Tag]) Any() bool {
	if p.EOI() {
		return false
	}
	_, size := utf8.DecodeRuneInString(p.input[p.offset:])
	p.offset += size
	return true
}

// Literal matches s at the cursor byte-exactly, advancing by its length on
// success.
func (p *ParseState[Tag]) Literal(s string) bool {
	if !strings.HasPrefix(p.input[p.offset:], s) {
		return false
	}
	p.offset += len(s)
	return true
}

// LiteralFold matches s at the cursor folding ASCII case only, advancing by
// s's byte length on success (not the matched text's length, which is always
// equal for ASCII-only folding since case folding never changes byte length
// for the ASCII range).
func (p *ParseState[Tag]) LiteralFold(s string) bool {
	rest := p.input[p.offset:]
	if len(rest) < len(s) {
		return false
	}
	if !strings.EqualFold(rest[:len(s)], s) {
		return false
	}
	p.offset += len(s)
	return true
}

// Range decodes the next Unicode scalar at the cursor and succeeds iff it
// falls within [lo, hi], advancing by its UTF-8 byte length.
func (p *ParseState[Tag]) Range(lo, hi rune) bool {
	if p.EOI() {
		return false
	}
	r, size := utf8.DecodeRuneInString(p.input[p.offset:])
	if r < lo || r > hi {
		return false
	}
	p.offset += size
	return true
}

// RangeFold is Range with ASCII case folded before the bounds check: it
// succeeds if r, unicode.ToLower(r), or unicode.ToUpper(r) falls in
// [lo, hi].
func (p *ParseState[Tag]) RangeFold(lo, hi rune) bool {
	if p.EOI() {
		return false
	}
	r, size := utf8.DecodeRuneInString(p.input[p.offset:])
	if inRange(r, lo, hi) || inRange(unicode.ToLower(r), lo, hi) || inRange(unicode.ToUpper(r), lo, hi) {
		p.offset += size
		return true
	}
	return false
}

func inRange(r, lo, hi rune) bool {
	return r >= lo && r <= hi
}

// BeginCapture pushes a pending capture frame for tag and returns a
// Savepoint identifying it. Pass the same Savepoint to CommitCapture on
// success or Restore on failure.
func (p *ParseState[Tag]) BeginCapture(tag Tag) Savepoint {
	sp := p.Save()
	p.captures = append(p.captures, RawCapture[Tag]{Kind: tag, Span: Span{Start: sp.offset}})
	return sp
}

// CommitCapture finalizes the pending capture begun at sp: its span becomes
// sp's offset through the current cursor, and its SubtreeLen becomes the
// number of capture-buffer entries from it (inclusive) to the current end of
// the buffer (i.e. itself plus every descendant capture committed since).
func (p *ParseState[Tag]) CommitCapture(sp Savepoint) {
	idx := sp.numCap
	p.captures[idx].Span.End = p.offset
	p.captures[idx].SubtreeLen = len(p.captures) - idx
}
