// Package diag implements the hierarchical diagnostic context from spec
// section 4.7: parent-chained scopes carrying the nearest known (file path,
// board index, stat index, byte span), writing into one shared,
// interior-mutable sink at the root.
package diag

import (
	"github.com/dekarrin/marzipan/internal/peg"
)

// Level distinguishes a hard failure from a lint-level notice.
type Level int

const (
	LevelWarning Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// Message is one leveled diagnostic, carrying the most specific value found
// for each of (file, board, stat, span) along the scope chain that raised
// it.
type Message struct {
	Level Level
	Text  string

	FilePath string
	HasFile  bool

	Board    int
	HasBoard bool

	Stat    int
	HasStat bool

	Span    peg.Span
	HasSpan bool
}

// sink is the single, interior-mutable message list shared by every Context
// descended from the same root. Per spec section 5, nothing in this package
// is safe for concurrent use — the whole pipeline is single-threaded.
type sink struct {
	messages   []Message
	errorCount int
}

func (s *sink) push(m Message) {
	s.messages = append(s.messages, m)
	if m.Level == LevelError {
		s.errorCount++
	}
}

// Context is an immutable scope: a parent pointer plus at most one of
// (file path, board index, stat index, span). Child scopes extend their
// parent without mutating it.
type Context struct {
	parent *Context
	sink   *sink

	filePath string
	hasFile  bool

	board    int
	hasBoard bool

	stat    int
	hasStat bool

	span    peg.Span
	hasSpan bool
}

// NewRoot returns a fresh root scope with no ancestry and an empty sink.
func NewRoot() *Context {
	return &Context{sink: &sink{}}
}

// WithFilePath returns a child scope recording the file currently being
// processed.
func (c *Context) WithFilePath(p string) *Context {
	return &Context{parent: c, sink: c.sink, filePath: p, hasFile: true}
}

// WithBoard returns a child scope recording the board index currently being
// processed.
func (c *Context) WithBoard(i int) *Context {
	return &Context{parent: c, sink: c.sink, board: i, hasBoard: true}
}

// WithStat returns a child scope recording the stat index currently being
// processed.
func (c *Context) WithStat(i int) *Context {
	return &Context{parent: c, sink: c.sink, stat: i, hasStat: true}
}

// WithSpan returns a child scope recording a byte span within the current
// stat's code.
func (c *Context) WithSpan(span peg.Span) *Context {
	return &Context{parent: c, sink: c.sink, span: span, hasSpan: true}
}

func (c *Context) push(level Level, text string) {
	m := Message{Level: level, Text: text}
	for cur := c; cur != nil; cur = cur.parent {
		if cur.hasFile && !m.HasFile {
			m.FilePath, m.HasFile = cur.filePath, true
		}
		if cur.hasBoard && !m.HasBoard {
			m.Board, m.HasBoard = cur.board, true
		}
		if cur.hasStat && !m.HasStat {
			m.Stat, m.HasStat = cur.stat, true
		}
		if cur.hasSpan && !m.HasSpan {
			m.Span, m.HasSpan = cur.span, true
		}
	}
	c.sink.push(m)
}

// Error records an error-level message against this scope.
func (c *Context) Error(text string) { c.push(LevelError, text) }

// Warning records a warning-level message against this scope.
func (c *Context) Warning(text string) { c.push(LevelWarning, text) }

// AnyErrors reports whether any error-level message has been recorded
// anywhere in this scope's tree.
func (c *Context) AnyErrors() bool { return c.sink.errorCount > 0 }

// Messages returns every message recorded anywhere in this scope's tree, in
// the order they were pushed.
func (c *Context) Messages() []Message {
	return c.sink.messages
}

// ErrorCount returns the number of error-level messages recorded.
func (c *Context) ErrorCount() int { return c.sink.errorCount }
