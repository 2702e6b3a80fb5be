// Package mzerrors implements the fatal-error taxonomy from spec section 7
// for conditions that abort a build outright rather than accumulating in a
// diag.Context. internal/worldio wraps container I/O failures in it; macro
// expansion failures do not pass through it, since internal/driver records
// them as errors in the board's diag.Context. Adapted from
// internal/tqerrors's wrapped-error shape, generalized from "message to show
// the player" to "category used to pick an exit code or HTTP status".
package mzerrors

import (
	"errors"
	"fmt"
)

// Category classifies a fatal error per spec 7's taxonomy.
type Category int

const (
	// CategoryContainer covers unreadable input, a malformed header, a tile
	// or stat count that doesn't fit, and other world/board container
	// failures.
	CategoryContainer Category = iota

	// CategoryMacro covers an unknown %directive, a wrong argument count,
	// or a non-string argument.
	CategoryMacro

	// CategoryCodepage covers a rune with no byte pre-image on re-encoding.
	CategoryCodepage
)

func (c Category) String() string {
	switch c {
	case CategoryContainer:
		return "container"
	case CategoryMacro:
		return "macro"
	case CategoryCodepage:
		return "codepage"
	default:
		return "unknown"
	}
}

// compilerError is a fatal error tagged with the taxonomy category it falls
// under, optionally wrapping an underlying cause.
type compilerError struct {
	category Category
	msg      string
	wrap     error
}

func (e *compilerError) Error() string {
	return e.msg
}

func (e *compilerError) Unwrap() error {
	return e.wrap
}

// Category returns the error's taxonomy category.
func (e *compilerError) Category() Category {
	return e.category
}

// New returns a new fatal error in category with the given message.
func New(category Category, msg string) error {
	return &compilerError{category: category, msg: msg}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(category Category, format string, a ...any) error {
	return &compilerError{category: category, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new fatal error in category, wrapping cause, with msg
// prefixed onto cause's own message.
func Wrap(category Category, cause error, msg string) error {
	return &compilerError{category: category, msg: fmt.Sprintf("%s: %v", msg, cause), wrap: cause}
}

// Container is shorthand for Newf(CategoryContainer, ...).
func Container(format string, a ...any) error {
	return Newf(CategoryContainer, format, a...)
}

// Macro is shorthand for Newf(CategoryMacro, ...).
func Macro(format string, a ...any) error {
	return Newf(CategoryMacro, format, a...)
}

// Codepage is shorthand for Newf(CategoryCodepage, ...).
func Codepage(format string, a ...any) error {
	return Newf(CategoryCodepage, format, a...)
}

// CategoryOf reports the taxonomy category of err, if err or something it
// wraps is a mzerrors error.
func CategoryOf(err error) (Category, bool) {
	var ce *compilerError
	if errors.As(err, &ce) {
		return ce.category, true
	}
	return 0, false
}

// ExitCode returns the process exit code for err: 0 for a nil error (spec
// 7's "exits non-zero iff any error was recorded"), 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
