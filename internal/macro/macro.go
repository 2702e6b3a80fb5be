// Package macro implements the `%include` preprocessor from spec section
// 4.8: a small hand-written line scanner, not PEG-based, that splices
// included files in place before the script grammar ever sees the text.
package macro

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxIncludeDepth bounds recursive %include expansion, mirroring
// internal/tqw's MaxManifestRecursionDepth.
const MaxIncludeDepth = 32

var (
	// ErrIncludeStackOverflow is returned when an %include chain nests
	// deeper than MaxIncludeDepth.
	ErrIncludeStackOverflow = errors.New("too many %include files deep")

	// ErrIncludeCircularRef is returned when an %include chain refers back
	// to a file already being expanded.
	ErrIncludeCircularRef = errors.New("%include chain refers back to itself")

	// ErrUnknownDirective is returned for any "%name ..." line whose name
	// isn't a directive this package recognises.
	ErrUnknownDirective = errors.New("unknown macro directive")

	// ErrBadDirectiveArgs is returned when a recognised directive's
	// argument list doesn't match what it expects (wrong count, or an
	// argument that isn't a double-quoted string).
	ErrBadDirectiveArgs = errors.New("bad macro directive arguments")
)

// Expand reads path and recursively splices in every %include it contains,
// returning the fully expanded source. Included paths are resolved relative
// to the directory of the file that names them.
func Expand(path string) (string, error) {
	return expand(path, nil)
}

// ExpandString runs the same expansion over src as if it were the contents
// of the file at path (used so %include targets inside src resolve relative
// to path's directory without path itself needing to exist on disk).
func ExpandString(src, path string) (string, error) {
	return expandSource(src, path, nil)
}

func expand(path string, stack []string) (string, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%q: %w", path, err)
	}

	return expandSource(normalizeNewlines(string(raw)), path, stack)
}

func expandSource(src, path string, stack []string) (string, error) {
	if len(stack) >= MaxIncludeDepth {
		return "", fmt.Errorf("%q: %w", path, ErrIncludeStackOverflow)
	}
	for _, s := range stack {
		if s == path {
			return "", fmt.Errorf("%q: %w", path, ErrIncludeCircularRef)
		}
	}
	subStack := make([]string, len(stack)+1)
	copy(subStack, stack)
	subStack[len(subStack)-1] = path

	dir := filepath.Dir(path)

	lines := strings.Split(src, "\n")
	var out strings.Builder

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "%") {
			out.WriteString(line)
			if i < len(lines)-1 {
				out.WriteByte('\n')
			}
			continue
		}

		name, args, err := parseDirective(trimmed)
		if err != nil {
			return "", fmt.Errorf("%q line %d: %w", path, i+1, err)
		}

		switch name {
		case "include":
			if len(args) != 1 {
				return "", fmt.Errorf("%q line %d: %%include takes exactly one argument: %w", path, i+1, ErrBadDirectiveArgs)
			}
			includePath := filepath.Join(dir, args[0])
			expanded, err := expand(includePath, subStack)
			if err != nil {
				return "", fmt.Errorf("in file included from %q line %d:\n%w", path, i+1, err)
			}
			out.WriteString(stripOneTrailingNewline(expanded))
		default:
			return "", fmt.Errorf("%q line %d: %%%s: %w", path, i+1, name, ErrUnknownDirective)
		}

		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}

	return out.String(), nil
}

// parseDirective splits a trimmed "%name \"a\", \"b\"" line into its
// directive name and double-quoted string arguments.
func parseDirective(line string) (name string, args []string, err error) {
	rest := line[1:] // drop leading '%'

	nameEnd := strings.IndexAny(rest, " \t")
	if nameEnd < 0 {
		return rest, nil, nil
	}
	name = rest[:nameEnd]
	rest = strings.TrimSpace(rest[nameEnd:])
	if rest == "" {
		return name, nil, nil
	}

	for _, field := range strings.Split(rest, ",") {
		field = strings.TrimSpace(field)
		unquoted, err := strconv.Unquote(field)
		if err != nil {
			return name, nil, fmt.Errorf("argument %q: not a double-quoted string: %w", field, ErrBadDirectiveArgs)
		}
		args = append(args, unquoted)
	}
	return name, args, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func stripOneTrailingNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}
