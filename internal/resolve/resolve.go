// Package resolve implements the four-pass label resolution pipeline (spec
// section 4.6): given the chunk lists for every script on one board, it
// rewrites each LabelChunk's base name to its final engine identifier.
package resolve

import (
	"fmt"
	"strings"

	"github.com/dekarrin/marzipan/internal/diag"
	"github.com/dekarrin/marzipan/internal/labels"
	"github.com/dekarrin/marzipan/internal/script"
)

// Script bundles one script's chunk list with the diagnostic scope it should
// report through — normally a *diag.Context already narrowed with
// WithFilePath/WithBoard/WithStat by the caller.
type Script struct {
	Chunks []script.Chunk
	Diag   *diag.Context
}

// Resolve runs all four passes, in order, over scripts, sharing registry
// across every script on the board. It mutates each Script's Chunks slice in
// place.
func Resolve(scripts []Script, registry *labels.Registry) {
	resolveLocals(scripts)
	sanitizeNamed(scripts, registry)
	anonymousForward(scripts, registry)
	anonymousBackward(scripts)
}

type namespaceSection struct {
	current       string
	sectionCounts map[string]int
}

// resolveLocals is pass 1: resolve `.local` shortcuts against the nearest
// preceding top-level label in the same namespace, and flag the two local-
// label error cases.
func resolveLocals(scripts []Script) {
	for _, s := range scripts {
		sections := make(map[string]*namespaceSection)
		getSection := func(ns string) *namespaceSection {
			st, ok := sections[ns]
			if !ok {
				st = &namespaceSection{sectionCounts: make(map[string]int)}
				sections[ns] = st
			}
			return st
		}

		for i, c := range s.Chunks {
			lc, ok := c.(script.LabelChunk)
			if !ok || lc.IsAnon {
				continue
			}
			nsLower := strings.ToLower(lc.Name.Namespace)
			st := getSection(nsLower)

			switch {
			case lc.Name.Local != "" && lc.Name.Base == "":
				// ".foo": resolve against the current section, whether this
				// chunk is a definition (":.foo") or a reference
				// ("#send .foo").
				lc.Name.Base = st.current
				s.Chunks[i] = lc

			case lc.Name.Local == "" && lc.Name.Base != "" && !lc.IsRef:
				// ":touch": begin a new section.
				baseLower := strings.ToLower(lc.Name.Base)
				occurrence := st.sectionCounts[baseLower]
				st.sectionCounts[baseLower] = occurrence + 1
				if occurrence == 0 {
					st.current = lc.Name.Base
				} else {
					st.current = fmt.Sprintf("%s$%d", lc.Name.Base, occurrence)
				}

			case lc.Name.Local != "" && lc.Name.Base != "":
				if lc.IsRef {
					// "#send touch.foo": leave as-is.
					continue
				}
				s.Diag.WithSpan(lc.Span).Error("local label definitions cannot specify a section name")
			}
		}
	}
}

// sanitizeNamed is pass 2: replace every non-anonymous label's base with its
// registry-assigned short name.
func sanitizeNamed(scripts []Script, registry *labels.Registry) {
	for _, s := range scripts {
		for i, c := range s.Chunks {
			lc, ok := c.(script.LabelChunk)
			if !ok || lc.IsAnon {
				continue
			}
			key := canonicalKey(lc.Name)
			lc.Name.Base = registry.Sanitize(key)
			s.Chunks[i] = lc
		}
	}
}

func canonicalKey(name script.LabelName) string {
	var b strings.Builder
	if name.Namespace != "" {
		b.WriteString(name.Namespace)
		b.WriteString("~")
	}
	b.WriteString(name.Base)
	if name.Local != "" {
		b.WriteString(".")
		b.WriteString(name.Local)
	}
	return strings.ToLower(b.String())
}

// anonymousForward is pass 3: assign a generated name to every anonymous
// definition, and wire every "@b" reference to the nearest preceding
// anonymous definition in the same namespace.
func anonymousForward(scripts []Script, registry *labels.Registry) {
	for _, s := range scripts {
		latest := make(map[string]string)
		for i, c := range s.Chunks {
			lc, ok := c.(script.LabelChunk)
			if !ok || !lc.IsAnon {
				continue
			}
			nsLower := strings.ToLower(lc.Name.Namespace)

			if !lc.IsRef {
				name := registry.GenAnonymous()
				latest[nsLower] = name
				lc.Name.Base = name
				s.Chunks[i] = lc
				continue
			}

			if lc.Name.Base == "@b" {
				name, ok := latest[nsLower]
				if !ok {
					s.Diag.WithSpan(lc.Span).Error("backward reference needs an anonymous label")
					continue
				}
				lc.Name.Base = name
				s.Chunks[i] = lc
			}
		}
	}
}

// anonymousBackward is pass 4: walk each script in reverse, wiring every
// "@f" reference to the nearest following anonymous definition in the same
// namespace.
func anonymousBackward(scripts []Script) {
	for _, s := range scripts {
		upcoming := make(map[string]string)
		for i := len(s.Chunks) - 1; i >= 0; i-- {
			lc, ok := s.Chunks[i].(script.LabelChunk)
			if !ok || !lc.IsAnon {
				continue
			}
			nsLower := strings.ToLower(lc.Name.Namespace)

			if !lc.IsRef {
				upcoming[nsLower] = lc.Name.Base
				continue
			}

			if lc.Name.Base == "@f" {
				name, ok := upcoming[nsLower]
				if !ok {
					s.Diag.WithSpan(lc.Span).Error("forward reference needs an anonymous label")
					continue
				}
				lc.Name.Base = name
				s.Chunks[i] = lc
			}
		}
	}
}
