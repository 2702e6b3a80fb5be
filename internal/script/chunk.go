package script

import (
	"strings"

	"github.com/dekarrin/marzipan/internal/peg"
)

// LabelName is a label's decomposed full name: an optional namespace, a base
// (the section/global part, or an anonymous marker such as "@", "@b", "@f"),
// an optional local part, and, for a reference, an optional message
// recipient (e.g. "all:" in "#send all:@b") that passes through resolution
// untouched.
type LabelName struct {
	Namespace string
	Base      string
	Local     string
	Recipient string
}

// Chunk is either a Verbatim run of untouched text or a LabelChunk
// representing one label definition or reference, per spec section 3's chunk
// list.
type Chunk interface {
	chunkText() string
}

// Verbatim is a run of script text copied through unchanged.
type Verbatim string

func (v Verbatim) chunkText() string { return string(v) }

// LabelChunk is one label occurrence: a definition (IsRef == false) or a
// reference (IsRef == true), possibly anonymous, with its decomposed name and
// source span (relative to the start of the script this chunk came from).
type LabelChunk struct {
	IsRef  bool
	IsAnon bool
	Name   LabelName
	Span   peg.Span
}

// chunkText reproduces this chunk's textual form. Before resolution runs, a
// pure-local occurrence (e.g. ".loop") has no Base yet, so the "." plus its
// Local part is reconstructed instead of yielding an empty string; once
// resolution has assigned a final Base, that takes over entirely. Recipient,
// when present, passes through untouched on both sides of resolution.
func (c LabelChunk) chunkText() string {
	text := c.Name.Base
	if text == "" && c.Name.Local != "" {
		text = "." + c.Name.Local
	}
	if c.Name.Recipient != "" {
		text = c.Name.Recipient + text
	}
	return text
}

// Severity distinguishes hard failures from lint-level notices; see spec
// section 4.7 for how these eventually reach a diagnostic context.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Finding is a diagnostic raised while chunking a script, carrying enough to
// be handed to a diag.Context: a message and the span it concerns.
type Finding struct {
	Severity Severity
	Message  string
	Span     peg.Span
}

// ChunkScript splits a decoded script string into a chunk list and any
// findings raised along the way (spec section 4.4). Concatenating the
// returned chunks' text reproduces src exactly, since every byte of src
// belongs to either a Verbatim run or a LabelChunk's original span.
func ChunkScript(src string) ([]Chunk, []Finding) {
	var chunks []Chunk
	var findings []Finding

	offset := 0
	for offset <= len(src) {
		lineEnd := strings.IndexByte(src[offset:], '\n')
		var line, term string
		if lineEnd < 0 {
			line = src[offset:]
			term = ""
		} else {
			line = src[offset : offset+lineEnd]
			term = "\n"
		}
		lineStart := offset

		lineChunks, lineFindings := chunkLine(line, lineStart, src)
		chunks = append(chunks, lineChunks...)
		findings = append(findings, lineFindings...)
		if term != "" {
			chunks = append(chunks, Verbatim(term))
		}

		if lineEnd < 0 {
			break
		}
		offset += lineEnd + 1
		if offset > len(src) {
			break
		}
		if offset == len(src) {
			// trailing newline already emitted as the last Verbatim; no
			// further (even empty) line follows it.
			break
		}
	}

	return mergeVerbatim(chunks), findings
}

func chunkLine(line string, lineStart int, fullSrc string) ([]Chunk, []Finding) {
	p, ok := parseLine(line)
	if !ok {
		return []Chunk{Verbatim(line)}, nil
	}

	forest := peg.Forest(p.Captures())

	var chunks []Chunk
	var findings []Finding
	cursor := 0 // offset within line

	emitGap := func(end int) {
		if end > cursor {
			chunks = append(chunks, Verbatim(line[cursor:end]))
		}
	}

	for _, n := range forest {
		switch n.Kind {
		case TagLabel:
			emitGap(n.Span.Start)
			chunks = append(chunks, labelChunkFromNode(n, false, lineStart, line))
			cursor = n.Span.End

		case TagReference:
			emitGap(n.Span.Start)
			lc, fs := referenceChunkFromNode(n, lineStart, line)
			chunks = append(chunks, lc)
			findings = append(findings, fs...)
			cursor = n.Span.End

		case TagWarnTrailing:
			emitGap(n.Span.Start)
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Message:  "trailing characters at end of line",
				Span:     peg.Span{Start: lineStart + n.Span.Start, End: lineStart + n.Span.End},
			})
			// WarnTrailing still covers real source bytes; keep them as
			// Verbatim so the chunk list still reproduces the input.
			chunks = append(chunks, Verbatim(n.Text(line)))
			cursor = n.Span.End
		}
	}
	emitGap(len(line))

	return chunks, findings
}

func labelChunkFromNode(n peg.CaptureNode[CaptureTag], isRef bool, lineStart int, line string) LabelChunk {
	name := LabelName{}
	isAnon := false

	if ns, ok := n.Find(TagNamespace); ok {
		name.Namespace = ns.Text(line)
	}
	if anon, ok := n.Find(TagAnon); ok {
		isAnon = true
		name.Base = anon.Text(line)
	} else {
		if g, ok := n.Find(TagGlobal); ok {
			name.Base = g.Text(line)
		}
		if l, ok := n.Find(TagLocal); ok {
			name.Local = l.Text(line)
		}
	}

	return LabelChunk{
		IsRef:  isRef,
		IsAnon: isAnon,
		Name:   name,
		Span:   peg.Span{Start: lineStart + n.Span.Start, End: lineStart + n.Span.End},
	}
}

// referenceChunkFromNode builds the LabelChunk for a #Reference capture from
// its single #Label child, per spec 4.4, and checks the two
// recipient-compatibility rules on the way.
func referenceChunkFromNode(n peg.CaptureNode[CaptureTag], lineStart int, line string) (LabelChunk, []Finding) {
	labelNode, hasLabel := n.Find(TagLabel)
	if !hasLabel {
		// Grammar guarantees a Reference always wraps exactly one Label;
		// this would indicate a grammar/codegen bug, not bad input.
		panic("script: Reference capture with no Label child")
	}

	lc := labelChunkFromNode(labelNode, true, lineStart, line)

	var findings []Finding
	recipientNode, hasRecipient := n.Find(TagRecipient)
	if hasRecipient {
		// TagRecipient only wraps the word (recipient = #Recipient:word ":"),
		// so the trailing ":" has to be added back by hand to reproduce it.
		lc.Name.Recipient = recipientNode.Text(line) + ":"

		if lc.IsAnon {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  "message targets not allowed for anonymous labels",
				Span:     peg.Span{Start: lineStart + n.Span.Start, End: lineStart + n.Span.End},
			})
		}
		if lc.Name.Local != "" {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  "message targets not supported for local labels",
				Span:     peg.Span{Start: lineStart + n.Span.Start, End: lineStart + n.Span.End},
			})
		}
	}

	return lc, findings
}

func mergeVerbatim(chunks []Chunk) []Chunk {
	var out []Chunk
	for _, c := range chunks {
		if v, ok := c.(Verbatim); ok {
			if len(out) > 0 {
				if pv, ok := out[len(out)-1].(Verbatim); ok {
					out[len(out)-1] = pv + v
					continue
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// Join concatenates a chunk list's textual form, i.e. each Verbatim's text
// and each LabelChunk's chunkText. Called on a freshly chunked list this
// reproduces the original script verbatim (testable property 4); called
// after resolution has updated each LabelChunk.Name.Base in place, it
// produces the rewritten script instead.
func Join(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.chunkText())
	}
	return b.String()
}
