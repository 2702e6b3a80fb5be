package script

import "github.com/dekarrin/marzipan/internal/peg"

// ParseLineCaptures runs the "line" rule against one line of script source
// (no trailing "\n") and returns its capture tree on success. It exists for
// tools that want to inspect a parse directly rather than the chunked view
// ChunkScript produces — currently cmd/mzpc's --repl mode.
func ParseLineCaptures(line string) ([]peg.CaptureNode[CaptureTag], bool) {
	p, ok := parseLine(line)
	if !ok {
		return nil, false
	}
	return peg.Forest(p.Captures()), true
}
