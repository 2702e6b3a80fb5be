// Package script implements the concrete grammar for one line of the game
// script (spec section 4.3) on top of internal/pegmeta, and the chunked walk
// that turns a parsed line into a sequence of verbatim text and label
// occurrences (section 4.4).
package script

// CaptureTag is the Tag type parameter supplied to peg.ParseState and
// pegmeta.Ruleset for this grammar. Its members are exactly the typed
// capture kinds enumerated in spec section 3.
type CaptureTag int

const (
	TagLabel CaptureTag = iota
	TagReference
	TagNamespace
	TagGlobal
	TagLocal
	TagAnon
	TagRecipient
	TagWarnTrailing
)

func (t CaptureTag) String() string {
	switch t {
	case TagLabel:
		return "Label"
	case TagReference:
		return "Reference"
	case TagNamespace:
		return "Namespace"
	case TagGlobal:
		return "Global"
	case TagLocal:
		return "Local"
	case TagAnon:
		return "Anon"
	case TagRecipient:
		return "Recipient"
	case TagWarnTrailing:
		return "WarnTrailing"
	default:
		return "?"
	}
}

// tagByName maps a capture tag name as written after '#' in the grammar
// source to its CaptureTag constant. It is the tagOf function pegmeta.Compile
// needs.
func tagByName(name string) CaptureTag {
	switch name {
	case "Label":
		return TagLabel
	case "Reference":
		return TagReference
	case "Namespace":
		return TagNamespace
	case "Global":
		return TagGlobal
	case "Local":
		return TagLocal
	case "Anon":
		return TagAnon
	case "Recipient":
		return TagRecipient
	case "WarnTrailing":
		return TagWarnTrailing
	default:
		panic("script: unknown capture tag in grammar source: " + name)
	}
}
