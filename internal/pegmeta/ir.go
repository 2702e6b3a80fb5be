// Package pegmeta implements the grammar meta-language described in spec
// section 4.2: a small text format (`name = expr ;`) that compiles to an
// expression IR, which in turn can either be code-generated into a Go source
// file of rule functions (see Generate) or interpreted directly against a
// peg.ParseState (see Compile) to build rule-function closures at program
// start. Both paths share the same IR and the same translation rules, so a
// grammar authored once can be wired in whichever form a caller needs: the
// interpreted form is what internal/script uses at init time, and the
// generated form is what cmd/mzpgen emits to a checked-in .go file.
package pegmeta

import "fmt"

// ExprKind discriminates the variants of Expr. The zero value is
// ExprLiteral; always construct an Expr through one of the Expr* constructors.
type ExprKind int

const (
	ExprLiteral ExprKind = iota
	ExprRange
	ExprRule
	ExprAny
	ExprEOI
	ExprSequence
	ExprChoice
	ExprOptional
	ExprStar
	ExprPlus
	ExprPosLookahead
	ExprNegLookahead
	ExprCapture
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprRange:
		return "Range"
	case ExprRule:
		return "Rule"
	case ExprAny:
		return "Any"
	case ExprEOI:
		return "EOI"
	case ExprSequence:
		return "Sequence"
	case ExprChoice:
		return "Choice"
	case ExprOptional:
		return "Optional"
	case ExprStar:
		return "Star"
	case ExprPlus:
		return "Plus"
	case ExprPosLookahead:
		return "PosLookahead"
	case ExprNegLookahead:
		return "NegLookahead"
	case ExprCapture:
		return "Capture"
	default:
		return fmt.Sprintf("ExprKind(%d)", int(k))
	}
}

// Expr is one node of the grammar IR. Only the fields relevant to Kind are
// populated; this mirrors how the rest of the module represents small closed
// sum types (a discriminator plus the union of possible payloads) rather than
// reaching for an interface per variant.
type Expr struct {
	Kind ExprKind

	// Literal, Range
	Text  string // Literal only
	Lo    rune   // Range only
	Hi    rune   // Range only
	ICase bool   // Literal, Range only; set by Fold or written directly

	// Rule
	RuleName string

	// Sequence, Choice
	Items []Expr

	// Optional, Star, Plus, PosLookahead, NegLookahead, Capture
	Sub *Expr

	// Capture
	Tag string
}

func Literal(s string) Expr             { return Expr{Kind: ExprLiteral, Text: s} }
func LiteralFold(s string) Expr         { return Expr{Kind: ExprLiteral, Text: s, ICase: true} }
func RuneRange(lo, hi rune) Expr        { return Expr{Kind: ExprRange, Lo: lo, Hi: hi} }
func RuneRangeFold(lo, hi rune) Expr    { return Expr{Kind: ExprRange, Lo: lo, Hi: hi, ICase: true} }
func RuleRef(name string) Expr          { return Expr{Kind: ExprRule, RuleName: name} }
func Any() Expr                         { return Expr{Kind: ExprAny} }
func EOI() Expr                         { return Expr{Kind: ExprEOI} }
func Sequence(items ...Expr) Expr       { return Expr{Kind: ExprSequence, Items: items} }
func Choice(items ...Expr) Expr         { return Expr{Kind: ExprChoice, Items: items} }
func Optional(sub Expr) Expr            { return Expr{Kind: ExprOptional, Sub: &sub} }
func Star(sub Expr) Expr                { return Expr{Kind: ExprStar, Sub: &sub} }
func Plus(sub Expr) Expr                { return Expr{Kind: ExprPlus, Sub: &sub} }
func PosLookahead(sub Expr) Expr        { return Expr{Kind: ExprPosLookahead, Sub: &sub} }
func NegLookahead(sub Expr) Expr        { return Expr{Kind: ExprNegLookahead, Sub: &sub} }
func Capture(tag string, sub Expr) Expr { return Expr{Kind: ExprCapture, Tag: tag, Sub: &sub} }

// Rule is one named production in a Grammar. ICase propagates a
// case-insensitivity flag down through the rule's body at load time (see
// Fold); it does not affect Rule, Any, or EOI nodes.
type Rule struct {
	Name  string
	ICase bool
	Body  Expr
}

// Grammar is an ordered set of rules produced by Parse. Rule order is
// preserved because generated code emits one function per rule in that
// order, matching the source grammar's declaration order for readability.
type Grammar struct {
	Rules []Rule
}

// Rule looks up a rule by name.
func (g Grammar) Rule(name string) (Rule, bool) {
	for _, r := range g.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Fold returns a copy of e with every Literal and Range node rewritten to its
// case-insensitive form. Rule, Any, and EOI nodes are unaffected, per spec:
// "@icase on a rule propagates ... Non-foldable nodes (Rule, Any, EOI) are
// unaffected."
func Fold(e Expr) Expr {
	switch e.Kind {
	case ExprLiteral:
		e.ICase = true
		return e
	case ExprRange:
		e.ICase = true
		return e
	case ExprSequence, ExprChoice:
		items := make([]Expr, len(e.Items))
		for i, it := range e.Items {
			items[i] = Fold(it)
		}
		e.Items = items
		return e
	case ExprOptional, ExprStar, ExprPlus, ExprPosLookahead, ExprNegLookahead, ExprCapture:
		sub := Fold(*e.Sub)
		e.Sub = &sub
		return e
	default:
		return e
	}
}

// Tags returns the set of distinct capture tags used anywhere in the
// grammar, in first-seen order. This is the Tag type parameter's domain for
// a peg.ParseState built from this grammar.
func (g Grammar) Tags() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(e Expr)
	walk = func(e Expr) {
		if e.Kind == ExprCapture {
			if !seen[e.Tag] {
				seen[e.Tag] = true
				out = append(out, e.Tag)
			}
		}
		switch e.Kind {
		case ExprSequence, ExprChoice:
			for _, it := range e.Items {
				walk(it)
			}
		case ExprOptional, ExprStar, ExprPlus, ExprPosLookahead, ExprNegLookahead, ExprCapture:
			walk(*e.Sub)
		}
	}
	for _, r := range g.Rules {
		walk(r.Body)
	}
	return out
}
