package pegmeta

import "github.com/dekarrin/marzipan/internal/peg"

// RuleFunc is a compiled rule: a function that attempts to match starting at
// the ParseState's current cursor, following the same boolean/atomicity
// contract as the primitives it's built from.
type RuleFunc[Tag comparable] func(p *peg.ParseState[Tag]) bool

// Ruleset is a grammar's rules compiled into callable closures, the "rules
// are values constructed once at startup" approach from design note (b): no
// offline code generation step is required to use a Ruleset, which is why
// internal/script builds its grammar this way at package-init time. The
// generated-source approach (design note (a)) is also available via
// Generate, for callers that want per-rule functions with no closure
// indirection.
type Ruleset[Tag comparable] struct {
	rules map[string]RuleFunc[Tag]
}

// Rule returns the compiled function for the named rule, or nil if no such
// rule exists in the ruleset.
func (rs Ruleset[Tag]) Rule(name string) RuleFunc[Tag] {
	return rs.rules[name]
}

// Parse runs the named rule against p and additionally requires the match to
// reach end-of-input, per spec: "A top-level parse is required to also reach
// EOI." On failure, p is left exactly as Restore(sp) would leave it, where sp
// was taken before Parse was called.
func (rs Ruleset[Tag]) Parse(name string, p *peg.ParseState[Tag]) bool {
	rule := rs.Rule(name)
	if rule == nil {
		return false
	}
	sp := p.Save()
	if !rule(p) {
		return false
	}
	if !p.EOI() {
		p.Restore(sp)
		return false
	}
	return true
}

// Compile builds a Ruleset from a Grammar. tagOf maps a capture tag name (as
// written after '#' in the grammar source) to the caller's concrete Tag
// type; it is called once per distinct tag name encountered.
//
// Rules may reference each other, including recursively and out of
// declaration order: every rule function is registered before any rule body
// is compiled, and a #Rule: reference resolves the name through the
// resulting map lazily, at match time.
func Compile[Tag comparable](g Grammar, tagOf func(string) Tag) Ruleset[Tag] {
	rs := Ruleset[Tag]{rules: make(map[string]RuleFunc[Tag], len(g.Rules))}

	for _, r := range g.Rules {
		rs.rules[r.Name] = nil // reserve the name so Rule() lookups during compile don't race
	}
	for _, r := range g.Rules {
		rs.rules[r.Name] = compileExpr(r.Body, tagOf, rs.rules)
	}
	return rs
}

func compileExpr[Tag comparable](e Expr, tagOf func(string) Tag, rules map[string]RuleFunc[Tag]) RuleFunc[Tag] {
	switch e.Kind {
	case ExprLiteral:
		text, icase := e.Text, e.ICase
		if icase {
			return func(p *peg.ParseState[Tag]) bool { return p.LiteralFold(text) }
		}
		return func(p *peg.ParseState[Tag]) bool { return p.Literal(text) }

	case ExprRange:
		lo, hi, icase := e.Lo, e.Hi, e.ICase
		if icase {
			return func(p *peg.ParseState[Tag]) bool { return p.RangeFold(lo, hi) }
		}
		return func(p *peg.ParseState[Tag]) bool { return p.Range(lo, hi) }

	case ExprAny:
		return func(p *peg.ParseState[Tag]) bool { return p.Any() }

	case ExprEOI:
		return func(p *peg.ParseState[Tag]) bool { return p.EOI() }

	case ExprRule:
		name := e.RuleName
		return func(p *peg.ParseState[Tag]) bool {
			target := rules[name]
			if target == nil {
				panic("pegmeta: reference to undefined rule " + name)
			}
			return target(p)
		}

	case ExprSequence:
		subs := compileAll(e.Items, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			sp := p.Save()
			for _, s := range subs {
				if !s(p) {
					p.Restore(sp)
					return false
				}
			}
			return true
		}

	case ExprChoice:
		subs := compileAll(e.Items, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			for _, s := range subs {
				sp := p.Save()
				if s(p) {
					return true
				}
				p.Restore(sp)
			}
			return false
		}

	case ExprOptional:
		sub := compileExpr(*e.Sub, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			sub(p)
			return true
		}

	case ExprStar:
		sub := compileExpr(*e.Sub, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			for sub(p) {
			}
			return true
		}

	case ExprPlus:
		sub := compileExpr(*e.Sub, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			if !sub(p) {
				return false
			}
			for sub(p) {
			}
			return true
		}

	case ExprPosLookahead:
		sub := compileExpr(*e.Sub, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			sp := p.Save()
			if sub(p) {
				p.Restore(sp)
				return true
			}
			return false
		}

	case ExprNegLookahead:
		sub := compileExpr(*e.Sub, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			sp := p.Save()
			if sub(p) {
				p.Restore(sp)
				return false
			}
			return true
		}

	case ExprCapture:
		tag := tagOf(e.Tag)
		sub := compileExpr(*e.Sub, tagOf, rules)
		return func(p *peg.ParseState[Tag]) bool {
			sp := p.BeginCapture(tag)
			if sub(p) {
				p.CommitCapture(sp)
				return true
			}
			p.Restore(sp)
			return false
		}

	default:
		panic("pegmeta: unhandled expr kind " + e.Kind.String())
	}
}

func compileAll[Tag comparable](items []Expr, tagOf func(string) Tag, rules map[string]RuleFunc[Tag]) []RuleFunc[Tag] {
	out := make([]RuleFunc[Tag], len(items))
	for i, it := range items {
		out[i] = compileExpr(it, tagOf, rules)
	}
	return out
}
