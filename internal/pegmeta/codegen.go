package pegmeta

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateConfig controls how Generate renders a Grammar to Go source.
type GenerateConfig struct {
	// Package is the `package` clause of the emitted file.
	Package string

	// PegImport is the import path of the peg package (normally
	// "github.com/dekarrin/marzipan/internal/peg").
	PegImport string

	// TagType is the Go type used for peg.ParseState's Tag parameter, as it
	// should appear in the generated file (e.g. "script.CaptureTag"), along
	// with TagImport, its import path if it lives in another package ("" if
	// TagType needs no import beyond PegImport).
	TagType   string
	TagImport string

	// TagConst renders a single capture tag name (as written after '#' in
	// grammar source) as a Go expression of type TagType, e.g. for
	// TagConst("Label") returning "script.TagLabel".
	TagConst func(tagName string) string

	// FuncPrefix is prepended to every generated rule function's name, to
	// keep generated identifiers from colliding with hand-written code in
	// the same package.
	FuncPrefix string
}

// Generate renders g as a standalone Go source file: one function per rule,
// named FuncPrefix+RuleName, implementing the translation given in spec
// section 4.2 directly as control flow (no closures, no Ruleset lookup) so
// that each rule compiles down to a plain function with the same
// zero-allocation profile as hand-written recursive-descent code. This is
// the offline-generator path (design note (a)); Compile is the
// in-process, combinator-closure alternative used when a grammar is built at
// package-init time instead of checked in as generated source.
func Generate(g Grammar, cfg GenerateConfig) (string, error) {
	if cfg.TagConst == nil {
		return "", fmt.Errorf("pegmeta: GenerateConfig.TagConst is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by mzpgen from a .peg grammar. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", cfg.Package)

	b.WriteString("import (\n")
	fmt.Fprintf(&b, "\t%q\n", cfg.PegImport)
	if cfg.TagImport != "" {
		fmt.Fprintf(&b, "\t%q\n", cfg.TagImport)
	}
	b.WriteString(")\n\n")

	pegPkg := pkgName(cfg.PegImport)

	for _, r := range g.Rules {
		gen := &ruleGen{cfg: cfg, pegPkg: pegPkg, b: &b}
		fnName := cfg.FuncPrefix + r.Name
		fmt.Fprintf(&b, "func %s(p *%s.ParseState[%s]) bool {\n", fnName, pegPkg, cfg.TagType)
		gen.indent = 1
		result := gen.emit(r.Body)
		gen.writeReturn(result)
		b.WriteString("}\n\n")
	}

	return b.String(), nil
}

func pkgName(importPath string) string {
	parts := strings.Split(importPath, "/")
	return parts[len(parts)-1]
}

// ruleGen emits one rule function's body, generating fresh temp variable
// names and indenting as it descends.
type ruleGen struct {
	cfg    GenerateConfig
	pegPkg string
	b      *strings.Builder
	indent int
	temps  int
}

func (g *ruleGen) fresh(prefix string) string {
	g.temps++
	return fmt.Sprintf("%s%d", prefix, g.temps)
}

func (g *ruleGen) line(format string, args ...any) {
	g.b.WriteString(strings.Repeat("\t", g.indent))
	fmt.Fprintf(g.b, format, args...)
	g.b.WriteString("\n")
}

func (g *ruleGen) writeReturn(expr string) {
	g.line("return %s", expr)
}

// emit writes the statements needed to evaluate e and returns a Go boolean
// expression (often just a bool variable name) holding the match result.
func (g *ruleGen) emit(e Expr) string {
	switch e.Kind {
	case ExprLiteral:
		method := "Literal"
		if e.ICase {
			method = "LiteralFold"
		}
		return fmt.Sprintf("p.%s(%s)", method, strconv.Quote(e.Text))

	case ExprRange:
		method := "Range"
		if e.ICase {
			method = "RangeFold"
		}
		return fmt.Sprintf("p.%s(%s, %s)", method, quoteRune(e.Lo), quoteRune(e.Hi))

	case ExprAny:
		return "p.Any()"

	case ExprEOI:
		return "p.EOI()"

	case ExprRule:
		return fmt.Sprintf("%s%s(p)", g.cfg.FuncPrefix, e.RuleName)

	case ExprSequence:
		ok := g.fresh("ok")
		sp := g.fresh("sp")
		g.line("%s := p.Save()", sp)
		g.line("%s := true", ok)
		for _, item := range e.Items {
			g.line("if %s {", ok)
			g.indent++
			sub := g.emit(item)
			g.line("%s = %s", ok, sub)
			g.indent--
			g.line("}")
		}
		g.line("if !%s {", ok)
		g.indent++
		g.line("p.Restore(%s)", sp)
		g.indent--
		g.line("}")
		return ok

	case ExprChoice:
		ok := g.fresh("ok")
		g.line("%s := false", ok)
		for _, item := range e.Items {
			sp := g.fresh("sp")
			g.line("if !%s {", ok)
			g.indent++
			g.line("%s := p.Save()", sp)
			sub := g.emit(item)
			g.line("if %s {", sub)
			g.indent++
			g.line("%s = true", ok)
			g.indent--
			g.line("} else {")
			g.indent++
			g.line("p.Restore(%s)", sp)
			g.indent--
			g.line("}")
			g.indent--
			g.line("}")
		}
		return ok

	case ExprOptional:
		g.emitDiscard(*e.Sub)
		return "true"

	case ExprStar:
		g.line("for {")
		g.indent++
		sub := g.emit(*e.Sub)
		g.line("if !%s {", sub)
		g.indent++
		g.line("break")
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
		return "true"

	case ExprPlus:
		first := g.emit(*e.Sub)
		ok := g.fresh("ok")
		g.line("%s := %s", ok, first)
		g.line("if %s {", ok)
		g.indent++
		g.line("for {")
		g.indent++
		again := g.emit(*e.Sub)
		g.line("if !(%s) {", again)
		g.indent++
		g.line("break")
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
		return ok

	case ExprPosLookahead:
		sp := g.fresh("sp")
		g.line("%s := p.Save()", sp)
		sub := g.emit(*e.Sub)
		ok := g.fresh("ok")
		g.line("%s := %s", ok, sub)
		g.line("if %s {", ok)
		g.indent++
		g.line("p.Restore(%s)", sp)
		g.indent--
		g.line("}")
		return ok

	case ExprNegLookahead:
		sp := g.fresh("sp")
		g.line("%s := p.Save()", sp)
		sub := g.emit(*e.Sub)
		ok := g.fresh("ok")
		g.line("%s := !(%s)", ok, sub)
		g.line("if !%s {", ok)
		g.indent++
		g.line("p.Restore(%s)", sp)
		g.indent--
		g.line("}")
		return ok

	case ExprCapture:
		sp := g.fresh("sp")
		g.line("%s := p.BeginCapture(%s)", sp, g.cfg.TagConst(e.Tag))
		sub := g.emit(*e.Sub)
		ok := g.fresh("ok")
		g.line("%s := %s", ok, sub)
		g.line("if %s {", ok)
		g.indent++
		g.line("p.CommitCapture(%s)", sp)
		g.indent--
		g.line("} else {")
		g.indent++
		g.line("p.Restore(%s)", sp)
		g.indent--
		g.line("}")
		return ok

	default:
		panic("pegmeta: unhandled expr kind in codegen: " + e.Kind.String())
	}
}

func (g *ruleGen) emitDiscard(e Expr) {
	result := g.emit(e)
	g.line("_ = %s", result)
}

func quoteRune(r rune) string {
	return strconv.QuoteRune(r)
}
