/*
Mzpgen reads a .peg grammar file and emits a Go source file of rule
functions implementing it, using internal/pegmeta's offline code-generation
path (design note (a): a checked-in generated file as an alternative to
compiling the grammar at package-init time with pegmeta.Compile).

Usage:

	mzpgen GRAMMAR -o OUTPUT --package NAME --tag-type TYPE [flags]

The flags are:

	-o, --output FILE
		Where to write the generated Go source. Required.

	-p, --package NAME
		The `package` clause of the emitted file. Required.

	--tag-type TYPE
		The Go type used for peg.ParseState's Tag parameter, as it should
		appear in the generated file (e.g. "CaptureTag" or
		"script.CaptureTag"). Required.

	--tag-import PATH
		Import path for --tag-type, if it lives outside the package being
		generated into. Omit if --tag-type needs no import beyond peg itself.

	--tag-prefix PREFIX
		The Go identifier prefix for a tag constant, so that a grammar
		capture named "Label" renders as PREFIX+"Label" (default "Tag", the
		convention internal/script's tags.go uses).

	--peg-import PATH
		Import path of the peg package (default
		"github.com/dekarrin/marzipan/internal/peg").

	--func-prefix PREFIX
		Prepended to every generated rule function's name (default "parse_").
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/marzipan/internal/pegmeta"
)

const (
	// ExitSuccess indicates the grammar was parsed and generated cleanly.
	ExitSuccess = iota

	// ExitError indicates a bad flag, an unreadable grammar file, a grammar
	// parse error, or a code-generation error.
	ExitError
)

var (
	returnCode int = ExitSuccess

	outputFile *string = pflag.StringP("output", "o", "", "Where to write the generated Go source")
	pkgName    *string = pflag.StringP("package", "p", "", "The package clause of the emitted file")
	tagType    *string = pflag.String("tag-type", "", "The Go type used for peg.ParseState's Tag parameter")
	tagImport  *string = pflag.String("tag-import", "", "Import path for --tag-type, if outside the generated package")
	tagPrefix  *string = pflag.String("tag-prefix", "Tag", "Go identifier prefix for a capture tag constant")
	pegImport  *string = pflag.String("peg-import", "github.com/dekarrin/marzipan/internal/peg", "Import path of the peg package")
	funcPrefix *string = pflag.String("func-prefix", "parse_", "Prefix for every generated rule function's name")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	args := pflag.Args()
	if len(args) != 1 || *outputFile == "" || *pkgName == "" || *tagType == "" {
		fmt.Fprintln(os.Stderr, "usage: mzpgen GRAMMAR -o OUTPUT --package NAME --tag-type TYPE [flags]")
		returnCode = ExitError
		return
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitError
		return
	}

	out, err := generate(string(src), cliConfig{
		Package:    *pkgName,
		PegImport:  *pegImport,
		TagType:    *tagType,
		TagImport:  *tagImport,
		TagPrefix:  *tagPrefix,
		FuncPrefix: *funcPrefix,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitError
		return
	}

	if err := os.WriteFile(*outputFile, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err.Error())
		returnCode = ExitError
		return
	}
}

// cliConfig is the subset of GenerateConfig the command line can express
// directly, plus tagPrefix, the naming convention used to derive a
// TagConst function from the flat tag-type name.
type cliConfig struct {
	Package    string
	PegImport  string
	TagType    string
	TagImport  string
	TagPrefix  string
	FuncPrefix string
}

// generate parses grammarSrc and renders it to Go source per cfg. Split out
// of main so it can be exercised directly by tests without going through
// flag parsing or process exit.
func generate(grammarSrc string, cfg cliConfig) (string, error) {
	g, err := pegmeta.ParseGrammar(grammarSrc)
	if err != nil {
		return "", fmt.Errorf("parsing grammar: %w", err)
	}

	qualifier := ""
	if idx := lastDot(cfg.TagType); idx >= 0 {
		qualifier = cfg.TagType[:idx+1]
	}

	out, err := pegmeta.Generate(g, pegmeta.GenerateConfig{
		Package:    cfg.Package,
		PegImport:  cfg.PegImport,
		TagType:    cfg.TagType,
		TagImport:  cfg.TagImport,
		FuncPrefix: cfg.FuncPrefix,
		TagConst: func(tagName string) string {
			return qualifier + cfg.TagPrefix + tagName
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	return out, nil
}

// lastDot returns the index of the last "." in s, or -1 if none — used to
// split a qualified type name like "script.CaptureTag" into its package
// qualifier "script." for building a matching tag constant reference.
func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
