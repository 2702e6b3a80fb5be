/*
Mzpc compiles a world file's scripts in place: it resolves namespaced,
hierarchical-local, and anonymous labels and expands %include directives,
rewriting every cross-reference into the plain dialect the game engine runs.

Usage:

	mzpc INPUT -o OUTPUT [flags]

The flags are:

	-o, --output FILE
		Write the rewritten world to FILE. Required unless --repl is given.

	-c, --config FILE
		Load reserved-name, code-page, and server overrides from the given
		TOML configuration file.

	-r, --repl
		Open an interactive console: paste one script line at a time and see
		its resolved label names and capture tree immediately. INPUT and
		--output are ignored in this mode.

	-d, --direct
		Force reading REPL input directly from stdin instead of going
		through GNU readline, even if launched in a tty.

Mzpc exits 0 if the world compiled with no errors, 1 if any diagnostic at
error level was raised, and 2 if it could not even start (bad flags, unreadable
input, or a malformed container).
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/marzipan/internal/codepage"
	"github.com/dekarrin/marzipan/internal/diag"
	"github.com/dekarrin/marzipan/internal/driver"
	"github.com/dekarrin/marzipan/internal/mzconfig"
	"github.com/dekarrin/marzipan/internal/util"
	"github.com/dekarrin/marzipan/internal/worldio"
)

const (
	// ExitSuccess indicates the world compiled with zero errors.
	ExitSuccess = iota

	// ExitCompileError indicates at least one error-level diagnostic was
	// raised while compiling.
	ExitCompileError

	// ExitInitError indicates the program could not even start: bad flags,
	// an unreadable input file, or a malformed container.
	ExitInitError
)

var (
	returnCode int = ExitSuccess

	outputFile  *string = pflag.StringP("output", "o", "", "Where to write the rewritten world")
	configFile  *string = pflag.StringP("config", "c", "", "TOML configuration file")
	replMode    *bool   = pflag.BoolP("repl", "r", false, "Open an interactive label-resolution console instead of compiling a file")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading REPL input directly from stdin instead of GNU readline")
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

	var cfg mzconfig.Config
	if *configFile != "" {
		loaded, err := mzconfig.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	if *replMode {
		runRepl(cfg.ReservedNameList(), *forceDirect)
		return
	}

	table := codepage.DefaultTable()
	if cfg.Codepage.TablePath != "" {
		loaded, err := codepage.LoadTable(cfg.Codepage.TablePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		table = loaded
	}

	args := pflag.Args()
	if len(args) != 1 || *outputFile == "" {
		fmt.Fprintln(os.Stderr, "usage: mzpc INPUT -o OUTPUT [flags]")
		returnCode = ExitInitError
		return
	}

	result, err := driver.Build(args[0], *outputFile, driver.Options{
		Table:         table,
		ReservedNames: cfg.ReservedNameList(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	lookup := worldLookup{result.World}
	for _, m := range result.Diag.Messages() {
		fmt.Fprintln(os.Stderr, diag.Format(m, lookup))
	}

	if result.Diag.AnyErrors() {
		returnCode = ExitCompileError
		return
	}

	boardNames := make([]string, 0, len(result.World.Boards))
	for _, b := range result.World.Boards {
		boardNames = append(boardNames, b.Name)
	}
	fmt.Fprintf(os.Stderr, "compiled %s\n", util.MakeTextList(boardNames))
}

// worldLookup adapts a worldio.World to diag.WorldLookup so diagnostics can
// be rendered with board/stat names and a source excerpt. For a board whose
// pipeline raised no errors, Stats[i].Script already holds the rewritten
// (post-resolve) text by the time a message is formatted, so a warning's
// span — computed against the pre-resolve text — may point at a slightly
// different column if sanitization changed a label's length; the line
// breadcrumb itself stays correct.
type worldLookup struct {
	world worldio.World
}

func (l worldLookup) BoardName(board int) string {
	if board < 0 || board >= len(l.world.Boards) {
		return fmt.Sprintf("board %d", board)
	}
	return l.world.Boards[board].Name
}

func (l worldLookup) StatLabel(board, stat int) (name string, x, y int) {
	if board < 0 || board >= len(l.world.Boards) {
		return "?", 0, 0
	}
	stats := l.world.Boards[board].Stats
	if stat < 0 || stat >= len(stats) {
		return "?", 0, 0
	}
	s := stats[stat]
	return fmt.Sprintf("stat %d", stat), int(s.X), int(s.Y)
}

func (l worldLookup) StatCode(board, stat int) string {
	if board < 0 || board >= len(l.world.Boards) {
		return ""
	}
	stats := l.world.Boards[board].Stats
	if stat < 0 || stat >= len(stats) {
		return ""
	}
	return stats[stat].Script
}
