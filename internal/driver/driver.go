// Package driver is the thin composition root from spec 4.11: read a
// world, macro-expand and resolve labels in every board's scripts, and
// write the rewritten world back out. It is the analogue of the teacher's
// engine.go — orchestration only, no domain logic of its own.
package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dekarrin/marzipan/internal/codepage"
	"github.com/dekarrin/marzipan/internal/diag"
	"github.com/dekarrin/marzipan/internal/labels"
	"github.com/dekarrin/marzipan/internal/macro"
	"github.com/dekarrin/marzipan/internal/peg"
	"github.com/dekarrin/marzipan/internal/resolve"
	"github.com/dekarrin/marzipan/internal/script"
	"github.com/dekarrin/marzipan/internal/worldio"
)

// Options configures one pipeline run.
type Options struct {
	// Table is the code page used to decode and re-encode script bytes.
	// If nil, codepage.DefaultTable() is used.
	Table *codepage.Table

	// ReservedNames are extra label names, beyond internal/labels' built-in
	// set, that keep their literal spelling rather than being sanitized
	// (normally loaded from an internal/mzconfig file).
	ReservedNames []string
}

// Result is everything a caller needs after a Build: the diagnostics
// accumulated across every board, and the final rewritten world (only
// meaningful for boards that had zero errors — see spec 7).
type Result struct {
	Diag  *diag.Context
	World worldio.World
}

// Build reads the world at inputPath, resolves labels in every board's
// scripts, and writes the result to outputPath. Per spec 7, a board's
// rewritten scripts are only committed when that board's own pipeline
// produced zero errors; boards with errors keep their original scripts.
// The world file is always written (with that selective commit applied);
// the caller decides the process exit code from Result.Diag.AnyErrors().
func Build(inputPath, outputPath string, opts Options) (Result, error) {
	table := opts.Table
	if table == nil {
		table = codepage.DefaultTable()
	}

	world, err := worldio.Load(inputPath, table)
	if err != nil {
		return Result{}, err
	}

	root := diag.NewRoot().WithFilePath(inputPath)
	baseDir := filepath.Dir(inputPath)

	for boardIdx := range world.Boards {
		processBoard(&world.Boards[boardIdx], boardIdx, root, table, baseDir, opts.ReservedNames)
	}

	if err := worldio.Save(outputPath, world, table); err != nil {
		return Result{Diag: root, World: world}, err
	}

	return Result{Diag: root, World: world}, nil
}

func processBoard(board *worldio.Board, boardIdx int, root *diag.Context, table *codepage.Table, baseDir string, reservedNames []string) {
	boardDiag := root.WithBoard(boardIdx)
	reg := labels.NewRegistryWithReserved(reservedNames)

	chunksByStat := make([][]script.Chunk, len(board.Stats))
	var scripts []resolve.Script
	errorsBefore := root.ErrorCount()

	for statIdx := range board.Stats {
		stat := &board.Stats[statIdx]
		if !stat.HasScript {
			continue
		}
		statDiag := boardDiag.WithStat(statIdx)

		virtualPath := filepath.Join(baseDir, fmt.Sprintf("board%d-stat%d.mzp", boardIdx, statIdx))
		expanded, err := macro.ExpandString(stat.Script, virtualPath)
		if err != nil {
			statDiag.Error(fmt.Sprintf("macro expansion: %v", err))
			continue
		}

		chunks, findings := script.ChunkScript(expanded)
		for _, f := range findings {
			fd := statDiag.WithSpan(f.Span)
			if f.Severity == script.SeverityError {
				fd.Error(f.Message)
			} else {
				fd.Warning(f.Message)
			}
		}

		// ChunkScript keeps a line the grammar does not match as verbatim
		// text; report each such line as a warning at its span.
		lineStart := 0
		for _, line := range strings.Split(expanded, "\n") {
			if _, ok := script.ParseLineCaptures(line); !ok {
				statDiag.WithSpan(peg.Span{Start: lineStart, End: lineStart + len(line)}).Warning("line does not match the script grammar; left unchanged")
			}
			lineStart += len(line) + 1
		}

		chunksByStat[statIdx] = chunks
		scripts = append(scripts, resolve.Script{Chunks: chunks, Diag: statDiag})
	}

	resolve.Resolve(scripts, reg)

	if root.ErrorCount() != errorsBefore {
		// this board's pipeline produced at least one error; leave every
		// stat's script as originally read.
		return
	}

	for statIdx, chunks := range chunksByStat {
		if chunks == nil {
			continue
		}
		board.Stats[statIdx].Script = script.Join(chunks)
	}
}
