package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dekarrin/marzipan/internal/diag"
	"github.com/dekarrin/marzipan/internal/labels"
	"github.com/dekarrin/marzipan/internal/peg"
	"github.com/dekarrin/marzipan/internal/resolve"
	"github.com/dekarrin/marzipan/internal/script"
)

// lineReader is the minimal surface runRepl needs, implemented by both GNU
// readline and a direct stdin scanner — the same fallback shape
// internal/input uses for the interactive game session.
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

type readlineReader struct{ rl *readline.Instance }

func (r readlineReader) ReadLine() (string, error) { return r.rl.Readline() }
func (r readlineReader) Close() error              { return r.rl.Close() }

type directReader struct{ s *bufio.Scanner }

func (r directReader) ReadLine() (string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

func (r directReader) Close() error { return nil }

// runRepl opens an interactive console that resolves one script line at a
// time, sharing a single label registry across the session the same way a
// board's scripts share one registry during a real compile. Lines are typed
// as plain decoded text, so no code page is consulted here.
func runRepl(reservedNames []string, forceDirect bool) {
	var reader lineReader
	useReadline := !forceDirect && isTerminal(os.Stdin) && isTerminal(os.Stdout)
	if useReadline {
		rl, err := readline.NewEx(&readline.Config{Prompt: "mzpc> "})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}
		reader = readlineReader{rl}
	} else {
		reader = directReader{bufio.NewScanner(os.Stdin)}
	}
	defer reader.Close()

	reg := labels.NewRegistryWithReserved(reservedNames)

	for {
		line, err := reader.ReadLine()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		chunks, findings := script.ChunkScript(line)
		for _, f := range findings {
			fmt.Printf("  %s: %s\n", f.Severity, f.Message)
		}

		s := resolve.Script{Chunks: chunks, Diag: diag.NewRoot()}
		resolve.Resolve([]resolve.Script{s}, reg)
		fmt.Printf("resolved: %s\n", script.Join(s.Chunks))

		if nodes, ok := script.ParseLineCaptures(line); ok {
			printCaptureTree(line, nodes, 0)
		}
	}
}

func printCaptureTree(src string, nodes []peg.CaptureNode[script.CaptureTag], depth int) {
	for _, n := range nodes {
		fmt.Printf("%s%s %q\n", strings.Repeat("  ", depth), n.Kind, n.Text(src))
		printCaptureTree(src, n.Children, depth+1)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
