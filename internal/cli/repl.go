// Package cli implements the REPL collaborator named in spec §6: a
// command loop reading "_index_ <path>", "_search_ <word>", "_clear_",
// "_stop_" (and diagnosing anything else) from standard input, driving a
// single engine.Orchestrator.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"lexidex/internal/config"
	"lexidex/internal/engine"
	"lexidex/internal/pool"
)

const (
	cmdIndex  = "_index_"
	cmdSearch = "_search_"
	cmdClear  = "_clear_"
	cmdStop   = "_stop_"
)

// Run is the process entry point invoked by cmd/lexidex. It returns the
// process exit code.
//
// sigCh, if non-nil, delivers os.Interrupt/SIGTERM; the REPL receives it in
// its own loop while waiting for the next input line rather than acting on
// it from signal context, per the design note in spec §9.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	flags, censoredPathArg, cfgOverride, err := parseFlags(args[1:])
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if flags.help {
		printUsage(stdout)
		return 0
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	cfg, err := config.Load(workDir, flags.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	cfg = applyOverrides(cfg, cfgOverride)

	censoredPath := censoredPathArg
	if flags.censoredOverride != "" {
		censoredPath = flags.censoredOverride
	}

	orch, err := engine.New(engine.Options{
		QueueCapacity:              cfg.QueueCapacity,
		QueueBackpressureWarnEvery: cfg.BackpressureWarnEvery(),
		Workers:                    cfg.Workers,
		InitialBuckets:             cfg.InitialBuckets,
		CensoredSetPath:            censoredPath,
		ActivityLogPath:            resolveLogPath(workDir, cfg.ActivityLogPath),
		Diagnostics:                stderr,
	})
	if err != nil {
		fmt.Fprintln(stderr, "fatal:", err)
		return 1
	}

	r := &repl{
		orch:   orch,
		out:    stdout,
		errOut: stderr,
		sink:   newColorSink(stdout),
		warn:   color.New(color.FgYellow),
		ok:     color.New(color.FgGreen),
	}

	return r.run(stdin, sigCh)
}

type repl struct {
	orch   *engine.Orchestrator
	out    io.Writer
	errOut io.Writer
	sink   *colorSink
	warn   *color.Color
	ok     *color.Color
	ln     *liner.State
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".lexidex_history")
}

func (r *repl) saveHistory() {
	path := historyFilePath()
	if path == "" {
		return
	}

	if f, err := os.Create(path); err == nil {
		r.ln.WriteHistory(f)
		f.Close()
	}
}

func (r *repl) run(stdin io.Reader, sigCh <-chan os.Signal) int {
	n := r.orch.CensoredWordCount()
	word := "word"
	if n != 1 {
		word = "words"
	}
	fmt.Fprintf(r.out, "Loaded %d censored %s.\n\n", n, word)
	fmt.Fprintln(r.out, "lexidex - concurrent inverted-index search engine")
	printUsage(r.out)
	fmt.Fprintln(r.out)

	// liner reads directly from the controlling terminal; when stdin isn't
	// one (tests, pipes), fall back to a plain line scanner so the REPL
	// still works non-interactively.
	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		return r.runLiner(sigCh)
	}

	return r.runScanner(stdin, sigCh)
}

func (r *repl) runLiner(sigCh <-chan os.Signal) int {
	r.ln = liner.NewLiner()
	defer r.ln.Close()

	r.ln.SetCtrlCAborts(true)

	if f, err := os.Open(historyFilePath()); err == nil {
		r.ln.ReadHistory(f)
		f.Close()
	}
	defer r.saveHistory()

	for {
		type promptResult struct {
			line string
			err  error
		}
		resultCh := make(chan promptResult, 1)

		go func() {
			line, err := r.ln.Prompt("> ")
			resultCh <- promptResult{line, err}
		}()

		select {
		case res := <-resultCh:
			if res.err != nil {
				if errors.Is(res.err, liner.ErrPromptAborted) || errors.Is(res.err, io.EOF) {
					return r.stop()
				}
				fmt.Fprintln(r.errOut, "error reading input:", res.err)
				return r.stop()
			}

			line := strings.TrimSpace(res.line)
			if line != "" {
				r.ln.AppendHistory(line)
				if exitCode, stopped := r.dispatch(line); stopped {
					return exitCode
				}
			}

		case <-sigCh:
			fmt.Fprintln(r.out, "\nSignal received, shutting down...")
			return r.stop()
		}
	}
}

func (r *repl) runScanner(stdin io.Reader, sigCh <-chan os.Signal) int {
	lines := make(chan string)
	done := make(chan struct{})

	go func() {
		defer close(lines)
		scanLines(stdin, lines, done)
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return r.stop()
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if exitCode, stopped := r.dispatch(line); stopped {
				close(done)
				return exitCode
			}

		case <-sigCh:
			fmt.Fprintln(r.out, "\nSignal received, shutting down...")
			close(done)
			return r.stop()
		}
	}
}

// dispatch runs one command line. stopped reports whether the REPL should
// exit (the _stop_ command was run); end of input is handled by the callers.
func (r *repl) dispatch(line string) (exitCode int, stopped bool) {
	cmd, arg, _ := strings.Cut(line, " ")

	switch cmd {
	case cmdIndex:
		arg = strings.TrimSpace(arg)
		if arg == "" {
			fmt.Fprintln(r.errOut, "usage: _index_ <path>")
			return 0, false
		}

		switch r.orch.SubmitIndex(arg) {
		case pool.Accepted:
			r.ok.Fprintf(r.out, "-> Queued indexing for file: %s\n\n", arg)
		case pool.Rejected:
			r.warn.Fprintf(r.out, "-> File already queued or indexed: %s\n\n", arg)
		}

	case cmdSearch:
		arg = strings.TrimSpace(arg)
		if arg == "" {
			fmt.Fprintln(r.errOut, "usage: _search_ <word>")
			return 0, false
		}

		if err := r.orch.Search(arg, r.sink); err != nil {
			r.warn.Fprintf(r.out, "  [!] Search term '%s' is censored.\n\n", arg)
		} else {
			fmt.Fprintln(r.out)
		}

	case cmdClear:
		r.orch.Clear()
		r.ok.Fprintln(r.out, "-> Index has been cleared. All data dropped.\n")

	case cmdStop:
		return r.stop(), true

	default:
		r.orch.LogUnknown(line)
		fmt.Fprintf(r.errOut, "Unknown command: %s\n", line)
		fmt.Fprintln(r.errOut, "      Try: _index_ <file>, _search_ <word>, _clear_, or _stop_")
	}

	return 0, false
}

func (r *repl) stop() int {
	summary := r.orch.Stop()
	fmt.Fprintf(r.out, "Application stopped. indexed=%d searched=%d\n", summary.Indexed, summary.Searched)

	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  _index_ <path>   queue a file for indexing")
	fmt.Fprintln(w, "  _search_ <word>  search the index for a word")
	fmt.Fprintln(w, "  _clear_          drop and rebuild the index")
	fmt.Fprintln(w, "  _stop_           shut down and exit")
}

func resolveLogPath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}
