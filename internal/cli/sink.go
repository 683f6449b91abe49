package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// colorSink formats a Search result to out using ANSI terminal formatting:
// bolded headers, a cyan file/count line, quoted contexts. It implements
// index.ResultSink.
type colorSink struct {
	out io.Writer

	header   *color.Color
	fileLine *color.Color
	context  *color.Color
	noResult *color.Color
}

// newColorSink builds a colorSink writing to out. Colors degrade to plain
// text automatically when the process's standard output is not a terminal
// or NO_COLOR is set (color.Color honors color.NoColor); whether out itself
// is a terminal is not checked.
func newColorSink(out io.Writer) *colorSink {
	return &colorSink{
		out:      out,
		header:   color.New(color.Bold),
		fileLine: color.New(color.FgCyan),
		context:  color.New(color.FgWhite),
		noResult: color.New(color.FgYellow),
	}
}

func (s *colorSink) NoResults(word string) {
	s.noResult.Fprintf(s.out, "No results for '%s'.\n", word)
}

func (s *colorSink) Header(word string) {
	s.header.Fprintf(s.out, "Search results for '%s':\n", word)
}

func (s *colorSink) FileGroup(file string, count int) {
	s.fileLine.Fprintf(s.out, "File: %s (%d×)\n", file, count)
	fmt.Fprintln(s.out, "  Contexts:")
}

func (s *colorSink) Context(sentence string) {
	s.context.Fprintf(s.out, "    - %q\n", sentence)
}
