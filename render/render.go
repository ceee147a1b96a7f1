// Package render formats errors for terminal display. The core packages
// return plain errors; callers pass them through here when talking to a
// human.
package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/jsonquill/jsonquill/token"
)

// Error formats err for display on stderr. Positioned syntax errors
// come with the offending source lines and a caret underline, colored
// when stderr is a terminal; other errors render as err.Error().
func Error(err error) string {
	return ErrorColor(err, isTerminal(os.Stderr))
}

// ErrorColor is Error with explicit color control.
func ErrorColor(err error, colored bool) string {
	var se *token.SourceErr
	if !errors.As(err, &se) {
		return err.Error()
	}
	bold, red := fmt.Sprintf, fmt.Sprintf
	if colored {
		b := color.New(color.Bold)
		b.EnableColor()
		bold = b.Sprintf
		r := color.New(color.FgHiRed, color.Bold)
		r.EnableColor()
		red = r.Sprintf
	}

	name := se.Doc.Name
	if name == "" {
		name = "<string>"
	}
	line, col := se.Doc.LineCol(se.Start)
	last := se.End - 1
	if last < se.Start {
		last = se.Start
	}
	endLine, endCol := se.Doc.LineCol(last)

	var sb strings.Builder
	sb.WriteString(bold("%s:%d:%d: ", name, line, col))
	sb.WriteString(red("%s", se.Msg))
	for ln := line; ln <= endLine; ln++ {
		text := se.Doc.Line(ln)
		runes := []rune(text)
		sb.WriteString("\n  ")
		sb.WriteString(text)
		sb.WriteString("\n  ")
		from := 1
		if ln == line {
			from = col
		}
		to := len(runes)
		if ln == endLine {
			to = endCol
		}
		if to < from {
			to = from
		}
		// Tabs in the padding keep the carets aligned with the line
		// above under any tab width.
		for i := 0; i < from-1 && i < len(runes); i++ {
			if runes[i] == '\t' {
				sb.WriteByte('\t')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(red("%s", strings.Repeat("^", to-from+1)))
	}
	return sb.String()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
