package token

import "fmt"

// SourceErr is a positioned syntax error. Start and End are codepoint
// offsets into Doc.Text; End is exclusive and always >= Start.
type SourceErr struct {
	Msg   string
	Doc   *Doc
	Start int
	End   int
}

func NewSourceErr(msg string, doc *Doc, start, end int) *SourceErr {
	if end < start {
		end = start
	}
	return &SourceErr{Msg: msg, Doc: doc, Start: start, End: end}
}

func (e *SourceErr) Error() string {
	line, col := e.Doc.LineCol(e.Start)
	name := e.Doc.Name
	if name == "" {
		name = "<string>"
	}
	return fmt.Sprintf("%s: %s:%d:%d", e.Msg, name, line, col)
}
