package token

import "strings"

// Doc is a source document: a filename and the full text it was scanned
// from. Offsets into a Doc are codepoint indices, not byte indices.
type Doc struct {
	Name string
	Text string
}

// LineCol converts a codepoint offset into a 1-based line and column.
// It walks the text, so it is meant for the error path only.
func (d *Doc) LineCol(off int) (int, int) {
	line, col := 1, 1
	i := 0
	for _, r := range d.Text {
		if i >= off {
			break
		}
		i++
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Line returns the text of the 1-based line n, without its newline.
func (d *Doc) Line(n int) string {
	lines := strings.Split(d.Text, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
