package encode

import "github.com/jsonquill/jsonquill/ir"

type Option func(*encState)

// Indent sets the per-level indentation string. Empty (the default)
// selects compact output.
func Indent(s string) Option {
	return func(es *encState) { es.indent = s }
}

// IndentLeaves controls whether containers with no nested containers are
// still rendered one element per line. Defaults to true.
func IndentLeaves(v bool) Option {
	return func(es *encState) { es.indentLeaves = v }
}

// MaxIndentLevel caps indentation depth; containers nested deeper render
// on a single line. Negative (the default) means no cap.
func MaxIndentLevel(n int) Option {
	return func(es *encState) { es.maxIndentLevel = n }
}

func SortKeys(v bool) Option {
	return func(es *encState) { es.sortKeys = v }
}

// EnsureASCII escapes every non-ASCII codepoint as \uXXXX.
func EnsureASCII(v bool) Option {
	return func(es *encState) { es.ensureASCII = v }
}

func AllowNaNAndInfinity(v bool) Option {
	return func(es *encState) { es.nanInf = v }
}

func AllowSurrogates(v bool) Option {
	return func(es *encState) { es.surrogates = v }
}

// QuotedKeys forces keys to be quoted. Defaults to true; when false,
// identifier-like keys are written bare.
func QuotedKeys(v bool) Option {
	return func(es *encState) { es.quotedKeys = v }
}

// TrailingComma emits a comma after the last element of indented
// containers.
func TrailingComma(v bool) Option {
	return func(es *encState) { es.trailingComma = v }
}

// End sets the string appended after the top level value. Defaults to
// "\n".
func End(s string) Option {
	return func(es *encState) { es.end = s }
}

// Separators overrides the item and key separators, ", " and ": " by
// default. Trailing spaces on the item separator are dropped before a
// newline in indented output.
func Separators(item, key string) Option {
	return func(es *encState) {
		es.itemSep = item
		es.keySep = key
		es.sepsSet = true
	}
}

// CheckCircular toggles cycle detection. Defaults to true; disabling it
// on a cyclic tree makes Encode misbehave.
func CheckCircular(v bool) Option {
	return func(es *encState) { es.checkCircular = v }
}

// Hook is called on every node before type dispatch; the node it
// returns is encoded in place of the original.
func Hook(h func(*ir.Node) (*ir.Node, error)) Option {
	return func(es *encState) { es.hook = h }
}

func EncodeColors(c *Colors) Option {
	return func(es *encState) { es.color = c.Color }
}
