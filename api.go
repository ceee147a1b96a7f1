// Package jsonquill parses, formats, queries, patches and diffs JSON
// documents. The work happens in the scan, encode, query, patch and
// diff packages; this package ties them together for the common cases.
package jsonquill

import (
	"github.com/jsonquill/jsonquill/diff"
	"github.com/jsonquill/jsonquill/encode"
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/patch"
	"github.com/jsonquill/jsonquill/query"
	"github.com/jsonquill/jsonquill/scan"
)

// Parse scans text into a document tree. The filename only labels
// error positions and may be empty.
func Parse(filename string, text []byte, opts ...scan.Option) (*ir.Node, error) {
	return scan.Scan(filename, text, opts...)
}

// String serializes node back to text.
func String(node *ir.Node, opts ...encode.Option) (string, error) {
	return encode.String(node, opts...)
}

// Query evaluates an absolute path expression and returns the matched
// nodes in document order.
func Query(root *ir.Node, path string) ([]*ir.Node, error) {
	e, err := query.Parse(path)
	if err != nil {
		return nil, err
	}
	locs, err := query.Resolve(e, root)
	if err != nil {
		return nil, err
	}
	res := make([]*ir.Node, len(locs))
	for i := range locs {
		res[i] = locs[i].Node
	}
	return res, nil
}

// QueryOne evaluates a path expression that must match exactly one
// node.
func QueryOne(root *ir.Node, path string) (*ir.Node, error) {
	e, err := query.Parse(path)
	if err != nil {
		return nil, err
	}
	loc, err := query.ResolveOne(e, root, nil)
	if err != nil {
		return nil, err
	}
	return loc.Node, nil
}

// Apply decodes a patch document and applies it to root.
func Apply(root, patchDoc *ir.Node) (*ir.Node, error) {
	return patch.ApplyDoc(root, patchDoc)
}

// MakePatch computes operations rewriting old into new, so that
// Apply-ing them to old yields new up to object key order.
func MakePatch(old, new *ir.Node) ([]*patch.Operation, error) {
	return diff.Ops(old, new)
}

// Diff renders a line diff of the two documents.
func Diff(old, new *ir.Node, opts ...encode.Option) (string, error) {
	return diff.Text(old, new, opts...)
}

// Equal reports structural equality, member order and numeric kind
// included.
func Equal(a, b *ir.Node) bool {
	return ir.Equal(a, b)
}
