package patch

import (
	"errors"
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

// paster holds the shared machinery of copy and move: an anchor path,
// a relative source and destination around each anchor, and a paste
// mode telling how the read value lands at the destination.
type paster struct {
	op       string
	path     *query.Expr
	from     *query.Expr
	to       *query.Expr
	toPrefix *query.Expr // insert mode
	toIdx    int
	mode     string
	move     bool
}

func newPaster(op *Operation, move bool) (*paster, error) {
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	from, err := parseRel("from", op.From)
	if err != nil {
		return nil, err
	}
	to, err := parseRel("to", op.To)
	if err != nil {
		return nil, err
	}
	mode := op.Mode
	if mode == "" {
		mode = "set"
	}
	p := &paster{op: op.Op, path: path, from: from, to: to, mode: mode, move: move}
	switch mode {
	case "append", "extend", "set", "update":
	case "insert":
		n := len(to.Segs)
		if n == 0 || to.Segs[n-1].Kind != query.IndexSeg {
			return nil, fmt.Errorf("%w: insert mode needs a to path ending in an array index: %q", ErrPatch, op.To)
		}
		p.toPrefix = &query.Expr{Relative: true, Segs: to.Segs[:n-1], Src: to.Src}
		p.toIdx = to.Segs[n-1].Index
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrPatch, mode)
	}
	return p, nil
}

func (p *paster) apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(p.path, root)
	if err != nil {
		return nil, err
	}
	anchor := loc.Node
	src, err := query.ResolveOne(p.from, root, anchor)
	if err != nil {
		return nil, err
	}
	v := detach(src.Node)
	if p.move {
		c := concrete(src)
		if _, err := removeAt(&c); err != nil {
			return nil, err
		}
	}
	dst, err := query.ResolveOne(targetExpr(p), root, anchor)
	if err != nil {
		// Set mode may name a field the destination object does not
		// have yet; the field is created rather than looked up.
		if p.mode == "set" {
			if parent, key, ok := missingKey(p.to, root, anchor, err); ok {
				parent.SetKey(key, v)
				return root, nil
			}
		}
		return nil, err
	}
	switch p.mode {
	case "append":
		if err := wantArray(dst.Node, p.op); err != nil {
			return nil, err
		}
		dst.Node.AppendValue(v)
	case "extend":
		if err := wantArray(dst.Node, p.op); err != nil {
			return nil, err
		}
		if err := wantArray(v, p.op+" source"); err != nil {
			return nil, err
		}
		for _, e := range v.Values {
			dst.Node.AppendValue(detach(e))
		}
	case "insert":
		if err := wantArray(dst.Node, p.op); err != nil {
			return nil, err
		}
		dst.Node.InsertValue(insertIndex(p.toIdx, len(dst.Node.Values)), v)
	case "set":
		dst.Node.ReplaceWith(v)
	case "update":
		if err := wantObject(dst.Node, p.op); err != nil {
			return nil, err
		}
		if err := wantObject(v, p.op+" source"); err != nil {
			return nil, err
		}
		for i, f := range v.Fields {
			dst.Node.SetKey(f.String, detach(v.Values[i]))
		}
	}
	return root, nil
}

func targetExpr(p *paster) *query.Expr {
	if p.mode == "insert" {
		return p.toPrefix
	}
	return p.to
}

// missingKey reports whether to names a single absent field on an
// existing object, returning that object and the field name.
func missingKey(to *query.Expr, root, anchor *ir.Node, cause error) (*ir.Node, string, bool) {
	if !errors.Is(cause, query.ErrLookup) {
		return nil, "", false
	}
	n := len(to.Segs)
	if n == 0 {
		return nil, "", false
	}
	last := to.Segs[n-1]
	if last.Kind != query.FieldSeg && last.Kind != query.KeySeg {
		return nil, "", false
	}
	prefix := &query.Expr{Relative: to.Relative, Segs: to.Segs[:n-1], Src: to.Src}
	parent, err := query.ResolveOne(prefix, root, anchor)
	if err != nil || parent.Node.Type != ir.ObjectType {
		return nil, "", false
	}
	if parent.Node.FieldIndex(last.Field) != -1 {
		return nil, "", false
	}
	return parent.Node, last.Field, true
}

// concrete rewrites a location whose Container is unset into one backed
// by the node's parent pointers, so it can be removed. The document
// root stays as is.
func concrete(loc query.Location) query.Location {
	if loc.Container != nil || loc.Node.Parent == nil {
		return loc
	}
	return query.Location{
		Container: loc.Node.Parent,
		Index:     loc.Node.ParentIndex,
		Key:       loc.Node.ParentField,
		Node:      loc.Node,
	}
}
