package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var insertSym = register(&insertSymbol{name: "insert"})

type insertSymbol struct {
	name
}

func (s *insertSymbol) Instance(op *Operation) (Op, error) {
	if op.Value == nil {
		return nil, fmt.Errorf("%w: insert requires a value", ErrPatch)
	}
	if op.Path == "" {
		return nil, fmt.Errorf("%w: insert requires a path", ErrPatch)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	n := len(path.Segs)
	if n == 0 || path.Segs[n-1].Kind != query.IndexSeg {
		return nil, fmt.Errorf("%w: insert path must end in an array index: %q", ErrPatch, op.Path)
	}
	prefix := &query.Expr{Relative: path.Relative, Segs: path.Segs[:n-1], Src: path.Src}
	return &insertOp{
		baseOp: baseOp{s.name},
		prefix: prefix,
		index:  path.Segs[n-1].Index,
		value:  op.Value,
	}, nil
}

type insertOp struct {
	baseOp
	prefix *query.Expr
	index  int
	value  *ir.Node
}

func (o *insertOp) Apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(o.prefix, root)
	if err != nil {
		return nil, err
	}
	if err := wantArray(loc.Node, "insert"); err != nil {
		return nil, err
	}
	loc.Node.InsertValue(insertIndex(o.index, len(loc.Node.Values)), detach(o.value))
	return root, nil
}

// insertIndex clamps i to a valid insertion point in a sequence of
// length n, counting negative indexes from the end.
func insertIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
